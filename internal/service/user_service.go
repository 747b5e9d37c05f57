package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/akshay911-01/dbms-proj/internal/domain"
	"github.com/akshay911-01/dbms-proj/internal/repo"
	"github.com/akshay911-01/dbms-proj/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both unknown email and wrong
// password so callers cannot enumerate registered accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

var ErrEmailTaken = errors.New("email already in use")

// UserService handles registration and credential checks.
type UserService struct {
	repo       repo.UserRepo
	bcryptCost int
}

// NewUserService returns a new UserService. cost is the bcrypt work factor;
// values below bcrypt.MinCost fall back to the library default.
func NewUserService(repo repo.UserRepo, cost int) *UserService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, bcryptCost: cost}
}

// ValidateCredentials checks email and password; returns the user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with a hashed password. The plaintext is
// neither stored nor logged.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return dom.User{}, NewValidationError(missing...)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}
