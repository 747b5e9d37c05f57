package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/akshay911-01/dbms-proj/internal/cache"
	dom "github.com/akshay911-01/dbms-proj/internal/domain"
	"github.com/akshay911-01/dbms-proj/internal/repo"
	"github.com/akshay911-01/dbms-proj/internal/stats"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// ExpenseService owns the business rules around expense records: input
// validation, the ownership boundary, and the read paths feeding the
// summary and export endpoints.
type ExpenseService struct {
	repo  repo.ExpenseRepo
	cache *cache.ExpenseCache
	sf    singleflight.Group
}

// NewExpenseService creates an ExpenseService. If c is nil, caching is disabled.
func NewExpenseService(r repo.ExpenseRepo, c *cache.ExpenseCache) *ExpenseService {
	return &ExpenseService{repo: r, cache: c}
}

// Add validates and persists a new expense owned by ownerID. A nil date
// defaults to the current time. amount must be a non-negative number.
func (s *ExpenseService) Add(ctx context.Context, ownerID int64, category string, amount *float64, title string, date *time.Time) (dom.Expense, error) {
	category = strings.TrimSpace(category)
	title = strings.TrimSpace(title)

	var bad []string
	if category == "" {
		bad = append(bad, "category")
	}
	if amount == nil || *amount < 0 {
		bad = append(bad, "amount")
	}
	if title == "" {
		bad = append(bad, "title")
	}
	if len(bad) > 0 {
		return dom.Expense{}, NewValidationError(bad...)
	}

	when := time.Now().UTC()
	if date != nil {
		when = date.UTC()
	}

	e, err := s.repo.Create(ctx, dom.Expense{
		OwnerID:  ownerID,
		Category: category,
		Amount:   *amount,
		Title:    title,
		Date:     when,
	})
	if err != nil {
		return dom.Expense{}, err
	}
	s.invalidateCache(ctx, ownerID)
	return e, nil
}

// List returns the owner's expenses, optionally narrowed by filter, most
// recent first. Only the unfiltered list is cached.
func (s *ExpenseService) List(ctx context.Context, ownerID int64, f repo.ListFilter) ([]dom.Expense, error) {
	if s.cache != nil && f == (repo.ListFilter{}) {
		key := "list:" + strconv.FormatInt(ownerID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, ownerID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, ownerID, repo.ListFilter{})
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, ownerID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Expense), nil
	}
	return s.repo.List(ctx, ownerID, f)
}

// Delete removes the expense with the given id if ownerID owns it.
// A second delete of the same id reports ErrNotFound rather than failing
// hard, so concurrent deletes stay safe.
func (s *ExpenseService) Delete(ctx context.Context, ownerID, id int64) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if e.OwnerID != ownerID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		// Another delete may have won between the lookup and here.
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, ownerID)
	return nil
}

// Summarize computes the aggregate report over the owner's full expense set.
// Pure read: nothing is mutated.
func (s *ExpenseService) Summarize(ctx context.Context, ownerID int64) (stats.Report, error) {
	expenses, err := s.List(ctx, ownerID, repo.ListFilter{})
	if err != nil {
		return stats.Report{}, err
	}
	return stats.Summarize(expenses), nil
}

// ForExport returns the owner's expenses for the spreadsheet sink.
func (s *ExpenseService) ForExport(ctx context.Context, ownerID int64) ([]dom.Expense, error) {
	return s.List(ctx, ownerID, repo.ListFilter{})
}

func (s *ExpenseService) invalidateCache(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, ownerID)
	}
}
