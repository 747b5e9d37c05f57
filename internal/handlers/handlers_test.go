package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/akshay911-01/dbms-proj/internal/auth"
	dom "github.com/akshay911-01/dbms-proj/internal/domain"
	"github.com/akshay911-01/dbms-proj/internal/dto"
	"github.com/akshay911-01/dbms-proj/internal/repo"
	"github.com/akshay911-01/dbms-proj/internal/service"
	"github.com/akshay911-01/dbms-proj/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	nextID int64
	byMail map[string]dom.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, byMail: make(map[string]dom.User)}
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	u, ok := m.byMail[email]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *memUserRepo) Create(ctx context.Context, username, email, passwordHash string) (dom.User, error) {
	// Same contract as the Postgres repo: the unique index on email
	// rejects duplicates with a 23505 unique-violation error.
	if _, ok := m.byMail[email]; ok {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	u := dom.User{ID: m.nextID, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	m.nextID++
	m.byMail[email] = u
	return u, nil
}

type memExpenseRepo struct {
	nextID   int64
	expenses map[int64]dom.Expense
}

func newMemExpenseRepo() *memExpenseRepo {
	return &memExpenseRepo{nextID: 1, expenses: make(map[int64]dom.Expense)}
}

func (m *memExpenseRepo) Create(ctx context.Context, e dom.Expense) (dom.Expense, error) {
	e.ID = m.nextID
	m.nextID++
	m.expenses[e.ID] = e
	return e, nil
}

func (m *memExpenseRepo) GetByID(ctx context.Context, id int64) (dom.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return dom.Expense{}, pgx.ErrNoRows
	}
	return e, nil
}

func (m *memExpenseRepo) List(ctx context.Context, ownerID int64, f repo.ListFilter) ([]dom.Expense, error) {
	var list []dom.Expense
	for _, e := range m.expenses {
		if e.OwnerID != ownerID {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.Date != nil && e.Date.UTC().Format("2006-01-02") != f.Date.UTC().Format("2006-01-02") {
			continue
		}
		list = append(list, e)
	}
	// Same contract as the Postgres repo: most recent first.
	sort.Slice(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}

func (m *memExpenseRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.expenses[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.expenses, id)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *token.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := token.NewIssuer("test-secret", time.Hour)
	userSvc := service.NewUserService(newMemUserRepo(), bcrypt.MinCost)
	expenseSvc := service.NewExpenseService(newMemExpenseRepo(), nil)

	authHandler := NewAuthHandler(userSvc, issuer)
	expenseHandler := NewExpenseHandler(expenseSvc)

	r := gin.New()
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	gate := auth.RequireToken(issuer)
	api := r.Group("/api", gate)
	api.POST("/expenses/add", expenseHandler.Add)
	api.GET("/expenses", expenseHandler.List)
	api.GET("/expenses/calendar", expenseHandler.Calendar)
	api.GET("/expenses/date/:date", expenseHandler.ListByDate)
	api.DELETE("/expenses/:id", expenseHandler.Delete)
	r.GET("/export-excel", gate, expenseHandler.Export)
	return r, issuer
}

func doJSON(t *testing.T, r *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/register", "", gin.H{
		"username": "alice", "email": email, "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/login", "", gin.H{"email": email, "password": "pw123"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/register", "", gin.H{
		"username": "alice", "email": "alice@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/register", "", gin.H{
		"username": "alice2", "email": "alice@x.com", "password": "pw456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already in use")
}

func TestLoginBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t)
	registerAndLogin(t, r, "alice@x.com")

	wrongPass := doJSON(t, r, http.MethodPost, "/login", "", gin.H{"email": "alice@x.com", "password": "nope"})
	noUser := doJSON(t, r, http.MethodPost, "/login", "", gin.H{"email": "bob@x.com", "password": "pw123"})

	assert.Equal(t, http.StatusBadRequest, wrongPass.Code)
	assert.Equal(t, http.StatusBadRequest, noUser.Code)
	// Same body either way: no account enumeration.
	assert.JSONEq(t, wrongPass.Body.String(), noUser.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/expenses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/expenses", "not-a-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/export-excel", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddListDeleteFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := registerAndLogin(t, r, "alice@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/expenses/add", tok, gin.H{
		"category": "Food", "amount": 100, "title": "lunch", "date": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.AddExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Food", created.Expense.Category)
	assert.Equal(t, 100.0, created.Expense.Amount)

	w = doJSON(t, r, http.MethodGet, "/api/expenses", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.Expense.ID, list[0].ID)

	w = doJSON(t, r, http.MethodDelete, "/api/expenses/1", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Deleting again reports not found, never a crash.
	w = doJSON(t, r, http.MethodDelete, "/api/expenses/1", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSortedByDateDesc(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := registerAndLogin(t, r, "alice@x.com")

	// Inserted out of order on purpose.
	for _, e := range []gin.H{
		{"category": "Food", "amount": 10, "title": "oldest", "date": "2024-01-01"},
		{"category": "Food", "amount": 20, "title": "newest", "date": "2024-01-15"},
		{"category": "Food", "amount": 30, "title": "middle", "date": "2024-01-07"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/expenses/add", tok, e)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/expenses", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []dto.ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, "newest", list[0].Title)
	assert.Equal(t, "middle", list[1].Title)
	assert.Equal(t, "oldest", list[2].Title)
}

func TestAddMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := registerAndLogin(t, r, "alice@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/expenses/add", tok, gin.H{"category": "Food"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "amount")
	assert.Contains(t, w.Body.String(), "title")
}

func TestDeleteAnotherUsersExpenseForbidden(t *testing.T) {
	r, _ := newTestRouter(t)
	alice := registerAndLogin(t, r, "alice@x.com")
	bob := registerAndLogin(t, r, "bob@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/expenses/add", alice, gin.H{
		"category": "Food", "amount": 100, "title": "lunch",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/expenses/1", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Alice still sees her expense.
	w = doJSON(t, r, http.MethodGet, "/api/expenses", alice, nil)
	var list []dto.ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestListIsolatedBetweenUsers(t *testing.T) {
	r, _ := newTestRouter(t)
	alice := registerAndLogin(t, r, "alice@x.com")
	bob := registerAndLogin(t, r, "bob@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/expenses/add", alice, gin.H{
		"category": "Food", "amount": 100, "title": "lunch",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	for _, path := range []string{"/api/expenses", "/api/expenses?category=Food", "/api/expenses/date/2024-01-01"} {
		w = doJSON(t, r, http.MethodGet, path, bob, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		var list []dto.ExpenseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Empty(t, list, path)
	}
}

func TestCalendarSummary(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := registerAndLogin(t, r, "alice@x.com")

	for _, e := range []gin.H{
		{"category": "Food", "amount": 100, "title": "a", "date": "2024-01-01"},
		{"category": "Food", "amount": 50, "title": "b", "date": "2024-01-02"},
		{"category": "Travel", "amount": 200, "title": "c", "date": "2024-01-02"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/expenses/add", tok, e)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/expenses/calendar", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Series, 2)
	assert.Equal(t, dto.DayTotal{Day: "2024-01-01", Total: 100}, resp.Series[0])
	assert.Equal(t, dto.DayTotal{Day: "2024-01-02", Total: 250}, resp.Series[1])
	assert.InDelta(t, 175, resp.DailyAvg, 1e-9)
	assert.InDelta(t, 350.0/12, resp.MonthlyAvg, 1e-9)
	assert.Equal(t, "Travel", resp.TopCategoryBySpend)
	assert.Equal(t, "Food", resp.TopCategoryByCount)
}

func TestCalendarEmpty(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := registerAndLogin(t, r, "alice@x.com")

	w := doJSON(t, r, http.MethodGet, "/api/expenses/calendar", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.DailyAvg)
	assert.Zero(t, resp.MonthlyAvg)
}

func TestExportHeaders(t *testing.T) {
	r, _ := newTestRouter(t)
	tok := registerAndLogin(t, r, "alice@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/expenses/add", tok, gin.H{
		"category": "Food", "amount": 100, "title": "lunch", "date": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/export-excel", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "expenses.xlsx")
	assert.NotZero(t, w.Body.Len())
}
