package repo

import (
	"context"
	"strconv"
	"time"

	dom "github.com/akshay911-01/dbms-proj/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilter narrows List results. Zero values mean "no filter".
// Date matches the calendar day (UTC) of the expense date.
type ListFilter struct {
	Category string
	Date     *time.Time
}

type ExpenseRepo interface {
	Create(ctx context.Context, e dom.Expense) (dom.Expense, error)
	GetByID(ctx context.Context, id int64) (dom.Expense, error)
	List(ctx context.Context, ownerID int64, f ListFilter) ([]dom.Expense, error)
	Delete(ctx context.Context, id int64) error
}

type PGExpenseRepo struct {
	db *pgxpool.Pool
}

func NewPGExpenseRepo(db *pgxpool.Pool) *PGExpenseRepo {
	return &PGExpenseRepo{db: db}
}

func (r *PGExpenseRepo) Create(ctx context.Context, e dom.Expense) (dom.Expense, error) {
	query := `
		INSERT INTO expenses (owner_id, category, amount, title, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_id, category, amount, title, date, created_at`
	var out dom.Expense
	err := r.db.QueryRow(ctx, query, e.OwnerID, e.Category, e.Amount, e.Title, e.Date).Scan(
		&out.ID, &out.OwnerID, &out.Category, &out.Amount, &out.Title, &out.Date, &out.CreatedAt,
	)
	return out, err
}

func (r *PGExpenseRepo) GetByID(ctx context.Context, id int64) (dom.Expense, error) {
	query := `
		SELECT id, owner_id, category, amount, title, date, created_at
		FROM expenses WHERE id = $1`
	var e dom.Expense
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.OwnerID, &e.Category, &e.Amount, &e.Title, &e.Date, &e.CreatedAt,
	)
	return e, err
}

// List returns the owner's expenses, most recent first. The owner filter is
// applied in SQL so no filter combination can reach another user's records.
func (r *PGExpenseRepo) List(ctx context.Context, ownerID int64, f ListFilter) ([]dom.Expense, error) {
	query := `
		SELECT id, owner_id, category, amount, title, date, created_at
		FROM expenses WHERE owner_id = $1`
	args := []any{ownerID}
	if f.Category != "" {
		args = append(args, f.Category)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	if f.Date != nil {
		day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, time.UTC)
		args = append(args, day)
		query += ` AND date >= $` + strconv.Itoa(len(args))
		args = append(args, day.AddDate(0, 0, 1))
		query += ` AND date < $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY date DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Expense
	for rows.Next() {
		var e dom.Expense
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Category, &e.Amount, &e.Title, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Delete removes the expense row. Returns pgx.ErrNoRows when nothing was
// deleted, so a caller losing a delete race sees the same result as a
// lookup miss.
func (r *PGExpenseRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
