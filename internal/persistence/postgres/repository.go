// Package postgres stores the activity collection in a Postgres table while
// keeping the whole-collection load/save contract of the file store.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/agenda/internal/domain"
)

//go:embed schema.sql
var schema string

var columns = []string{"position", "activity_id", "title", "description", "activity_date", "category", "completed", "completed_at"}

// Repository provides Postgres-backed persistence for the collection.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the activities table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Load returns the collection in stored order.
func (r *Repository) Load(ctx context.Context) ([]domain.Activity, error) {
	const query = `SELECT activity_id, title, description, activity_date, category, completed, completed_at
        FROM activities ORDER BY position`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		var (
			a           domain.Activity
			date        time.Time
			completedAt *time.Time
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &date, &a.Category, &a.Completed, &completedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Date = domain.DateOf(date)
		a.CompletedAt = completedAt
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return activities, nil
}

// Save replaces the table contents with activities inside one transaction.
func (r *Repository) Save(ctx context.Context, activities []domain.Activity) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, "DELETE FROM activities"); err != nil {
		return fmt.Errorf("clear activities: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"activities"}, columns, pgx.CopyFromSlice(len(activities), func(i int) ([]any, error) {
		a := activities[i]
		return []any{i, a.ID, a.Title, a.Description, a.Date.Time(), a.Category, a.Completed, a.CompletedAt}, nil
	}))
	if err != nil {
		return fmt.Errorf("copy activities: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
