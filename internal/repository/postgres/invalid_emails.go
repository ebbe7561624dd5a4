package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/ignite/email-cleanup/internal/domain"
	"github.com/ignite/email-cleanup/internal/service/registry"
)

// InvalidEmailRepo implements registry.Repository against PostgreSQL. It
// holds the pool directly because AddBatch opens its own transaction.
type InvalidEmailRepo struct{ db *sql.DB }

// NewInvalidEmailRepo creates a Postgres-backed registry repository.
func NewInvalidEmailRepo(db *sql.DB) *InvalidEmailRepo { return &InvalidEmailRepo{db: db} }

// AddBatch inserts the whole batch in one transaction: a failure partway
// through leaves no rows behind, so a retried upload never reports
// already-committed entries as duplicates.
func (r *InvalidEmailRepo) AddBatch(ctx context.Context, entries []domain.InvalidEmail) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin add invalid emails: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, e := range entries {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO invalid_emails (email, brand, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (email) DO NOTHING
		`, e.Email, e.Brand)
		if err != nil {
			return 0, fmt.Errorf("add invalid email: %w", err)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit add invalid emails: %w", err)
	}
	return added, nil
}

func (r *InvalidEmailRepo) IsInvalid(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM invalid_emails WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

func (r *InvalidEmailRepo) AllEmails(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT email FROM invalid_emails`)
	if err != nil {
		return nil, fmt.Errorf("all invalid emails: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		out = append(out, email)
	}
	return out, rows.Err()
}

func (r *InvalidEmailRepo) List(ctx context.Context, f registry.ListFilter) ([]domain.InvalidEmail, int, error) {
	where := []string{"TRUE"}
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, "email ILIKE $"+strconv.Itoa(len(args)))
	}
	if f.Brand != "" {
		args = append(args, f.Brand)
		where = append(where, "brand = $"+strconv.Itoa(len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invalid_emails WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invalid emails: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(
		"SELECT email, brand, created_at FROM invalid_emails WHERE %s ORDER BY email LIMIT $%d OFFSET $%d",
		cond, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invalid emails: %w", err)
	}
	defer rows.Close()

	var out []domain.InvalidEmail
	for rows.Next() {
		var e domain.InvalidEmail
		var createdAt sql.NullTime
		if err := rows.Scan(&e.Email, &e.Brand, &createdAt); err != nil {
			return nil, 0, fmt.Errorf("scan invalid email: %w", err)
		}
		e.CreatedAt = createdAt.Time
		out = append(out, e)
	}
	return out, total, rows.Err()
}
