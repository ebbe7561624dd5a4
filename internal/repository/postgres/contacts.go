package postgres

import (
	"context"
	"fmt"

	"github.com/ignite/email-cleanup/internal/domain"
)

// ContactRepo persists the three brand contact stores. The stores are
// structurally identical tables (emails_tr, emails_mfm, emails_nyss), so
// one repository serves all three with the table name derived from the
// brand.
type ContactRepo struct{ db DBTX }

// NewContactRepo creates a Postgres-backed brand contact repository.
func NewContactRepo(db DBTX) *ContactRepo { return &ContactRepo{db: db} }

// tableFor maps a brand to its store table. Brand validity is checked at
// the service boundary; an invalid brand here is a programming error.
func tableFor(b domain.Brand) string {
	return "emails_" + b.Lower()
}

// UpsertBatch writes records into the brand's store, overwriting every
// field on conflict. Last write wins; no prior value survives.
func (r *ContactRepo) UpsertBatch(ctx context.Context, b domain.Brand, recs []domain.BrandContact) (int, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (email, card_no, brand, name, phone, segment)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			card_no = EXCLUDED.card_no,
			brand = EXCLUDED.brand,
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			segment = EXCLUDED.segment
	`, tableFor(b))

	count := 0
	for _, c := range recs {
		email := domain.NormalizeEmail(c.Email)
		if email == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, query,
			email, c.CardNo, c.BrandLabel, c.Name, c.Phone, c.Segment,
		); err != nil {
			return 0, fmt.Errorf("upsert %s contact: %w", b.Code(), err)
		}
		count++
	}
	return count, nil
}

// All returns every record in the brand's store.
func (r *ContactRepo) All(ctx context.Context, b domain.Brand) ([]domain.BrandContact, error) {
	query := fmt.Sprintf(
		`SELECT email, card_no, brand, name, phone, segment FROM %s`, tableFor(b))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read %s contacts: %w", b.Code(), err)
	}
	defer rows.Close()

	var out []domain.BrandContact
	for rows.Next() {
		var c domain.BrandContact
		if err := rows.Scan(&c.Email, &c.CardNo, &c.BrandLabel, &c.Name, &c.Phone, &c.Segment); err != nil {
			return nil, fmt.Errorf("scan %s contact: %w", b.Code(), err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
