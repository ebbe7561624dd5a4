package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ignite/email-cleanup/internal/domain"
)

// MasterRepo persists the master record store: one row per canonical
// email with per-brand segments and membership flags.
type MasterRepo struct{ db DBTX }

// NewMasterRepo creates a Postgres-backed master record repository.
func NewMasterRepo(db DBTX) *MasterRepo { return &MasterRepo{db: db} }

const masterColumns = `email, card_no, name, phone,
	segment_tr, segment_mfm, segment_nyss,
	is_tr, is_mfm, is_nyss, last_updated`

func scanMaster(row interface{ Scan(...any) error }) (*domain.MasterRecord, error) {
	var m domain.MasterRecord
	err := row.Scan(
		&m.Email, &m.CardNo, &m.Name, &m.Phone,
		&m.SegmentTR, &m.SegmentMFM, &m.SegmentNYSS,
		&m.IsTR, &m.IsMFM, &m.IsNYSS, &m.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Get returns the master record for a canonical email, or (nil, nil) when
// no such record exists.
func (r *MasterRepo) Get(ctx context.Context, email string) (*domain.MasterRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+masterColumns+` FROM master_emails WHERE email = $1`, email)
	m, err := scanMaster(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get master record: %w", err)
	}
	return m, nil
}

// Put upserts a fully-computed master record, overwriting every column on
// conflict. Returns true when a new row was inserted. The xmax test is
// the standard Postgres trick for telling an insert from a conflict
// update in one statement.
func (r *MasterRepo) Put(ctx context.Context, m *domain.MasterRecord) (bool, error) {
	var inserted bool
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO master_emails (
			email, card_no, name, phone,
			segment_tr, segment_mfm, segment_nyss,
			is_tr, is_mfm, is_nyss, last_updated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (email) DO UPDATE SET
			card_no = EXCLUDED.card_no,
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			segment_tr = EXCLUDED.segment_tr,
			segment_mfm = EXCLUDED.segment_mfm,
			segment_nyss = EXCLUDED.segment_nyss,
			is_tr = EXCLUDED.is_tr,
			is_mfm = EXCLUDED.is_mfm,
			is_nyss = EXCLUDED.is_nyss,
			last_updated = EXCLUDED.last_updated
		RETURNING (xmax = 0)
	`,
		m.Email, m.CardNo, m.Name, m.Phone,
		m.SegmentTR, m.SegmentMFM, m.SegmentNYSS,
		m.IsTR, m.IsMFM, m.IsNYSS, m.LastUpdated,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("put master record: %w", err)
	}
	return inserted, nil
}

// ListFilter controls the read-only reporting queries over the master
// store.
type ListFilter struct {
	Search     string       // substring match on email
	Brand      domain.Brand // restrict to rows flagged for this brand
	Segment    string       // substring match across all three segment columns
	Limit      int
	Offset     int
	FullExport bool // ignore pagination and return everything
}

// List returns master records matching the filter, newest first, plus the
// total match count.
func (r *MasterRepo) List(ctx context.Context, f ListFilter) ([]domain.MasterRecord, int, error) {
	where := []string{"TRUE"}
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, "email ILIKE $"+strconv.Itoa(len(args)))
	}
	if f.Brand.Valid() {
		where = append(where, "is_"+f.Brand.Lower()+" = TRUE")
	}
	if f.Segment != "" {
		args = append(args, "%"+f.Segment+"%")
		n := strconv.Itoa(len(args))
		where = append(where,
			"(segment_tr ILIKE $"+n+" OR segment_mfm ILIKE $"+n+" OR segment_nyss ILIKE $"+n+")")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM master_emails WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count master records: %w", err)
	}

	query := "SELECT " + masterColumns + " FROM master_emails WHERE " + cond +
		" ORDER BY last_updated DESC"
	if !f.FullExport {
		limit := f.Limit
		if limit <= 0 || limit > 1000 {
			limit = 100
		}
		args = append(args, limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list master records: %w", err)
	}
	defer rows.Close()

	var out []domain.MasterRecord
	for rows.Next() {
		m, err := scanMaster(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan master record: %w", err)
		}
		out = append(out, *m)
	}
	return out, total, rows.Err()
}
