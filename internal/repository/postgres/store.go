package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/email-cleanup/internal/domain"
	"github.com/ignite/email-cleanup/internal/service/reconcile"
)

// Store implements reconcile.Store over one PostgreSQL handle. The zero
// of the tx field means operations run on the pool; inside InTx and
// InSnapshotTx a Store bound to the transaction is handed to the
// callback.
type Store struct {
	db       *sql.DB // nil when bound to a transaction
	contacts *ContactRepo
	master   *MasterRepo
}

// NewStore creates the engine's persistence layer.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		contacts: NewContactRepo(db),
		master:   NewMasterRepo(db),
	}
}

func (s *Store) UpsertContacts(ctx context.Context, b domain.Brand, recs []domain.BrandContact) (int, error) {
	return s.contacts.UpsertBatch(ctx, b, recs)
}

func (s *Store) AllContacts(ctx context.Context, b domain.Brand) ([]domain.BrandContact, error) {
	return s.contacts.All(ctx, b)
}

func (s *Store) GetMaster(ctx context.Context, email string) (*domain.MasterRecord, error) {
	return s.master.Get(ctx, email)
}

func (s *Store) PutMaster(ctx context.Context, rec *domain.MasterRecord) (bool, error) {
	return s.master.Put(ctx, rec)
}

// InTx runs fn inside a read-write transaction at the default isolation
// level.
func (s *Store) InTx(ctx context.Context, fn func(reconcile.Store) error) error {
	return s.inTx(ctx, nil, fn)
}

// InSnapshotTx runs fn inside a REPEATABLE READ transaction, giving the
// rebuild one consistent snapshot of all three brand stores.
func (s *Store) InSnapshotTx(ctx context.Context, fn func(reconcile.Store) error) error {
	return s.inTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead}, fn)
}

func (s *Store) inTx(ctx context.Context, opts *sql.TxOptions, fn func(reconcile.Store) error) error {
	if s.db == nil {
		// Already transaction-bound; join the enclosing transaction.
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	bound := &Store{
		contacts: NewContactRepo(tx),
		master:   NewMasterRepo(tx),
	}
	if err := fn(bound); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
