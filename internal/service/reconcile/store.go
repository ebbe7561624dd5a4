package reconcile

import (
	"context"
	"errors"

	"github.com/ignite/email-cleanup/internal/domain"
)

// Sentinel errors for the reconcile service layer.
var (
	// ErrRebuildInProgress is returned when a rebuild is requested while
	// another rebuild holds the master lock.
	ErrRebuildInProgress = errors.New("master rebuild already in progress")
)

// Store is the persistence contract for the reconciliation engine. It
// covers the three brand contact stores and the master record store.
//
// Implementations must make InTx and InSnapshotTx yield a Store whose
// operations all run inside one database transaction; returning an error
// from the callback rolls the transaction back, so a failed merge never
// leaves a half-applied brand projection behind.
type Store interface {
	// UpsertContacts writes a brand batch into that brand's store with
	// last-write-wins semantics on every field. Returns the number of
	// rows inserted or updated.
	UpsertContacts(ctx context.Context, b domain.Brand, recs []domain.BrandContact) (int, error)

	// AllContacts returns every record in the brand's store.
	AllContacts(ctx context.Context, b domain.Brand) ([]domain.BrandContact, error)

	// GetMaster returns the master record for a canonical email, or
	// (nil, nil) when no such record exists.
	GetMaster(ctx context.Context, email string) (*domain.MasterRecord, error)

	// PutMaster upserts a fully-computed master record, overwriting every
	// column on conflict. Returns true when a new row was inserted.
	PutMaster(ctx context.Context, rec *domain.MasterRecord) (inserted bool, err error)

	// InTx runs fn against a Store bound to one read-write transaction.
	InTx(ctx context.Context, fn func(Store) error) error

	// InSnapshotTx runs fn against a Store bound to one repeatable-read
	// transaction, so a rebuild sees the three brand stores as of a
	// single consistent snapshot: in-flight incremental writes are wholly
	// visible or wholly invisible, never partially.
	InSnapshotTx(ctx context.Context, fn func(Store) error) error
}
