package registry

import (
	"context"

	"github.com/ignite/email-cleanup/internal/domain"
)

// Repository defines the data access contract for the invalid-email
// registry.
type Repository interface {
	// AddBatch inserts the given entries, silently skipping emails that
	// are already present, and returns how many rows were actually added.
	AddBatch(ctx context.Context, entries []domain.InvalidEmail) (int, error)

	// IsInvalid returns true if the canonical email is on the denylist,
	// regardless of which brand reported it.
	IsInvalid(ctx context.Context, email string) (bool, error)

	// AllEmails returns every denylisted email. Used to filter a whole
	// batch with one round trip.
	AllEmails(ctx context.Context) ([]string, error)

	// List returns entries matching the filter plus the total count.
	List(ctx context.Context, filter ListFilter) ([]domain.InvalidEmail, int, error)
}

// ListFilter controls pagination and filtering for registry listings.
type ListFilter struct {
	Search string // substring match on email
	Brand  string // exact match on reporting brand tag
	Limit  int
	Offset int
}
