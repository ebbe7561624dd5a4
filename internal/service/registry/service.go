package registry

import (
	"context"

	"github.com/ignite/email-cleanup/internal/domain"
)

// Service implements registry business logic. It is safe for concurrent use.
type Service struct {
	repo Repository
}

// NewService creates a registry service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddBatch normalizes and adds a batch of reported emails to the denylist.
// Duplicates within the batch and against existing state are silently
// skipped, so resubmitting the same batch adds zero new entries.
func (s *Service) AddBatch(ctx context.Context, emails []string, brand string) (int, error) {
	seen := make(map[string]bool, len(emails))
	entries := make([]domain.InvalidEmail, 0, len(emails))
	for _, raw := range emails {
		email := domain.NormalizeEmail(raw)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		entries = append(entries, domain.InvalidEmail{Email: email, Brand: brand})
	}
	if len(entries) == 0 {
		return 0, nil
	}
	return s.repo.AddBatch(ctx, entries)
}

// IsInvalid checks whether an email address is denylisted. The check is
// registry-wide, independent of which brand reported the address.
func (s *Service) IsInvalid(ctx context.Context, email string) (bool, error) {
	return s.repo.IsInvalid(ctx, domain.NormalizeEmail(email))
}

// Partition splits a contact batch into records that may proceed to a
// brand store and records whose email is denylisted. The registry is
// loaded once per batch so large uploads don't turn into one lookup per
// row.
func (s *Service) Partition(ctx context.Context, contacts []domain.BrandContact) (valid, invalid []domain.BrandContact, err error) {
	all, err := s.repo.AllEmails(ctx)
	if err != nil {
		return nil, nil, err
	}
	denylisted := make(map[string]bool, len(all))
	for _, e := range all {
		denylisted[e] = true
	}

	for _, c := range contacts {
		if denylisted[domain.NormalizeEmail(c.Email)] {
			invalid = append(invalid, c)
		} else {
			valid = append(valid, c)
		}
	}
	return valid, invalid, nil
}

// Classify splits raw email strings into valid and denylisted, both in
// canonical form. Like Partition, the registry is loaded once per call.
func (s *Service) Classify(ctx context.Context, emails []string) (valid, invalid []string, err error) {
	all, err := s.repo.AllEmails(ctx)
	if err != nil {
		return nil, nil, err
	}
	denylisted := make(map[string]bool, len(all))
	for _, e := range all {
		denylisted[e] = true
	}

	for _, raw := range emails {
		email := domain.NormalizeEmail(raw)
		if email == "" {
			continue
		}
		if denylisted[email] {
			invalid = append(invalid, email)
		} else {
			valid = append(valid, email)
		}
	}
	return valid, invalid, nil
}

// List returns registry entries matching the given filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.InvalidEmail, int, error) {
	return s.repo.List(ctx, filter)
}
