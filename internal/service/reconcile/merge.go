package reconcile

import (
	"time"

	"github.com/ignite/email-cleanup/internal/domain"
)

// identityPolicy selects how a contribution's identity fields (card_no,
// name, phone) combine with values already on the master record. The two
// write paths resolve conflicts differently on purpose; keeping both
// behaviors behind one function makes the difference explicit instead of
// accidental.
type identityPolicy int

const (
	// policyCoalesce keeps an existing non-null value and adopts the
	// incoming one only when the existing value is null. Used by the
	// incremental segment upsert.
	policyCoalesce identityPolicy = iota

	// policyFirstSeen fixes identity fields from the first contribution
	// for an email and ignores every later one. Used by the full rebuild,
	// where contributions arrive in brand precedence order.
	policyFirstSeen
)

// mergeContribution folds one brand contribution into a master record.
// When existing is nil a fresh record is seeded from the contribution.
// The brand's segment and membership flag come from the contribution
// (under coalesce a null segment keeps the existing one); identity fields
// follow the policy. The returned record is the one to persist.
func mergeContribution(existing *domain.MasterRecord, b domain.Brand, c domain.BrandContact, policy identityPolicy, now time.Time) *domain.MasterRecord {
	if existing == nil {
		rec := &domain.MasterRecord{
			Email:       domain.NormalizeEmail(c.Email),
			CardNo:      c.CardNo,
			Name:        c.Name,
			Phone:       c.Phone,
			LastUpdated: now,
		}
		rec.SetSegment(b, c.Segment)
		return rec
	}

	seg := c.Segment
	if policy == policyCoalesce && seg == nil {
		// A contribution with no segment value must not revoke a
		// membership the record already has.
		seg = existing.Segment(b)
	}
	existing.SetSegment(b, seg)
	existing.LastUpdated = now

	switch policy {
	case policyCoalesce:
		if existing.CardNo == nil {
			existing.CardNo = c.CardNo
		}
		if existing.Name == nil {
			existing.Name = c.Name
		}
		if existing.Phone == nil {
			existing.Phone = c.Phone
		}
	case policyFirstSeen:
		// Identity fields were fixed by the seeding contribution.
	}
	return existing
}
