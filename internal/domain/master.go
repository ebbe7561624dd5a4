package domain

import "time"

// MasterRecord is the unified, deduplicated view of one customer: exactly
// one row per canonical email that has ever survived denylist filtering,
// with per-brand segment and membership flags.
//
// Invariant: Is<Brand> is true iff Segment<Brand> is non-nil iff that
// brand's store contained the email as of the last merge touching that
// brand. Identity fields are populated opportunistically and must never be
// overwritten with nil once set.
type MasterRecord struct {
	Email       string    `json:"email" db:"email"`
	CardNo      *string   `json:"card_no" db:"card_no"`
	Name        *string   `json:"name" db:"name"`
	Phone       *string   `json:"phone" db:"phone"`
	SegmentTR   *string   `json:"segment_tr" db:"segment_tr"`
	SegmentMFM  *string   `json:"segment_mfm" db:"segment_mfm"`
	SegmentNYSS *string   `json:"segment_nyss" db:"segment_nyss"`
	IsTR        bool      `json:"is_tr" db:"is_tr"`
	IsMFM       bool      `json:"is_mfm" db:"is_mfm"`
	IsNYSS      bool      `json:"is_nyss" db:"is_nyss"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// Segment returns the segment column for the given brand.
func (m *MasterRecord) Segment(b Brand) *string {
	switch b {
	case BrandTR:
		return m.SegmentTR
	case BrandMFM:
		return m.SegmentMFM
	case BrandNYSS:
		return m.SegmentNYSS
	}
	return nil
}

// Member reports whether the brand's membership flag is set.
func (m *MasterRecord) Member(b Brand) bool {
	switch b {
	case BrandTR:
		return m.IsTR
	case BrandMFM:
		return m.IsMFM
	case BrandNYSS:
		return m.IsNYSS
	}
	return false
}

// SetSegment sets the brand's segment and membership flag together, so the
// flag invariant holds by construction.
func (m *MasterRecord) SetSegment(b Brand, segment *string) {
	member := segment != nil
	switch b {
	case BrandTR:
		m.SegmentTR = segment
		m.IsTR = member
	case BrandMFM:
		m.SegmentMFM = segment
		m.IsMFM = member
	case BrandNYSS:
		m.SegmentNYSS = segment
		m.IsNYSS = member
	}
}
