package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/email-cleanup/internal/domain"
)

func strp(s string) *string { return &s }

func TestMergeContributionSeedsNewRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := domain.BrandContact{
		Email:   "A@X.com ",
		CardNo:  strp("1"),
		Name:    strp("Alice"),
		Segment: strp("TR_Gold"),
	}

	rec := mergeContribution(nil, domain.BrandTR, c, policyCoalesce, now)

	assert.Equal(t, "a@x.com", rec.Email)
	assert.Equal(t, "1", *rec.CardNo)
	assert.Equal(t, "Alice", *rec.Name)
	assert.Nil(t, rec.Phone)
	assert.Equal(t, "TR_Gold", *rec.SegmentTR)
	assert.True(t, rec.IsTR)
	assert.False(t, rec.IsMFM)
	assert.False(t, rec.IsNYSS)
	assert.Equal(t, now, rec.LastUpdated)
}

func TestMergeContributionCoalesceKeepsKnownIdentity(t *testing.T) {
	now := time.Now().UTC()
	existing := &domain.MasterRecord{
		Email:  "a@x.com",
		CardNo: strp("1"),
		Name:   strp("Alice"),
	}
	existing.SetSegment(domain.BrandTR, strp("TR_Gold"))

	// A later MFM batch with a blank card_no and a different name must
	// not erase what we already know.
	c := domain.BrandContact{
		Email:   "a@x.com",
		Name:    strp("Alicia"),
		Phone:   strp("555-1234"),
		Segment: strp("MFM_Silver"),
	}
	rec := mergeContribution(existing, domain.BrandMFM, c, policyCoalesce, now)

	assert.Equal(t, "1", *rec.CardNo, "non-null card_no must survive a null contribution")
	assert.Equal(t, "Alice", *rec.Name, "non-null name must survive under coalesce")
	assert.Equal(t, "555-1234", *rec.Phone, "null phone adopts the incoming value")
	assert.Equal(t, "MFM_Silver", *rec.SegmentMFM)
	assert.True(t, rec.IsMFM)
	// Other brand untouched
	assert.Equal(t, "TR_Gold", *rec.SegmentTR)
	assert.True(t, rec.IsTR)
}

func TestMergeContributionFirstSeenIgnoresLaterIdentity(t *testing.T) {
	now := time.Now().UTC()

	seed := domain.BrandContact{Email: "c@x.com", CardNo: strp("1"), Name: strp("C"), Segment: strp("TR_Gold")}
	rec := mergeContribution(nil, domain.BrandTR, seed, policyFirstSeen, now)

	later := domain.BrandContact{Email: "c@x.com", Name: strp("Cee"), Phone: strp("999"), Segment: strp("MFM_Blue")}
	rec = mergeContribution(rec, domain.BrandMFM, later, policyFirstSeen, now)

	assert.Equal(t, "1", *rec.CardNo)
	assert.Equal(t, "C", *rec.Name, "first-seen identity must win even over a non-null later value")
	assert.Nil(t, rec.Phone, "first-seen ignores later contributions entirely, even for null fields")
	assert.Equal(t, "MFM_Blue", *rec.SegmentMFM)
	assert.True(t, rec.IsMFM)
}

func TestMergeContributionCoalesceKeepsSegmentOnNull(t *testing.T) {
	now := time.Now().UTC()
	existing := &domain.MasterRecord{Email: "a@x.com"}
	existing.SetSegment(domain.BrandTR, strp("TR_Gold"))

	rec := mergeContribution(existing, domain.BrandTR, domain.BrandContact{
		Email: "a@x.com",
	}, policyCoalesce, now)

	assert.Equal(t, "TR_Gold", *rec.SegmentTR, "a null segment must not revoke membership incrementally")
	assert.True(t, rec.IsTR)
}

func TestMergeContributionFlagInvariant(t *testing.T) {
	now := time.Now().UTC()
	rec := mergeContribution(nil, domain.BrandNYSS, domain.BrandContact{
		Email:   "f@x.com",
		Segment: strp("NYSS_Red"),
	}, policyCoalesce, now)

	for _, b := range domain.Brands() {
		assert.Equal(t, rec.Segment(b) != nil, rec.Member(b),
			"is_%s must mirror segment_%s", b.Lower(), b.Lower())
	}
}
