package ingest

import (
	"github.com/ignite/email-cleanup/internal/domain"
)

// transformBatch applies the per-brand rewrite a batch gets before it
// reaches the stores: segments are prefixed with the brand code
// ("Silver" → "TR_Silver") so segment names stay unambiguous once three
// brands share one master row, and the brand label column is normalized
// to the brand's display name regardless of what the extract carried.
func transformBatch(b domain.Brand, recs []domain.BrandContact) []domain.BrandContact {
	out := make([]domain.BrandContact, len(recs))
	for i, c := range recs {
		seg := c.Segment
		if seg != nil {
			prefixed := b.Code() + "_" + *seg
			seg = &prefixed
		}
		out[i] = domain.BrandContact{
			Email:      domain.NormalizeEmail(c.Email),
			CardNo:     c.CardNo,
			Name:       c.Name,
			Phone:      c.Phone,
			Segment:    seg,
			BrandLabel: b.FullName(),
		}
	}
	return out
}
