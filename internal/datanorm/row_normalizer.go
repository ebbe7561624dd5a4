package datanorm

import (
	"strings"

	"github.com/ignite/email-cleanup/internal/domain"
)

// NormalizeRow converts one CSV data row into a BrandContact using the
// resolved column mapping. The email is canonicalized; blank identity
// fields become nil so downstream merge rules can tell "blank" from
// "known". Returns nil when the row has no usable email.
func NormalizeRow(row []string, mapping *ColumnMapping) *domain.BrandContact {
	if mapping.EmailIdx >= len(row) {
		return nil
	}
	email := domain.NormalizeEmail(row[mapping.EmailIdx])
	if !LooksLikeEmail(email) {
		return nil
	}

	rec := &domain.BrandContact{Email: email}
	for i, val := range row {
		field, mapped := mapping.FieldMap[i]
		if !mapped {
			continue
		}
		val = strings.TrimSpace(val)
		switch field {
		case FieldCardNo:
			rec.CardNo = optional(val)
		case FieldName:
			rec.Name = optional(val)
		case FieldPhone:
			rec.Phone = optional(val)
		case FieldSegment:
			rec.Segment = optional(val)
		case FieldBrand:
			rec.BrandLabel = val
		}
	}
	return rec
}

// optional maps the empty string (and common CSV null spellings) to nil.
// Upstream exports come out of spreadsheet tools that write "NaN" or
// "null" for missing cells.
func optional(val string) *string {
	switch strings.ToLower(val) {
	case "", "nan", "null", "none", "n/a":
		return nil
	}
	return &val
}
