package datanorm

import "strings"

// CanonicalField is a normalized column name used across all brand extracts.
type CanonicalField string

const (
	FieldCardNo  CanonicalField = "card_no"
	FieldBrand   CanonicalField = "brand"
	FieldName    CanonicalField = "name"
	FieldPhone   CanonicalField = "phone"
	FieldEmail   CanonicalField = "email"
	FieldSegment CanonicalField = "segment"
)

// RequiredFields are the canonical columns every brand contact extract must
// resolve to. Order matters only for error messages.
var RequiredFields = []CanonicalField{
	FieldCardNo, FieldBrand, FieldName, FieldPhone, FieldEmail, FieldSegment,
}

// columnAliases maps normalized header names to canonical fields.
// When multiple raw headers mean the same thing, they all map here.
var columnAliases = map[string]CanonicalField{
	// Loyalty card number
	"card_no":     FieldCardNo,
	"card_number": FieldCardNo,
	"cardnum":     FieldCardNo,
	"cardno":      FieldCardNo,
	"card_no_":    FieldCardNo,

	// Brand / outlet
	"brand":      FieldBrand,
	"restaurant": FieldBrand,
	"outlet":     FieldBrand,

	// Customer name
	"name":          FieldName,
	"full_name":     FieldName,
	"customer_name": FieldName,

	// Phone
	"phone":         FieldPhone,
	"mobile":        FieldPhone,
	"mobile_number": FieldPhone,
	"contact":       FieldPhone,

	// Email
	"email":         FieldEmail,
	"email_address": FieldEmail,
	"e-mail":        FieldEmail,

	// Segment
	"segment":       FieldSegment,
	"segment_group": FieldSegment,
	"group":         FieldSegment,
}

// NormalizeHeader lowercases, trims, and snake-cases one raw header name.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Trim(h, "\"'")
	return strings.ReplaceAll(h, " ", "_")
}

// ColumnMapping holds the resolved mapping from CSV column indices to
// canonical fields.
type ColumnMapping struct {
	EmailIdx int
	FieldMap map[int]CanonicalField // column index -> canonical field
	RawNames []string               // original header names
}

// MapColumns takes a raw CSV header row and returns a resolved mapping.
// Returns nil if no email column is found.
func MapColumns(header []string) *ColumnMapping {
	m := &ColumnMapping{
		EmailIdx: -1,
		FieldMap: make(map[int]CanonicalField, len(header)),
		RawNames: header,
	}

	// Leftmost column wins when two headers alias to the same field, so a
	// file carrying both "phone" and "mobile" keeps the phone column. Later
	// duplicates stay unmapped and their values are ignored.
	claimed := make(map[CanonicalField]bool, len(RequiredFields))
	for i, h := range header {
		if field, ok := columnAliases[NormalizeHeader(h)]; ok {
			if claimed[field] {
				continue
			}
			claimed[field] = true
			m.FieldMap[i] = field
			if field == FieldEmail {
				m.EmailIdx = i
			}
		}
	}

	// Fallback: scan for any header containing "email" if no exact match
	if m.EmailIdx < 0 {
		for i, h := range header {
			if strings.Contains(strings.ToLower(h), "email") {
				m.FieldMap[i] = FieldEmail
				m.EmailIdx = i
				break
			}
		}
	}

	if m.EmailIdx < 0 {
		return nil
	}

	return m
}

// Missing returns the canonical required fields the mapping did not
// resolve, in RequiredFields order.
func (m *ColumnMapping) Missing() []string {
	resolved := make(map[CanonicalField]bool, len(m.FieldMap))
	for _, f := range m.FieldMap {
		resolved[f] = true
	}
	var missing []string
	for _, f := range RequiredFields {
		if !resolved[f] {
			missing = append(missing, string(f))
		}
	}
	return missing
}

// LooksLikeEmail returns true if the value appears to be an email address.
// Used to reject junk rows before they reach the stores.
func LooksLikeEmail(val string) bool {
	v := strings.TrimSpace(val)
	if len(v) < 5 || len(v) > 254 {
		return false
	}
	at := strings.LastIndex(v, "@")
	if at < 1 || at >= len(v)-1 {
		return false
	}
	domain := v[at+1:]
	return strings.Contains(domain, ".") && len(domain) >= 3
}
