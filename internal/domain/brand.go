package domain

import "strings"

// Brand identifies one of the three restaurant brands whose contact
// extracts feed the master list. The zero value is not a valid brand.
type Brand string

const (
	BrandTR   Brand = "TR"
	BrandMFM  Brand = "MFM"
	BrandNYSS Brand = "NYSS"
)

// brandNames maps the full brand names used by upstream extracts to codes.
var brandNames = map[string]Brand{
	"tony romas":                BrandTR,
	"the manhattan fish market": BrandMFM,
	"new york steak shack":      BrandNYSS,
}

// fullNames is the reverse of brandNames, used when writing the brand
// label column back into brand store rows.
var fullNames = map[Brand]string{
	BrandTR:   "Tony Romas",
	BrandMFM:  "The Manhattan Fish Market",
	BrandNYSS: "New York Steak Shack",
}

// Brands returns all brands in precedence order. The rebuild iterates
// contributors in exactly this order, so TR seeds identity fields ahead
// of MFM, and MFM ahead of NYSS.
func Brands() []Brand {
	return []Brand{BrandTR, BrandMFM, BrandNYSS}
}

// ParseBrand resolves a brand tag from either the short code ("TR") or the
// full name used by upstream extracts ("Tony Romas"). Matching is
// case-insensitive. Returns an UnknownBrandError for anything else.
func ParseBrand(s string) (Brand, error) {
	tag := strings.TrimSpace(s)
	switch strings.ToUpper(tag) {
	case string(BrandTR), string(BrandMFM), string(BrandNYSS):
		return Brand(strings.ToUpper(tag)), nil
	}
	if b, ok := brandNames[strings.ToLower(tag)]; ok {
		return b, nil
	}
	return "", &UnknownBrandError{Tag: s}
}

// Code returns the short brand code ("TR", "MFM", "NYSS").
func (b Brand) Code() string { return string(b) }

// FullName returns the display name used in upstream extracts.
func (b Brand) FullName() string { return fullNames[b] }

// Lower returns the lowercase code used in column and table names.
func (b Brand) Lower() string { return strings.ToLower(string(b)) }

// Valid reports whether b is one of the three known brands.
func (b Brand) Valid() bool {
	switch b {
	case BrandTR, BrandMFM, BrandNYSS:
		return true
	}
	return false
}
