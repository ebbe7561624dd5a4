package domain

// BrandContact is one row in a brand contact store: the latest known
// contact attributes and segment for an email within that brand's context.
// Identity fields are pointers because upstream extracts routinely leave
// them blank, and the merge rules distinguish "blank" from "known".
type BrandContact struct {
	Email      string  `json:"email" db:"email"`
	CardNo     *string `json:"card_no" db:"card_no"`
	Name       *string `json:"name" db:"name"`
	Phone      *string `json:"phone" db:"phone"`
	Segment    *string `json:"segment" db:"segment"`
	BrandLabel string  `json:"brand" db:"brand"`
}
