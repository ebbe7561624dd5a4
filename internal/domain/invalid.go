package domain

import "time"

// InvalidEmail is one entry on the cross-brand denylist. The brand records
// who reported the address, but membership checks are registry-wide: an
// email invalid for any brand is invalid everywhere.
type InvalidEmail struct {
	Email     string    `json:"email" db:"email"`
	Brand     string    `json:"brand" db:"brand"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
