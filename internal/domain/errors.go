package domain

import (
	"fmt"
	"strings"
)

// SchemaError reports a brand batch whose canonical columns are incomplete
// after header aliasing. The whole batch is rejected; nothing is written.
type SchemaError struct {
	Missing  []string // canonical column names that could not be resolved
	Detected []string // raw header names seen in the file
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// UnknownBrandError reports a brand tag outside the recognized set. It is
// raised before any store is touched.
type UnknownBrandError struct {
	Tag string
}

func (e *UnknownBrandError) Error() string {
	return fmt.Sprintf("unknown brand %q", e.Tag)
}

// TooLargeError reports an upload over the configured size cap. The batch
// is rejected whole; truncating it instead would quietly drop the tail
// rows.
type TooLargeError struct {
	LimitMB int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file exceeds the %d MB upload limit", e.LimitMB)
}

// NotFoundError reports a missing intermediate artifact, e.g. a staged
// batch file referenced by name that no longer exists.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}
