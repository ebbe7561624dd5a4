// Package registry implements the invalid-email registry: the cross-brand
// denylist every inbound contact batch is filtered against.
//
// Membership is intentionally brand-agnostic. Each entry records which
// brand reported the address, but an email invalid for any brand is
// invalid everywhere, so checks never partition by brand. The registry
// only grows: entries are created, never updated or deleted.
//
// The service layer contains pure business logic and depends on the
// Repository interface defined in repository.go. It never imports
// net/http or database/sql directly.
package registry
