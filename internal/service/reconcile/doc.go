// Package reconcile implements the master reconciliation engine: the
// rules by which records from the three independent brand stores are
// identified as the same customer, merged field by field, and persisted
// without losing previously known information or double-counting.
//
// The engine exposes exactly two write paths into the master store:
//
//   - ApplySegmentUpsert / IngestBrandBatch, the incremental projection
//     that runs once per brand batch. Identity fields coalesce on null:
//     a value already known for a customer is never replaced by a blank.
//
//   - RebuildMaster, a full recomputation from a consistent snapshot of
//     all three brand stores. Contributors are visited in the fixed brand
//     precedence order (TR, MFM, NYSS); the first record seen for an
//     email seeds the identity fields and later contributors only add
//     their own segment and membership flag.
//
// Both paths funnel through one merge function parameterized by an
// explicit conflict policy, so the divergent behaviors live side by side
// in one place instead of being duplicated.
package reconcile
