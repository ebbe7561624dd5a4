// Package ingest turns uploaded brand extracts into store writes.
//
// A brand batch moves through a fixed pipeline: CSV parsing with header
// aliasing, denylist filtering against the invalid-email registry,
// staging of the cleaned and transformed working files, the brand-code
// segment transform, and finally the atomic brand-store write plus master
// projection performed by the reconcile engine. The pipeline never writes
// to a store itself; it prepares records and hands them to the engine.
package ingest
