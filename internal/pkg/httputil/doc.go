// Package httputil provides shared HTTP response helpers for handlers.
//
// Handler files use these instead of raw http.ResponseWriter calls so the
// JSON envelope, error structure, and logging stay consistent across
// endpoints.
package httputil
