// Package api exposes the cleanup service over REST. The handlers are
// thin: multipart and query-string plumbing on the way in, the shared
// JSON envelope on the way out. All identity and merge semantics live in
// the service packages.
package api

import (
	"errors"
	"net/http"

	"github.com/ignite/email-cleanup/internal/domain"
	"github.com/ignite/email-cleanup/internal/ingest"
	"github.com/ignite/email-cleanup/internal/pkg/httputil"
	"github.com/ignite/email-cleanup/internal/repository/postgres"
	"github.com/ignite/email-cleanup/internal/service/reconcile"
	"github.com/ignite/email-cleanup/internal/service/registry"
)

// Handlers bundles the dependencies the HTTP layer needs.
type Handlers struct {
	pipeline *ingest.Pipeline
	engine   *reconcile.Service
	registry *registry.Service
	master   *postgres.MasterRepo
}

// NewHandlers wires the HTTP layer.
func NewHandlers(pipeline *ingest.Pipeline, engine *reconcile.Service, reg *registry.Service, master *postgres.MasterRepo) *Handlers {
	return &Handlers{pipeline: pipeline, engine: engine, registry: reg, master: master}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok", "service": "email-cleanup"})
}

// writeError maps service errors onto HTTP statuses. Batch-level
// rejections carry enough context (brand, missing columns, offending
// file) for the caller to correct and retry.
func writeError(w http.ResponseWriter, err error) {
	var schemaErr *domain.SchemaError
	if errors.As(err, &schemaErr) {
		httputil.ErrorDetails(w, http.StatusBadRequest, schemaErr.Error(), "schema_error", map[string]any{
			"missing_columns":  schemaErr.Missing,
			"detected_columns": schemaErr.Detected,
		})
		return
	}

	var brandErr *domain.UnknownBrandError
	if errors.As(err, &brandErr) {
		httputil.ErrorDetails(w, http.StatusBadRequest, brandErr.Error(), "unknown_brand", nil)
		return
	}

	var tooLarge *domain.TooLargeError
	if errors.As(err, &tooLarge) {
		httputil.Error(w, http.StatusRequestEntityTooLarge, tooLarge.Error())
		return
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		httputil.NotFound(w, notFound.Error())
		return
	}

	if errors.Is(err, reconcile.ErrRebuildInProgress) {
		httputil.Error(w, http.StatusConflict, err.Error())
		return
	}

	httputil.InternalError(w, err)
}
