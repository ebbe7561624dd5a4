package api

import (
	"net/http"
	"strconv"

	"github.com/ignite/email-cleanup/internal/domain"
	"github.com/ignite/email-cleanup/internal/pkg/httputil"
	"github.com/ignite/email-cleanup/internal/repository/postgres"
)

// HandleRebuild triggers a full master rebuild from the current snapshot
// of all three brand stores. Concurrent requests get a 409.
//
//	POST /merge-into-master
func (h *Handlers) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.RebuildMaster(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"status":   "success",
		"inserted": res.Inserted,
		"updated":  res.Updated,
		"total":    res.Total,
	})
}

// HandleListMaster pages through the master store, newest first.
//
//	GET /master-emails?limit=&offset=&search=&brand=&segment=&full_export=
func (h *Handlers) HandleListMaster(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := postgres.ListFilter{
		Search:     q.Get("search"),
		Segment:    q.Get("segment"),
		Limit:      limit,
		Offset:     offset,
		FullExport: q.Get("full_export") == "true",
	}
	if tag := q.Get("brand"); tag != "" {
		b, err := domain.ParseBrand(tag)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Brand = b
	}

	records, total, err := h.master.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"status": "success", "total": total, "data": records})
}
