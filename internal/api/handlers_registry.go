package api

import (
	"net/http"
	"strconv"

	"github.com/ignite/email-cleanup/internal/pkg/httputil"
	"github.com/ignite/email-cleanup/internal/service/registry"
)

// HandleInvalidUpload adds a batch of reported emails to the denylist.
// Resubmitting the same file reports zero added.
//
//	POST /invalid-emails/upload  multipart: file=<csv>, brand=<tag>
func (h *Handlers) HandleInvalidUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.BadRequest(w, "invalid multipart form: "+err.Error())
		return
	}

	brand := r.FormValue("brand")
	if brand == "" {
		httputil.BadRequest(w, "brand is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	added, err := h.pipeline.AddInvalidEmails(r.Context(), brand, file)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"status": "success", "brand": brand, "added": added})
}

// HandleListInvalid pages through the registry.
//
//	GET /invalid-emails?limit=&offset=&search=&brand=
func (h *Handlers) HandleListInvalid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	entries, total, err := h.registry.List(r.Context(), registry.ListFilter{
		Search: q.Get("search"),
		Brand:  q.Get("brand"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"status": "success", "total": total, "data": entries})
}
