package api

import (
	"net/http"

	"github.com/ignite/email-cleanup/internal/pkg/httputil"
)

// maxMultipartMemory caps the in-memory part of multipart parsing; the
// rest spills to temp files.
const maxMultipartMemory = 32 << 20

// HandleUpload ingests one brand extract end to end: filter against the
// denylist, write the brand store, project into the master store.
//
//	POST /upload  multipart: file=<csv>, brand=<tag>
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.BadRequest(w, "invalid multipart form: "+err.Error())
		return
	}

	brand := r.FormValue("brand")
	if brand == "" {
		httputil.BadRequest(w, "brand is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	report, err := h.pipeline.ProcessUpload(r.Context(), brand, header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"status": "success", "result": report})
}

// HandleValidateEmails classifies an uploaded file's emails against the
// registry without writing anything.
//
//	POST /validate-emails  multipart: file=<csv>
func (h *Handlers) HandleValidateEmails(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.BadRequest(w, "invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	report, err := h.pipeline.Validate(r.Context(), file)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, report)
}

// HandleTransformStaged re-runs the brand transform on a staged cleaned
// file.
//
//	POST /transform-cleaned-data  form: filename=<staged>, brand=<tag>
func (h *Handlers) HandleTransformStaged(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "invalid form: "+err.Error())
		return
	}
	filename := r.FormValue("filename")
	brand := r.FormValue("brand")
	if filename == "" || brand == "" {
		httputil.BadRequest(w, "filename and brand are required")
		return
	}

	res, err := h.pipeline.TransformStaged(r.Context(), filename, brand)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"status": "success", "result": res})
}

// HandleIngestStaged replays a staged transformed file into the stores.
//
//	POST /save-to-brand  form: filename=<staged>, brand=<tag>
func (h *Handlers) HandleIngestStaged(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "invalid form: "+err.Error())
		return
	}
	filename := r.FormValue("filename")
	brand := r.FormValue("brand")
	if filename == "" || brand == "" {
		httputil.BadRequest(w, "filename and brand are required")
		return
	}

	res, err := h.pipeline.IngestStaged(r.Context(), filename, brand)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]any{"status": "success", "result": res})
}
