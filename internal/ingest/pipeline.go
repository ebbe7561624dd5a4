package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/ignite/email-cleanup/internal/config"
	"github.com/ignite/email-cleanup/internal/domain"
	"github.com/ignite/email-cleanup/internal/pkg/logger"
	"github.com/ignite/email-cleanup/internal/service/reconcile"
	"github.com/ignite/email-cleanup/internal/service/registry"
)

// Archiver stores a raw extract somewhere durable. The pipeline treats
// archiving as best-effort: a failed archive is logged, not fatal.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}

// Pipeline wires the ingestion steps together. It is safe for concurrent
// use; each call works on its own staged files.
type Pipeline struct {
	registry *registry.Service
	engine   *reconcile.Service
	staging  *staging
	archiver Archiver // nil when archiving is disabled
	cfg      config.IngestConfig
}

// NewPipeline builds the ingestion pipeline. archiver may be nil.
func NewPipeline(reg *registry.Service, engine *reconcile.Service, archiver Archiver, cfg config.IngestConfig) (*Pipeline, error) {
	st, err := newStaging(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		registry: reg,
		engine:   engine,
		staging:  st,
		archiver: archiver,
		cfg:      cfg,
	}, nil
}

// UploadReport summarizes what one brand upload did.
type UploadReport struct {
	Brand                  string                 `json:"brand"`
	RowsUploaded           int                    `json:"rows_uploaded"`
	RowsAfterInvalidFilter int                    `json:"rows_after_invalid_removal"`
	InvalidCount           int                    `json:"invalid_count"`
	InvalidEmails          []string               `json:"invalid_emails"`
	CleanedFile            string                 `json:"cleaned_file"`
	TransformedFile        string                 `json:"transformed_file"`
	ArchiveKey             string                 `json:"archive_key,omitempty"`
	Preview                []domain.BrandContact  `json:"preview"`
	Ingest                 *reconcile.IngestResult `json:"ingest_result"`
}

// ProcessUpload runs one brand extract through the whole pipeline:
// parse, denylist filter, stage, transform, and the atomic store write.
// Nothing is written to any store before every validation step has
// passed.
func (p *Pipeline) ProcessUpload(ctx context.Context, brandTag, filename string, r io.Reader) (*UploadReport, error) {
	b, err := domain.ParseBrand(brandTag)
	if err != nil {
		return nil, err
	}

	data, err := p.readUpload(r)
	if err != nil {
		return nil, err
	}

	contacts, _, err := parseContacts(data)
	if err != nil {
		return nil, err
	}

	valid, invalid, err := p.registry.Partition(ctx, contacts)
	if err != nil {
		return nil, fmt.Errorf("denylist filter: %w", err)
	}

	cleanedName, err := p.staging.save("cleaned_", filename, writeContactsCSV(valid))
	if err != nil {
		return nil, err
	}

	transformed := transformBatch(b, valid)
	transformedName, err := p.staging.save("transformed_", filename, writeContactsCSV(transformed))
	if err != nil {
		return nil, err
	}

	ingestRes, err := p.engine.IngestBrandBatch(ctx, b, transformed)
	if err != nil {
		return nil, err
	}

	report := &UploadReport{
		Brand:                  b.FullName(),
		RowsUploaded:           len(contacts),
		RowsAfterInvalidFilter: len(valid),
		InvalidCount:           len(invalid),
		InvalidEmails:          sampleEmails(invalid, p.cfg.InvalidSample),
		CleanedFile:            cleanedName,
		TransformedFile:        transformedName,
		Preview:                preview(transformed, p.cfg.PreviewRows),
		Ingest:                 ingestRes,
	}

	if p.archiver != nil {
		key, err := p.archiver.Archive(ctx, sanitizeName(filename), data)
		if err != nil {
			logger.Warn("archive upload failed", "file", filename, "err", err)
		} else {
			report.ArchiveKey = key
		}
	}

	return report, nil
}

// TransformResult reports the outcome of transforming a staged cleaned
// file.
type TransformResult struct {
	Brand           string                `json:"brand"`
	TransformedFile string                `json:"transformed_file"`
	Preview         []domain.BrandContact `json:"preview"`
}

// TransformStaged re-runs the brand transform against a staged cleaned
// file. A missing file aborts with NotFoundError before any store is
// touched.
func (p *Pipeline) TransformStaged(ctx context.Context, name, brandTag string) (*TransformResult, error) {
	b, err := domain.ParseBrand(brandTag)
	if err != nil {
		return nil, err
	}

	data, err := p.staging.load(name)
	if err != nil {
		return nil, err
	}
	contacts, _, err := parseContacts(data)
	if err != nil {
		return nil, err
	}

	transformed := transformBatch(b, contacts)
	transformedName, err := p.staging.save("transformed_", name, writeContactsCSV(transformed))
	if err != nil {
		return nil, err
	}

	return &TransformResult{
		Brand:           b.FullName(),
		TransformedFile: transformedName,
		Preview:         preview(transformed, p.cfg.PreviewRows),
	}, nil
}

// IngestStaged replays a staged transformed file into the stores. Useful
// when an earlier attempt failed after staging succeeded.
func (p *Pipeline) IngestStaged(ctx context.Context, name, brandTag string) (*reconcile.IngestResult, error) {
	b, err := domain.ParseBrand(brandTag)
	if err != nil {
		return nil, err
	}

	data, err := p.staging.load(name)
	if err != nil {
		return nil, err
	}
	contacts, _, err := parseContacts(data)
	if err != nil {
		return nil, err
	}

	return p.engine.IngestBrandBatch(ctx, b, contacts)
}

// ValidationReport classifies a file's emails against the registry
// without writing anything.
type ValidationReport struct {
	Total         int      `json:"total"`
	ValidCount    int      `json:"valid_count"`
	InvalidCount  int      `json:"invalid_count"`
	ValidEmails   []string `json:"valid_emails"`
	InvalidEmails []string `json:"invalid_emails"`
}

// Validate checks an uploaded file's emails against the denylist. Read
// only; no store is touched.
func (p *Pipeline) Validate(ctx context.Context, r io.Reader) (*ValidationReport, error) {
	data, err := p.readUpload(r)
	if err != nil {
		return nil, err
	}

	emails, err := parseEmails(data)
	if err != nil {
		return nil, err
	}

	valid, invalid, err := p.registry.Classify(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("denylist check: %w", err)
	}

	return &ValidationReport{
		Total:         len(valid) + len(invalid),
		ValidCount:    len(valid),
		InvalidCount:  len(invalid),
		ValidEmails:   capStrings(valid, p.cfg.InvalidSample),
		InvalidEmails: capStrings(invalid, p.cfg.InvalidSample),
	}, nil
}

// AddInvalidEmails ingests a denylist upload: any CSV with an email
// column, tagged with the reporting brand. Returns how many new entries
// the registry gained.
func (p *Pipeline) AddInvalidEmails(ctx context.Context, brandTag string, r io.Reader) (int, error) {
	data, err := p.readUpload(r)
	if err != nil {
		return 0, err
	}

	emails, err := parseEmails(data)
	if err != nil {
		return 0, err
	}
	return p.registry.AddBatch(ctx, emails, brandTag)
}

// readUpload reads a whole upload body, rejecting files over the size cap.
// Truncating at the cap would drop tail rows while reporting success, so an
// oversized file fails the whole batch instead.
func (p *Pipeline) readUpload(r io.Reader) ([]byte, error) {
	limit := int64(p.cfg.MaxUploadMB) * 1024 * 1024
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &domain.TooLargeError{LimitMB: p.cfg.MaxUploadMB}
	}
	return data, nil
}

func sampleEmails(recs []domain.BrandContact, n int) []string {
	out := make([]string, 0, n)
	for _, c := range recs {
		if len(out) >= n {
			break
		}
		out = append(out, domain.NormalizeEmail(c.Email))
	}
	return out
}

func capStrings(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func preview(recs []domain.BrandContact, n int) []domain.BrandContact {
	if len(recs) <= n {
		return recs
	}
	return recs[:n]
}
