package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ignite/email-cleanup/internal/domain"
)

// staging manages the working files a batch produces on its way through
// the pipeline: the raw upload, the cleaned copy (denylisted rows
// removed), and the transformed copy (brand-coded segments). Staged files
// are referenced by name in follow-up requests, so reads of missing
// artifacts surface as NotFoundError rather than raw filesystem errors.
type staging struct {
	dir string
}

func newStaging(dir string) (*staging, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &staging{dir: dir}, nil
}

// sanitizeName strips path components so an uploaded filename can never
// escape the staging directory.
func sanitizeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		return "upload.csv"
	}
	return name
}

// save writes data under a unique staged name derived from the original
// filename and returns that name.
func (s *staging) save(prefix, originalName string, data []byte) (string, error) {
	name := fmt.Sprintf("%s%s_%s", prefix, uuid.New().String()[:8], sanitizeName(originalName))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("stage %s: %w", name, err)
	}
	return name, nil
}

// load reads a staged file by name.
func (s *staging) load(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, sanitizeName(name)))
	if os.IsNotExist(err) {
		return nil, &domain.NotFoundError{Kind: "staged batch", Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("load staged %s: %w", name, err)
	}
	return data, nil
}
