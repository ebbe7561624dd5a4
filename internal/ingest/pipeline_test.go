package ingest

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/email-cleanup/internal/config"
	"github.com/ignite/email-cleanup/internal/domain"
	"github.com/ignite/email-cleanup/internal/service/reconcile"
	"github.com/ignite/email-cleanup/internal/service/registry"
)

type memRegistryRepo struct {
	mu      sync.RWMutex
	entries map[string]domain.InvalidEmail
}

func newMemRegistryRepo(emails ...string) *memRegistryRepo {
	r := &memRegistryRepo{entries: make(map[string]domain.InvalidEmail)}
	for _, e := range emails {
		r.entries[e] = domain.InvalidEmail{Email: e}
	}
	return r
}

func (r *memRegistryRepo) AddBatch(_ context.Context, entries []domain.InvalidEmail) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	added := 0
	for _, e := range entries {
		if _, ok := r.entries[e.Email]; !ok {
			r.entries[e.Email] = e
			added++
		}
	}
	return added, nil
}

func (r *memRegistryRepo) IsInvalid(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[email]
	return ok, nil
}

func (r *memRegistryRepo) AllEmails(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *memRegistryRepo) List(_ context.Context, _ registry.ListFilter) ([]domain.InvalidEmail, int, error) {
	return nil, 0, nil
}

type memStore struct {
	mu       sync.Mutex
	contacts map[domain.Brand][]domain.BrandContact
	master   map[string]*domain.MasterRecord
}

func newMemStore() *memStore {
	return &memStore{
		contacts: make(map[domain.Brand][]domain.BrandContact),
		master:   make(map[string]*domain.MasterRecord),
	}
}

func (m *memStore) UpsertContacts(_ context.Context, b domain.Brand, recs []domain.BrandContact) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts[b] = append(m.contacts[b], recs...)
	return len(recs), nil
}

func (m *memStore) AllContacts(_ context.Context, b domain.Brand) ([]domain.BrandContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contacts[b], nil
}

func (m *memStore) GetMaster(_ context.Context, email string) (*domain.MasterRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.master[email]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *memStore) PutMaster(_ context.Context, rec *domain.MasterRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, existed := m.master[rec.Email]
	cp := *rec
	m.master[rec.Email] = &cp
	return !existed, nil
}

func (m *memStore) InTx(_ context.Context, fn func(reconcile.Store) error) error {
	return fn(m)
}

func (m *memStore) InSnapshotTx(_ context.Context, fn func(reconcile.Store) error) error {
	return fn(m)
}

type noopLock struct{}

func (noopLock) TryAcquire(context.Context) (bool, error) { return true, nil }

func (noopLock) Release(context.Context) error { return nil }

func testConfig(t *testing.T) config.IngestConfig {
	t.Helper()
	return config.IngestConfig{
		UploadDir:     t.TempDir(),
		MaxUploadMB:   16,
		PreviewRows:   5,
		InvalidSample: 10,
	}
}

func newTestPipeline(t *testing.T, repo *memRegistryRepo, store *memStore) *Pipeline {
	t.Helper()
	reg := registry.NewService(repo)
	engine := reconcile.NewService(store, noopLock{})
	p, err := NewPipeline(reg, engine, nil, testConfig(t))
	require.NoError(t, err)
	return p
}

const trExtract = "\xEF\xBB\xBF" + // UTF-8 BOM, as spreadsheet exports write it
	"Card Number,Restaurant,Full Name,Mobile,Email Address,Segment Group\n" +
	"1,Tony Romas,Alice,555,Good@X.com,Silver\n" +
	"2,Tony Romas,Bob,556,bad@x.com,Gold\n" +
	"3,Tony Romas,Junk,557,not-an-email,Gold\n"

func TestProcessUploadFiltersAndIngests(t *testing.T) {
	repo := newMemRegistryRepo("bad@x.com")
	store := newMemStore()
	p := newTestPipeline(t, repo, store)

	report, err := p.ProcessUpload(context.Background(), "TR", "tr_extract.csv", strings.NewReader(trExtract))
	require.NoError(t, err)

	assert.Equal(t, "Tony Romas", report.Brand)
	assert.Equal(t, 2, report.RowsUploaded, "the junk email row never counts")
	assert.Equal(t, 1, report.RowsAfterInvalidFilter)
	assert.Equal(t, 1, report.InvalidCount)
	assert.Equal(t, []string{"bad@x.com"}, report.InvalidEmails)
	assert.NotEmpty(t, report.CleanedFile)
	assert.NotEmpty(t, report.TransformedFile)
	require.NotNil(t, report.Ingest)
	assert.Equal(t, 1, report.Ingest.BrandUpserted)

	// Only the clean row reached the brand store, already transformed.
	require.Len(t, store.contacts[domain.BrandTR], 1)
	got := store.contacts[domain.BrandTR][0]
	assert.Equal(t, "good@x.com", got.Email)
	assert.Equal(t, "Tony Romas", got.BrandLabel)
	assert.Equal(t, "TR_Silver", *got.Segment)

	// And only the clean row was projected into the master store.
	require.Len(t, store.master, 1)
	rec := store.master["good@x.com"]
	require.NotNil(t, rec)
	assert.True(t, rec.IsTR)
	assert.Equal(t, "TR_Silver", *rec.SegmentTR)
	assert.Equal(t, "Alice", *rec.Name)
}

func TestProcessUploadRejectsIncompleteSchema(t *testing.T) {
	p := newTestPipeline(t, newMemRegistryRepo(), newMemStore())

	csv := "email,name\na@x.com,Alice\n"
	_, err := p.ProcessUpload(context.Background(), "TR", "bad.csv", strings.NewReader(csv))

	var se *domain.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Missing, "card_no")
	assert.Contains(t, se.Missing, "segment")
	assert.Equal(t, []string{"email", "name"}, se.Detected)
}

func TestProcessUploadUnknownBrand(t *testing.T) {
	p := newTestPipeline(t, newMemRegistryRepo(), newMemStore())

	_, err := p.ProcessUpload(context.Background(), "bk", "x.csv", strings.NewReader(trExtract))
	var ub *domain.UnknownBrandError
	assert.ErrorAs(t, err, &ub)
}

func TestTransformStagedRoundTrip(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(t, newMemRegistryRepo(), store)
	ctx := context.Background()

	report, err := p.ProcessUpload(ctx, "MFM", "mfm.csv", strings.NewReader(
		"card_no,brand,name,phone,email,segment\n"+
			"9,The Manhattan Fish Market,Carol,111,carol@x.com,Blue\n"))
	require.NoError(t, err)

	res, err := p.TransformStaged(ctx, report.CleanedFile, "MFM")
	require.NoError(t, err)
	assert.Equal(t, "The Manhattan Fish Market", res.Brand)
	require.Len(t, res.Preview, 1)
	assert.Equal(t, "MFM_Blue", *res.Preview[0].Segment)
}

func TestTransformStagedMissingFile(t *testing.T) {
	p := newTestPipeline(t, newMemRegistryRepo(), newMemStore())

	_, err := p.TransformStaged(context.Background(), "cleaned_nope.csv", "TR")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "staged batch", nf.Kind)
}

func TestIngestStagedReplaysTransformedFile(t *testing.T) {
	store := newMemStore()
	p := newTestPipeline(t, newMemRegistryRepo(), store)
	ctx := context.Background()

	report, err := p.ProcessUpload(ctx, "NYSS", "nyss.csv", strings.NewReader(
		"card_no,brand,name,phone,email,segment\n"+
			"7,New York Steak Shack,Dave,222,dave@x.com,Red\n"))
	require.NoError(t, err)

	res, err := p.IngestStaged(ctx, report.TransformedFile, "NYSS")
	require.NoError(t, err)
	assert.Equal(t, 1, res.BrandUpserted)
}

func TestValidateClassifiesWithoutWriting(t *testing.T) {
	repo := newMemRegistryRepo("bad@x.com")
	store := newMemStore()
	p := newTestPipeline(t, repo, store)

	report, err := p.Validate(context.Background(), strings.NewReader(
		"Email\nGood@X.com\nbad@x.com\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.ValidCount)
	assert.Equal(t, 1, report.InvalidCount)
	assert.Equal(t, []string{"good@x.com"}, report.ValidEmails)
	assert.Equal(t, []string{"bad@x.com"}, report.InvalidEmails)
	assert.Empty(t, store.master, "validation must not write to any store")
}

func TestValidateRejectsOversizedUpload(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxUploadMB = 1
	reg := registry.NewService(newMemRegistryRepo())
	engine := reconcile.NewService(newMemStore(), noopLock{})
	p, err := NewPipeline(reg, engine, nil, cfg)
	require.NoError(t, err)

	// One byte over the cap: the whole batch must be rejected, not
	// quietly shortened.
	body := "email\n" + strings.Repeat("a", 1<<20-5)
	_, err = p.Validate(context.Background(), strings.NewReader(body))

	var tooLarge *domain.TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, 1, tooLarge.LimitMB)
}

func TestProcessUploadRejectsOversizedUpload(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxUploadMB = 1
	store := newMemStore()
	reg := registry.NewService(newMemRegistryRepo())
	engine := reconcile.NewService(store, noopLock{})
	p, err := NewPipeline(reg, engine, nil, cfg)
	require.NoError(t, err)

	body := strings.Repeat("x", 1<<20+1)
	_, err = p.ProcessUpload(context.Background(), "TR", "big.csv", strings.NewReader(body))

	var tooLarge *domain.TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Empty(t, store.master, "an oversized upload must not reach any store")
}

func TestValidateAcceptsUploadAtTheCap(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxUploadMB = 1
	reg := registry.NewService(newMemRegistryRepo())
	engine := reconcile.NewService(newMemStore(), noopLock{})
	p, err := NewPipeline(reg, engine, nil, cfg)
	require.NoError(t, err)

	header := "email\n"
	body := header + strings.Repeat("x", 1<<20-len(header))
	_, err = p.Validate(context.Background(), strings.NewReader(body))
	require.NoError(t, err, "a file exactly at the cap is still accepted")
}

func TestAddInvalidEmailsIsIdempotent(t *testing.T) {
	repo := newMemRegistryRepo()
	p := newTestPipeline(t, repo, newMemStore())
	ctx := context.Background()

	upload := "email_address\nBad@X.com\nworse@x.com\n"
	added, err := p.AddInvalidEmails(ctx, "tr", strings.NewReader(upload))
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = p.AddInvalidEmails(ctx, "tr", strings.NewReader(upload))
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}
