package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ignite/email-cleanup/internal/domain"
	"github.com/ignite/email-cleanup/internal/pkg/distlock"
	"github.com/ignite/email-cleanup/internal/pkg/logger"
)

// LockKey names the distributed lock that serializes master rebuilds.
const LockKey = "master_emails:rebuild"

// Service is the reconciliation engine. It owns all writes into the
// master record store; the surrounding system never mutates that store
// except through the entry points here.
type Service struct {
	store Store
	lock  distlock.Lock
	now   func() time.Time
}

// NewService creates the engine. The lock serializes RebuildMaster; pass
// a lock built from distlock.New so Redis is used when available and
// PostgreSQL advisory locks otherwise.
func NewService(store Store, lock distlock.Lock) *Service {
	return &Service{store: store, lock: lock, now: time.Now}
}

// IngestResult reports what a brand batch did to the stores.
type IngestResult struct {
	Brand         domain.Brand `json:"brand"`
	BrandUpserted int          `json:"inserted_to_brand"`
	MasterApplied int          `json:"master_applied"`
}

// IngestBrandBatch writes a cleaned, transformed brand batch into the
// brand's contact store and immediately projects it into the master store
// via the segment upsert. Both writes commit together or not at all, so a
// brand store can never disagree with its own master projection because
// of a crash between the two.
//
// Records must already have survived denylist filtering; this method does
// no filtering of its own.
func (s *Service) IngestBrandBatch(ctx context.Context, b domain.Brand, recs []domain.BrandContact) (*IngestResult, error) {
	if !b.Valid() {
		return nil, &domain.UnknownBrandError{Tag: string(b)}
	}

	res := &IngestResult{Brand: b}
	err := s.store.InTx(ctx, func(tx Store) error {
		n, err := tx.UpsertContacts(ctx, b, recs)
		if err != nil {
			return fmt.Errorf("upsert %s contacts: %w", b.Code(), err)
		}
		res.BrandUpserted = n

		applied, err := s.applySegmentUpsert(ctx, tx, b, recs)
		if err != nil {
			return err
		}
		res.MasterApplied = applied
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("brand batch ingested",
		"brand", b.Code(),
		"brand_upserted", res.BrandUpserted,
		"master_applied", res.MasterApplied)
	return res, nil
}

// ApplySegmentUpsert projects a brand batch into the master store on its
// own transaction. Identity fields coalesce on null: once card_no, name,
// or phone is known for a customer, a later batch with a blank value
// leaves it alone. Other brands' segments and flags are never touched,
// and a brand's membership flag is never removed by this path.
func (s *Service) ApplySegmentUpsert(ctx context.Context, b domain.Brand, recs []domain.BrandContact) (int, error) {
	if !b.Valid() {
		return 0, &domain.UnknownBrandError{Tag: string(b)}
	}
	var applied int
	err := s.store.InTx(ctx, func(tx Store) error {
		n, err := s.applySegmentUpsert(ctx, tx, b, recs)
		applied = n
		return err
	})
	return applied, err
}

func (s *Service) applySegmentUpsert(ctx context.Context, tx Store, b domain.Brand, recs []domain.BrandContact) (int, error) {
	now := s.now().UTC()
	applied := 0
	for _, c := range recs {
		email := domain.NormalizeEmail(c.Email)
		if email == "" {
			continue
		}

		existing, err := tx.GetMaster(ctx, email)
		if err != nil {
			return 0, fmt.Errorf("load master %s: %w", logger.MaskEmail(email), err)
		}
		merged := mergeContribution(existing, b, c, policyCoalesce, now)
		if _, err := tx.PutMaster(ctx, merged); err != nil {
			return 0, fmt.Errorf("upsert master %s: %w", logger.MaskEmail(email), err)
		}
		applied++
	}
	return applied, nil
}

// RebuildResult reports what a full rebuild did to the master store.
type RebuildResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}

// RebuildMaster recomputes the master store from a single consistent
// snapshot of all three brand stores.
//
// Contributing records are grouped by canonical email and visited in
// brand precedence order (TR, MFM, NYSS). The first record seen for an
// email seeds the identity fields; later contributors only set their own
// segment and flag. Existing master rows are fully overwritten with the
// recomputed values. Emails present in the master store but absent from
// every brand store are left untouched.
//
// At most one rebuild runs at a time; a second request while the lock is
// held fails fast with ErrRebuildInProgress. Any read or write failure
// rolls back the whole rebuild.
func (s *Service) RebuildMaster(ctx context.Context) (*RebuildResult, error) {
	acquired, err := s.lock.TryAcquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire rebuild lock: %w", err)
	}
	if !acquired {
		return nil, ErrRebuildInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("release rebuild lock failed", "err", err)
		}
	}()

	start := s.now()
	res := &RebuildResult{}
	err = s.store.InSnapshotTx(ctx, func(tx Store) error {
		now := s.now().UTC()
		grouped := make(map[string]*domain.MasterRecord)

		for _, b := range domain.Brands() {
			recs, err := tx.AllContacts(ctx, b)
			if err != nil {
				return fmt.Errorf("snapshot %s contacts: %w", b.Code(), err)
			}
			for _, c := range recs {
				email := domain.NormalizeEmail(c.Email)
				if email == "" {
					continue
				}
				grouped[email] = mergeContribution(grouped[email], b, c, policyFirstSeen, now)
			}
		}

		// Deterministic write order keeps runs comparable and avoids
		// deadlocks against concurrent incremental upserts.
		emails := make([]string, 0, len(grouped))
		for email := range grouped {
			emails = append(emails, email)
		}
		sort.Strings(emails)

		for _, email := range emails {
			inserted, err := tx.PutMaster(ctx, grouped[email])
			if err != nil {
				return fmt.Errorf("rebuild master %s: %w", logger.MaskEmail(email), err)
			}
			if inserted {
				res.Inserted++
			} else {
				res.Updated++
			}
		}
		res.Total = res.Inserted + res.Updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("master rebuild complete",
		"inserted", res.Inserted,
		"updated", res.Updated,
		"duration", s.now().Sub(start).String())
	return res, nil
}
