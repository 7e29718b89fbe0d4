package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"enrollpay_app/internal/metrics"
	"enrollpay_app/internal/reconcile"
)

// overviewCacheTTL keeps dashboard requests cheap without letting the
// numbers drift far behind the store
const overviewCacheTTL = 5 * time.Minute

// ReconciliationService wires the source readers, the reconciliation
// engine, and the aggregators into the one operation the rest of the
// system calls: build the metrics overview for a date range.
type ReconciliationService struct {
	db     *gorm.DB
	cache  *RedisCache // optional
	reader *SourceReader
	engine *reconcile.Engine
}

// NewReconciliationService creates the service. cache may be nil, in which
// case every call recomputes from the store.
func NewReconciliationService(db *gorm.DB, cache *RedisCache, cfg reconcile.Config) *ReconciliationService {
	return &ReconciliationService{
		db:     db,
		cache:  cache,
		reader: NewSourceReader(db),
		engine: reconcile.NewEngine(cfg),
	}
}

// Records runs one full reconciliation pass and returns the canonical
// record set. Each call recomputes from the current state of the sources;
// nothing is persisted.
func (s *ReconciliationService) Records(ctx context.Context) ([]reconcile.PaymentRecord, error) {
	inputs, err := s.reader.BuildInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build reconciliation inputs: %w", err)
	}
	return s.engine.Reconcile(inputs), nil
}

// Overview computes the full metrics object for [from, to], serving from
// cache when possible
func (s *ReconciliationService) Overview(ctx context.Context, from, to time.Time) (metrics.Overview, error) {
	if s.cache == nil {
		return s.computeOverview(ctx, from, to)
	}

	key := fmt.Sprintf("metrics:overview:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	return GetOrSet(s.cache, ctx, key, overviewCacheTTL, func() (metrics.Overview, error) {
		return s.computeOverview(ctx, from, to)
	})
}

func (s *ReconciliationService) computeOverview(ctx context.Context, from, to time.Time) (metrics.Overview, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return metrics.Overview{}, err
	}

	totalStudents, err := s.reader.CountStudents(ctx)
	if err != nil {
		return metrics.Overview{}, err
	}

	overview := metrics.Aggregate(records, totalStudents, from, to)

	university, err := s.reader.ListUniversityPayoutRequests(ctx, from, to)
	if err != nil {
		return metrics.Overview{}, err
	}
	affiliate, err := s.reader.ListAffiliatePayoutRequests(ctx)
	if err != nil {
		return metrics.Overview{}, err
	}
	overview.Payouts = metrics.ComputePayouts(university, affiliate, from, to)

	return overview, nil
}

// InvalidateOverview drops the cached snapshot for a range after source
// data changes out of band
func (s *ReconciliationService) InvalidateOverview(ctx context.Context, from, to time.Time) error {
	if s.cache == nil {
		return nil
	}
	key := fmt.Sprintf("metrics:overview:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	return s.cache.Delete(ctx, key)
}
