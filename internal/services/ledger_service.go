package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"parcel-backend/internal/cache"
	"parcel-backend/internal/ledger"
	"parcel-backend/internal/logger"
	"parcel-backend/internal/metrics"
	"parcel-backend/internal/models"
	"parcel-backend/internal/timeutil"
)

const defaultLedgerTTL = 10 * time.Minute

// history is a vendor's full reconciled ledger as kept in the cache.
type history struct {
	Records    []models.EnhancedDeliveryRecord `json:"records"`
	Duplicates []string                        `json:"duplicates,omitempty"`
}

type LedgerService struct {
	Records  RecordStore
	Vendors  VendorStore
	Cache    CacheStore
	CacheTTL time.Duration
	// Workers bounds concurrent vendor reconciles in AllBalances.
	Workers int
}

func NewLedgerService(records RecordStore, vendors VendorStore, c CacheStore, ttl time.Duration, workers int) *LedgerService {
	if ttl <= 0 {
		ttl = defaultLedgerTTL
	}
	if workers <= 0 {
		workers = 4
	}
	return &LedgerService{
		Records:  records,
		Vendors:  vendors,
		Cache:    c,
		CacheTTL: ttl,
		Workers:  workers,
	}
}

// reconcile runs the ledger and records it on the reconcile collectors.
func reconcile(records []models.DeliveryRecord) []models.EnhancedDeliveryRecord {
	start := time.Now()
	rows := ledger.Reconcile(records)
	metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	metrics.ReconciledRecords.Add(float64(len(rows)))

	excluded := 0
	for i := range rows {
		if ledger.IsExcluded(rows[i].Status) {
			excluded++
		}
	}
	metrics.ExcludedRecords.Add(float64(excluded))
	return rows
}

// ReconcileAdhoc reconciles caller-supplied rows without touching storage.
func (s *LedgerService) ReconcileAdhoc(records []models.DeliveryRecord) *models.LedgerStatement {
	rows := reconcile(records)
	return &models.LedgerStatement{
		Records:           rows,
		Totals:            ledger.Summarize(rows),
		Balance:           ledger.LatestBalance(rows),
		DuplicateOrderIDs: ledger.DuplicateOrderIDs(records),
		GeneratedAt:       timeutil.Now(),
	}
}

// history returns the vendor's reconciled rows, from cache when possible.
func (s *LedgerService) history(ctx context.Context, vendorID int) (*history, error) {
	key := cache.LedgerKey(vendorID)
	if data, ok := s.Cache.Get(ctx, key); ok {
		var h history
		if err := json.Unmarshal(data, &h); err == nil {
			metrics.StatementCache.WithLabelValues("hit").Inc()
			return &h, nil
		}
		log.Printf("[Ledger] Dropping unreadable cache entry %s", key)
	}
	metrics.StatementCache.WithLabelValues("miss").Inc()

	records, err := s.Records.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list records for vendor %d: %w", vendorID, err)
	}
	h := &history{
		Records:    reconcile(records),
		Duplicates: ledger.DuplicateOrderIDs(records),
	}

	if data, err := json.Marshal(h); err == nil {
		s.Cache.Set(ctx, key, data, s.CacheTTL)
	} else {
		logger.LogError("services", "LedgerService.history", "encode cache entry", map[string]int{"vendor_id": vendorID}, err)
	}
	return h, nil
}

// Statement returns the vendor's ledger windowed to [from, to]. Running
// balances are always computed over the vendor's full history, and Balance
// is the latest balance of that history.
func (s *LedgerService) Statement(ctx context.Context, vendorID int, from, to string) (*models.LedgerStatement, error) {
	vendor, err := s.Vendors.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	h, err := s.history(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	rows := ledger.FilterByDate(h.Records, from, to)
	if rows == nil {
		rows = []models.EnhancedDeliveryRecord{}
	}
	return &models.LedgerStatement{
		VendorID:          vendor.ID,
		VendorName:        vendor.Name,
		From:              from,
		To:                to,
		Records:           rows,
		Totals:            ledger.Summarize(rows),
		Balance:           ledger.LatestBalance(h.Records),
		DuplicateOrderIDs: h.Duplicates,
		GeneratedAt:       timeutil.Now(),
	}, nil
}

// Balance returns the headline balance of one vendor.
func (s *LedgerService) Balance(ctx context.Context, vendorID int) (*models.VendorBalance, error) {
	vendor, err := s.Vendors.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return s.balanceOf(ctx, vendor)
}

func (s *LedgerService) balanceOf(ctx context.Context, vendor *models.Vendor) (*models.VendorBalance, error) {
	h, err := s.history(ctx, vendor.ID)
	if err != nil {
		return nil, err
	}
	return &models.VendorBalance{
		VendorID:   vendor.ID,
		VendorName: vendor.Name,
		Balance:    ledger.LatestBalance(h.Records),
		Records:    len(h.Records),
		LastDate:   ledger.LatestDate(h.Records),
	}, nil
}

// AllBalances reconciles every vendor, a bounded number at a time, and
// returns their balances in vendor list order.
func (s *LedgerService) AllBalances(ctx context.Context) ([]models.VendorBalance, error) {
	if data, ok := s.Cache.Get(ctx, cache.LedgerBalances); ok {
		var cached []models.VendorBalance
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	vendors, err := s.Vendors.List(ctx)
	if err != nil {
		return nil, err
	}

	balances := make([]models.VendorBalance, len(vendors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for i, v := range vendors {
		g.Go(func() error {
			b, err := s.balanceOf(gctx, v)
			if err != nil {
				return fmt.Errorf("vendor %d: %w", v.ID, err)
			}
			balances[i] = *b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(balances); err == nil {
		s.Cache.Set(ctx, cache.LedgerBalances, data, s.CacheTTL)
	}
	return balances, nil
}

// Invalidate drops a vendor's cached ledger and the admin overview.
func (s *LedgerService) Invalidate(ctx context.Context, vendorID int) {
	s.Cache.Delete(ctx, cache.LedgerKey(vendorID), cache.LedgerBalances)
}
