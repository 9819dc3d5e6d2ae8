package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"parcel-backend/internal/models"
	"parcel-backend/internal/timeutil"
)

type DeliveryRecordService struct {
	Repo   RecordStore
	Ledger *LedgerService
	Events EventPublisher
}

func NewDeliveryRecordService(repo RecordStore, ledgerSvc *LedgerService, events EventPublisher) *DeliveryRecordService {
	return &DeliveryRecordService{Repo: repo, Ledger: ledgerSvc, Events: events}
}

// normalize trims the free-text columns and turns blanks into NULLs so the
// ledger sees one notion of "absent".
func normalize(rec *models.DeliveryRecord) {
	rec.OrderID = strings.TrimSpace(rec.OrderID)
	for _, p := range []**string{&rec.Date, &rec.PB, &rec.DC, &rec.Status, &rec.Name, &rec.Address, &rec.Mobile, &rec.Note} {
		if *p == nil {
			continue
		}
		v := strings.TrimSpace(**p)
		if v == "" {
			*p = nil
			continue
		}
		*p = &v
	}
}

func (s *DeliveryRecordService) ListRecords(ctx context.Context, vendorID int) ([]models.DeliveryRecord, error) {
	return s.Repo.ListByVendor(ctx, vendorID)
}

func (s *DeliveryRecordService) GetRecord(ctx context.Context, vendorID, id int) (*models.DeliveryRecord, error) {
	return s.Repo.Get(ctx, vendorID, id)
}

func (s *DeliveryRecordService) CreateRecord(ctx context.Context, vendorID int, req *models.CreateDeliveryRecordRequest) (*models.DeliveryRecord, error) {
	rec := req.ToRecord(vendorID)
	normalize(rec)
	if rec.OrderID == "" {
		return nil, fmt.Errorf("%w: order_id is required", models.ErrInvalidInput)
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.changed(ctx, models.LedgerEvent{Type: models.LedgerEventRecordCreated, VendorID: vendorID, OrderID: rec.OrderID})
	return rec, nil
}

// ImportRecords stores a batch atomically. Rows whose order_id is blank
// reject the whole batch.
func (s *DeliveryRecordService) ImportRecords(ctx context.Context, vendorID int, req *models.ImportDeliveryRecordsRequest) ([]*models.DeliveryRecord, error) {
	recs := make([]*models.DeliveryRecord, 0, len(req.Records))
	for i := range req.Records {
		rec := req.Records[i].ToRecord(vendorID)
		normalize(rec)
		if rec.OrderID == "" {
			return nil, fmt.Errorf("%w: row %d has no order_id", models.ErrInvalidInput, i+1)
		}
		recs = append(recs, rec)
	}
	if err := s.Repo.BulkCreate(ctx, vendorID, recs); err != nil {
		return nil, err
	}
	log.Printf("[Records] Imported %d rows for vendor %d", len(recs), vendorID)
	s.changed(ctx, models.LedgerEvent{Type: models.LedgerEventRecordsImported, VendorID: vendorID, Count: len(recs)})
	return recs, nil
}

func (s *DeliveryRecordService) UpdateRecord(ctx context.Context, vendorID, id int, req *models.CreateDeliveryRecordRequest) (*models.DeliveryRecord, error) {
	rec := req.ToRecord(vendorID)
	rec.ID = id
	normalize(rec)
	if rec.OrderID == "" {
		return nil, fmt.Errorf("%w: order_id is required", models.ErrInvalidInput)
	}
	if err := s.Repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	s.changed(ctx, models.LedgerEvent{Type: models.LedgerEventRecordUpdated, VendorID: vendorID, OrderID: rec.OrderID})
	return rec, nil
}

func (s *DeliveryRecordService) DeleteRecord(ctx context.Context, vendorID, id int) error {
	rec, err := s.Repo.Get(ctx, vendorID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, vendorID, id); err != nil {
		return err
	}
	s.changed(ctx, models.LedgerEvent{Type: models.LedgerEventRecordDeleted, VendorID: vendorID, OrderID: rec.OrderID})
	return nil
}

// changed invalidates the vendor's ledger, recomputes its balance (which
// also re-warms the cache) and publishes evt.
func (s *DeliveryRecordService) changed(ctx context.Context, evt models.LedgerEvent) {
	s.Ledger.Invalidate(ctx, evt.VendorID)
	if b, err := s.Ledger.Balance(ctx, evt.VendorID); err == nil {
		evt.Balance = b.Balance
	} else {
		log.Printf("[Records] Balance refresh failed for vendor %d: %v", evt.VendorID, err)
	}
	evt.At = timeutil.Now()
	if s.Events != nil {
		s.Events.Publish(evt)
	}
}
