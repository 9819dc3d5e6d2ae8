package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"parcel-backend/internal/models"
)

type DeliveryRecordRepository struct {
	DB *pgxpool.Pool
}

func NewDeliveryRecordRepository(db *pgxpool.Pool) *DeliveryRecordRepository {
	return &DeliveryRecordRepository{DB: db}
}

// date is read back as text so it reaches the ledger exactly as YYYY-MM-DD.
const recordColumns = `id, vendor_id, order_id, TO_CHAR(date, 'YYYY-MM-DD'), pb, dc,
       pb_amt, dc_amt, tsb, status, name, address, mobile, note, created_at, updated_at`

const insertRecord = `INSERT INTO delivery_records
         (vendor_id, order_id, date, pb, dc, pb_amt, dc_amt, tsb, status, name, address, mobile, note)
         VALUES($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
         RETURNING id, created_at, updated_at`

func insertArgs(rec *models.DeliveryRecord) []any {
	return []any{
		rec.VendorID, rec.OrderID, rec.Date, rec.PB, rec.DC,
		rec.PBAmt, rec.DCAmt, rec.TSB, rec.Status,
		rec.Name, rec.Address, rec.Mobile, rec.Note,
	}
}

func (r *DeliveryRecordRepository) Create(ctx context.Context, rec *models.DeliveryRecord) error {
	err := r.DB.QueryRow(ctx, insertRecord, insertArgs(rec)...).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	return translate(err)
}

// BulkCreate inserts all records for one vendor in a single transaction;
// either every row lands or none does.
func (r *DeliveryRecordRepository) BulkCreate(ctx context.Context, vendorID int, recs []*models.DeliveryRecord) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range recs {
		rec.VendorID = vendorID
		batch.Queue(insertRecord, insertArgs(rec)...)
	}

	results := tx.SendBatch(ctx, batch)
	for i, rec := range recs {
		if err := results.QueryRow().Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			results.Close()
			return fmt.Errorf("row %d (order %s): %w", i+1, rec.OrderID, translate(err))
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Get returns one record, scoped to its vendor.
func (r *DeliveryRecordRepository) Get(ctx context.Context, vendorID, id int) (*models.DeliveryRecord, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM delivery_records WHERE id=$1 AND vendor_id=$2`, id, vendorID)
	return scanRecord(row)
}

// ListByVendor returns a vendor's rows in insertion order. The ledger breaks
// date ties by input position, so this order is part of the balance.
func (r *DeliveryRecordRepository) ListByVendor(ctx context.Context, vendorID int) ([]models.DeliveryRecord, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+recordColumns+` FROM delivery_records WHERE vendor_id=$1 ORDER BY id`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.DeliveryRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *DeliveryRecordRepository) Update(ctx context.Context, rec *models.DeliveryRecord) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE delivery_records SET order_id=$1, date=$2::date, pb=$3, dc=$4, pb_amt=$5, dc_amt=$6, tsb=$7,
            status=$8, name=$9, address=$10, mobile=$11, note=$12, updated_at=CURRENT_TIMESTAMP
         WHERE id=$13 AND vendor_id=$14
         RETURNING created_at, updated_at`,
		rec.OrderID, rec.Date, rec.PB, rec.DC, rec.PBAmt, rec.DCAmt, rec.TSB,
		rec.Status, rec.Name, rec.Address, rec.Mobile, rec.Note, rec.ID, rec.VendorID,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	return translate(err)
}

// Delete removes a record, scoped to its vendor.
func (r *DeliveryRecordRepository) Delete(ctx context.Context, vendorID, id int) error {
	return affected(r.DB.Exec(ctx,
		`DELETE FROM delivery_records WHERE id=$1 AND vendor_id=$2`, id, vendorID))
}

func scanRecord(row pgx.Row) (*models.DeliveryRecord, error) {
	var rec models.DeliveryRecord
	err := row.Scan(&rec.ID, &rec.VendorID, &rec.OrderID, &rec.Date, &rec.PB, &rec.DC,
		&rec.PBAmt, &rec.DCAmt, &rec.TSB, &rec.Status,
		&rec.Name, &rec.Address, &rec.Mobile, &rec.Note, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}
