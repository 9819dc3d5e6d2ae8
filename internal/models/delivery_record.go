package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Settlement modes for the product bill (pb) and delivery charge (dc) legs.
const (
	ModeCOD     = "COD"
	ModePrepaid = "Prepaid"
	ModeDue     = "Due"
)

// Placeholder is shown in place of display values that do not apply.
const Placeholder = "-"

// DeliveryRecord is one parcel transaction row for a vendor.
//
// Every field except OrderID and VendorID is optional; pb and dc are kept as
// free text because historical rows carry values outside COD/Prepaid/Due.
type DeliveryRecord struct {
	ID        int        `json:"id,omitempty"`
	VendorID  int        `json:"vendor_id"`
	OrderID   string     `json:"order_id"`
	Date      *string    `json:"date"`
	PB        *string    `json:"pb"`
	DC        *string    `json:"dc"`
	PBAmt     Amount     `json:"pb_amt"`
	DCAmt     Amount     `json:"dc_amt"`
	TSB       Amount     `json:"tsb"`
	Status    *string    `json:"status"`
	Name      *string    `json:"name"`
	Address   *string    `json:"address"`
	Mobile    *string    `json:"mobile"`
	Note      *string    `json:"note"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// EnhancedDeliveryRecord is a DeliveryRecord annotated by the ledger.
type EnhancedDeliveryRecord struct {
	DeliveryRecord
	CalculatedTSB  float64       `json:"calculatedTsb"`
	CalculatedCID  float64       `json:"calculatedCid"`
	ProductBill    DisplayAmount `json:"productBill"`
	DeliveryAmt    string        `json:"deliveryAmt"`
	Description    string        `json:"description"`
	RunningBalance float64       `json:"runningBalance"`
}

// DisplayAmount is a number that renders as "-" when it does not apply.
type DisplayAmount struct {
	Value float64
	Valid bool
}

// ShowAmount wraps a value that should be displayed.
func ShowAmount(v float64) DisplayAmount {
	return DisplayAmount{Value: v, Valid: true}
}

func (d DisplayAmount) String() string {
	if !d.Valid {
		return Placeholder
	}
	return strconv.FormatFloat(d.Value, 'f', -1, 64)
}

func (d DisplayAmount) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return json.Marshal(Placeholder)
	}
	return json.Marshal(d.Value)
}

func (d *DisplayAmount) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		*d = DisplayAmount{}
		return nil
	}
	*d = ShowAmount(v)
	return nil
}

// CreateDeliveryRecordRequest is the body for creating or replacing a parcel row.
type CreateDeliveryRecordRequest struct {
	OrderID string  `json:"order_id" validate:"required,max=64"`
	Date    *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	PB      *string `json:"pb" validate:"omitempty,max=32"`
	DC      *string `json:"dc" validate:"omitempty,max=32"`
	PBAmt   Amount  `json:"pb_amt"`
	DCAmt   Amount  `json:"dc_amt"`
	TSB     Amount  `json:"tsb"`
	Status  *string `json:"status" validate:"omitempty,max=64"`
	Name    *string `json:"name" validate:"omitempty,max=255"`
	Address *string `json:"address" validate:"omitempty,max=1000"`
	Mobile  *string `json:"mobile" validate:"omitempty,max=32"`
	Note    *string `json:"note"`
}

// ToRecord builds a DeliveryRecord for the given vendor.
func (r *CreateDeliveryRecordRequest) ToRecord(vendorID int) *DeliveryRecord {
	return &DeliveryRecord{
		VendorID: vendorID,
		OrderID:  r.OrderID,
		Date:     r.Date,
		PB:       r.PB,
		DC:       r.DC,
		PBAmt:    r.PBAmt,
		DCAmt:    r.DCAmt,
		TSB:      r.TSB,
		Status:   r.Status,
		Name:     r.Name,
		Address:  r.Address,
		Mobile:   r.Mobile,
		Note:     r.Note,
	}
}

// ImportDeliveryRecordsRequest carries a batch of rows for one vendor.
type ImportDeliveryRecordsRequest struct {
	Records []CreateDeliveryRecordRequest `json:"records" validate:"required,min=1,max=5000,dive"`
}
