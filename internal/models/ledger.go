package models

import "time"

// LedgerTotals summarises a set of reconciled records.
type LedgerTotals struct {
	Records  int     `json:"records"`
	Excluded int     `json:"excluded"`
	TotalTSB float64 `json:"total_tsb"`
	TotalCID float64 `json:"total_cid"`
	Balance  float64 `json:"balance"` // running balance of the latest-dated record
}

// LedgerStatement is a vendor's reconciled ledger, optionally windowed by date.
// Balance always reflects the full history regardless of the window.
type LedgerStatement struct {
	VendorID          int                      `json:"vendor_id"`
	VendorName        string                   `json:"vendor_name"`
	From              string                   `json:"from,omitempty"`
	To                string                   `json:"to,omitempty"`
	Records           []EnhancedDeliveryRecord `json:"records"`
	Totals            LedgerTotals             `json:"totals"`
	Balance           float64                  `json:"balance"`
	DuplicateOrderIDs []string                 `json:"duplicate_order_ids,omitempty"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

// VendorBalance is the headline balance of one vendor.
type VendorBalance struct {
	VendorID   int     `json:"vendor_id"`
	VendorName string  `json:"vendor_name"`
	Balance    float64 `json:"balance"`
	Records    int     `json:"records"`
	LastDate   string  `json:"last_date,omitempty"`
}

// LedgerEventType names a change pushed to the live ledger feed.
type LedgerEventType string

const (
	LedgerEventRecordCreated   LedgerEventType = "RECORD_CREATED"
	LedgerEventRecordUpdated   LedgerEventType = "RECORD_UPDATED"
	LedgerEventRecordDeleted   LedgerEventType = "RECORD_DELETED"
	LedgerEventRecordsImported LedgerEventType = "RECORDS_IMPORTED"
)

// LedgerEvent is broadcast to dashboard clients after a vendor's rows change.
type LedgerEvent struct {
	Type     LedgerEventType `json:"type"`
	VendorID int             `json:"vendor_id"`
	OrderID  string          `json:"order_id,omitempty"`
	Count    int             `json:"count,omitempty"`
	Balance  float64         `json:"balance"`
	At       time.Time       `json:"at"`
}
