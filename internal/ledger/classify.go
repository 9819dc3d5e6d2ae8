// Package ledger reconciles a vendor's parcel rows into cash positions.
//
// For every row it derives the net amount to settle between vendor and
// delivery operator (TSB), the cash physically collected at the door (CID),
// display strings for the bill and delivery legs, and a running balance
// accumulated in date order. The functions are pure: they never fail, never
// touch I/O and may be called concurrently, e.g. once per vendor.
package ledger

import (
	"strings"

	"parcel-backend/internal/models"

	"github.com/shopspring/decimal"
)

// modeCell computes (tsb, cid) for one pb/dc combination.
type modeCell func(pb, dc decimal.Decimal) (tsb, cid decimal.Decimal)

// modeTable is keyed "{pb}_{dc}". Keys not listed settle nothing.
var modeTable = map[string]modeCell{
	models.ModeCOD + "_" + models.ModeCOD: func(pb, dc decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		return pb, pb.Add(dc)
	},
	models.ModeCOD + "_" + models.ModePrepaid: func(pb, dc decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		return pb, pb
	},
	models.ModeCOD + "_" + models.ModeDue: func(pb, dc decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		return pb.Sub(dc), pb
	},
	models.ModePrepaid + "_" + models.ModeCOD: func(pb, dc decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		return decimal.Zero, dc
	},
	models.ModePrepaid + "_" + models.ModePrepaid: func(pb, dc decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		return decimal.Zero, decimal.Zero
	},
	models.ModePrepaid + "_" + models.ModeDue: func(pb, dc decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		return dc.Neg(), decimal.Zero
	},
	models.ModeDue + "_" + models.ModeCOD: func(pb, dc decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		return pb.Neg(), dc
	},
	models.ModeDue + "_" + models.ModePrepaid: func(pb, dc decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		return pb.Neg(), decimal.Zero
	},
	models.ModeDue + "_" + models.ModeDue: func(pb, dc decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
		return pb.Neg().Sub(dc), decimal.Zero
	},
}

// Statuses containing any of these (case-insensitive) are not yet settled.
var unsettledStatuses = []string{"returned", "out for delivery", "cancel", "pending"}

// Classify returns the cash position of a single row before the exclusion
// rule is applied.
//
// Rows paid directly in cash or GPay carry no pb/dc modes; their TSB comes
// from the stored tsb override, falling back to dc_amt, then zero.
func Classify(rec *models.DeliveryRecord) (tsb, cid decimal.Decimal) {
	if paidDirect(rec.Status) && blank(rec.PB) && blank(rec.DC) {
		switch {
		case rec.TSB.Valid:
			return rec.TSB.Decimal, decimal.Zero
		case rec.DCAmt.Valid:
			return rec.DCAmt.Decimal, decimal.Zero
		default:
			return decimal.Zero, decimal.Zero
		}
	}

	cell, ok := modeTable[deref(rec.PB)+"_"+deref(rec.DC)]
	if !ok {
		return decimal.Zero, decimal.Zero
	}
	return cell(rec.PBAmt.OrZero(), rec.DCAmt.OrZero())
}

// IsExcluded reports whether a row with this status stays out of the
// balance. Rows without a status are excluded.
func IsExcluded(status *string) bool {
	if blank(status) {
		return true
	}
	s := strings.ToLower(*status)
	for _, marker := range unsettledStatuses {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func paidDirect(status *string) bool {
	if status == nil {
		return false
	}
	s := strings.ToLower(*status)
	return strings.Contains(s, "gpay") || strings.Contains(s, "cash")
}

func blank(s *string) bool {
	return s == nil || *s == ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
