package ledger

import (
	"slices"
	"strings"

	"parcel-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Reconcile annotates each record with its cash position, display fields and
// running balance. The result has the same length and order as records.
//
// The running balance is accumulated over records sorted by date ascending
// (stable, missing dates first) and looked up again by order_id. Two rows
// sharing an order_id therefore both report the balance written last.
func Reconcile(records []models.DeliveryRecord) []models.EnhancedDeliveryRecord {
	out := make([]models.EnhancedDeliveryRecord, len(records))
	tsbs := make([]decimal.Decimal, len(records))

	for i := range records {
		rec := &records[i]
		tsb, cid := Classify(rec)
		if IsExcluded(rec.Status) {
			tsb = decimal.Zero
		}
		tsbs[i] = tsb

		out[i] = models.EnhancedDeliveryRecord{
			DeliveryRecord: *rec,
			CalculatedTSB:  tsb.InexactFloat64(),
			CalculatedCID:  cid.InexactFloat64(),
			ProductBill:    productBill(rec),
			DeliveryAmt:    deliveryAmt(rec),
			Description:    description(rec),
		}
	}

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return strings.Compare(dateKey(records[a].Date), dateKey(records[b].Date))
	})

	balances := make(map[string]decimal.Decimal, len(records))
	running := decimal.Zero
	for _, i := range order {
		if !IsExcluded(records[i].Status) {
			running = running.Add(tsbs[i])
		}
		balances[records[i].OrderID] = running
	}

	for i := range out {
		if bal, ok := balances[out[i].OrderID]; ok {
			out[i].RunningBalance = bal.InexactFloat64()
		}
	}
	return out
}

func dateKey(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}
