package ledger

import (
	"sort"

	"parcel-backend/internal/models"

	"github.com/shopspring/decimal"
)

// LatestBalance is the headline balance: the running balance of the
// latest-dated row, ties going to the row that comes last in input order.
func LatestBalance(rows []models.EnhancedDeliveryRecord) float64 {
	if len(rows) == 0 {
		return 0
	}
	latest := 0
	for i := 1; i < len(rows); i++ {
		if dateKey(rows[i].Date) >= dateKey(rows[latest].Date) {
			latest = i
		}
	}
	return rows[latest].RunningBalance
}

// LatestDate returns the greatest date among rows, or "".
func LatestDate(rows []models.EnhancedDeliveryRecord) string {
	var last string
	for i := range rows {
		if d := dateKey(rows[i].Date); d > last {
			last = d
		}
	}
	return last
}

// Summarize totals already reconciled rows.
func Summarize(rows []models.EnhancedDeliveryRecord) models.LedgerTotals {
	tsb, cid := decimal.Zero, decimal.Zero
	excluded := 0
	for i := range rows {
		if IsExcluded(rows[i].Status) {
			excluded++
		}
		tsb = tsb.Add(decimal.NewFromFloat(rows[i].CalculatedTSB))
		cid = cid.Add(decimal.NewFromFloat(rows[i].CalculatedCID))
	}
	return models.LedgerTotals{
		Records:  len(rows),
		Excluded: excluded,
		TotalTSB: tsb.InexactFloat64(),
		TotalCID: cid.InexactFloat64(),
		Balance:  LatestBalance(rows),
	}
}

// FilterByDate keeps rows dated within [from, to], comparing the YYYY-MM-DD
// prefix of each date. Empty bounds are open. With both bounds empty the rows
// are returned unchanged; otherwise undated rows are dropped.
func FilterByDate(rows []models.EnhancedDeliveryRecord, from, to string) []models.EnhancedDeliveryRecord {
	if from == "" && to == "" {
		return rows
	}
	out := make([]models.EnhancedDeliveryRecord, 0, len(rows))
	for _, r := range rows {
		d := dateKey(r.Date)
		if d == "" {
			continue
		}
		if len(d) > 10 {
			d = d[:10]
		}
		if from != "" && d < from {
			continue
		}
		if to != "" && d > to {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DuplicateOrderIDs lists order ids that appear more than once. Such rows
// share one running balance entry, so callers surface them for cleanup.
func DuplicateOrderIDs(records []models.DeliveryRecord) []string {
	seen := make(map[string]int, len(records))
	for i := range records {
		seen[records[i].OrderID]++
	}
	var dups []string
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}
