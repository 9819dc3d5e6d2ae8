package ledger

import (
	"reflect"
	"testing"

	"parcel-backend/internal/models"
)

func TestLatestBalance(t *testing.T) {
	if got := LatestBalance(nil); got != 0 {
		t.Fatalf("LatestBalance(nil) = %v, want 0", got)
	}

	out := Reconcile([]models.DeliveryRecord{
		record("R3", "2024-01-03", "COD", 10, "Prepaid", 0, "Delivered"),
		record("R1", "2024-01-01", "COD", 20, "Prepaid", 0, "Delivered"),
		record("R2", "2024-01-02", "COD", 30, "Prepaid", 0, "Delivered"),
		record("N", "", "COD", 1, "Prepaid", 0, "Delivered"),
	})
	if got := LatestBalance(out); got != 61 {
		t.Fatalf("LatestBalance = %v, want 61", got)
	}
	if got := LatestDate(out); got != "2024-01-03" {
		t.Fatalf("LatestDate = %q, want 2024-01-03", got)
	}
}

func TestSummarize(t *testing.T) {
	out := Reconcile([]models.DeliveryRecord{
		record("A", "2024-01-01", "COD", 100, "COD", 20, "Delivered"),
		record("B", "2024-01-02", "COD", 100, "COD", 20, "Returned"),
		record("C", "2024-01-03", "Due", 50, "Prepaid", 10, "Delivered"),
	})
	got := Summarize(out)
	want := models.LedgerTotals{Records: 3, Excluded: 1, TotalTSB: 50, TotalCID: 240, Balance: 50}
	if got != want {
		t.Fatalf("Summarize = %+v, want %+v", got, want)
	}
}

func TestFilterByDate(t *testing.T) {
	out := Reconcile([]models.DeliveryRecord{
		record("A", "2024-01-01", "COD", 1, "Prepaid", 0, "Delivered"),
		record("B", "2024-01-15T10:30:00", "COD", 2, "Prepaid", 0, "Delivered"),
		record("C", "2024-02-01", "COD", 3, "Prepaid", 0, "Delivered"),
		record("D", "", "COD", 4, "Prepaid", 0, "Delivered"),
	})

	ids := func(rows []models.EnhancedDeliveryRecord) []string {
		var s []string
		for _, r := range rows {
			s = append(s, r.OrderID)
		}
		return s
	}

	cases := []struct {
		from, to string
		want     []string
	}{
		{"", "", []string{"A", "B", "C", "D"}},
		{"2024-01-01", "2024-01-31", []string{"A", "B"}},
		{"2024-01-15", "", []string{"B", "C"}},
		{"", "2024-01-01", []string{"A"}},
		{"2025-01-01", "", nil},
	}
	for _, tc := range cases {
		got := ids(FilterByDate(out, tc.from, tc.to))
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("FilterByDate(%q,%q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}

	// Windowing never recomputes balances.
	window := FilterByDate(out, "2024-02-01", "")
	if window[0].RunningBalance != 10 {
		t.Fatalf("windowed balance = %v, want 10", window[0].RunningBalance)
	}
}

func TestDuplicateOrderIDs(t *testing.T) {
	records := []models.DeliveryRecord{
		{OrderID: "B"}, {OrderID: "A"}, {OrderID: "B"}, {OrderID: "C"}, {OrderID: "A"}, {OrderID: "A"},
	}
	if got, want := DuplicateOrderIDs(records), []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("DuplicateOrderIDs = %v, want %v", got, want)
	}
	if got := DuplicateOrderIDs(nil); got != nil {
		t.Fatalf("DuplicateOrderIDs(nil) = %v, want nil", got)
	}
}
