package ledger

import (
	"encoding/json"
	"reflect"
	"testing"

	"parcel-backend/internal/models"
)

func str(s string) *string { return &s }

func amt(v float64) models.Amount { return models.NewAmount(v) }

func record(orderID, date, pb string, pbAmt float64, dc string, dcAmt float64, status string) models.DeliveryRecord {
	r := models.DeliveryRecord{
		VendorID: 7,
		OrderID:  orderID,
		PBAmt:    amt(pbAmt),
		DCAmt:    amt(dcAmt),
	}
	if date != "" {
		r.Date = str(date)
	}
	if pb != "" {
		r.PB = str(pb)
	}
	if dc != "" {
		r.DC = str(dc)
	}
	if status != "" {
		r.Status = str(status)
	}
	return r
}

func TestClassify_ModeTable(t *testing.T) {
	cases := []struct {
		pb, dc  string
		wantTSB float64
		wantCID float64
	}{
		{"COD", "COD", 100, 120},
		{"COD", "Prepaid", 100, 100},
		{"COD", "Due", 80, 100},
		{"Prepaid", "COD", 0, 20},
		{"Prepaid", "Prepaid", 0, 0},
		{"Prepaid", "Due", -20, 0},
		{"Due", "COD", -100, 20},
		{"Due", "Prepaid", -100, 0},
		{"Due", "Due", -120, 0},
		{"COD", "", 0, 0},
		{"", "COD", 0, 0},
		{"cod", "COD", 0, 0},
		{"Card", "Due", 0, 0},
		{"", "", 0, 0},
	}
	for _, tc := range cases {
		rec := record("A1", "2024-01-01", tc.pb, 100, tc.dc, 20, "Delivered")
		tsb, cid := Classify(&rec)
		if tsb.InexactFloat64() != tc.wantTSB || cid.InexactFloat64() != tc.wantCID {
			t.Errorf("Classify(%q,%q) = (%v,%v), want (%v,%v)",
				tc.pb, tc.dc, tsb, cid, tc.wantTSB, tc.wantCID)
		}
	}
}

func TestClassify_NullAmountsDefaultToZero(t *testing.T) {
	rec := models.DeliveryRecord{OrderID: "A1", PB: str("Due"), DC: str("Due"), Status: str("Delivered")}
	tsb, cid := Classify(&rec)
	if !tsb.IsZero() || !cid.IsZero() {
		t.Fatalf("expected zeros, got (%v,%v)", tsb, cid)
	}
}

func TestClassify_CashOverride(t *testing.T) {
	cases := []struct {
		name    string
		rec     models.DeliveryRecord
		wantTSB float64
	}{
		{
			name:    "falls back to dc_amt",
			rec:     models.DeliveryRecord{OrderID: "G1", DCAmt: amt(75), Status: str("Paid via GPay")},
			wantTSB: 75,
		},
		{
			name:    "tsb override wins",
			rec:     models.DeliveryRecord{OrderID: "G2", TSB: amt(40), DCAmt: amt(75), Status: str("CASH received")},
			wantTSB: 40,
		},
		{
			name:    "zero tsb is still an override",
			rec:     models.DeliveryRecord{OrderID: "G3", TSB: amt(0), DCAmt: amt(75), Status: str("gpay")},
			wantTSB: 0,
		},
		{
			name:    "nothing to fall back to",
			rec:     models.DeliveryRecord{OrderID: "G4", Status: str("cash")},
			wantTSB: 0,
		},
		{
			name:    "empty modes count as absent",
			rec:     models.DeliveryRecord{OrderID: "G5", PB: str(""), DC: str(""), DCAmt: amt(30), Status: str("Cash")},
			wantTSB: 30,
		},
		{
			name: "modes present skip the override",
			rec: models.DeliveryRecord{
				OrderID: "G6", PB: str("COD"), PBAmt: amt(50), DCAmt: amt(75), Status: str("gpay"),
			},
			wantTSB: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tsb, cid := Classify(&tc.rec)
			if tsb.InexactFloat64() != tc.wantTSB {
				t.Fatalf("tsb = %v, want %v", tsb, tc.wantTSB)
			}
			if !cid.IsZero() {
				t.Fatalf("cid = %v, want 0", cid)
			}
		})
	}
}

func TestIsExcluded(t *testing.T) {
	cases := []struct {
		status *string
		want   bool
	}{
		{nil, true},
		{str(""), true},
		{str("Returned"), true},
		{str("Out For Delivery"), true},
		{str("Cancelled"), true},
		{str("cancel requested"), true},
		{str("PENDING"), true},
		{str("Delivered"), false},
		{str("Paid via GPay"), false},
		{str("something else"), false},
	}
	for _, tc := range cases {
		if got := IsExcluded(tc.status); got != tc.want {
			t.Errorf("IsExcluded(%v) = %v, want %v", deref(tc.status), got, tc.want)
		}
	}
}

func TestReconcile_Empty(t *testing.T) {
	out := Reconcile(nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
	out = Reconcile([]models.DeliveryRecord{})
	if len(out) != 0 {
		t.Fatalf("expected empty slice, got %d rows", len(out))
	}
}

func TestReconcile_ConcreteCases(t *testing.T) {
	records := []models.DeliveryRecord{
		record("A", "2024-01-01", "COD", 100, "COD", 20, "Delivered"),
		record("B", "2024-01-02", "Due", 50, "Prepaid", 10, "Delivered"),
		record("C", "2024-01-03", "COD", 80, "Due", 15, "Delivered"),
	}
	out := Reconcile(records)

	want := []struct{ tsb, cid, bal float64 }{
		{100, 120, 100},
		{-50, 0, 50},
		{65, 80, 115},
	}
	for i, w := range want {
		if out[i].CalculatedTSB != w.tsb || out[i].CalculatedCID != w.cid || out[i].RunningBalance != w.bal {
			t.Errorf("row %d = (tsb %v, cid %v, bal %v), want (%v, %v, %v)", i,
				out[i].CalculatedTSB, out[i].CalculatedCID, out[i].RunningBalance, w.tsb, w.cid, w.bal)
		}
	}
}

func TestReconcile_ExcludedKeepsDisplayFields(t *testing.T) {
	rec := record("A", "2024-01-01", "COD", 100, "COD", 20, "Cancelled")
	out := Reconcile([]models.DeliveryRecord{rec})[0]

	if out.CalculatedTSB != 0 {
		t.Fatalf("calculatedTsb = %v, want 0", out.CalculatedTSB)
	}
	if out.CalculatedCID != 120 {
		t.Fatalf("calculatedCid = %v, want 120", out.CalculatedCID)
	}
	if !out.ProductBill.Valid || out.ProductBill.Value != 100 {
		t.Fatalf("productBill = %v, want 100", out.ProductBill)
	}
	if out.DeliveryAmt != "20 (COD)" {
		t.Fatalf("deliveryAmt = %q, want %q", out.DeliveryAmt, "20 (COD)")
	}
	if out.RunningBalance != 0 {
		t.Fatalf("runningBalance = %v, want 0", out.RunningBalance)
	}
}

func TestReconcile_CashOverrideRow(t *testing.T) {
	rec := models.DeliveryRecord{OrderID: "G", DCAmt: amt(75), Status: str("Paid via GPay")}
	out := Reconcile([]models.DeliveryRecord{rec})[0]
	if out.CalculatedTSB != 75 || out.CalculatedCID != 0 {
		t.Fatalf("got (tsb %v, cid %v), want (75, 0)", out.CalculatedTSB, out.CalculatedCID)
	}
	if out.ProductBill.Valid {
		t.Fatalf("productBill = %v, want placeholder", out.ProductBill)
	}
	if out.DeliveryAmt != "-" {
		t.Fatalf("deliveryAmt = %q, want -", out.DeliveryAmt)
	}
}

func TestReconcile_RunningBalanceOrdering(t *testing.T) {
	records := []models.DeliveryRecord{
		record("R3", "2024-01-03", "COD", 10, "Prepaid", 0, "Delivered"),
		record("R1", "2024-01-01", "COD", 20, "Prepaid", 0, "Delivered"),
		record("R2", "2024-01-02", "COD", 30, "Prepaid", 0, "Delivered"),
	}
	out := Reconcile(records)

	// R3 is latest, so its balance is 20+30+10.
	got := []float64{out[0].RunningBalance, out[1].RunningBalance, out[2].RunningBalance}
	want := []float64{60, 20, 50}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("running balances = %v, want %v", got, want)
	}
	for i := range records {
		if out[i].OrderID != records[i].OrderID {
			t.Fatalf("output order changed at %d: %s != %s", i, out[i].OrderID, records[i].OrderID)
		}
	}
}

func TestReconcile_NullDatesSortFirstAndStable(t *testing.T) {
	records := []models.DeliveryRecord{
		record("D1", "2024-01-01", "COD", 5, "Prepaid", 0, "Delivered"),
		record("N1", "", "COD", 1, "Prepaid", 0, "Delivered"),
		record("N2", "", "COD", 2, "Prepaid", 0, "Delivered"),
	}
	out := Reconcile(records)

	if out[1].RunningBalance != 1 {
		t.Fatalf("N1 balance = %v, want 1", out[1].RunningBalance)
	}
	if out[2].RunningBalance != 3 {
		t.Fatalf("N2 balance = %v, want 3", out[2].RunningBalance)
	}
	if out[0].RunningBalance != 8 {
		t.Fatalf("D1 balance = %v, want 8", out[0].RunningBalance)
	}
}

func TestReconcile_EqualDatesKeepInputOrder(t *testing.T) {
	records := []models.DeliveryRecord{
		record("E1", "2024-02-01", "COD", 10, "Prepaid", 0, "Delivered"),
		record("E2", "2024-02-01", "Due", 4, "Prepaid", 0, "Delivered"),
		record("E3", "2024-02-01", "COD", 1, "Prepaid", 0, "Delivered"),
	}
	out := Reconcile(records)
	got := []float64{out[0].RunningBalance, out[1].RunningBalance, out[2].RunningBalance}
	if want := []float64{10, 6, 7}; !reflect.DeepEqual(got, want) {
		t.Fatalf("balances = %v, want %v", got, want)
	}
}

func TestReconcile_ExcludedRowsCarryBalance(t *testing.T) {
	records := []models.DeliveryRecord{
		record("A", "2024-01-01", "COD", 10, "Prepaid", 0, "Delivered"),
		record("B", "2024-01-02", "COD", 99, "Prepaid", 0, "Pending"),
		record("C", "2024-01-03", "COD", 5, "Prepaid", 0, ""),
		record("D", "2024-01-04", "COD", 1, "Prepaid", 0, "Delivered"),
	}
	out := Reconcile(records)
	got := []float64{out[0].RunningBalance, out[1].RunningBalance, out[2].RunningBalance, out[3].RunningBalance}
	if want := []float64{10, 10, 10, 11}; !reflect.DeepEqual(got, want) {
		t.Fatalf("balances = %v, want %v", got, want)
	}
}

func TestReconcile_DuplicateOrderIDsShareLastBalance(t *testing.T) {
	records := []models.DeliveryRecord{
		record("DUP", "2024-01-01", "COD", 10, "Prepaid", 0, "Delivered"),
		record("OTHER", "2024-01-02", "COD", 5, "Prepaid", 0, "Delivered"),
		record("DUP", "2024-01-03", "COD", 20, "Prepaid", 0, "Delivered"),
	}
	out := Reconcile(records)
	if out[0].RunningBalance != 35 || out[2].RunningBalance != 35 {
		t.Fatalf("duplicate balances = (%v, %v), want (35, 35)", out[0].RunningBalance, out[2].RunningBalance)
	}
	if out[1].RunningBalance != 15 {
		t.Fatalf("OTHER balance = %v, want 15", out[1].RunningBalance)
	}
}

func TestReconcile_DisplayFields(t *testing.T) {
	cases := []struct {
		name        string
		rec         models.DeliveryRecord
		productBill string
		delivery    string
		desc        string
	}{
		{
			name:        "cod bill with contact",
			rec:         models.DeliveryRecord{PB: str("COD"), PBAmt: amt(250), DC: str("Due"), DCAmt: amt(12.5), Name: str("Asha"), Address: str("12 Hill Rd"), Mobile: str("98400")},
			productBill: "250", delivery: "12.5 (Due)", desc: "Asha, 12 Hill Rd, 98400",
		},
		{
			name:        "due bill is negative",
			rec:         models.DeliveryRecord{PB: str("Due"), PBAmt: amt(40), Mobile: str("98400")},
			productBill: "-40", delivery: "-", desc: "98400",
		},
		{
			name:        "prepaid bill shows zero",
			rec:         models.DeliveryRecord{PB: str("Prepaid"), PBAmt: amt(40), Name: str(""), Address: str("Depot")},
			productBill: "0", delivery: "-", desc: "Depot",
		},
		{
			name:        "zero amounts are placeholders",
			rec:         models.DeliveryRecord{PB: str("COD"), PBAmt: amt(0), DC: str("COD"), DCAmt: amt(0)},
			productBill: "-", delivery: "-", desc: "-",
		},
		{
			name:        "unknown bill mode shows amount",
			rec:         models.DeliveryRecord{PB: str("Card"), PBAmt: amt(15)},
			productBill: "15", delivery: "-", desc: "-",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Reconcile([]models.DeliveryRecord{tc.rec})[0]
			if out.ProductBill.String() != tc.productBill {
				t.Errorf("productBill = %q, want %q", out.ProductBill.String(), tc.productBill)
			}
			if out.DeliveryAmt != tc.delivery {
				t.Errorf("deliveryAmt = %q, want %q", out.DeliveryAmt, tc.delivery)
			}
			if out.Description != tc.desc {
				t.Errorf("description = %q, want %q", out.Description, tc.desc)
			}
		})
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	records := []models.DeliveryRecord{
		record("A", "2024-03-02", "COD", 10.1, "COD", 0.2, "Delivered"),
		record("B", "", "Due", 3.3, "Due", 1.1, "Delivered"),
		record("C", "2024-03-01", "Prepaid", 0, "Due", 7, "Cash"),
	}
	first, err := json.Marshal(Reconcile(records))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(Reconcile(records))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatalf("reconcile is not deterministic:\n%s\n%s", first, second)
	}
}

func TestReconcile_DoesNotDriftOnDecimals(t *testing.T) {
	records := []models.DeliveryRecord{
		record("A", "2024-01-01", "COD", 0.1, "Prepaid", 0, "Delivered"),
		record("B", "2024-01-02", "COD", 0.2, "Prepaid", 0, "Delivered"),
	}
	out := Reconcile(records)
	if out[1].RunningBalance != 0.3 {
		t.Fatalf("balance = %v, want 0.3", out[1].RunningBalance)
	}
}

func TestReconcile_JSONShape(t *testing.T) {
	rec := record("A", "2024-01-01", "COD", 100, "COD", 20, "Delivered")
	b, err := json.Marshal(Reconcile([]models.DeliveryRecord{rec})[0])
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"order_id", "pb_amt", "calculatedTsb", "calculatedCid", "productBill", "deliveryAmt", "description", "runningBalance"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, b)
		}
	}
	if m["calculatedTsb"] != float64(100) {
		t.Errorf("calculatedTsb = %v, want number 100", m["calculatedTsb"])
	}
	if m["description"] != "-" {
		t.Errorf("description = %v, want -", m["description"])
	}
}
