package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf/v2"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"parcel-backend/internal/metrics"
	"parcel-backend/internal/models"
	"parcel-backend/internal/timeutil"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"

	ledgerSheet = "Ledger"
)

// Export is a generated statement file.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService struct {
	Ledger *LedgerService
	// Archive is nil when storage is disabled.
	Archive Archiver
}

func NewExportService(ledgerSvc *LedgerService, archive Archiver) *ExportService {
	return &ExportService{Ledger: ledgerSvc, Archive: archive}
}

var statementHeaders = []string{
	"Date", "Order ID", "Description", "Status", "Product Bill",
	"Delivery", "TSB", "CID", "Running Balance", "Note",
}

// BuildStatementWorkbook lays a statement out as a single-sheet workbook:
// a header row, one row per record and a closing balance row.
func BuildStatementWorkbook(stmt *models.LedgerStatement) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, h := range statementHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ledgerSheet, cell, h)
	}
	f.SetCellStyle(ledgerSheet, "A1", "J1", bold)

	row := 2
	for i := range stmt.Records {
		r := &stmt.Records[i]
		var bill any = models.Placeholder
		if r.ProductBill.Valid {
			bill = r.ProductBill.Value
		}
		values := []any{
			deref(r.Date), r.OrderID, r.Description, deref(r.Status), bill,
			r.DeliveryAmt, r.CalculatedTSB, r.CalculatedCID, r.RunningBalance, deref(r.Note),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(ledgerSheet, cell, v)
		}
		row++
	}

	row++
	label, _ := excelize.CoordinatesToCellName(8, row)
	value, _ := excelize.CoordinatesToCellName(9, row)
	f.SetCellValue(ledgerSheet, label, "Balance")
	f.SetCellValue(ledgerSheet, value, stmt.Balance)
	f.SetCellStyle(ledgerSheet, label, value, bold)

	f.SetColWidth(ledgerSheet, "A", "B", 14)
	f.SetColWidth(ledgerSheet, "C", "C", 48)
	f.SetColWidth(ledgerSheet, "D", "J", 16)
	return f, nil
}

// WriteStatementPDF renders a landscape A4 statement to w.
func WriteStatementPDF(stmt *models.LedgerStatement, w io.Writer) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, tr(fmt.Sprintf("Ledger Statement - %s", stmt.VendorName)), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, periodLabel(stmt.From, stmt.To), "", 1, "C", false, 0, "")
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", timeutil.FormatIST(stmt.GeneratedAt, timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{22, 30, 78, 30, 22, 30, 20, 20, 25}
	headers := statementHeaders[:9]
	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(200, 200, 200)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	header()

	for i := range stmt.Records {
		r := &stmt.Records[i]
		cells := []string{
			deref(r.Date), r.OrderID, r.Description, deref(r.Status), r.ProductBill.String(),
			r.DeliveryAmt, money(r.CalculatedTSB), money(r.CalculatedCID), money(r.RunningBalance),
		}
		for c, text := range cells {
			align := "L"
			if c >= 4 && c != 5 {
				align = "R"
			}
			pdf.CellFormat(widths[c], 6, fit(pdf, tr, text, widths[c]-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	t := stmt.Totals
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(69, 8, fmt.Sprintf("Records: %d (excluded %d)", t.Records, t.Excluded), "1", 0, "C", false, 0, "")
	pdf.CellFormat(69, 8, fmt.Sprintf("Total TSB: Rs. %s", money(t.TotalTSB)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(69, 8, fmt.Sprintf("Total CID: Rs. %s", money(t.TotalCID)), "1", 0, "C", false, 0, "")
	if stmt.Balance < 0 {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(70, 8, fmt.Sprintf("Balance: Rs. %s", money(stmt.Balance)), "1", 1, "C", true, 0, "")

	return pdf.Output(w)
}

// ExportXLSX builds the spreadsheet for a vendor statement.
func (s *ExportService) ExportXLSX(ctx context.Context, vendorID int, from, to string) (*Export, error) {
	stmt, err := s.Ledger.Statement(ctx, vendorID, from, to)
	if err != nil {
		return nil, err
	}
	f, err := BuildStatementWorkbook(stmt)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	exp := &Export{
		Filename:    StatementFilename(stmt, "xlsx"),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}
	s.archive(ctx, vendorID, exp)
	metrics.ExportsTotal.WithLabelValues("xlsx").Inc()
	return exp, nil
}

// ExportPDF builds the printable statement for a vendor.
func (s *ExportService) ExportPDF(ctx context.Context, vendorID int, from, to string) (*Export, error) {
	stmt, err := s.Ledger.Statement(ctx, vendorID, from, to)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteStatementPDF(stmt, &buf); err != nil {
		return nil, err
	}
	exp := &Export{
		Filename:    StatementFilename(stmt, "pdf"),
		ContentType: ContentTypePDF,
		Data:        buf.Bytes(),
	}
	s.archive(ctx, vendorID, exp)
	metrics.ExportsTotal.WithLabelValues("pdf").Inc()
	return exp, nil
}

// archive stores a copy when storage is configured. Failures are logged;
// the download itself still succeeds.
func (s *ExportService) archive(ctx context.Context, vendorID int, exp *Export) {
	if s.Archive == nil {
		return
	}
	key := fmt.Sprintf("vendor_%d/%s_%s", vendorID, timeutil.Now().Format("20060102T150405"), exp.Filename)
	if err := s.Archive.Archive(ctx, key, exp.ContentType, exp.Data); err != nil {
		log.Printf("[Export] Archive of %s failed: %v", key, err)
	}
}

// StatementFilename names an export after the vendor and window.
func StatementFilename(stmt *models.LedgerStatement, ext string) string {
	from, to := stmt.From, stmt.To
	if from == "" {
		from = "start"
	}
	if to == "" {
		to = "latest"
	}
	return fmt.Sprintf("ledger_%d_%s_%s.%s", stmt.VendorID, from, to, ext)
}

func periodLabel(from, to string) string {
	switch {
	case from == "" && to == "":
		return "Period: all records"
	case from == "":
		return "Period: up to " + to
	case to == "":
		return "Period: from " + from
	}
	return fmt.Sprintf("Period: %s to %s", from, to)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// fit shortens s with "..." until it fits in width mm at the current font
// and returns it translated for the core fonts. Cuts are made on the UTF-8
// text so multi-byte characters are never split.
func fit(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	if out := tr(s); pdf.GetStringWidth(out) <= width {
		return out
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(tr(string(r)+"...")) > width {
		r = r[:len(r)-1]
	}
	return tr(string(r) + "...")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
