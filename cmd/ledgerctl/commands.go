package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"parcel-backend/internal/ledger"
	"parcel-backend/internal/models"
	"parcel-backend/internal/services"
	"parcel-backend/internal/timeutil"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Reconcile parcel COD records offline",
		Long: `ledgerctl reads delivery records from a JSON file (an array, or an
object with a "records" array) and runs the same reconciliation the server
uses: per-record TSB and CID, exclusions and running balances.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("file", "f", "", "JSON file with delivery records (- for stdin)")
	root.MarkPersistentFlagRequired("file")

	root.AddCommand(newReconcileCmd(), newBalanceCmd(), newExportCmd())
	return root
}

// ─── reconcile ──────────────────────────────────────────────────────────────

func newReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Print the enhanced records with running balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(cmd)
			if err != nil {
				return err
			}
			rows := ledger.Reconcile(records)

			out, _ := cmd.Flags().GetString("output")
			if out == "" {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			var buf bytes.Buffer
			if err := writeJSON(&buf, rows); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %d records into %s\n", len(rows), out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write JSON to this file instead of stdout")
	return cmd
}

// ─── balance ────────────────────────────────────────────────────────────────

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the headline balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(cmd)
			if err != nil {
				return err
			}
			rows := ledger.Reconcile(records)
			totals := ledger.Summarize(rows)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Records:   %d (%d excluded)\n", totals.Records, totals.Excluded)
			fmt.Fprintf(w, "Total TSB: %.2f\n", totals.TotalTSB)
			fmt.Fprintf(w, "Total CID: %.2f\n", totals.TotalCID)
			fmt.Fprintf(w, "Balance:   %.2f\n", totals.Balance)
			if last := ledger.LatestDate(rows); last != "" {
				fmt.Fprintf(w, "As of:     %s\n", last)
			}
			if dups := ledger.DuplicateOrderIDs(records); len(dups) > 0 {
				fmt.Fprintf(w, "Warning: duplicate order ids share one balance: %s\n", strings.Join(dups, ", "))
			}
			return nil
		},
	}
}

// ─── export ─────────────────────────────────────────────────────────────────

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a statement as .xlsx or .pdf",
		Long: `Write a statement spreadsheet or PDF. The format follows the output
file extension. --from and --to (YYYY-MM-DD) limit the rows shown; the
balance always covers every record in the file.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
	cmd.Flags().StringP("output", "o", "", "Output file (.xlsx or .pdf)")
	cmd.Flags().String("from", "", "First date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Last date to include (YYYY-MM-DD)")
	cmd.Flags().String("vendor", "", "Vendor name for the statement header")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	vendor, _ := cmd.Flags().GetString("vendor")

	from, to, err := timeutil.ParseDateRange(from, to)
	if err != nil {
		return err
	}
	records, err := loadRecords(cmd)
	if err != nil {
		return err
	}
	stmt := buildStatement(records, vendor, from, to)

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(out)) {
	case ".xlsx":
		f, err := services.BuildStatementWorkbook(stmt)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := f.Write(&buf); err != nil {
			return err
		}
	case ".pdf":
		if err := services.WriteStatementPDF(stmt, &buf); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export format %q (use .xlsx or .pdf)", filepath.Ext(out))
	}

	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s (balance %.2f)\n", len(stmt.Records), out, stmt.Balance)
	return nil
}

// buildStatement reconciles the whole file and then applies the window,
// so balances match what the server reports for the same records.
func buildStatement(records []models.DeliveryRecord, vendor, from, to string) *models.LedgerStatement {
	all := ledger.Reconcile(records)
	rows := ledger.FilterByDate(all, from, to)
	if rows == nil {
		rows = []models.EnhancedDeliveryRecord{}
	}
	return &models.LedgerStatement{
		VendorName:        vendor,
		From:              from,
		To:                to,
		Records:           rows,
		Totals:            ledger.Summarize(rows),
		Balance:           ledger.LatestBalance(all),
		DuplicateOrderIDs: ledger.DuplicateOrderIDs(records),
		GeneratedAt:       timeutil.Now(),
	}
}

func loadRecords(cmd *cobra.Command) ([]models.DeliveryRecord, error) {
	path, _ := cmd.Flags().GetString("file")
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return parseRecords(data)
}

// parseRecords accepts a bare JSON array or {"records": [...]}.
func parseRecords(data []byte) ([]models.DeliveryRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no records: input is empty")
	}

	var records []models.DeliveryRecord
	if data[0] == '[' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		return records, nil
	}

	var wrapped struct {
		Records []models.DeliveryRecord `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return wrapped.Records, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
