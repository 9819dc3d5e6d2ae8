package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"parcel-backend/internal/models"
	"parcel-backend/internal/services"
	"parcel-backend/internal/timeutil"
	"parcel-backend/pkg/utils"
)

type LedgerHandler struct {
	Service *services.LedgerService
	Exports *services.ExportService
}

func NewLedgerHandler(s *services.LedgerService, exports *services.ExportService) *LedgerHandler {
	return &LedgerHandler{Service: s, Exports: exports}
}

// window reads and validates ?from=&to=.
func window(r *http.Request) (string, string, error) {
	q := r.URL.Query()
	from, to, err := timeutil.ParseDateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return from, to, nil
}

// Statement returns the vendor's reconciled ledger, optionally windowed.
func (h *LedgerHandler) Statement(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendor_id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}
	from, to, err := window(r)
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	stmt, err := h.Service.Statement(r.Context(), vendorID, from, to)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, stmt)
}

func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendor_id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	b, err := h.Service.Balance(r.Context(), vendorID)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, b)
}

// AllBalances is the admin overview across vendors.
func (h *LedgerHandler) AllBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Service.AllBalances(r.Context())
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, balances)
}

// Reconcile runs the ledger over rows posted in the body without storing
// them. Accepts either a bare array or {"records": [...]}.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	records, err := decodeRecords(w, r)
	if err != nil {
		utils.BadRequest(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, h.Service.ReconcileAdhoc(records))
}

func (h *LedgerHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.Exports.ExportXLSX)
}

func (h *LedgerHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.Exports.ExportPDF)
}

func (h *LedgerHandler) export(w http.ResponseWriter, r *http.Request, build func(context.Context, int, string, string) (*services.Export, error)) {
	vendorID, err := pathInt(r, "vendor_id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}
	from, to, err := window(r)
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	exp, err := build(r.Context(), vendorID, from, to)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(exp.Data)
}

// decodeRecords reads delivery rows from a bare JSON array or an object with
// a "records" field.
func decodeRecords(w http.ResponseWriter, r *http.Request) ([]models.DeliveryRecord, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, utils.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: request body too large", models.ErrInvalidInput)
	}

	records := []models.DeliveryRecord{}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &records)
	} else {
		var wrapped struct {
			Records []models.DeliveryRecord `json:"records"`
		}
		err = json.Unmarshal(trimmed, &wrapped)
		if wrapped.Records != nil {
			records = wrapped.Records
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid request body", models.ErrInvalidInput)
	}
	return records, nil
}
