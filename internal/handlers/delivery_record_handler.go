package handlers

import (
	"net/http"

	"parcel-backend/internal/models"
	"parcel-backend/internal/services"
	"parcel-backend/pkg/utils"
)

// DeliveryRecordHandler serves /api/vendors/{vendor_id}/records. Vendor
// access is checked by middleware before these run.
type DeliveryRecordHandler struct {
	Service *services.DeliveryRecordService
}

func NewDeliveryRecordHandler(s *services.DeliveryRecordService) *DeliveryRecordHandler {
	return &DeliveryRecordHandler{Service: s}
}

func (h *DeliveryRecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendor_id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	records, err := h.Service.ListRecords(r.Context(), vendorID)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *DeliveryRecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendor_id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	rec, err := h.Service.GetRecord(r.Context(), vendorID, id)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

func (h *DeliveryRecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendor_id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	var req models.CreateDeliveryRecordRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	rec, err := h.Service.CreateRecord(r.Context(), vendorID, &req)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, rec)
}

func (h *DeliveryRecordHandler) ImportRecords(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendor_id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	var req models.ImportDeliveryRecordsRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	recs, err := h.Service.ImportRecords(r.Context(), vendorID, &req)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]any{"imported": len(recs), "records": recs})
}

func (h *DeliveryRecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendor_id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	var req models.CreateDeliveryRecordRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	rec, err := h.Service.UpdateRecord(r.Context(), vendorID, id, &req)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

func (h *DeliveryRecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathInt(r, "vendor_id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	if err := h.Service.DeleteRecord(r.Context(), vendorID, id); err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
