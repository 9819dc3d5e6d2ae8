package handlers

import (
	"net/http"

	"parcel-backend/internal/models"
	"parcel-backend/internal/services"
	"parcel-backend/pkg/utils"
)

type VendorHandler struct {
	Service *services.VendorService
}

func NewVendorHandler(s *services.VendorService) *VendorHandler {
	return &VendorHandler{Service: s}
}

func (h *VendorHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVendorRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	vendor, err := h.Service.CreateVendor(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, vendor)
}

func (h *VendorHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	vendor, err := h.Service.GetVendor(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, vendor)
}

func (h *VendorHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.Service.ListVendors(r.Context())
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, vendors)
}

func (h *VendorHandler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	var req models.UpdateVendorRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	vendor, err := h.Service.UpdateVendor(r.Context(), id, &req)
	if err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, vendor)
}

func (h *VendorHandler) SetVendorActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	var req models.SetVendorActiveRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	if err := h.Service.SetVendorActive(r.Context(), id, req.IsActive); err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"id": id, "is_active": req.IsActive})
}

func (h *VendorHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		utils.BadRequest(w, err)
		return
	}

	if err := h.Service.DeleteVendor(r.Context(), id); err != nil {
		utils.ServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
