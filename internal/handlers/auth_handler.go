package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"parcel-backend/internal/middleware"
	"parcel-backend/internal/models"
	"parcel-backend/internal/services"
	"parcel-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeAndValidate(w, r, &req); err != nil {
		utils.BadRequest(w, err)
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		log.WithField("email", req.Email).Warnf("[Auth] Login failed: %v", err)
		utils.ServiceError(w, r, err)
		return
	}

	log.WithFields(log.Fields{"user_id": authResp.User.ID, "role": authResp.User.Role}).Info("[Auth] Login")
	utils.JSON(w, http.StatusOK, authResp)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.JSON(w, http.StatusOK, user)
}
