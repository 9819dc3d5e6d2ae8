package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"parcel-backend/internal/models"
)

// MaxBodyBytes caps request bodies; a full import of 5000 rows fits easily.
const MaxBodyBytes = 8 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError lists failing fields and the rule each one broke.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, tag := range e.Fields {
		parts = append(parts, f+": "+tag)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Validate checks v against its struct tags.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		// Namespace keeps the index of failing rows inside imports
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		fields[ns] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// DecodeAndValidate reads a JSON body into dst and validates it.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", models.ErrInvalidInput)
	}
	return Validate(dst)
}

// BadRequest writes a 400 for a decode or validation failure.
func BadRequest(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		JSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": verr.Fields})
		return
	}
	Error(w, http.StatusBadRequest, err.Error())
}

// ServiceError maps service errors onto HTTP statuses. Unknown errors are
// logged and hidden behind a generic 500.
func ServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrInvalidInput):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrConflict):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrAccountSuspended):
		Error(w, http.StatusForbidden, err.Error())
	default:
		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Errorf("request failed: %v", err)
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
