package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"parcel-backend/internal/models"
)

// pathInt reads a positive integer route variable.
func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", models.ErrInvalidInput, name)
	}
	return n, nil
}
