package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"parcel-backend/internal/auth"
	"parcel-backend/internal/models"
)

type contextKey string

const UserKey contextKey = "user"

// UserLookup loads the current state of a token's user.
type UserLookup interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      UserLookup
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
	}
}

// authenticate resolves the bearer token to an active user. On failure it
// returns the status and message to send.
func (m *AuthMiddleware) authenticate(r *http.Request) (*models.User, int, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		// Browsers cannot set headers on websocket upgrades
		if t := r.URL.Query().Get("token"); t != "" && isWebsocket(r) {
			authHeader = "Bearer " + t
		} else {
			return nil, http.StatusUnauthorized, "Authorization header required"
		}
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, "Invalid authorization format"
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	// Check database for current user status (for immediate permission updates)
	user, err := m.users.Get(r.Context(), claims.UserID)
	if err != nil {
		return nil, http.StatusUnauthorized, "User not found"
	}
	if !user.IsActive {
		return nil, http.StatusForbidden, "Account suspended. Please contact administrator."
	}
	return user, 0, ""
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, status, msg := m.authenticate(r)
		if user == nil {
			http.Error(w, msg, status)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserKey, user)))
	})
}

// RequireRole is a middleware that ensures the user has one of the allowed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, status, msg := m.authenticate(r)
			if user == nil {
				http.Error(w, msg, status)
				return
			}

			hasRole := false
			for _, role := range allowedRoles {
				if user.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserKey, user)))
		})
	}
}

// RequireVendorAccess authenticates the request and checks that the user may
// act on the vendor named by the {vendor_id} route variable.
func (m *AuthMiddleware) RequireVendorAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, status, msg := m.authenticate(r)
		if user == nil {
			http.Error(w, msg, status)
			return
		}

		vendorID, err := strconv.Atoi(mux.Vars(r)["vendor_id"])
		if err != nil {
			http.Error(w, "Invalid vendor ID", http.StatusBadRequest)
			return
		}
		if !user.CanAccessVendor(vendorID) {
			http.Error(w, "Forbidden: not your vendor account", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserKey, user)))
	})
}

// GetUserFromContext extracts the authenticated user from request context
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}

func isWebsocket(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
