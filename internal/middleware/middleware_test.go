package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"parcel-backend/internal/auth"
	"parcel-backend/internal/config"
	"parcel-backend/internal/models"
)

type fakeUsers map[int]*models.User

func (f fakeUsers) Get(_ context.Context, id int) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func newTestAuth(t *testing.T) (*AuthMiddleware, func(u *models.User) string) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "parcel-backend"
	cfg.JWT.ExpirationHours = 1
	jm := auth.NewJWTManager(cfg)

	seven := 7
	users := fakeUsers{
		1: {ID: 1, Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true},
		2: {ID: 2, Email: "v7@example.com", Role: models.RoleVendor, VendorID: &seven, IsActive: true},
		3: {ID: 3, Email: "off@example.com", Role: models.RoleVendor, VendorID: &seven, IsActive: false},
	}
	token := func(u *models.User) string {
		tok, err := jm.GenerateToken(u)
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}
	return NewAuthMiddleware(jm, users), token
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserFromContext(r.Context()); !ok {
		http.Error(w, "no user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func TestAuthenticate(t *testing.T) {
	m, token := newTestAuth(t)
	h := m.Authenticate(okHandler)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad format", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"unknown user", "Bearer " + token(&models.User{ID: 99, Role: models.RoleAdmin}), http.StatusUnauthorized},
		{"suspended", "Bearer " + token(&models.User{ID: 3, Role: models.RoleVendor}), http.StatusForbidden},
		{"ok", "Bearer " + token(&models.User{ID: 1, Role: models.RoleAdmin}), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/ledger/reconcile", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}

func TestRequireRole(t *testing.T) {
	m, token := newTestAuth(t)
	h := m.RequireRole(models.RoleAdmin)(okHandler)

	for _, tc := range []struct {
		user *models.User
		want int
	}{
		{&models.User{ID: 1}, http.StatusOK},
		{&models.User{ID: 2}, http.StatusForbidden},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/vendors", nil)
		req.Header.Set("Authorization", "Bearer "+token(tc.user))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("user %d: status = %d, want %d", tc.user.ID, rec.Code, tc.want)
		}
	}
}

func TestRequireVendorAccess(t *testing.T) {
	m, token := newTestAuth(t)
	r := mux.NewRouter()
	r.Handle("/api/vendors/{vendor_id}/ledger", m.RequireVendorAccess(okHandler))

	cases := []struct {
		user *models.User
		path string
		want int
	}{
		{&models.User{ID: 1}, "/api/vendors/3/ledger", http.StatusOK},
		{&models.User{ID: 2}, "/api/vendors/7/ledger", http.StatusOK},
		{&models.User{ID: 2}, "/api/vendors/8/ledger", http.StatusForbidden},
		{&models.User{ID: 2}, "/api/vendors/abc/ledger", http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+token(tc.user))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("user %d %s: status = %d, want %d", tc.user.ID, tc.path, rec.Code, tc.want)
		}
	}
}

func TestWebsocketTokenQuery(t *testing.T) {
	m, token := newTestAuth(t)
	h := m.RequireRole(models.RoleAdmin)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/ledger/stream?token="+token(&models.User{ID: 1}), nil)
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// Plain requests may not carry the token in the URL.
	req = httptest.NewRequest(http.MethodGet, "/api/ledger/stream?token="+token(&models.User{ID: 1}), nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var seen string
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vendors", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/vendors", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" {
		t.Fatalf("incoming request id not reused, got %q", seen)
	}
}

func TestPanicRecovery(t *testing.T) {
	h := PanicRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Internal server error") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestMetricsMiddlewareRouteLabel(t *testing.T) {
	r := mux.NewRouter()
	r.Use(MetricsMiddleware)
	var label string
	r.HandleFunc("/api/vendors/{vendor_id}/ledger", func(w http.ResponseWriter, req *http.Request) {
		label = routeTemplate(req)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vendors/12/ledger", nil))
	if label != "/api/vendors/{vendor_id}/ledger" {
		t.Fatalf("route label = %q", label)
	}
}
