package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parcel-backend/internal/handlers"
	"parcel-backend/internal/middleware"
	"parcel-backend/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	vendorHandler *handlers.VendorHandler,
	recordHandler *handlers.DeliveryRecordHandler,
	ledgerHandler *handlers.LedgerHandler,
	monitoringHandler *handlers.MonitoringHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireRole(models.RoleAdmin)(h).ServeHTTP
	}
	owner := func(h http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.RequireVendorAccess(h).ServeHTTP
	}

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.Handle("/auth/me", authMiddleware.Authenticate(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// Health checks (public, for load balancers)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Vendor management (admin) and vendor-scoped parcels and ledger
	vendorsAPI := r.PathPrefix("/api/vendors").Subrouter()
	vendorsAPI.HandleFunc("", admin(vendorHandler.ListVendors)).Methods("GET")
	vendorsAPI.HandleFunc("", admin(vendorHandler.CreateVendor)).Methods("POST")
	vendorsAPI.HandleFunc("/{id:[0-9]+}", admin(vendorHandler.GetVendor)).Methods("GET")
	vendorsAPI.HandleFunc("/{id:[0-9]+}", admin(vendorHandler.UpdateVendor)).Methods("PUT")
	vendorsAPI.HandleFunc("/{id:[0-9]+}", admin(vendorHandler.DeleteVendor)).Methods("DELETE")
	vendorsAPI.HandleFunc("/{id:[0-9]+}/active", admin(vendorHandler.SetVendorActive)).Methods("PATCH")

	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/records", owner(recordHandler.ListRecords)).Methods("GET")
	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/records", owner(recordHandler.CreateRecord)).Methods("POST")
	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/records/import", owner(recordHandler.ImportRecords)).Methods("POST")
	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/records/{id:[0-9]+}", owner(recordHandler.GetRecord)).Methods("GET")
	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/records/{id:[0-9]+}", owner(recordHandler.UpdateRecord)).Methods("PUT")
	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/records/{id:[0-9]+}", owner(recordHandler.DeleteRecord)).Methods("DELETE")

	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/ledger", owner(ledgerHandler.Statement)).Methods("GET")
	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/ledger/balance", owner(ledgerHandler.Balance)).Methods("GET")
	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/ledger/export.xlsx", owner(ledgerHandler.ExportXLSX)).Methods("GET")
	vendorsAPI.HandleFunc("/{vendor_id:[0-9]+}/ledger/export.pdf", owner(ledgerHandler.ExportPDF)).Methods("GET")

	// Ledger tools
	ledgerAPI := r.PathPrefix("/api/ledger").Subrouter()
	ledgerAPI.Handle("/reconcile", authMiddleware.Authenticate(http.HandlerFunc(ledgerHandler.Reconcile))).Methods("POST")
	ledgerAPI.HandleFunc("/balances", admin(ledgerHandler.AllBalances)).Methods("GET")
	ledgerAPI.HandleFunc("/stream", admin(monitoringHandler.Stream)).Methods("GET")

	// Monitoring (admin only)
	monitoringAPI := r.PathPrefix("/api/monitoring").Subrouter()
	monitoringAPI.HandleFunc("/system", admin(monitoringHandler.SystemStats)).Methods("GET")

	return r
}
