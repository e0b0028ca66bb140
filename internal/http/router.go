// Package http wires handlers and middleware into the service's route
// table.
package http

import (
	"net/http"

	"vyapar-backend/internal/auth"
	"vyapar-backend/internal/config"
	"vyapar-backend/internal/handlers"
	"vyapar-backend/internal/health"
	"vyapar-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Party    *handlers.PartyHandler
	Invoice  *handlers.InvoiceHandler
	Payment  *handlers.PaymentHandler
	Ledger   *handlers.LedgerHandler
	Report   *handlers.ReportHandler
	Razorpay *handlers.RazorpayHandler
	Health   *health.HealthChecker
}

// NewRouter builds the route table. Everything under /api requires a
// valid token; report exports additionally require the accountant role.
func NewRouter(cfg *config.Config, jwtManager *auth.JWTManager, h Handlers) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recover)
	r.Use(middleware.Metrics)

	r.HandleFunc("/health", h.Health.Handler).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public auth endpoints
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/signup", h.Auth.Signup).Methods("POST")
	authRouter.HandleFunc("/login", h.Auth.Login).Methods("POST")

	// Razorpay calls this; authenticated by HMAC signature, not JWT.
	r.HandleFunc("/webhooks/razorpay", h.Razorpay.Webhook).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Authenticate(jwtManager))

	// Parties
	api.HandleFunc("/parties", h.Party.List).Methods("GET")
	api.HandleFunc("/parties", h.Party.Create).Methods("POST")
	api.HandleFunc("/parties/{id}", h.Party.Get).Methods("GET")
	api.HandleFunc("/parties/{id}", h.Party.Update).Methods("PUT")
	api.HandleFunc("/parties/{id}/summary", h.Party.Summary).Methods("GET")
	api.HandleFunc("/parties/{id}/ledger", h.Ledger.Statement).Methods("GET")
	api.HandleFunc("/parties/{id}/receivables", h.Ledger.Receivables).Methods("GET")
	api.HandleFunc("/parties/{id}/advance", h.Ledger.Advance).Methods("GET")

	// Invoices, purchase bills, quotations and challans
	api.HandleFunc("/invoices", h.Invoice.List).Methods("GET")
	api.HandleFunc("/invoices", h.Invoice.Create).Methods("POST")
	api.HandleFunc("/invoices/{id}", h.Invoice.Get).Methods("GET")
	api.HandleFunc("/invoices/{id}", h.Invoice.Update).Methods("PUT")
	api.HandleFunc("/invoices/{id}/payment-link", h.Razorpay.CreatePaymentLink).Methods("POST")

	// Payments
	api.HandleFunc("/payments", h.Payment.List).Methods("GET")
	api.HandleFunc("/payments", h.Payment.Create).Methods("POST")
	api.HandleFunc("/payments/{id}", h.Payment.Get).Methods("GET")

	// Reports: accountants and admins only
	reports := api.PathPrefix("/reports").Subrouter()
	reports.Use(middleware.RequireRole("accountant"))
	reports.HandleFunc("/parties/{id}/statement.pdf", h.Report.StatementPDF).Methods("GET")
	reports.HandleFunc("/outstanding.csv", h.Report.OutstandingCSV).Methods("GET")
	reports.HandleFunc("/statements.zip", h.Report.BulkStatementsZip).Methods("GET")

	// Destructive operations and user management: admin only
	adminAPI := api.PathPrefix("").Subrouter()
	adminAPI.Use(middleware.RequireRole())
	adminAPI.HandleFunc("/parties/{id}", h.Party.Delete).Methods("DELETE")
	adminAPI.HandleFunc("/invoices/{id}", h.Invoice.Delete).Methods("DELETE")
	adminAPI.HandleFunc("/payments/{id}", h.Payment.Delete).Methods("DELETE")
	adminAPI.HandleFunc("/users", h.Auth.ListUsers).Methods("GET")
	adminAPI.HandleFunc("/users", h.Auth.CreateUser).Methods("POST")
	adminAPI.HandleFunc("/users/{id}/active", h.Auth.SetUserActive).Methods("PUT")

	return middleware.CORS(cfg)(r)
}
