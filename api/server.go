/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/attendance/*         Check-in/out, eligibility, event admin
  /api/employees/*          Employees, classifications, payroll
  /api/settings             Attendance settings
  /api/holidays/*           Holiday calendar
  /api/rules/*              Allowance/deduction rules
  /api/leave-applications/* Leave and sick applications
  /api/scenarios/*          Demo data
  /health                   Liveness probe

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Attendance routes
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", h.CheckIn)
			r.Post("/check-out", h.CheckOut)
			r.Get("/eligibility", h.CheckInEligibility)
			r.Delete("/events/{id}", h.DeleteEvent)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/classifications", h.GetClassifications)
			r.Get("/{id}/payroll", h.GetPayroll)
			r.Get("/{id}/payroll/export", h.ExportPayroll)
		})

		// Configuration routes
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		r.Route("/rules", func(r chi.Router) {
			r.Get("/allowances", h.ListAllowanceRules)
			r.Post("/allowances", h.CreateAllowanceRule)
			r.Get("/deductions", h.ListDeductionRules)
			r.Post("/deductions", h.CreateDeductionRule)
			r.Delete("/{id}", h.DeleteRule)
		})

		// Leave routes
		r.Route("/leave-applications", func(r chi.Router) {
			r.Get("/", h.ListLeaveApplications)
			r.Post("/", h.CreateLeaveApplication)
			r.Post("/{id}/approve", h.ApproveLeaveApplication)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Post("/seed", h.LoadDemo)
		})
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
