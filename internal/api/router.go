package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/medcare/clinic-scheduling/internal/auth"
	"github.com/medcare/clinic-scheduling/internal/clinic"
)

type RouterConfig struct {
	Handlers *Handlers
	Tokens   *auth.TokenService
	PgPool   *pgxpool.Pool
	Redis    *redis.Client
	Env      string
	Version  string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public
	r.Post("/auth/login", cfg.Handlers.login)

	// Any authenticated staff member
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Tokens))

		r.Post("/appointments", cfg.Handlers.bookAppointment)
		r.Get("/appointments/{id}", cfg.Handlers.getAppointment)
		r.Put("/appointments/{id}/status", cfg.Handlers.updateAppointmentStatus)
		r.Delete("/appointments/{id}", cfg.Handlers.cancelAppointment)

		r.Get("/doctors", cfg.Handlers.listDoctors)
		r.Get("/doctors/{id}/schedule", cfg.Handlers.doctorSchedule)
		r.Get("/doctors/{id}/appointments", cfg.Handlers.listDayAppointments)
		r.Get("/services", cfg.Handlers.listServices)
	})

	// Admin only
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Tokens))
		r.Use(RequireRole(clinic.RoleAdmin))

		r.Post("/doctors", cfg.Handlers.createDoctor)
		r.Put("/doctors/{id}", cfg.Handlers.updateDoctor)
		r.Delete("/doctors/{id}", cfg.Handlers.deleteDoctor)
		r.Post("/doctors/{id}/schedule", cfg.Handlers.addScheduleBlock)

		r.Put("/schedules/{id}", cfg.Handlers.updateScheduleBlock)
		r.Delete("/schedules/{id}", cfg.Handlers.deleteScheduleBlock)

		r.Post("/services", cfg.Handlers.createService)
		r.Put("/services/{id}", cfg.Handlers.updateService)
		r.Delete("/services/{id}", cfg.Handlers.deleteService)

		r.Post("/users", cfg.Handlers.createUser)
		r.Get("/users", cfg.Handlers.listUsers)
		r.Delete("/users/{id}", cfg.Handlers.deleteUser)

		r.Get("/reports/appointments", cfg.Handlers.reportAppointments)
		r.Get("/reports/top-doctors", cfg.Handlers.reportTopDoctors)
		r.Get("/reports/top-services", cfg.Handlers.reportTopServices)
	})

	return r
}
