package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// NewRouter builds the agent's local control API. It binds on loopback in
// practice; CORS stays open to localhost frontends only.
func NewRouter(env string, authHandler *AuthHandler, trackerHandler *TrackerHandler, workplaceHandler *WorkplaceHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "camlica360-agent"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/token", authHandler.SetToken)
			r.Get("/me", authHandler.Me)
		})

		r.Route("/tracker", func(r chi.Router) {
			r.Get("/status", trackerHandler.Status)
			r.Get("/logs/today", trackerHandler.TodayLogs)
			r.Get("/pending", trackerHandler.Pending)
			r.Post("/start", trackerHandler.Start)
			r.Post("/stop", trackerHandler.Stop)
			r.Post("/check-in", trackerHandler.CheckIn)
			r.Post("/check-out", trackerHandler.CheckOut)
			r.Post("/sync", trackerHandler.Sync)
			r.Post("/refresh", trackerHandler.Refresh)
		})

		r.Route("/workplaces", func(r chi.Router) {
			r.Get("/", workplaceHandler.List)
			r.Get("/nearest", workplaceHandler.Nearest)
			r.Get("/{id}", workplaceHandler.Get)
			r.Post("/refresh", workplaceHandler.Refresh)
		})
	})

	return r
}
