package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/platewise/console-api/internal/config"
	"github.com/platewise/console-api/internal/enum"
	"github.com/platewise/console-api/internal/handler"
	mw "github.com/platewise/console-api/internal/middleware"
	"github.com/platewise/console-api/internal/upstream"
	"github.com/platewise/console-api/internal/ws"
)

// New creates a Chi router with all console routes wired up. Applies
// authentication and kitchen scoping; mutating batch actions additionally
// require an operator role.
func New(cfg *config.Config, client *upstream.Client, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",          // console dev server
			"https://ops.platewise.io",       // production console
			"https://stg-ops.platewise.io",   // staging console
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(cfg)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/kitchens/{kid}/batches", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		r.Route("/kitchens/{kid}", func(r chi.Router) {
			r.Use(mw.RequireKitchen)

			kitchenHandler := handler.NewKitchenHandler(client)
			kitchenHandler.RegisterRoutes(r)

			orderHandler := handler.NewOrderHandler(client)
			r.Route("/orders", orderHandler.RegisterRoutes)

			statsHandler := handler.NewStatsHandler(client, time.Now)
			r.Route("/stats", statsHandler.RegisterRoutes)

			batchHandler := handler.NewBatchHandler(client, hub, time.Now)
			r.Route("/batches", func(r chi.Router) {
				r.Get("/", batchHandler.List)
				r.Get("/summary", batchHandler.Summary)
				r.Get("/history", batchHandler.History)

				// Mutating actions are off-limits to viewers
				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole(enum.RoleAdmin, enum.RoleOps))
					r.Post("/auto-batch", batchHandler.AutoBatch)
					r.Post("/dispatch", batchHandler.Dispatch)
				})
			})
		})
	})

	return r
}
