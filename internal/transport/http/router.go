package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"climbtracker/internal/handler"
	"climbtracker/internal/httputil"
	reqlog "climbtracker/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler        *handler.UserHandler
	SessionHandler     *handler.SessionHandler
	LocationHandler    *handler.LocationHandler
	FriendshipHandler  *handler.FriendshipHandler
	FeedHandler        *handler.FeedHandler
	InteractionHandler *handler.InteractionHandler
	// MediaHandler is nil when object storage is not configured.
	MediaHandler *handler.MediaHandler

	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(reqlog.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if cfg.RateLimitRequests > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Post("/", cfg.UserHandler.Create)
		r.Get("/{id}", cfg.UserHandler.Get)
		r.Patch("/{id}", cfg.UserHandler.Update)
		r.Get("/{id}/progress", cfg.UserHandler.Progress)
		r.Get("/{id}/sessions", cfg.SessionHandler.ListByUser)
		r.Get("/{id}/friends", cfg.FriendshipHandler.Friends)
		r.Get("/{id}/friend-requests", cfg.FriendshipHandler.PendingRequests)
		r.Get("/{id}/feed", cfg.FeedHandler.GetFeed)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", cfg.SessionHandler.Create)
		r.Get("/{id}", cfg.SessionHandler.Get)

		r.Post("/{id}/climbs", cfg.SessionHandler.AddClimb)
		r.Put("/{id}/climbs/{climbID}", cfg.SessionHandler.UpdateClimb)
		r.Delete("/{id}/climbs/{climbID}", cfg.SessionHandler.DeleteClimb)

		r.Post("/{id}/comments", cfg.InteractionHandler.AddComment)
		r.Get("/{id}/comments", cfg.InteractionHandler.ListComments)
		r.Post("/{id}/like", cfg.InteractionHandler.Like)
		r.Delete("/{id}/like", cfg.InteractionHandler.Unlike)

		if cfg.MediaHandler != nil {
			r.Post("/{id}/media/presign", cfg.MediaHandler.PresignSessionUpload)
		}
	})

	r.Route("/locations", func(r chi.Router) {
		r.Post("/", cfg.LocationHandler.Create)
		// Static segment takes precedence over {id}.
		r.Get("/nearby", cfg.LocationHandler.Nearby)
		r.Get("/{id}", cfg.LocationHandler.Get)
	})

	r.Route("/friendships", func(r chi.Router) {
		r.Post("/", cfg.FriendshipHandler.Request)
		r.Put("/{id}/accept", cfg.FriendshipHandler.Accept)
	})

	return r
}
