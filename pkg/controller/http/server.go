package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/dinewise/pkg/usecase"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
)

// DefaultUserID is used when a request carries no X-User-ID header
const DefaultUserID int64 = 1

type Server struct {
	router         *chi.Mux
	uc             *usecase.UseCases
	defaultUserID  int64
	metricsHandler http.Handler
}

type Options func(*Server)

// WithDefaultUserID sets the user acting on requests without X-User-ID
func WithDefaultUserID(id int64) Options {
	return func(s *Server) {
		s.defaultUserID = id
	}
}

// WithMetricsHandler exposes h at /metrics
func WithMetricsHandler(h http.Handler) Options {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		defaultUserID: DefaultUserID,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware(s.defaultUserID))

		r.Get("/user", s.getUser)
		r.Patch("/user/preferences", s.updatePreferences)

		r.Get("/conversation", s.getConversation)
		r.Post("/chat", s.chat)

		r.Post("/reservation/call", s.requestCall)
		r.Get("/reservation/call/{handle}/status", s.callStatus)
		r.Get("/reservations", s.listReservations)
		r.Patch("/reservations/{id}/status", s.updateReservationStatus)

		r.Get("/favorites", s.listFavorites)
		r.Post("/favorites", s.addFavorite)
		r.Delete("/favorites/{restaurantID}", s.removeFavorite)

		r.Get("/restaurants/{id}", s.getRestaurant)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
