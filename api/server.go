package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rs/zerolog/log"
)

const defaultAcceptedOrigin = "http://localhost:3000"

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database, opts ...RouterOption) (Server, error) {
	var r router
	for _, opt := range opts {
		opt(&r)
	}
	if r.config == nil {
		r.config = config.New()
	}
	c := r.config

	if config.GetString(c, "AUTH_SECRET", "") == "" {
		log.Warn().Msg("AUTH_SECRET is not set, every admin request will be rejected")
	}

	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()
	opts = append(opts, WithConfig(c), WithStartupTime(startupTime))

	chiRouter := newRouter(db, opts...)

	// Get timeout values from config with sensible defaults
	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 60)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      chiRouter,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	notifier    ContactNotifier
	limiter     *RateLimiter
}

// RouterOption customises the router built by NewServer.
type RouterOption func(*router)

func WithConfig(c map[string]string) RouterOption {
	return func(r *router) {
		r.config = c
	}
}

func WithStartupTime(startupTime time.Time) RouterOption {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// WithNotifier sets who is told about new contact messages.
func WithNotifier(n ContactNotifier) RouterOption {
	return func(r *router) {
		r.notifier = n
	}
}

// WithRateLimiter throttles the comment and contact endpoints. Without one
// they are not limited.
func WithRateLimiter(l *RateLimiter) RouterOption {
	return func(r *router) {
		r.limiter = l
	}
}

func newRouter(db database.Database, opts ...RouterOption) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	metrics := newHTTPMetrics()

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(metrics.middleware)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	// Apply CORS middleware
	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{defaultAcceptedOrigin}
	}
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize all handlers
	handlers := initializeHandlers(db, router.notifier, router.startupTime)

	// Initialize auth middleware
	verifier := auth.NewVerifier(
		config.GetString(router.config, "AUTH_SECRET", ""),
		config.GetList(router.config, "SESSION_COOKIE_NAME")...,
	)
	authMiddleware := newAuthMiddleware(verifier, config.GetString(router.config, "SIGN_IN_PATH", ""))
	chiRouter.Use(authMiddleware.loadSession)

	chiRouter.Handle("/metrics", metrics.handler())

	chiRouter.Route("/api", func(r chi.Router) {
		setupPublicRoutes(r, handlers, router.limiter)
		r.Route("/admin", func(r chi.Router) {
			setupAdminRoutes(r, handlers, authMiddleware)
		})
	})

	chiRouter.Route("/admin", func(r chi.Router) {
		setupAdminPages(r, authMiddleware, config.GetString(router.config, "ADMIN_UPSTREAM_URL", ""))
	})

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
