package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/config"
	"github.com/shopsight/shopsight/internal/llm"
	"github.com/shopsight/shopsight/internal/registry"
	"github.com/shopsight/shopsight/internal/shopify"
)

const serviceVersion = "1.0.0"

// clientFactory builds a Shopify client for one store's credentials. It is a
// field so tests can point clients at an httptest server.
type clientFactory func(storeDomain, accessToken string) (*shopify.Client, error)

type Server struct {
	cfg       *config.Config
	provider  llm.Provider
	registry  *registry.Registry
	router    *chi.Mux
	server    *http.Server
	newClient clientFactory
}

type Option func(*Server)

// WithClientFactory overrides how per-store Shopify clients are built.
func WithClientFactory(f clientFactory) Option {
	return func(s *Server) { s.newClient = f }
}

func New(cfg *config.Config, provider llm.Provider, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		provider: provider,
		registry: registry.New(),
		router:   chi.NewRouter(),
	}
	s.newClient = func(storeDomain, accessToken string) (*shopify.Client, error) {
		return shopify.NewClient(storeDomain, accessToken, &cfg.Shopify)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/supported-questions", s.handleSupportedQuestions)

		r.Post("/demo/analyze", s.handleDemoAnalyze)
		r.Get("/demo/sample-questions", s.handleSampleQuestions)

		r.Post("/gateway/stores/connect", s.handleConnectStore)
		r.Get("/gateway/stores", s.handleListStores)
		r.Get("/gateway/stores/{storeID}/status", s.handleStoreStatus)
		r.Post("/gateway/questions", s.handleQuestion)
		r.Get("/gateway/logs", s.handleLogs)

		r.Post("/real/ask", s.handleRealAsk)
		r.Get("/real/products/{storeID}", s.handleRealProducts)
		r.Get("/real/orders/{storeID}", s.handleRealOrders)
		r.Get("/real/inventory/{storeID}", s.handleRealInventory)
	})
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("starting server", "address", s.server.Addr)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("starting shutdown", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, suggestions ...string) {
	writeJSON(w, status, apimodels.ErrorResponse{
		Error:       msg,
		Suggestions: suggestions,
	})
}
