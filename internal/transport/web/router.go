// Package web wires the HTML front-end: routes, middleware, error pages.
package web

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gnucash-web/gnucash-web/internal/transport/web/handler"
	"github.com/gnucash-web/gnucash-web/internal/transport/web/middleware"
	"github.com/gnucash-web/gnucash-web/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger         *logger.Logger
	Pages          *handler.Pages
	AllowedOrigins []string
}

// NewRouter creates the HTTP router for the three pages and the error pages.
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger, cfg.Pages.ServerError))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit())

	r.Get("/", cfg.Pages.Index)
	r.Post("/", cfg.Pages.Submit)
	r.Get("/transactions", cfg.Pages.Transactions)
	r.Get("/balances", cfg.Pages.Balances)

	r.NotFound(cfg.Pages.NotFound)

	return r
}
