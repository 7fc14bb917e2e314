// Package handlers provides HTTP request handlers
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/findosh/finlearn/internal/catalog"
	"github.com/findosh/finlearn/internal/config"
	"github.com/findosh/finlearn/internal/middleware"
	"github.com/findosh/finlearn/internal/models"
	"github.com/findosh/finlearn/internal/services/analytics"
	"github.com/findosh/finlearn/internal/services/chart"
	"github.com/findosh/finlearn/internal/services/importer"
	"github.com/findosh/finlearn/internal/services/marketdata"
	"github.com/findosh/finlearn/internal/services/portfolio"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg        *config.Config
	catalog    *catalog.Catalog
	analytics  *analytics.Service
	portfolio  *portfolio.Service
	marketData *marketdata.Service
	log        zerolog.Logger
	now        func() time.Time
}

// New creates a new handler with all dependencies
func New(
	cfg *config.Config,
	cat *catalog.Catalog,
	analyticsSvc *analytics.Service,
	portfolioSvc *portfolio.Service,
	marketDataSvc *marketdata.Service,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		cfg:        cfg,
		catalog:    cat,
		analytics:  analyticsSvc,
		portfolio:  portfolioSvc,
		marketData: marketDataSvc,
		log:        log.With().Str("component", "http").Logger(),
		now:        time.Now,
	}
}

// Routes builds the API router with global middleware applied
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(h.log))
	r.Use(middleware.Recover(h.log))
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/instruments", func(r chi.Router) {
			r.Get("/", h.ListInstruments)
			r.Get("/{id}", h.GetInstrument)
			r.Get("/{id}/metrics", h.InstrumentMetrics)
			r.Get("/{id}/quote", h.InstrumentQuote)
			r.Get("/{id}/chart.png", h.InstrumentChart)
		})

		r.Route("/calculators", func(r chi.Router) {
			r.Post("/compound", h.CompoundGrowth)
			r.Post("/simple-return", h.SimpleReturn)
			r.Post("/cagr", h.CAGR)
			r.Post("/real-return", h.RealReturn)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", h.GetPortfolio)
			r.Delete("/", h.ClearPortfolio)
			r.Post("/positions", h.AddPosition)
			r.Post("/import", h.ImportPortfolio)
			r.Put("/positions/{id}", h.UpdatePosition)
			r.Delete("/positions/{id}", h.RemovePosition)
			r.Get("/performance", h.PortfolioPerformance)
			r.Get("/export", h.ExportPortfolio)
			r.Get("/chart.png", h.PortfolioChart)
		})

		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", h.ListQuizzes)
			r.Get("/{id}", h.GetQuiz)
			r.Post("/{id}/grade", h.GradeQuiz)
		})

		r.Get("/quotes", h.ListQuotes)
		r.Get("/glossary", h.Glossary)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.jsonError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": h.cfg.Environment,
	})
}

// writeJSON writes v as a JSON response. Encoding happens before the status
// is sent so an unencodable value still yields a 500.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
		body, status = []byte(`{"error":"internal server error"}`), http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// jsonError writes a JSON error response
func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Request failed")
		h.jsonError(w, "internal server error", status)
		return
	}
	h.jsonError(w, err.Error(), status)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidPrincipal),
		errors.Is(err, models.ErrInvalidContribution),
		errors.Is(err, models.ErrInvalidRate),
		errors.Is(err, models.ErrInvalidYears),
		errors.Is(err, models.ErrInvalidInitialValue),
		errors.Is(err, models.ErrInvalidFinalValue),
		errors.Is(err, models.ErrInvalidInflation),
		errors.Is(err, models.ErrInvalidShares),
		errors.Is(err, importer.ErrEmptyFile),
		errors.Is(err, importer.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownInstrument),
		errors.Is(err, models.ErrPositionNotFound),
		errors.Is(err, models.ErrUnknownQuiz),
		errors.Is(err, chart.ErrEmptySeries):
		return http.StatusNotFound
	case errors.Is(err, importer.ErrNoData),
		errors.Is(err, models.ErrResultOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrDuplicatePosition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writePNG writes an image response
func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
