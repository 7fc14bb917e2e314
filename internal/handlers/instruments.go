package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/findosh/finlearn/internal/models"
	"github.com/findosh/finlearn/internal/services/chart"
)

// ListInstruments returns catalog summaries, optionally filtered by ?type=
func (h *Handler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	instruments := h.catalog.List()
	if t := r.URL.Query().Get("type"); t != "" {
		typ := models.InstrumentType(t)
		if !typ.IsValid() {
			h.jsonError(w, fmt.Sprintf("unknown instrument type %q", t), http.StatusBadRequest)
			return
		}
		instruments = h.catalog.ListByType(typ)
	}

	summaries := make([]models.InstrumentSummary, 0, len(instruments))
	for _, inst := range instruments {
		summaries = append(summaries, inst.Summary())
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

// GetInstrument returns one instrument with its full price history
func (h *Handler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instrument(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, inst)
}

// InstrumentMetrics returns the metrics of an instrument for ?period=
func (h *Handler) InstrumentMetrics(w http.ResponseWriter, r *http.Request) {
	period := models.ParsePeriod(r.URL.Query().Get("period"))
	metrics, err := h.analytics.InstrumentMetrics(chi.URLParam(r, "id"), period)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"period":  period,
		"metrics": metrics,
	})
}

// InstrumentQuote returns the latest bar of an instrument
func (h *Handler) InstrumentQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.marketData.GetQuote(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

// ListQuotes returns the quotes of a comma separated ?ids= list keyed by ID
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		h.jsonError(w, "ids is required", http.StatusBadRequest)
		return
	}

	quotes, err := h.marketData.GetQuotes(ids)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quotes)
}

// InstrumentChart renders the close price chart of an instrument for ?period=
func (h *Handler) InstrumentChart(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instrument(w, r)
	if !ok {
		return
	}

	png, err := chart.Render(chart.InstrumentSeries(inst, models.ParsePeriod(r.URL.Query().Get("period"))))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writePNG(w, png)
}

func (h *Handler) instrument(w http.ResponseWriter, r *http.Request) (*models.Instrument, bool) {
	id := chi.URLParam(r, "id")
	inst, ok := h.catalog.Instrument(id)
	if !ok {
		h.writeError(w, fmt.Errorf("%s: %w", id, models.ErrUnknownInstrument))
		return nil, false
	}
	return inst, true
}
