package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/findosh/finlearn/internal/services/chart"
	"github.com/findosh/finlearn/internal/services/importer"
)

type addPositionRequest struct {
	InstrumentID string  `json:"instrument_id"`
	Shares       float64 `json:"shares"`
}

type updatePositionRequest struct {
	Shares float64 `json:"shares"`
}

// GetPortfolio returns the valued portfolio
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolio.Summary()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// ClearPortfolio removes all positions
func (h *Handler) ClearPortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolio.Clear(); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPosition adds an instrument to the portfolio
func (h *Handler) AddPosition(w http.ResponseWriter, r *http.Request) {
	var req addPositionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.InstrumentID == "" {
		h.jsonError(w, "instrument_id is required", http.StatusBadRequest)
		return
	}

	p, err := h.portfolio.AddPosition(req.InstrumentID, req.Shares)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

// ImportPortfolio reads positions from a CSV request body
func (h *Handler) ImportPortfolio(w http.ResponseWriter, r *http.Request) {
	parsed, err := importer.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes), h.catalog)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, err)
		return
	}

	result, err := h.portfolio.Import(parsed.Rows)
	if err != nil {
		h.writeError(w, err)
		return
	}
	result.Skipped = append(parsed.Errors, result.Skipped...)
	h.writeJSON(w, http.StatusOK, result)
}

// UpdatePosition changes the share count of a position
func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.positionID(w, r)
	if !ok {
		return
	}
	var req updatePositionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	p, err := h.portfolio.UpdateShares(id, req.Shares)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// RemovePosition deletes a position
func (h *Handler) RemovePosition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.positionID(w, r)
	if !ok {
		return
	}
	if err := h.portfolio.RemovePosition(id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PortfolioPerformance returns the aggregated history and metrics
func (h *Handler) PortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.portfolio.Performance()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, perf)
}

// ExportPortfolio returns the portfolio snapshot as a download
func (h *Handler) ExportPortfolio(w http.ResponseWriter, r *http.Request) {
	export, err := h.portfolio.Export(h.now())
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName()))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		h.log.Warn().Err(err).Msg("Failed to encode export")
	}
}

// PortfolioChart renders the total return chart of the portfolio
func (h *Handler) PortfolioChart(w http.ResponseWriter, r *http.Request) {
	perf, err := h.portfolio.Performance()
	if err != nil {
		h.writeError(w, err)
		return
	}

	png, err := chart.Render(chart.PerformanceSeries(perf))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writePNG(w, png)
}

func (h *Handler) positionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.jsonError(w, "invalid position id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
