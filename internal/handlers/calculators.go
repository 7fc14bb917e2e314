package handlers

import (
	"net/http"

	"github.com/findosh/finlearn/internal/finmath"
	"github.com/findosh/finlearn/internal/format"
	"github.com/findosh/finlearn/internal/models"
)

// compoundGrowthResponse adds display strings to the simulation result
type compoundGrowthResponse struct {
	models.CompoundGrowthResult
	Formatted map[string]string `json:"formatted"`
}

// CompoundGrowth runs the savings plan simulation
func (h *Handler) CompoundGrowth(w http.ResponseWriter, r *http.Request) {
	var in models.CompoundGrowthInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	result := finmath.CompoundGrowth(in.Principal, in.MonthlyContribution, in.AnnualRatePercent, in.Years)
	if err := result.Check(); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, compoundGrowthResponse{
		CompoundGrowthResult: result,
		Formatted: map[string]string{
			"final_amount":        format.Currency(result.FinalAmount, h.cfg.Currency),
			"total_contributions": format.Currency(result.TotalContributions, h.cfg.Currency),
			"total_interest":      format.Currency(result.TotalInterest, h.cfg.Currency),
		},
	})
}

// SimpleReturn computes the percent change between two values
func (h *Handler) SimpleReturn(w http.ResponseWriter, r *http.Request) {
	var in models.ReturnInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	v := finmath.SimpleReturn(in.Initial, in.Final)
	if err := models.CheckFinite(v); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"simple_return": v,
		"formatted":     format.Percent(v),
	})
}

// CAGR computes the annualized growth rate
func (h *Handler) CAGR(w http.ResponseWriter, r *http.Request) {
	var in models.CAGRInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	v := finmath.CAGR(in.Initial, in.Final, in.Years)
	if err := models.CheckFinite(v); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"cagr":      v,
		"formatted": format.Percent(v),
	})
}

// RealReturn computes the inflation adjusted annual return
func (h *Handler) RealReturn(w http.ResponseWriter, r *http.Request) {
	var in models.RealReturnInput
	if !h.decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	result := finmath.RealReturn(in.Initial, in.Final, in.InflationRate, in.Years)
	if err := result.Check(); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}
