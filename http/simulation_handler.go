package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"wealth-planner/domain"
	"wealth-planner/service"
)

// SimulationHandler serves projections, allocation edits and strategy
// comparisons.
type SimulationHandler struct {
	planner *service.PlannerService
	log     zerolog.Logger
}

func NewSimulationHandler(planner *service.PlannerService, log zerolog.Logger) *SimulationHandler {
	return &SimulationHandler{planner: planner, log: log}
}

func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var input domain.SimulationInput
	if err := decodeJSON(r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.planner.Simulate(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *SimulationHandler) Redistribute(w http.ResponseWriter, r *http.Request) {
	var input domain.RedistributeInput
	if err := decodeJSON(r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.planner.Redistribute(input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *SimulationHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var input domain.StrategyInput
	if err := decodeJSON(r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.planner.Compare(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *SimulationHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var input domain.StrategyInput
	if err := decodeJSON(r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}

	plan, err := h.planner.Plan(input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
