package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wealth-planner/domain"
	"wealth-planner/service"
)

type ScenarioHandler struct {
	planner *service.PlannerService
	log     zerolog.Logger
}

func NewScenarioHandler(planner *service.PlannerService, log zerolog.Logger) *ScenarioHandler {
	return &ScenarioHandler{planner: planner, log: log}
}

// scenarioID reads and checks the {id} URL parameter.
func scenarioID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid scenario id")
		return "", false
	}
	return id, true
}

func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.Scenario
	if err := decodeJSON(r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}
	input.ID = ""

	saved, err := h.planner.SaveScenario(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *ScenarioHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := scenarioID(w, r)
	if !ok {
		return
	}

	if _, err := h.planner.GetScenario(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	var input domain.Scenario
	if err := decodeJSON(r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}
	input.ID = id

	saved, err := h.planner.SaveScenario(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *ScenarioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := scenarioID(w, r)
	if !ok {
		return
	}

	scenario, err := h.planner.GetScenario(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, scenario)
}

func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.planner.ListScenarios(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := scenarioID(w, r)
	if !ok {
		return
	}

	if err := h.planner.DeleteScenario(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
