package http

import (
	"net/http"

	"wealth-planner/domain"
	"wealth-planner/service"
)

type AnalysisHandler struct {
	advisor *service.AdvisorService
}

func NewAnalysisHandler(advisor *service.AdvisorService) *AnalysisHandler {
	return &AnalysisHandler{advisor: advisor}
}

func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var input domain.AnalysisInput
	if err := decodeJSON(r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}

	res := input.Result
	if len(res.DebtPath) != res.Len() || len(res.InvestmentPath) != res.Len() || len(res.NetWorthPath) != res.Len() {
		writeError(w, http.StatusBadRequest, "result series must have equal length")
		return
	}

	writeJSON(w, http.StatusOK, h.advisor.Analyze(r.Context(), input))
}
