package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"wealth-planner/domain"
	"wealth-planner/service"
)

type LoanHandler struct {
	service *service.LoanService
	log     zerolog.Logger
}

func NewLoanHandler(service *service.LoanService, log zerolog.Logger) *LoanHandler {
	return &LoanHandler{service: service, log: log}
}

func (h *LoanHandler) CalculateEMI(w http.ResponseWriter, r *http.Request) {
	var input domain.EMIInput
	if err := decodeJSON(r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.service.CalculateEMI(input)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
