package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mercaldo/ledger/internal/adapter/http/dto"
	"github.com/mercaldo/ledger/internal/usecase"
)

// AuditHandler handles physical cash counts.
type AuditHandler struct {
	auditUC *usecase.CashAuditUseCase
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditUC *usecase.CashAuditUseCase) *AuditHandler {
	return &AuditHandler{auditUC: auditUC}
}

// Create records a cash count.
func (h *AuditHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	audit, err := h.auditUC.RecordAudit(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record audit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuditFromDomain(audit))
}

// List lists cash audits.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	audits, err := h.auditUC.ListAudits(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditsFromDomain(audits))
}
