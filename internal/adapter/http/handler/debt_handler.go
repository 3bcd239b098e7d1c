package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mercaldo/ledger/internal/adapter/http/dto"
	"github.com/mercaldo/ledger/internal/usecase"
)

// DebtHandler handles legacy receivables.
type DebtHandler struct {
	engine *usecase.Engine
	debtUC *usecase.DebtUseCase
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(engine *usecase.Engine, debtUC *usecase.DebtUseCase) *DebtHandler {
	return &DebtHandler{
		engine: engine,
		debtUC: debtUC,
	}
}

// Create registers a receivable.
func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	debt, err := h.engine.CreateDebt(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create debt", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DebtFromDomain(debt))
}

// Get retrieves a debt by ID.
func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing debt ID", "")
		return
	}

	debt, err := h.debtUC.GetDebt(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get debt", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtFromDomain(debt))
}

// List lists debts.
func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	debts, err := h.debtUC.ListDebts(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list debts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtsFromDomain(debts))
}

// Pay registers a collection against a debt.
func (h *DebtHandler) Pay(w http.ResponseWriter, r *http.Request) {
	debtID := chi.URLParam(r, "id")
	if debtID == "" {
		writeError(w, http.StatusBadRequest, "missing debt ID", "")
		return
	}

	var req dto.DebtPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.engine.ProcessEvent(r.Context(), req.ToUseCaseInput(debtID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register debt payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}
