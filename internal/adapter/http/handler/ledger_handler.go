package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mercaldo/ledger/internal/adapter/http/dto"
	"github.com/mercaldo/ledger/internal/usecase"
)

// LedgerHandler handles balance and position queries.
type LedgerHandler struct {
	engine           *usecase.Engine
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(engine *usecase.Engine, reconciliationUC *usecase.ReconciliationUseCase) *LedgerHandler {
	return &LedgerHandler{
		engine:           engine,
		reconciliationUC: reconciliationUC,
	}
}

// GetCash returns the singleton cash account.
func (h *LedgerHandler) GetCash(w http.ResponseWriter, r *http.Request) {
	account, err := h.engine.GetCashAccount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get cash account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CashAccountFromDomain(account))
}

// GetAsset returns one asset ledger.
func (h *LedgerHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")
	if assetID == "" {
		writeError(w, http.StatusBadRequest, "missing asset ID", "")
		return
	}

	ledger, err := h.engine.GetAssetLedger(r.Context(), assetID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get asset ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetLedgerFromDomain(ledger))
}

// ListAssets lists asset ledgers.
func (h *LedgerHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	ledgers, err := h.engine.ListAssetLedgers(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list asset ledgers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetLedgersFromDomain(ledgers))
}

// CheckConsistency runs the reconciliation report.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}
