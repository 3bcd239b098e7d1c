package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mercaldo/ledger/internal/adapter/http/dto"
	"github.com/mercaldo/ledger/internal/usecase"
)

// InvestmentHandler handles investment product positions.
type InvestmentHandler struct {
	engine       *usecase.Engine
	investmentUC *usecase.InvestmentUseCase
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(engine *usecase.Engine, investmentUC *usecase.InvestmentUseCase) *InvestmentHandler {
	return &InvestmentHandler{
		engine:       engine,
		investmentUC: investmentUC,
	}
}

// Create opens a product position.
func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.engine.ProcessEvent(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create investment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}

// Sell sells product units.
func (h *InvestmentHandler) Sell(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing product ID", "")
		return
	}

	var req dto.InvestmentSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.engine.ProcessEvent(r.Context(), req.ToUseCaseInput(productID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register investment sale", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}

// Restock adds stock to a product.
func (h *InvestmentHandler) Restock(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing product ID", "")
		return
	}

	var req dto.RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.engine.ProcessEvent(r.Context(), req.ToUseCaseInput(productID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to restock product", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}

// Get retrieves a product by ID.
func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing product ID", "")
		return
	}

	product, err := h.investmentUC.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get product", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentFromDomain(product))
}

// List lists products.
func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	products, err := h.investmentUC.ListProducts(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list products", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentsFromDomain(products))
}
