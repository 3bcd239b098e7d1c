package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mercaldo/ledger/internal/adapter/http/dto"
	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/usecase"
)

// InvoiceHandler handles invoice queries and payments.
type InvoiceHandler struct {
	engine    *usecase.Engine
	paymentUC *usecase.PaymentUseCase
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(engine *usecase.Engine, paymentUC *usecase.PaymentUseCase) *InvoiceHandler {
	return &InvoiceHandler{
		engine:    engine,
		paymentUC: paymentUC,
	}
}

// Get retrieves an invoice by ID.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing invoice ID", "")
		return
	}

	invoice, err := h.paymentUC.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get invoice", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InvoiceFromDomain(invoice))
}

// List lists invoices, optionally filtered by kind.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := domain.InvoiceKind(r.URL.Query().Get("kind"))
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	invoices, err := h.paymentUC.ListInvoices(r.Context(), kind, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list invoices", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InvoicesFromDomain(invoices))
}

// Pay applies a payment to an invoice's pending balance.
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "id")
	if invoiceID == "" {
		writeError(w, http.StatusBadRequest, "missing invoice ID", "")
		return
	}

	var req dto.InvoicePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.engine.ProcessEvent(r.Context(), req.ToUseCaseInput(invoiceID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}
