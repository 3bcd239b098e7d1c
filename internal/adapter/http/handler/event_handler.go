package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mercaldo/ledger/internal/adapter/http/dto"
	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/usecase"
)

// EventHandler handles the event-producing operations and event queries.
type EventHandler struct {
	engine *usecase.Engine
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(engine *usecase.Engine) *EventHandler {
	return &EventHandler{engine: engine}
}

// Purchase registers an inventory purchase.
func (h *EventHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req dto.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.process(w, r, req.ToUseCaseInput(), "failed to register purchase")
}

// Sale registers an inventory or direct sale.
func (h *EventHandler) Sale(w http.ResponseWriter, r *http.Request) {
	var req dto.SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.process(w, r, req.ToUseCaseInput(), "failed to register sale")
}

// Exchange converts one asset position into another.
func (h *EventHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var req dto.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.process(w, r, req.ToUseCaseInput(), "failed to register exchange")
}

// Expense registers an operating expense.
func (h *EventHandler) Expense(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.process(w, r, req.ToUseCaseInput(), "failed to register expense")
}

// CapitalMovement registers an equity injection or withdrawal.
func (h *EventHandler) CapitalMovement(w http.ResponseWriter, r *http.Request) {
	var req dto.CapitalMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.process(w, r, req.ToUseCaseInput(), "failed to register capital movement")
}

// Reverse reverses a committed event.
func (h *EventHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	var req dto.ReverseEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.engine.ReverseEvent(r.Context(), eventID, req.ActorID, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse event", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}

// Get retrieves an event by ID.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing event ID", "")
		return
	}

	event, err := h.engine.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get event", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EventFromDomain(event))
}

// List lists events, optionally filtered by kind.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := domain.EventKind(r.URL.Query().Get("kind"))
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	events, err := h.engine.ListEvents(r.Context(), kind, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EventsFromDomain(events))
}

func (h *EventHandler) process(w http.ResponseWriter, r *http.Request, input usecase.EventInput, failMsg string) {
	event, err := h.engine.ProcessEvent(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), failMsg, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}
