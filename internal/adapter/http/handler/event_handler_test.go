package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercaldo/ledger/internal/adapter/http/dto"
	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/usecase"
	"github.com/mercaldo/ledger/internal/usecase/mocks"
)

// handlerFixture wires every handler against a real engine backed by
// in-memory repositories, so tests exercise the full request path.
type handlerFixture struct {
	cashRepo       *mocks.MockCashRepository
	assetRepo      *mocks.MockAssetRepository
	eventRepo      *mocks.MockEventRepository
	invoiceRepo    *mocks.MockInvoiceRepository
	debtRepo       *mocks.MockDebtRepository
	investmentRepo *mocks.MockInvestmentRepository
	auditRepo      *mocks.MockCashAuditRepository

	engine *usecase.Engine

	events      *EventHandler
	ledgers     *LedgerHandler
	invoices    *InvoiceHandler
	debts       *DebtHandler
	investments *InvestmentHandler
	audits      *AuditHandler
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		cashRepo:       mocks.NewMockCashRepository(),
		assetRepo:      mocks.NewMockAssetRepository(),
		eventRepo:      mocks.NewMockEventRepository(),
		invoiceRepo:    mocks.NewMockInvoiceRepository(),
		debtRepo:       mocks.NewMockDebtRepository(),
		investmentRepo: mocks.NewMockInvestmentRepository(),
		auditRepo:      mocks.NewMockCashAuditRepository(),
	}

	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	policies := domain.DefaultPolicies()

	trades := usecase.NewTradeUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.invoiceRepo, idGen, policies)
	cash := usecase.NewCashUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, idGen, policies)
	investments := usecase.NewInvestmentUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.investmentRepo, idGen)
	debts := usecase.NewDebtUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.debtRepo, idGen)
	payments := usecase.NewPaymentUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.invoiceRepo, idGen)
	reversals := usecase.NewReversalUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.invoiceRepo, f.debtRepo, f.investmentRepo, policies)
	audits := usecase.NewCashAuditUseCase(f.cashRepo, f.auditRepo, idGen)
	reconciliation := usecase.NewReconciliationUseCase(f.assetRepo, f.cashRepo)

	f.engine = usecase.NewEngine(
		trades, cash, investments, debts, payments, reversals,
		f.cashRepo, f.assetRepo, f.eventRepo, mocks.NewMockRetrier(), nil,
	)

	f.events = NewEventHandler(f.engine)
	f.ledgers = NewLedgerHandler(f.engine, reconciliation)
	f.invoices = NewInvoiceHandler(f.engine, payments)
	f.debts = NewDebtHandler(f.engine, debts)
	f.investments = NewInvestmentHandler(f.engine, investments)
	f.audits = NewAuditHandler(audits)

	return f
}

func (f *handlerFixture) seedCash(amount string) {
	account := domain.NewCashAccount(time.Now().UTC())
	account.InjectCapital(dec(amount))
	f.cashRepo.Seed(account)
}

func (f *handlerFixture) purchase(t *testing.T, assetID, quantity, rate, paid string) dto.EventResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	f.events.Purchase(rec, postJSON(t, "/events/purchases", dto.PurchaseRequest{
		ActorID:    "cashier-1",
		AssetID:    assetID,
		Quantity:   dec(quantity),
		Rate:       dec(rate),
		PaidAmount: dec(paid),
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return decodeEvent(t, rec)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	return httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
}

func decodeEvent(t *testing.T, rec *httptest.ResponseRecorder) dto.EventResponse {
	t.Helper()

	var resp dto.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func TestEventHandler_Purchase(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("1000000")

	resp := f.purchase(t, "USD", "100", "4000", "400000")

	assert.Equal(t, string(domain.EventPurchase), resp.Kind)
	assert.Equal(t, "USD", resp.AssetID)
	assert.True(t, resp.CashDelta.Equal(dec("-400000")), "cash delta %s", resp.CashDelta)
	assert.False(t, resp.Reversed)
}

func TestEventHandler_PurchaseInvalidBody(t *testing.T) {
	f := newHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/events/purchases", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	f.events.Purchase(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventHandler_SaleInsufficientStock(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("1000000")
	f.purchase(t, "USD", "10", "4000", "40000")

	rec := httptest.NewRecorder()
	f.events.Sale(rec, postJSON(t, "/events/sales", dto.SaleRequest{
		ActorID:    "cashier-1",
		AssetID:    "USD",
		Quantity:   dec("50"),
		Rate:       dec("4500"),
		PaidAmount: dec("225000"),
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}

func TestEventHandler_Sale(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("1000000")
	f.purchase(t, "USD", "100", "4000", "400000")

	rec := httptest.NewRecorder()
	f.events.Sale(rec, postJSON(t, "/events/sales", dto.SaleRequest{
		ActorID:    "cashier-1",
		AssetID:    "USD",
		Quantity:   dec("60"),
		Rate:       dec("4500"),
		PaidAmount: dec("270000"),
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeEvent(t, rec)
	assert.Equal(t, string(domain.EventSale), resp.Kind)
	assert.True(t, resp.CostBasis.Equal(dec("240000")), "cost basis %s", resp.CostBasis)
	assert.True(t, resp.ProfitDelta.Equal(dec("30000")), "profit delta %s", resp.ProfitDelta)
}

func TestEventHandler_ExchangeSameAsset(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("1000000")
	f.purchase(t, "USD", "100", "4000", "400000")

	rec := httptest.NewRecorder()
	f.events.Exchange(rec, postJSON(t, "/events/exchanges", dto.ExchangeRequest{
		ActorID:       "cashier-1",
		SourceAssetID: "USD",
		TargetAssetID: "USD",
		SourceAmount:  dec("10"),
		TargetAmount:  dec("10"),
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventHandler_Expense(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("100000")

	rec := httptest.NewRecorder()
	f.events.Expense(rec, postJSON(t, "/events/expenses", dto.ExpenseRequest{
		ActorID: "cashier-1",
		Amount:  dec("30000"),
		Concept: "rent",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeEvent(t, rec)
	assert.Equal(t, string(domain.EventExpense), resp.Kind)
	assert.True(t, resp.CashDelta.Equal(dec("-30000")), "cash delta %s", resp.CashDelta)
	assert.True(t, resp.ProfitDelta.Equal(dec("-30000")), "profit delta %s", resp.ProfitDelta)
}

func TestEventHandler_CapitalMovementUnknownType(t *testing.T) {
	f := newHandlerFixture()

	rec := httptest.NewRecorder()
	f.events.CapitalMovement(rec, postJSON(t, "/events/capital-movements", dto.CapitalMovementRequest{
		ActorID: "owner-1",
		Type:    "DIVIDEND",
		Amount:  dec("1000"),
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventHandler_Reverse(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("100000")

	rec := httptest.NewRecorder()
	f.events.Expense(rec, postJSON(t, "/events/expenses", dto.ExpenseRequest{
		ActorID: "cashier-1",
		Amount:  dec("5000"),
		Concept: "supplies",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeEvent(t, rec)

	body := dto.ReverseEventRequest{ActorID: "admin-1", Reason: "typo"}

	rec = httptest.NewRecorder()
	req := setChiURLParam(postJSON(t, "/events/"+created.ID+"/reverse", body), "id", created.ID)
	f.events.Reverse(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	reversed := decodeEvent(t, rec)
	assert.True(t, reversed.Reversed)
	assert.Equal(t, "admin-1", reversed.ReversedBy)

	rec = httptest.NewRecorder()
	req = setChiURLParam(postJSON(t, "/events/"+created.ID+"/reverse", body), "id", created.ID)
	f.events.Reverse(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestEventHandler_ReverseMissingID(t *testing.T) {
	f := newHandlerFixture()

	rec := httptest.NewRecorder()
	f.events.Reverse(rec, postJSON(t, "/events//reverse", dto.ReverseEventRequest{ActorID: "admin-1"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventHandler_Get(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("1000000")
	created := f.purchase(t, "USD", "10", "4000", "40000")

	rec := httptest.NewRecorder()
	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/events/"+created.ID, nil), "id", created.ID)
	f.events.Get(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEvent(t, rec)
	assert.Equal(t, created.ID, resp.ID)

	rec = httptest.NewRecorder()
	req = setChiURLParam(httptest.NewRequest(http.MethodGet, "/events/nope", nil), "id", "nope")
	f.events.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventHandler_ListFiltersByKind(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("1000000")

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		f.events.Expense(rec, postJSON(t, "/events/expenses", dto.ExpenseRequest{
			ActorID: "cashier-1",
			Amount:  dec("100"),
			Concept: "supplies",
		}))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	f.purchase(t, "USD", "10", "4000", "40000")

	rec := httptest.NewRecorder()
	f.events.List(rec, httptest.NewRequest(http.MethodGet, "/events?kind=expense", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	for _, e := range resp {
		assert.Equal(t, string(domain.EventExpense), e.Kind)
	}
}
