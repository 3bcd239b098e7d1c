package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercaldo/ledger/internal/adapter/http/dto"
	"github.com/mercaldo/ledger/internal/domain"
)

func TestInvoiceHandler_PayPurchaseInvoice(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("1000000")

	created := f.purchase(t, "USD", "100", "4000", "250000")
	invoiceID := created.ReferenceID
	require.NotEmpty(t, invoiceID)

	rec := httptest.NewRecorder()
	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/invoices/"+invoiceID, nil), "id", invoiceID)
	f.invoices.Get(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var invoice dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	assert.Equal(t, string(domain.InvoicePurchase), invoice.Kind)
	assert.True(t, invoice.PendingBalance.Equal(dec("150000")), "pending %s", invoice.PendingBalance)
	assert.Equal(t, string(domain.InvoicePending), invoice.Status)

	rec = httptest.NewRecorder()
	req = setChiURLParam(postJSON(t, "/invoices/"+invoiceID+"/payments", dto.InvoicePaymentRequest{
		ActorID: "cashier-1",
		Amount:  dec("150000"),
	}), "id", invoiceID)
	f.invoices.Pay(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	event := decodeEvent(t, rec)
	assert.Equal(t, string(domain.EventPayment), event.Kind)
	assert.True(t, event.CashDelta.Equal(dec("-150000")), "cash delta %s", event.CashDelta)

	rec = httptest.NewRecorder()
	req = setChiURLParam(httptest.NewRequest(http.MethodGet, "/invoices/"+invoiceID, nil), "id", invoiceID)
	f.invoices.Get(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	assert.Equal(t, string(domain.InvoiceCompleted), invoice.Status)
	assert.True(t, invoice.PendingBalance.IsZero())
}

func TestInvoiceHandler_PayExceedsPending(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("1000000")

	created := f.purchase(t, "USD", "100", "4000", "250000")
	invoiceID := created.ReferenceID

	rec := httptest.NewRecorder()
	req := setChiURLParam(postJSON(t, "/invoices/"+invoiceID+"/payments", dto.InvoicePaymentRequest{
		ActorID: "cashier-1",
		Amount:  dec("999999"),
	}), "id", invoiceID)
	f.invoices.Pay(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestInvoiceHandler_GetUnknown(t *testing.T) {
	f := newHandlerFixture()

	rec := httptest.NewRecorder()
	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/invoices/nope", nil), "id", "nope")
	f.invoices.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvoiceHandler_ListFiltersByKind(t *testing.T) {
	f := newHandlerFixture()
	f.seedCash("1000000")
	f.purchase(t, "USD", "100", "4000", "400000")

	rec := httptest.NewRecorder()
	f.events.Sale(rec, postJSON(t, "/events/sales", dto.SaleRequest{
		ActorID:    "cashier-1",
		AssetID:    "USD",
		Quantity:   dec("10"),
		Rate:       dec("4500"),
		PaidAmount: dec("45000"),
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	f.invoices.List(rec, httptest.NewRequest(http.MethodGet, "/invoices?kind=sale", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, string(domain.InvoiceSale), resp[0].Kind)
}
