package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/usecase"
	"github.com/mercaldo/ledger/internal/usecase/mocks"
)

// reversalFixture wires every processor against the same stores so tests can
// commit real events and then undo them.
type reversalFixture struct {
	cashRepo       *mocks.MockCashRepository
	assetRepo      *mocks.MockAssetRepository
	eventRepo      *mocks.MockEventRepository
	invoiceRepo    *mocks.MockInvoiceRepository
	debtRepo       *mocks.MockDebtRepository
	investmentRepo *mocks.MockInvestmentRepository

	trades      *usecase.TradeUseCase
	cash        *usecase.CashUseCase
	investments *usecase.InvestmentUseCase
	debts       *usecase.DebtUseCase
	payments    *usecase.PaymentUseCase
	uc          *usecase.ReversalUseCase
}

func newReversalFixture() *reversalFixture {
	f := &reversalFixture{
		cashRepo:       mocks.NewMockCashRepository(),
		assetRepo:      mocks.NewMockAssetRepository(),
		eventRepo:      mocks.NewMockEventRepository(),
		invoiceRepo:    mocks.NewMockInvoiceRepository(),
		debtRepo:       mocks.NewMockDebtRepository(),
		investmentRepo: mocks.NewMockInvestmentRepository(),
	}

	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	policies := domain.DefaultPolicies()

	f.trades = usecase.NewTradeUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.invoiceRepo, idGen, policies)
	f.cash = usecase.NewCashUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, idGen, policies)
	f.investments = usecase.NewInvestmentUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.investmentRepo, idGen)
	f.debts = usecase.NewDebtUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.debtRepo, idGen)
	f.payments = usecase.NewPaymentUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.invoiceRepo, idGen)
	f.uc = usecase.NewReversalUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, f.invoiceRepo, f.debtRepo, f.investmentRepo, policies)

	return f
}

func (f *reversalFixture) seedCash(amount string) {
	account := domain.NewCashAccount(time.Now().UTC())
	account.InjectCapital(dec(amount))
	f.cashRepo.Seed(account)
}

func (f *reversalFixture) seedAsset(assetID string, buys ...[2]string) {
	ledger := domain.NewAssetLedger(assetID, time.Now().UTC())
	for _, buy := range buys {
		ledger.ApplyPurchase(dec(buy[0]), dec(buy[1]))
	}
	f.assetRepo.Seed(ledger)
}

func (f *reversalFixture) reverse(t *testing.T, eventID string) *domain.LedgerEvent {
	t.Helper()
	event, err := f.uc.ReverseEvent(context.Background(), usecase.ReverseEventInput{
		EventID: eventID,
		ActorID: "admin-1",
		Reason:  "data entry error",
	})
	if err != nil {
		t.Fatalf("reversal failed: %v", err)
	}
	return event
}

func TestReversalUseCase_ReverseSaleRestoresExactState(t *testing.T) {
	f := newReversalFixture()
	f.seedCash("500000")
	f.seedAsset("USD", [2]string{"100", "400000"}, [2]string{"50", "220000"})

	sale, err := f.trades.Sale(context.Background(), usecase.SaleInput{
		ActorID:    "cashier-1",
		AssetID:    "USD",
		Quantity:   dec("60"),
		Rate:       dec("4500"),
		PaidAmount: dec("270000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reversed := f.reverse(t, sale.ID)

	if !reversed.Reversed || reversed.ReversedBy != "admin-1" {
		t.Errorf("reversal fields not set: %+v", reversed)
	}

	// The persisted cost basis restores the pre-sale ledger exactly, even
	// though recomputing from the post-sale average could not.
	ledger, _ := f.assetRepo.GetByID(context.Background(), "USD")
	if !ledger.Quantity.Equal(dec("150")) || !ledger.TotalCost.Equal(dec("620000")) || !ledger.AverageCost.Equal(dec("4133.33")) {
		t.Errorf("expected 150/620000/4133.33, got %s/%s/%s",
			ledger.Quantity, ledger.TotalCost, ledger.AverageCost)
	}

	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.Equal(dec("500000")) || !cash.AccumulatedProfit.IsZero() {
		t.Errorf("expected cash 500000 / profit 0, got %s/%s",
			cash.OperativeCash, cash.AccumulatedProfit)
	}

	// The sale's invoice is closed to further payments.
	invoice, _ := f.invoiceRepo.GetByID(context.Background(), sale.ReferenceID)
	if invoice.Status != domain.InvoiceReversed {
		t.Errorf("expected reversed invoice, got %s", invoice.Status)
	}
}

func TestReversalUseCase_ReverseTwice(t *testing.T) {
	f := newReversalFixture()
	f.seedCash("500000")

	expense, err := f.cash.Expense(context.Background(), usecase.ExpenseInput{
		ActorID: "cashier-1",
		Amount:  dec("30000"),
		Concept: "rent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.reverse(t, expense.ID)

	_, err = f.uc.ReverseEvent(context.Background(), usecase.ReverseEventInput{
		EventID: expense.ID,
		ActorID: "admin-1",
		Reason:  "again",
	})
	if !errors.Is(err, domain.ErrAlreadyReversed) {
		t.Errorf("expected ErrAlreadyReversed, got %v", err)
	}

	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.Equal(dec("500000")) {
		t.Errorf("expected cash 500000, got %s", cash.OperativeCash)
	}
}

func TestReversalUseCase_ReversePurchaseWithResoldStock(t *testing.T) {
	f := newReversalFixture()
	f.seedCash("1000000")

	purchase, err := f.trades.Purchase(context.Background(), usecase.PurchaseInput{
		ActorID:    "cashier-1",
		AssetID:    "USD",
		Quantity:   dec("100"),
		Rate:       dec("4000"),
		PaidAmount: dec("400000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.trades.Sale(context.Background(), usecase.SaleInput{
		ActorID:    "cashier-1",
		AssetID:    "USD",
		Quantity:   dec("80"),
		Rate:       dec("4500"),
		PaidAmount: dec("360000"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only 20 of the purchased 100 remain; taking back 100 must fail and
	// leave everything untouched.
	_, err = f.uc.ReverseEvent(context.Background(), usecase.ReverseEventInput{
		EventID: purchase.ID,
		ActorID: "admin-1",
		Reason:  "wrong provider",
	})
	if !errors.Is(err, domain.ErrInsufficientInventory) {
		t.Fatalf("expected ErrInsufficientInventory, got %v", err)
	}

	stored, _ := f.eventRepo.GetByID(context.Background(), purchase.ID)
	if stored.Reversed {
		t.Error("failed reversal must not mark the event")
	}
	ledger, _ := f.assetRepo.GetByID(context.Background(), "USD")
	if !ledger.Quantity.Equal(dec("20")) {
		t.Errorf("inventory mutated by failed reversal: %s", ledger.Quantity)
	}
}

func TestReversalUseCase_ReverseExchange(t *testing.T) {
	f := newReversalFixture()
	f.seedCash("500000")
	f.seedAsset("USD", [2]string{"100", "400000"}, [2]string{"50", "220000"})

	exchange, err := f.trades.Exchange(context.Background(), usecase.ExchangeInput{
		ActorID:       "cashier-1",
		SourceAssetID: "USD",
		TargetAssetID: "EUR",
		SourceAmount:  dec("20"),
		TargetAmount:  dec("18"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.reverse(t, exchange.ID)

	usd, _ := f.assetRepo.GetByID(context.Background(), "USD")
	eur, _ := f.assetRepo.GetByID(context.Background(), "EUR")
	if !usd.Quantity.Equal(dec("150")) || !usd.TotalCost.Equal(dec("620000")) {
		t.Errorf("expected USD 150/620000, got %s/%s", usd.Quantity, usd.TotalCost)
	}
	if !eur.Quantity.IsZero() || !eur.TotalCost.IsZero() {
		t.Errorf("expected EUR emptied, got %s/%s", eur.Quantity, eur.TotalCost)
	}
}

func TestReversalUseCase_ReverseCapitalMovement(t *testing.T) {
	f := newReversalFixture()
	f.seedCash("100000")

	injection, err := f.cash.CapitalMovement(context.Background(), usecase.CapitalMovementInput{
		ActorID: "owner-1",
		Type:    domain.CapitalInjection,
		Amount:  dec("50000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.reverse(t, injection.ID)

	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.Equal(dec("100000")) || !cash.TotalCapital.Equal(dec("100000")) {
		t.Errorf("expected 100000/100000, got %s/%s", cash.OperativeCash, cash.TotalCapital)
	}
}

func TestReversalUseCase_ReverseInvestmentSale(t *testing.T) {
	f := newReversalFixture()
	f.seedCash("6000000")

	created, err := f.investments.CreateInvestment(context.Background(), usecase.CreateInvestmentInput{
		ActorID:   "owner-1",
		Name:      "Phones",
		Quantity:  dec("10"),
		TotalCost: dec("5000000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sale, err := f.investments.RegisterSale(context.Background(), usecase.InvestmentSaleInput{
		ActorID:   "owner-1",
		ProductID: created.ReferenceID,
		Quantity:  dec("10"),
		SalePrice: dec("5500000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	product, _ := f.investmentRepo.GetByID(context.Background(), created.ReferenceID)
	if product.Status != domain.InvestmentSoldOut {
		t.Fatalf("expected sold_out, got %s", product.Status)
	}

	f.reverse(t, sale.ID)

	product, _ = f.investmentRepo.GetByID(context.Background(), created.ReferenceID)
	if product.Status != domain.InvestmentActive {
		t.Errorf("expected active after reversal, got %s", product.Status)
	}
	if !product.Quantity.Equal(dec("10")) || !product.UnitCost.Equal(dec("500000")) {
		t.Errorf("expected 10 @ 500000, got %s @ %s", product.Quantity, product.UnitCost)
	}

	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.Equal(dec("1000000")) || !cash.AccumulatedProfit.IsZero() {
		t.Errorf("expected cash 1000000 / profit 0, got %s/%s",
			cash.OperativeCash, cash.AccumulatedProfit)
	}
}

func TestReversalUseCase_ReverseDebtPayment(t *testing.T) {
	f := newReversalFixture()
	f.seedCash("0")

	debt, err := f.debts.CreateDebt(context.Background(), usecase.CreateDebtInput{
		ActorID:     "owner-1",
		DebtorName:  "Old Client",
		TotalAmount: dec("800000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, err := f.debts.RegisterPayment(context.Background(), usecase.DebtPaymentInput{
		ActorID: "cashier-1",
		DebtID:  debt.ID,
		Amount:  dec("800000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.reverse(t, payment.ID)

	stored, _ := f.debtRepo.GetByID(context.Background(), debt.ID)
	if !stored.Active || !stored.PendingBalance.Equal(dec("800000")) {
		t.Errorf("expected reopened debt of 800000, got %s active=%v", stored.PendingBalance, stored.Active)
	}

	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.IsZero() {
		t.Errorf("expected cash 0, got %s", cash.OperativeCash)
	}
}

func TestReversalUseCase_ReverseInvoicePayment(t *testing.T) {
	f := newReversalFixture()
	f.seedCash("500000")

	sale, err := f.trades.Sale(context.Background(), usecase.SaleInput{
		ActorID:    "cashier-1",
		AssetID:    "USD",
		Quantity:   dec("100"),
		Rate:       dec("4200"),
		PaidAmount: dec("100000"),
		Mode:       domain.SaleModeDirect,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, err := f.payments.RegisterPayment(context.Background(), usecase.PaymentInput{
		ActorID:   "cashier-1",
		InvoiceID: sale.ReferenceID,
		Amount:    dec("320000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invoice, _ := f.invoiceRepo.GetByID(context.Background(), sale.ReferenceID)
	if invoice.Status != domain.InvoiceCompleted {
		t.Fatalf("expected completed invoice, got %s", invoice.Status)
	}

	f.reverse(t, payment.ID)

	invoice, _ = f.invoiceRepo.GetByID(context.Background(), sale.ReferenceID)
	if invoice.Status != domain.InvoicePending || !invoice.PendingBalance.Equal(dec("320000")) {
		t.Errorf("expected pending 320000, got %s (%s)", invoice.PendingBalance, invoice.Status)
	}
}

func TestReversalUseCase_BlockedWhenProceedsSpent(t *testing.T) {
	f := newReversalFixture()
	f.seedCash("0")

	sale, err := f.trades.Sale(context.Background(), usecase.SaleInput{
		ActorID:    "cashier-1",
		AssetID:    "USD",
		Quantity:   dec("100"),
		Rate:       dec("4200"),
		PaidAmount: dec("420000"),
		Mode:       domain.SaleModeDirect,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Spend the proceeds so pulling them back would overdraw the float.
	if _, err := f.cash.Expense(context.Background(), usecase.ExpenseInput{
		ActorID: "cashier-1",
		Amount:  dec("400000"),
		Concept: "rent",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.uc.ReverseEvent(context.Background(), usecase.ReverseEventInput{
		EventID: sale.ID,
		ActorID: "admin-1",
		Reason:  "mistake",
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}

	stored, _ := f.eventRepo.GetByID(context.Background(), sale.ID)
	if stored.Reversed {
		t.Error("failed reversal must not mark the event")
	}
}

func TestReversalUseCase_UnknownEvent(t *testing.T) {
	f := newReversalFixture()

	_, err := f.uc.ReverseEvent(context.Background(), usecase.ReverseEventInput{
		EventID: "missing",
		ActorID: "admin-1",
		Reason:  "mistake",
	})
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}
