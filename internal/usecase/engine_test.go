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

type engineFixture struct {
	cashRepo  *mocks.MockCashRepository
	assetRepo *mocks.MockAssetRepository
	eventRepo *mocks.MockEventRepository
	retrier   *mocks.MockRetrier
	engine    *usecase.Engine
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		cashRepo:  mocks.NewMockCashRepository(),
		assetRepo: mocks.NewMockAssetRepository(),
		eventRepo: mocks.NewMockEventRepository(),
		retrier:   mocks.NewMockRetrier(),
	}

	invoiceRepo := mocks.NewMockInvoiceRepository()
	debtRepo := mocks.NewMockDebtRepository()
	investmentRepo := mocks.NewMockInvestmentRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	policies := domain.DefaultPolicies()

	trades := usecase.NewTradeUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, invoiceRepo, idGen, policies)
	cash := usecase.NewCashUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, idGen, policies)
	investments := usecase.NewInvestmentUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, investmentRepo, idGen)
	debts := usecase.NewDebtUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, debtRepo, idGen)
	payments := usecase.NewPaymentUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, invoiceRepo, idGen)
	reversals := usecase.NewReversalUseCase(txManager, f.cashRepo, f.assetRepo, f.eventRepo, invoiceRepo, debtRepo, investmentRepo, policies)

	f.engine = usecase.NewEngine(
		trades, cash, investments, debts, payments, reversals,
		f.cashRepo, f.assetRepo, f.eventRepo, f.retrier, nil,
	)

	return f
}

func TestEngine_ProcessEventDispatch(t *testing.T) {
	f := newEngineFixture()

	account := domain.NewCashAccount(time.Now().UTC())
	account.InjectCapital(dec("1000000"))
	f.cashRepo.Seed(account)

	inputs := []struct {
		name       string
		input      usecase.EventInput
		expectKind domain.EventKind
	}{
		{
			name: "purchase",
			input: usecase.PurchaseInput{
				ActorID: "cashier-1", AssetID: "USD",
				Quantity: dec("10"), Rate: dec("4000"), PaidAmount: dec("40000"),
			},
			expectKind: domain.EventPurchase,
		},
		{
			name: "sale",
			input: usecase.SaleInput{
				ActorID: "cashier-1", AssetID: "USD",
				Quantity: dec("5"), Rate: dec("4500"), PaidAmount: dec("22500"),
			},
			expectKind: domain.EventSale,
		},
		{
			name: "expense",
			input: usecase.ExpenseInput{
				ActorID: "cashier-1", Amount: dec("10000"), Concept: "rent",
			},
			expectKind: domain.EventExpense,
		},
		{
			name: "capital movement",
			input: usecase.CapitalMovementInput{
				ActorID: "owner-1", Type: domain.CapitalInjection, Amount: dec("50000"),
			},
			expectKind: domain.EventCapitalMovement,
		},
		{
			name: "investment",
			input: usecase.CreateInvestmentInput{
				ActorID: "owner-1", Name: "Phones",
				Quantity: dec("2"), TotalCost: dec("100000"),
			},
			expectKind: domain.EventInvestmentTrade,
		},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			event, err := f.engine.ProcessEvent(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if event.Kind != tt.expectKind {
				t.Errorf("expected kind %s, got %s", tt.expectKind, event.Kind)
			}

			stored, err := f.engine.GetEvent(context.Background(), event.ID)
			if err != nil {
				t.Fatalf("committed event not readable: %v", err)
			}
			if stored.Kind != tt.expectKind {
				t.Errorf("stored kind %s, want %s", stored.Kind, tt.expectKind)
			}
		})
	}
}

func TestEngine_ProcessEventRunsThroughRetrier(t *testing.T) {
	f := newEngineFixture()

	calls := 0
	f.retrier.RetryFunc = func(ctx context.Context, operation func() error) error {
		calls++
		return operation()
	}

	if _, err := f.engine.ProcessEvent(context.Background(), usecase.ExpenseInput{
		ActorID: "cashier-1",
		Amount:  dec("100"),
		Concept: "supplies",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 retrier call, got %d", calls)
	}
}

func TestEngine_ReverseEvent(t *testing.T) {
	f := newEngineFixture()

	event, err := f.engine.ProcessEvent(context.Background(), usecase.ExpenseInput{
		ActorID: "cashier-1",
		Amount:  dec("5000"),
		Concept: "supplies",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reversed, err := f.engine.ReverseEvent(context.Background(), event.ID, "admin-1", "typo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reversed.Reversed {
		t.Error("expected reversed event")
	}

	if _, err := f.engine.ReverseEvent(context.Background(), event.ID, "admin-1", "typo"); !errors.Is(err, domain.ErrAlreadyReversed) {
		t.Errorf("expected ErrAlreadyReversed, got %v", err)
	}
}

func TestEngine_ListEvents(t *testing.T) {
	f := newEngineFixture()

	for i := 0; i < 3; i++ {
		if _, err := f.engine.ProcessEvent(context.Background(), usecase.ExpenseInput{
			ActorID: "cashier-1",
			Amount:  dec("100"),
			Concept: "supplies",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := f.engine.ProcessEvent(context.Background(), usecase.CapitalMovementInput{
		ActorID: "owner-1",
		Type:    domain.CapitalInjection,
		Amount:  dec("1000"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := f.engine.ListEvents(context.Background(), "", 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 events, got %d", len(all))
	}

	expenses, err := f.engine.ListEvents(context.Background(), domain.EventExpense, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expenses) != 3 {
		t.Errorf("expected 3 expenses, got %d", len(expenses))
	}
}

func TestEngine_GetCashAccountDefaultsToZero(t *testing.T) {
	f := newEngineFixture()

	cash, err := f.engine.GetCashAccount(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cash.ID != domain.CashAccountID {
		t.Errorf("expected singleton id, got %s", cash.ID)
	}
	if !cash.OperativeCash.IsZero() || !cash.TotalCapital.IsZero() || !cash.AccumulatedProfit.IsZero() {
		t.Error("expected zero-valued account before first use")
	}
}
