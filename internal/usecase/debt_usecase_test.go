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

type debtFixture struct {
	cashRepo  *mocks.MockCashRepository
	eventRepo *mocks.MockEventRepository
	debtRepo  *mocks.MockDebtRepository
	uc        *usecase.DebtUseCase
}

func newDebtFixture() *debtFixture {
	f := &debtFixture{
		cashRepo:  mocks.NewMockCashRepository(),
		eventRepo: mocks.NewMockEventRepository(),
		debtRepo:  mocks.NewMockDebtRepository(),
	}
	f.uc = usecase.NewDebtUseCase(
		mocks.NewMockTransactionManager(), f.cashRepo, mocks.NewMockAssetRepository(),
		f.eventRepo, f.debtRepo, mocks.NewMockIDGenerator(),
	)
	return f
}

func TestDebtUseCase_CreateDebt(t *testing.T) {
	f := newDebtFixture()

	debt, err := f.uc.CreateDebt(context.Background(), usecase.CreateDebtInput{
		ActorID:     "owner-1",
		DebtorName:  "Old Client",
		Description: "pre-system loan",
		TotalAmount: dec("800000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !debt.PendingBalance.Equal(dec("800000")) || !debt.Active {
		t.Errorf("expected active debt of 800000, got %s active=%v", debt.PendingBalance, debt.Active)
	}

	// No cash moved and no event committed at creation time.
	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.IsZero() {
		t.Errorf("cash moved on debt creation: %s", cash.OperativeCash)
	}
	events, _ := f.eventRepo.List(context.Background(), "", 100, 0)
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestDebtUseCase_CreateDebtValidation(t *testing.T) {
	f := newDebtFixture()

	_, err := f.uc.CreateDebt(context.Background(), usecase.CreateDebtInput{
		DebtorName:  "Old Client",
		TotalAmount: dec("0"),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDebtUseCase_RegisterPayment(t *testing.T) {
	f := newDebtFixture()
	account := domain.NewCashAccount(time.Now().UTC())
	account.InjectCapital(dec("100000"))
	f.cashRepo.Seed(account)

	debt, err := f.uc.CreateDebt(context.Background(), usecase.CreateDebtInput{
		ActorID:     "owner-1",
		DebtorName:  "Old Client",
		TotalAmount: dec("800000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	event, err := f.uc.RegisterPayment(context.Background(), usecase.DebtPaymentInput{
		ActorID: "cashier-1",
		DebtID:  debt.ID,
		Amount:  dec("300000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Collections are cash flow, not profit.
	if !event.CashDelta.Equal(dec("300000")) || !event.ProfitDelta.IsZero() {
		t.Errorf("expected 300000 cash / 0 profit, got %s/%s", event.CashDelta, event.ProfitDelta)
	}

	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.Equal(dec("400000")) {
		t.Errorf("expected cash 400000, got %s", cash.OperativeCash)
	}
	if !cash.AccumulatedProfit.IsZero() {
		t.Errorf("profit moved on debt collection: %s", cash.AccumulatedProfit)
	}

	stored, _ := f.debtRepo.GetByID(context.Background(), debt.ID)
	if !stored.PendingBalance.Equal(dec("500000")) || !stored.Active {
		t.Errorf("expected pending 500000 active, got %s active=%v", stored.PendingBalance, stored.Active)
	}

	// Collecting the rest closes the debt.
	if _, err := f.uc.RegisterPayment(context.Background(), usecase.DebtPaymentInput{
		ActorID: "cashier-1",
		DebtID:  debt.ID,
		Amount:  dec("500000"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ = f.debtRepo.GetByID(context.Background(), debt.ID)
	if stored.Active {
		t.Error("fully collected debt must close")
	}
}

func TestDebtUseCase_RegisterPaymentOverCollection(t *testing.T) {
	f := newDebtFixture()

	debt, err := f.uc.CreateDebt(context.Background(), usecase.CreateDebtInput{
		ActorID:     "owner-1",
		DebtorName:  "Old Client",
		TotalAmount: dec("100000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.uc.RegisterPayment(context.Background(), usecase.DebtPaymentInput{
		ActorID: "cashier-1",
		DebtID:  debt.ID,
		Amount:  dec("150000"),
	})
	if !errors.Is(err, domain.ErrExceedsPendingBalance) {
		t.Errorf("expected ErrExceedsPendingBalance, got %v", err)
	}

	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.IsZero() {
		t.Errorf("cash moved on rejected payment: %s", cash.OperativeCash)
	}
}
