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

type cashFixture struct {
	cashRepo  *mocks.MockCashRepository
	eventRepo *mocks.MockEventRepository
	uc        *usecase.CashUseCase
}

func newCashFixture() *cashFixture {
	f := &cashFixture{
		cashRepo:  mocks.NewMockCashRepository(),
		eventRepo: mocks.NewMockEventRepository(),
	}
	f.uc = usecase.NewCashUseCase(
		mocks.NewMockTransactionManager(), f.cashRepo, mocks.NewMockAssetRepository(),
		f.eventRepo, mocks.NewMockIDGenerator(), domain.DefaultPolicies(),
	)
	return f
}

func (f *cashFixture) seedCash(amount string) {
	account := domain.NewCashAccount(time.Now().UTC())
	account.InjectCapital(dec(amount))
	f.cashRepo.Seed(account)
}

func TestCashUseCase_Expense(t *testing.T) {
	f := newCashFixture()
	f.seedCash("100000")

	event, err := f.uc.Expense(context.Background(), usecase.ExpenseInput{
		ActorID: "cashier-1",
		Amount:  dec("30000"),
		Concept: "rent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !event.CashDelta.Equal(dec("-30000")) || !event.ProfitDelta.Equal(dec("-30000")) {
		t.Errorf("expected -30000/-30000 deltas, got %s/%s", event.CashDelta, event.ProfitDelta)
	}

	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.Equal(dec("70000")) {
		t.Errorf("expected cash 70000, got %s", cash.OperativeCash)
	}
	if !cash.AccumulatedProfit.Equal(dec("-30000")) {
		t.Errorf("expected profit -30000, got %s", cash.AccumulatedProfit)
	}
}

func TestCashUseCase_ExpenseMayOverdraw(t *testing.T) {
	f := newCashFixture()
	f.seedCash("10000")

	if _, err := f.uc.Expense(context.Background(), usecase.ExpenseInput{
		ActorID: "cashier-1",
		Amount:  dec("25000"),
		Concept: "repairs",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cash, _ := f.cashRepo.Get(context.Background())
	if !cash.OperativeCash.Equal(dec("-15000")) {
		t.Errorf("expected cash -15000, got %s", cash.OperativeCash)
	}
}

func TestCashUseCase_CapitalMovement(t *testing.T) {
	tests := []struct {
		name          string
		seed          func(f *cashFixture)
		movementType  string
		amount        string
		expectErr     error
		expectCash    string
		expectCapital string
		expectProfit  string
	}{
		{
			name:          "injection",
			seed:          func(f *cashFixture) { f.seedCash("100000") },
			movementType:  domain.CapitalInjection,
			amount:        "50000",
			expectCash:    "150000",
			expectCapital: "150000",
			expectProfit:  "0",
		},
		{
			name:          "capital withdrawal",
			seed:          func(f *cashFixture) { f.seedCash("100000") },
			movementType:  domain.CapitalWithdrawalCapital,
			amount:        "40000",
			expectCash:    "60000",
			expectCapital: "60000",
			expectProfit:  "0",
		},
		{
			name: "profit withdrawal",
			seed: func(f *cashFixture) {
				account := domain.NewCashAccount(time.Now().UTC())
				account.InjectCapital(dec("100000"))
				account.Credit(dec("30000"))
				account.RecordProfit(dec("30000"))
				f.cashRepo.Seed(account)
			},
			movementType:  domain.CapitalWithdrawalProfit,
			amount:        "20000",
			expectCash:    "110000",
			expectCapital: "100000",
			expectProfit:  "10000",
		},
		{
			name:         "capital withdrawal over balance",
			seed:         func(f *cashFixture) { f.seedCash("10000") },
			movementType: domain.CapitalWithdrawalCapital,
			amount:       "40000",
			expectErr:    domain.ErrInsufficientFunds,
		},
		{
			name:         "profit withdrawal without profit",
			seed:         func(f *cashFixture) { f.seedCash("100000") },
			movementType: domain.CapitalWithdrawalProfit,
			amount:       "20000",
			expectErr:    domain.ErrInsufficientProfit,
		},
		{
			name:         "unknown movement type",
			seed:         func(f *cashFixture) { f.seedCash("100000") },
			movementType: "DIVIDEND",
			amount:       "20000",
			expectErr:    domain.ErrUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCashFixture()
			tt.seed(f)

			event, err := f.uc.CapitalMovement(context.Background(), usecase.CapitalMovementInput{
				ActorID: "owner-1",
				Type:    tt.movementType,
				Amount:  dec(tt.amount),
			})

			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Errorf("expected %v, got %v", tt.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if event.SubType != tt.movementType {
				t.Errorf("expected subtype %s, got %s", tt.movementType, event.SubType)
			}

			cash, _ := f.cashRepo.Get(context.Background())
			if !cash.OperativeCash.Equal(dec(tt.expectCash)) {
				t.Errorf("expected cash %s, got %s", tt.expectCash, cash.OperativeCash)
			}
			if !cash.TotalCapital.Equal(dec(tt.expectCapital)) {
				t.Errorf("expected capital %s, got %s", tt.expectCapital, cash.TotalCapital)
			}
			if !cash.AccumulatedProfit.Equal(dec(tt.expectProfit)) {
				t.Errorf("expected profit %s, got %s", tt.expectProfit, cash.AccumulatedProfit)
			}
		})
	}
}
