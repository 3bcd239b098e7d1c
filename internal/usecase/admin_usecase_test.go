package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/mercaldo/ledger/internal/domain"
	"github.com/mercaldo/ledger/internal/usecase"
	"github.com/mercaldo/ledger/internal/usecase/mocks"
)

func TestAdminUseCase_Reset(t *testing.T) {
	cashRepo := mocks.NewMockCashRepository()
	assetRepo := mocks.NewMockAssetRepository()
	eventRepo := mocks.NewMockEventRepository()
	invoiceRepo := mocks.NewMockInvoiceRepository()
	debtRepo := mocks.NewMockDebtRepository()
	investmentRepo := mocks.NewMockInvestmentRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	policies := domain.DefaultPolicies()

	trades := usecase.NewTradeUseCase(txManager, cashRepo, assetRepo, eventRepo, invoiceRepo, idGen, policies)
	debts := usecase.NewDebtUseCase(txManager, cashRepo, assetRepo, eventRepo, debtRepo, idGen)

	account := domain.NewCashAccount(time.Now().UTC())
	account.InjectCapital(dec("1000000"))
	cashRepo.Seed(account)

	if _, err := trades.Purchase(context.Background(), usecase.PurchaseInput{
		ActorID:    "cashier-1",
		AssetID:    "USD",
		Quantity:   dec("100"),
		Rate:       dec("4000"),
		PaidAmount: dec("400000"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := debts.CreateDebt(context.Background(), usecase.CreateDebtInput{
		ActorID:     "owner-1",
		DebtorName:  "Old Client",
		TotalAmount: dec("500000"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	uc := usecase.NewAdminUseCase(txManager, cashRepo, assetRepo, eventRepo, invoiceRepo, debtRepo, investmentRepo)
	if err := uc.Reset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, _ := eventRepo.List(context.Background(), "", 100, 0)
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
	allDebts, _ := debtRepo.List(context.Background(), 100, 0)
	if len(allDebts) != 0 {
		t.Errorf("expected no debts, got %d", len(allDebts))
	}
	assets, _ := assetRepo.List(context.Background(), 100, 0)
	if len(assets) != 0 {
		t.Errorf("expected no asset ledgers, got %d", len(assets))
	}

	// The singleton survives with zeroed balances.
	cash, err := cashRepo.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cash.OperativeCash.IsZero() || !cash.TotalCapital.IsZero() || !cash.AccumulatedProfit.IsZero() {
		t.Errorf("expected zeroed account, got %s/%s/%s",
			cash.OperativeCash, cash.TotalCapital, cash.AccumulatedProfit)
	}
}
