package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	postgresRepo "github.com/mercaldo/ledger/internal/adapter/repository/postgres"
	"github.com/mercaldo/ledger/internal/infrastructure/config"
	"github.com/mercaldo/ledger/internal/infrastructure/postgres"
	"github.com/mercaldo/ledger/internal/usecase"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger CLI tool",
		Long:  `A command line interface for operating the ledger engine.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency()
		},
	}

	cashCmd := &cobra.Command{
		Use:   "cash",
		Short: "Show the cash account balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCash()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
		},
	})

	var confirmReset bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all ledger history and zero the balances",
		Long:  `Deletes every event, invoice, debt and product and zeroes the cash account. There is no undo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmReset {
				return fmt.Errorf("refusing to reset without --yes")
			}
			return resetLedger(cmd.Context())
		},
	}
	resetCmd.Flags().BoolVar(&confirmReset, "yes", false, "Confirm the reset")

	rootCmd.AddCommand(consistencyCmd, cashCmd, migrateCmd, resetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() error {
	result, err := getJSON("/api/v1/consistency")
	if err != nil {
		return err
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
	} else {
		fmt.Println("Consistency check FAILED")
	}
	fmt.Printf("Assets checked: %v\n", result["total_assets"])
	fmt.Printf("Cash available: %v\n", result["cash_available"])

	return nil
}

func showCash() error {
	result, err := getJSON("/api/v1/cash")
	if err != nil {
		return err
	}

	fmt.Printf("Operative cash:     %v\n", result["operative_cash"])
	fmt.Printf("Total capital:      %v\n", result["total_capital"])
	fmt.Printf("Accumulated profit: %v\n", result["accumulated_profit"])

	return nil
}

// resetLedger talks to the database directly; the reset facility is
// deliberately not exposed over HTTP.
func resetLedger(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	adminUC := usecase.NewAdminUseCase(
		postgresRepo.NewTxManager(pool),
		postgresRepo.NewCashRepository(pool),
		postgresRepo.NewAssetRepository(pool),
		postgresRepo.NewEventRepository(pool),
		postgresRepo.NewInvoiceRepository(pool),
		postgresRepo.NewDebtRepository(pool),
		postgresRepo.NewInvestmentRepository(pool),
	)

	if err := adminUC.Reset(ctx); err != nil {
		return err
	}

	fmt.Println("Ledger reset complete")

	return nil
}

func getJSON(path string) (map[string]any, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}
