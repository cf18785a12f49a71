package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/arap_ledger/internal/app"
	"github.com/SscSPs/arap_ledger/internal/apperrors"
	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/SscSPs/arap_ledger/internal/platform/config"
	"github.com/SscSPs/arap_ledger/pkg/database"
	"github.com/spf13/cobra"
)

// seedResult summarises a seed run.
type seedResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

func newSeedCommand(factory Factory, out io.Writer) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create debtor and creditor accounts",
		Long: `Creates accounts from a JSON array of accounts (amounts in minor units).
Without --file a small sample ledger is created. Accounts that already exist
are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts := sampleAccounts(time.Now().UTC())
			if file != "" {
				loaded, err := readAccounts(file)
				if err != nil {
					return err
				}
				accounts = loaded
			}

			a, err := factory(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res := seedResult{Created: []string{}, Skipped: []string{}}
			for _, acc := range accounts {
				label := string(acc.Kind) + "/" + acc.AccountID
				_, err := a.Services.Provisioner.Create(cmd.Context(), acc)
				switch {
				case errors.Is(err, apperrors.ErrDuplicate):
					res.Skipped = append(res.Skipped, label)
				case err != nil:
					return fmt.Errorf("failed to create %s: %w", label, err)
				default:
					res.Created = append(res.Created, label)
				}
			}
			return writeJSON(out, res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the accounts to create")
	return cmd
}

func readAccounts(path string) ([]domain.Account, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var accounts []domain.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON array of accounts: %v", apperrors.ErrValidation, path, err)
	}
	return accounts, nil
}

func sampleAccounts(now time.Time) []domain.Account {
	day := 24 * time.Hour
	return []domain.Account{
		{
			AccountID:   "CUST-1",
			Kind:        domain.KindDebtor,
			Name:        "Acme Retail",
			ContactInfo: "accounts@acme.example",
			CreditTerms: "Net 30",
			Sales: []domain.Sale{
				{SaleID: "INV-1001", SaleDate: now.Add(-45 * day), DueDate: now.Add(-15 * day), TotalAmount: 120000, PaidAmount: 30000},
				{SaleID: "INV-1002", SaleDate: now.Add(-5 * day), DueDate: now.Add(25 * day), TotalAmount: 45000},
			},
		},
		{
			AccountID:   "CUST-2",
			Kind:        domain.KindDebtor,
			Name:        "Brightside Cafe",
			ContactInfo: "+1 555 0100",
			Sales: []domain.Sale{
				{SaleID: "INV-1003", SaleDate: now.Add(-60 * day), TotalAmount: 8000, PaidAmount: 8000},
			},
		},
		{
			AccountID:   "SUP-7",
			Kind:        domain.KindCreditor,
			Name:        "Northwind Supplies",
			ContactInfo: "billing@northwind.example",
			CreditTerms: "Net 45",
			Balance:     250000,
			DueDate:     now.Add(10 * day),
		},
		{
			AccountID: "SUP-9",
			Kind:      domain.KindCreditor,
			Name:      "Harbor Logistics",
			Balance:   60000,
			DueDate:   now.Add(-3 * day),
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.StoreDriver != config.StoreDriverPostgres {
				return fmt.Errorf("%w: migrations need STORE_DRIVER=%s", apperrors.ErrValidation, config.StoreDriverPostgres)
			}
			logger := app.NewLogger(os.Stderr, cfg.LogLevel)
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return err
			}
			logger.Info("Migrations complete", slog.String("path", cfg.MigrationsPath))
			return nil
		},
	}
}
