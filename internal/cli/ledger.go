package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/SscSPs/arap_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func newTotalsCommand(factory Factory, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "totals <debtors|creditors>",
		Short:   "Print outstanding and overdue totals for one kind",
		Example: "  arap totals debtors",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseAccountKind(args[0])
			if err != nil {
				return err
			}
			a, err := factory(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			totals, err := a.Services.Ledger.GetTotals(cmd.Context(), kind)
			if err != nil {
				return fmt.Errorf("failed to compute totals: %w", err)
			}
			return writeJSON(out, dto.ToTotalsResponse(totals))
		},
	}
}

func newSearchCommand(factory Factory, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "search <debtors|creditors> [term]",
		Short: "Search accounts by name or contact",
		Long:  "Case-insensitive substring search. Without a term every account of the kind is printed.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseAccountKind(args[0])
			if err != nil {
				return err
			}
			term := ""
			if len(args) == 2 {
				term = args[1]
			}
			a, err := factory(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			accounts, err := a.Services.Ledger.Search(cmd.Context(), kind, term)
			if err != nil {
				return fmt.Errorf("failed to search accounts: %w", err)
			}
			return writeJSON(out, dto.ToListAccountResponse(accounts))
		},
	}
}

func newPayCommand(factory Factory, out io.Writer) *cobra.Command {
	var (
		saleID string
		amount string
		key    string
	)
	cmd := &cobra.Command{
		Use:   "pay <debtors|creditors> <accountID>",
		Short: "Record a payment against an account",
		Example: `  # Creditor payment of 150.00
  arap pay creditors SUP-7 --amount 150.00

  # Debtor payment against one sale, safe to repeat
  arap pay debtors CUST-1 --sale INV-1001 --amount 750.50 --key pay-2026-10-19-1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseAccountKind(args[0])
			if err != nil {
				return err
			}
			a, err := factory(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			account, err := recordPayment(cmd.Context(), a.Services.Ledger, kind, args[1],
				dto.RecordPaymentRequest{SaleID: saleID, Amount: amount}, key)
			if err != nil {
				return err
			}
			return writeJSON(out, dto.ToAccountResponse(account))
		},
	}
	cmd.Flags().StringVar(&saleID, "sale", "", "Sale to pay (required for debtors with sales)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in major units, e.g. 750.50")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

type paymentRecorder interface {
	GetAccount(ctx context.Context, kind domain.AccountKind, accountID string) (*domain.Account, error)
	RecordPayment(ctx context.Context, cmd domain.PaymentCommand) (*domain.Account, error)
}

func recordPayment(ctx context.Context, svc paymentRecorder, kind domain.AccountKind, accountID string, req dto.RecordPaymentRequest, key string) (*domain.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateIdempotencyKey(key); err != nil {
		return nil, err
	}
	account, err := svc.GetAccount(ctx, kind, accountID)
	if err != nil {
		return nil, err
	}
	paymentCmd, err := req.ToCommand(kind, accountID, account.Currency(), key)
	if err != nil {
		return nil, err
	}
	return svc.RecordPayment(ctx, paymentCmd)
}
