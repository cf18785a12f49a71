// Package cli implements the ledger administration command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/SscSPs/arap_ledger/internal/app"
	"github.com/SscSPs/arap_ledger/internal/platform/config"
	"github.com/spf13/cobra"
)

// Factory builds a wired application for one command invocation.
type Factory func(ctx context.Context) (*app.App, error)

var version = "1.0.0"

// NewRootCommand returns the arap root command. factory is called by every
// subcommand that needs the ledger; results are written to out as JSON.
func NewRootCommand(factory Factory, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arap",
		Short: "Administer the receivable and payable ledger",
		Long: `arap reads and updates the debtor and creditor ledger directly,
without going through the HTTP API.

Configuration is taken from the environment (and .env), the same as the
server: STORE_DRIVER, DATABASE_URL, KAFKA_BROKERS and friends.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newTotalsCommand(factory, out),
		newSearchCommand(factory, out),
		newPayCommand(factory, out),
		newSeedCommand(factory, out),
		newMigrateCommand(),
	)
	return rootCmd
}

// DefaultFactory loads configuration from the environment, honouring a
// non-empty driver override, and wires the application without migrating.
func DefaultFactory(driver string) Factory {
	return func(ctx context.Context) (*app.App, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		if driver != "" {
			cfg.StoreDriver = driver
		}
		return app.New(ctx, cfg, app.NewLogger(os.Stderr, cfg.LogLevel), false)
	}
}

// Execute runs the command line with the process arguments.
func Execute() {
	var driver string
	factory := func(ctx context.Context) (*app.App, error) {
		return DefaultFactory(driver)(ctx)
	}
	rootCmd := NewRootCommand(factory, os.Stdout)
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Store driver override (postgres or memory)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
