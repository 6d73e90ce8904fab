package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-proof-ledger/internal/app"
	"github.com/MKhiriev/go-proof-ledger/internal/config"
	"github.com/MKhiriev/go-proof-ledger/internal/logger"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "proofctl",
		Short:         "Proof ledger operator CLI",
		Long:          "A command-line tool for proving notes, rebuilding and validating the block chain, syncing insurers and exchanging chain slices with peer nodes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "JSON config file (defaults to $CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")

	root.AddCommand(
		newVersionCmd(),
		newKeygenCmd(),
		newProveCmd(opts),
		newChainCmd(opts),
		newLedgerCmd(opts),
		newInsuranceCmd(opts),
		newExchangeCmd(opts),
		newPortalCmd(opts),
	)

	return root
}

// withNode opens the configured node for the duration of fn.
func withNode(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, node *app.Node) error) error {
	log := logger.NewLoggerTo(os.Stderr, "proofctl")
	if err := log.SetLevel(opts.logLevel); err != nil {
		return err
	}

	cfg, err := config.GetCLIConfig(opts.configPath)
	if err != nil {
		return err
	}
	log = log.WithNode(cfg.App.NodeID)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	node, err := app.NewNode(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := node.Close(); closeErr != nil {
			log.Err(closeErr).Msg("error closing storages")
		}
	}()

	return fn(ctx, node)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
