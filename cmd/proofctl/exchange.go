package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-proof-ledger/internal/app"
	"github.com/MKhiriev/go-proof-ledger/models"
)

func newExchangeCmd(opts *rootOptions) *cobra.Command {
	exchange := &cobra.Command{
		Use:   "exchange",
		Short: "Replicate chain slices between nodes",
	}

	exchange.AddCommand(
		newExchangeCreateCmd(opts),
		newExchangeVerifyCmd(opts),
		&cobra.Command{
			Use:   "deliver <bundle-id>",
			Short: "Send a created bundle to its target node",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
					bundle, err := node.Services.ExchangeService.Deliver(ctx, args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd, bundle)
				})
			},
		},
		&cobra.Command{
			Use:   "sweep",
			Short: "Mark bundles not verified within the stale window",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
					swept, err := node.Services.ExchangeService.SweepStale(ctx, time.Now().UTC())
					if err != nil {
						return err
					}
					return printJSON(cmd, swept)
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print the current state of every bundle",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
					bundles, err := node.Services.ExchangeService.Exchanges(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, bundles)
				})
			},
		},
	)

	return exchange
}

func newExchangeCreateCmd(opts *rootOptions) *cobra.Command {
	var request models.ExchangeRequest

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Sign a chain slice for a peer node",
		Example: `  proofctl exchange create --target clinic-b --start 0 --end 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
				locator, err := node.Services.ExchangeService.CreateBundle(ctx, request)
				if err != nil {
					return err
				}
				return printJSON(cmd, locator)
			})
		},
	}
	cmd.Flags().StringVar(&request.SourceNode, "source", "", "Source node (defaults to this node)")
	cmd.Flags().StringVar(&request.TargetNode, "target", "", "Target node")
	cmd.Flags().Uint64Var(&request.BlockRange.Start, "start", 0, "First block index")
	cmd.Flags().Uint64Var(&request.BlockRange.End, "end", 0, "Last block index (inclusive)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newExchangeVerifyCmd(opts *rootOptions) *cobra.Command {
	var (
		locator        models.ExchangeLocator
		expectedSource string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a stored exchange envelope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
				bundle, err := node.Services.ExchangeService.VerifyBundle(ctx, locator, expectedSource)
				if err != nil {
					return err
				}
				return printJSON(cmd, bundle)
			})
		},
	}
	cmd.Flags().StringVar(&locator.BundleID, "bundle", "", "Bundle id")
	cmd.Flags().StringVar(&locator.Key, "key", "", "Artifact key of the envelope")
	cmd.Flags().StringVar(&expectedSource, "expected-source", "", "Node the bundle must come from")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}
