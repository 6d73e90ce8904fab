package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-proof-ledger/internal/app"
	"github.com/MKhiriev/go-proof-ledger/models"
)

func newProveCmd(opts *rootOptions) *cobra.Command {
	var input models.NoteInput

	cmd := &cobra.Command{
		Use:   "prove",
		Short: "Sign an integrity proof for a finalized note",
		Example: `  proofctl prove --note n1 --user dr-1 --hash <sha256 hex> --consent v1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
				proof, err := node.Services.ProofService.GenerateProof(ctx, input)
				if err != nil {
					return err
				}
				return printJSON(cmd, proof)
			})
		},
	}
	cmd.Flags().StringVar(&input.NoteID, "note", "", "Note id")
	cmd.Flags().StringVar(&input.UserID, "user", "", "Clinician id")
	cmd.Flags().StringVar(&input.IntegrityHash, "hash", "", "Integrity hash of the note content")
	cmd.Flags().StringVar(&input.ConsentVersion, "consent", "", "Consent version")

	return cmd
}

func newChainCmd(opts *rootOptions) *cobra.Command {
	chain := &cobra.Command{
		Use:   "chain",
		Short: "Build, show and validate the block chain",
	}

	chain.AddCommand(
		&cobra.Command{
			Use:   "build",
			Short: "Rebuild the chain from a fresh dashboard",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
					blocks, err := node.Services.ChainService.BuildLedger(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, blocks)
				})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored chain",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
					blocks, err := node.Services.ChainService.Blocks(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, blocks)
				})
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Re-walk every hash link of the stored chain",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
					result, err := node.Services.ChainService.ValidateLedger(ctx)
					if err != nil {
						return err
					}
					return printJSON(cmd, result)
				})
			},
		},
	)

	return chain
}

func newLedgerCmd(opts *rootOptions) *cobra.Command {
	ledger := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the public ledger",
	}

	ledger.AddCommand(&cobra.Command{
		Use:   "audit",
		Short: "Check the public ledger for gaps and malformed entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
				audit, err := node.Services.LedgerService.VerifyLog(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, audit)
			})
		},
	})

	return ledger
}

func newInsuranceCmd(opts *rootOptions) *cobra.Command {
	insurance := &cobra.Command{
		Use:   "insurance",
		Short: "Deliver claim audits to insurers",
	}

	var insurer string
	sync := &cobra.Command{
		Use:     "sync",
		Short:   "Send every unsynced validation record to an insurer",
		Example: `  proofctl insurance sync --insurer acme`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
				result, err := node.Services.InsuranceService.SyncAll(ctx, insurer)
				if printErr := printJSON(cmd, result); printErr != nil {
					return printErr
				}
				return err
			})
		},
	}
	sync.Flags().StringVar(&insurer, "insurer", "", "Insurer name")
	_ = sync.MarkFlagRequired("insurer")

	insurance.AddCommand(sync)

	return insurance
}
