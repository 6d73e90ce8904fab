package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-proof-ledger/internal/app"
)

func newPortalCmd(opts *rootOptions) *cobra.Command {
	portal := &cobra.Command{
		Use:   "portal",
		Short: "Render the read-only regulator and patient views",
	}

	var dir string
	render := &cobra.Command{
		Use:     "render",
		Short:   "Write static HTML portal pages",
		Example: `  proofctl portal render --dir public/`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNode(cmd, opts, func(ctx context.Context, node *app.Node) error {
				if err := node.Services.PortalService.RenderStatic(ctx, dir); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "portal written to %s\n", dir)
				return nil
			})
		},
	}
	render.Flags().StringVar(&dir, "dir", "portal", "Output directory")

	portal.AddCommand(render)

	return portal
}
