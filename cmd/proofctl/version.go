package main

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-proof-ledger/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

type versionResult struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
			return printJSON(cmd, versionResult{
				Version: build.BuildVersion(),
				Date:    build.BuildDate(),
				Commit:  build.BuildCommit(),
			})
		},
	}
}
