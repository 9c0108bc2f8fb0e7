package commands

import (
	"fmt"

	"vocabapp/internal/version"

	"github.com/spf13/cobra"
)

// VersionCommand returns the version command.
func VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("vocab %s (commit %s, built %s)\n", version.Version, version.Commit, version.BuildTime)
		},
	}
}
