package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const VERSION = "v0.1.0"

// NewVersionCommand displays the version in the format v<major>.<minor>.<patch> e.g. v0.1.0
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Displays the current version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", VERSION)
			return nil
		},
	}
}
