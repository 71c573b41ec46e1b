package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the savedobjects release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/savedobjects"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the savedobjects version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "savedobjects v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
