package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the hbnb release. Overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/hbnb/internal/cli.Version=...".
var Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/hbnb"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hbnb version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hbnb v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
