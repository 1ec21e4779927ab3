package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crazyseq"
)

const modulePath = "github.com/mesh-intelligence/crazyseq"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the crazyseq version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "crazyseq v%s\nmodule: %s\n", crazyseq.Version, modulePath)
			return nil
		},
	}
}
