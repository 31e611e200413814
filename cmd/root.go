package cmd

import (
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "erp",
		Short:         "ERP role-based access manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newManagerCommand())
	root.AddCommand(newMatrixCommand())
	root.AddCommand(newCheckCommand())
	return root
}
