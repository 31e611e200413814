package cmd

import (
	"errors"
	"fmt"

	"github.com/Gthulhu/erp/manager/domain"
	"github.com/spf13/cobra"
)

// ErrDenied is returned by the check command when the query is not granted,
// so the process exits non-zero.
var ErrDenied = errors.New("access denied")

func newCheckCommand() *cobra.Command {
	var anyOf bool
	c := &cobra.Command{
		Use:   "check <role> <permission>...",
		Short: "Evaluate permissions for a role against the built-in matrix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[0])
			if err != nil {
				return err
			}
			perms, err := domain.ParsePermissions(args[1:])
			if err != nil {
				return err
			}

			m := domain.DefaultMatrix()
			allowed := m.HasAll(role, perms...)
			mode := domain.AccessModeAll
			if anyOf {
				allowed = m.HasAny(role, perms...)
				mode = domain.AccessModeAny
			}

			out := cmd.OutOrStdout()
			if allowed {
				fmt.Fprintf(out, "allowed: %s holds %s of %s\n", role, mode, domain.NewPermissionSet(perms...))
				return nil
			}
			fmt.Fprintf(out, "denied: %s missing %s\n", role, domain.NewPermissionSet(m.Missing(role, perms...)...))
			return ErrDenied
		},
	}
	c.Flags().BoolVar(&anyOf, "any", false, "grant when the role holds any of the permissions")
	return c
}
