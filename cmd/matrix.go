package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/Gthulhu/erp/manager/domain"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

const granted = "✓"

func newMatrixCommand() *cobra.Command {
	var roleKey string
	c := &cobra.Command{
		Use:   "matrix",
		Short: "Print the role-permission matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := domain.DefaultMatrix()
			if roleKey == "" {
				renderMatrix(cmd.OutOrStdout(), m)
				return nil
			}
			role, err := domain.ParseRole(roleKey)
			if err != nil {
				return err
			}
			renderRole(cmd.OutOrStdout(), m.Summary(role))
			return nil
		},
	}
	c.Flags().StringVarP(&roleKey, "role", "r", "", "only show the grants of this role")
	return c
}

// newTable keeps header and footer text as written so role and permission
// keys stay usable as arguments to check.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// renderMatrix writes one row per permission and one column per role, most
// senior first.
func renderMatrix(w io.Writer, m *domain.Matrix) {
	roles := m.Roles()
	t := newTable(w)

	header := table.Row{"Category", "Permission"}
	for _, role := range roles {
		header = append(header, role.String())
	}
	t.AppendHeader(header)

	for i, c := range domain.Categories() {
		if i > 0 {
			t.AppendSeparator()
		}
		for _, p := range c.Permissions() {
			row := table.Row{c.String(), p.String()}
			for _, role := range roles {
				cell := ""
				if m.HasPermission(role, p) {
					cell = granted
				}
				row = append(row, cell)
			}
			t.AppendRow(row)
		}
	}

	footer := table.Row{"", "total"}
	for _, role := range roles {
		footer = append(footer, m.GrantsOf(role).Len())
	}
	t.AppendFooter(footer)

	configs := []table.ColumnConfig{{Number: 1, AutoMerge: true}}
	for i := range roles {
		configs = append(configs, table.ColumnConfig{Number: i + 3, Align: text.AlignCenter, AlignFooter: text.AlignCenter})
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

func renderRole(w io.Writer, summary domain.RoleSummary) {
	fmt.Fprintf(w, "%s (%s), rank %d\n%s\n", summary.DisplayName, summary.Role, summary.Rank, summary.Description)

	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Permissions"})
	for _, cg := range summary.Categories {
		keys := make([]string, 0, len(cg.Permissions))
		for _, p := range cg.Permissions {
			keys = append(keys, p.String())
		}
		t.AppendRow(table.Row{cg.Category.String(), strings.Join(keys, ", ")})
	}
	t.AppendFooter(table.Row{"total", summary.Grants.Len()})
	t.Render()
}
