package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newThemesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "Show the resolved icon theme chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := ctx.openDatabase(false)
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			themes := db.Themes()
			if len(themes) == 0 {
				fmt.Fprintf(out, "No icon themes found (looked for %s and hicolor)\n", db.ThemeName())
			}
			rows := make([][]string, 0, len(themes))
			for i, th := range themes {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					th.Name,
					th.DisplayName,
					strconv.Itoa(th.Directories),
					strings.Join(th.Roots, "\n"),
				})
			}

			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Theme", "Display Name", "Dirs", "Roots"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
			}
			fmt.Fprintln(out, "Base directories:")
			for _, dir := range db.BaseDirs() {
				fmt.Fprintf(out, "  %s\n", dir)
			}
			return nil
		},
	}
}
