package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"guessicon/internal/guess"
	"guessicon/internal/proplist"
)

func newGuessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "guess KEY=VALUE...",
		Short: "Run the icon resolver on a property list",
		Example: `  guess-icon guess application.name=Firefox media.role=video
  guess-icon guess application.name=Spotify application.icon_name=spotify-client`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := proplist.ParseAssignments(args)
			if err != nil {
				return err
			}
			db, size, err := ctx.openDatabase(false)
			if err != nil {
				return err
			}
			defer db.Close()
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			resolver := guess.NewResolver(nil, guess.WithLogger(logger), guess.WithSize(size))
			outcome := resolver.Process(props)

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				renderProplistTable(out, props)
				fmt.Fprintf(out, "Outcome: %s (theme %s)\n", outcome, db.ThemeName())
				return nil
			}
			props.Each(func(key, value string) bool {
				fmt.Fprintf(out, "%s=%s\n", key, value)
				return true
			})
			return nil
		},
	}
}

func renderProplistTable(out io.Writer, props *proplist.Proplist) {
	rows := make([][]string, 0, props.Len())
	props.Each(func(key, value string) bool {
		rows = append(rows, []string{key, value})
		return true
	})
	fmt.Fprintln(out, renderTable([]string{"Property", "Value"}, rows, nil))
}
