package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"guessicon/internal/icontheme"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var sizeFlag string

	cmd := &cobra.Command{
		Use:   "lookup NAME",
		Short: "Resolve an icon name against the configured theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, size, err := ctx.openDatabase(false)
			if err != nil {
				return err
			}
			defer db.Close()

			if strings.TrimSpace(sizeFlag) != "" {
				if size, err = icontheme.ParseSize(sizeFlag); err != nil {
					return err
				}
			}

			path, ok := db.Lookup(args[0], size)
			if !ok {
				return fmt.Errorf("icon %q not found in theme %s at %s size", args[0], db.ThemeName(), size)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sizeFlag, "size", "s", "", fmt.Sprintf("Nominal icon size (%s)", strings.Join(icontheme.SizeNames(), ", ")))
	return cmd
}
