package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nutriplan/planner"
)

func newAlternativesCmd(app *App) *cobra.Command {
	var (
		backend    Backend
		conditions []string
		vegetarian bool
	)

	cmd := &cobra.Command{
		Use:   "alternatives <food>",
		Short: "Suggest up to three healthier alternatives to a food",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			gen, model, err := app.NewGenerator(ctx, backend, app.Config)
			if err != nil {
				return err
			}

			alts, err := planner.New(gen, nil, planner.WithModel(model)).Alternatives(ctx, args[0], conditions, vegetarian)
			if err != nil {
				return err
			}

			if app.wantJSON() {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"food": args[0], "alternatives": alts})
			}
			if len(alts) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No alternatives found for %q\n", args[0])
				return nil
			}
			for i, alt := range alts {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, alt)
			}
			return nil
		},
	}

	addBackendFlag(cmd.Flags(), &backend)
	cmd.Flags().StringSliceVar(&conditions, "condition", nil, "Medical condition id (repeatable)")
	cmd.Flags().BoolVar(&vegetarian, "vegetarian", false, "Only suggest vegetarian foods")

	return cmd
}
