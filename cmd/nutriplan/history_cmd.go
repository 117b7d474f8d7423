package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newFeedbackCmd(app *App) *cobra.Command {
	var (
		historyPath string
		rating      int
		comment     string
	)

	cmd := &cobra.Command{
		Use:   "feedback <plan-id>",
		Short: "Rate a generated plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			history, err := app.openHistory(historyPath)
			if err != nil {
				return err
			}
			defer history.Close()

			fb, err := history.SaveFeedback(ctx, args[0], rating, comment)
			if err != nil {
				return err
			}

			if app.wantJSON() {
				return writeJSON(cmd.OutOrStdout(), fb)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved rating %d for plan %s\n", fb.Rating, fb.PlanID)
			return nil
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", app.Config.HistoryDBPath, "SQLite history database")
	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "Free text comment")
	_ = cmd.MarkFlagRequired("rating")

	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		historyPath string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			history, err := app.openHistory(historyPath)
			if err != nil {
				return err
			}
			defer history.Close()

			records, err := history.RecentPlans(ctx, limit)
			if err != nil {
				return err
			}

			if app.wantJSON() {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plans recorded yet.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tGENERATED\tTARGET\tCOVERAGE\tMODEL\tCONDITIONS")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f%%\t%s\t%s\n",
					r.ID, r.GeneratedAt.Local().Format(time.DateTime), r.DailyTarget, r.Coverage, r.Model, strings.Join(r.Conditions, ","))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", app.Config.HistoryDBPath, "SQLite history database")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of plans to list")

	return cmd
}
