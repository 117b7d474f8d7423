package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"nutriplan"
	"nutriplan/nutrition"
	"nutriplan/planner"
	"nutriplan/slack"
	"nutriplan/storage"
)

func newPlanCmd(app *App) *cobra.Command {
	var (
		backend     Backend
		profilePath string
		historyPath string
		plansDir    string
		dump        bool
		postSlack   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a one-day meal plan for a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			profile, err := storage.LoadProfile(ctx, storage.NewFileProfileState(profilePath))
			if err != nil {
				return err
			}

			gen, model, err := app.NewGenerator(ctx, backend, app.Config)
			if err != nil {
				return err
			}
			slog.Info("SETUP: Generator ready", "backend", backend, "model", model)

			plan, err := planner.New(gen, nil, planner.WithModel(model)).GeneratePlan(ctx, profile)
			if err != nil {
				return err
			}
			nutriplan.DumpPlan(dump, plan)

			if plansDir != "" {
				path, err := storage.NewFilePlanStore(plansDir).Save(ctx, plan)
				if err != nil {
					return err
				}
				slog.Info("PLANNER: Plan saved", "plan_id", plan.ID, "path", path)
			}

			if historyPath != "" {
				history, err := app.openHistory(historyPath)
				if err != nil {
					return err
				}
				defer history.Close()
				if err := history.RecordPlan(ctx, plan); err != nil {
					return err
				}
			}

			if postSlack {
				if app.Config.SlackWebhookURL == "" {
					return fmt.Errorf("--slack needs SLACK_WEBHOOK_URL")
				}
				client := slack.NewClient(app.Config.SlackWebhookURL, http.DefaultClient)
				if err := client.PostMealPlan(ctx, app.Config.SlackChannel, plan); err != nil {
					slog.Error("Failed to post plan to Slack", "error", err)
				}
			}

			if app.wantJSON() {
				return writeJSON(cmd.OutOrStdout(), plan)
			}
			printPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}

	addBackendFlag(cmd.Flags(), &backend)
	cmd.Flags().StringVar(&profilePath, "profile", app.Config.ProfilePath, "Path to the profile JSON file")
	cmd.Flags().StringVar(&historyPath, "history", app.Config.HistoryDBPath, "SQLite history database (empty to skip)")
	cmd.Flags().StringVar(&plansDir, "plans-dir", app.Config.PlansDir, "Directory to save plans in (empty to skip)")
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the plan structure to stdout")
	cmd.Flags().BoolVar(&postSlack, "slack", false, "Post the plan to the configured Slack webhook")

	return cmd
}

func printPlan(w io.Writer, plan *nutriplan.MealPlan) {
	targets := nutrition.MealTargets(plan.DailyTarget)

	fmt.Fprintf(w, "Plan %s\n", plan.ID)
	fmt.Fprintf(w, "Daily target: %d kcal  Coverage: %.1f%%\n", plan.DailyTarget, plan.Coverage)
	if len(plan.ConditionsApplied) > 0 {
		fmt.Fprintf(w, "Conditions: %s\n", strings.Join(plan.ConditionsApplied, ", "))
	}

	for _, meal := range plan.Meals() {
		fmt.Fprintf(w, "\n%s (%.0f / %d kcal)\n", strings.ToUpper(string(meal.Type)), meal.TotalCalories, targets.For(meal.Type))
		for _, it := range meal.Items {
			fmt.Fprintf(w, "  - %s, %s: %.0f kcal (P %.1fg C %.1fg F %.1fg Fiber %.1fg)\n",
				it.Food, it.Quantity, it.Calories, it.Protein, it.Carbs, it.Fats, it.Fiber)
		}
		fmt.Fprintf(w, "  %s\n", meal.MealBenefits)
	}

	s := plan.DailySummary
	fmt.Fprintf(w, "\nTotal: %.0f kcal, protein %.1fg, carbs %.1fg, fats %.1fg, fiber %.1fg\n",
		s.TotalCalories, s.TotalProtein, s.TotalCarbs, s.TotalFats, s.TotalFiber)
	fmt.Fprintf(w, "Compliance: %s\n", s.MedicalCompliance)
}
