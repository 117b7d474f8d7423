package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"nutriplan/nutrition"
	"nutriplan/storage"
)

type targetsReport struct {
	BMI         float64               `json:"bmi"`
	Category    nutrition.BMICategory `json:"bmi_category"`
	DailyTarget int                   `json:"daily_target_calories"`
	Meals       nutrition.Targets     `json:"meal_targets"`
}

func newTargetsCmd(app *App) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Show BMI and calorie targets for a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			profile, err := storage.LoadProfile(ctx, storage.NewFileProfileState(profilePath))
			if err != nil {
				return err
			}
			bmi, err := nutrition.BMI(profile.WeightKg, profile.HeightCm)
			if err != nil {
				slog.Warn("NUTRITION: BMI unavailable, reporting 0", "error", err)
			}
			daily := nutrition.ForProfile(profile)
			report := targetsReport{
				BMI:         bmi,
				Category:    nutrition.Category(bmi),
				DailyTarget: daily,
				Meals:       nutrition.MealTargets(daily),
			}

			if app.wantJSON() {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "BMI: %.1f (%s)\n", report.BMI, report.Category)
			fmt.Fprintf(w, "Daily target: %d kcal\n", report.DailyTarget)
			fmt.Fprintf(w, "  breakfast: %d kcal\n", report.Meals.Breakfast)
			fmt.Fprintf(w, "  lunch:     %d kcal\n", report.Meals.Lunch)
			fmt.Fprintf(w, "  dinner:    %d kcal\n", report.Meals.Dinner)
			fmt.Fprintf(w, "  snacks:    %d kcal\n", report.Meals.Snacks)
			return nil
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", app.Config.ProfilePath, "Path to the profile JSON file")
	return cmd
}
