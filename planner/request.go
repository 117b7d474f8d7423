package planner

import (
	"fmt"
	"math"
	"strings"

	"nutriplan"
	"nutriplan/conditions"
	"nutriplan/nutrition"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// GenerationRequest is everything the generator needs to produce one meal plan.
type GenerationRequest struct {
	Conditions  []conditions.Rule
	Vegetarian  bool
	DietGoal    nutriplan.DietGoal
	DailyTarget int
	Targets     nutrition.Targets
	Schema      *jsonschema.Schema
}

// BuildRequest derives a GenerationRequest from profile. Unknown condition ids are dropped.
func BuildRequest(profile nutriplan.NutritionProfile, catalog *conditions.Catalog) GenerationRequest {
	daily := nutrition.ForProfile(profile)
	return GenerationRequest{
		Conditions:  catalog.Describe(profile.MedicalConditions),
		Vegetarian:  profile.Vegetarian,
		DietGoal:    profile.DietGoal,
		DailyTarget: daily,
		Targets:     nutrition.MealTargets(daily),
		Schema:      MealPlanSchema(),
	}
}

// ConditionIDs returns the canonical ids of the conditions the request applies.
func (r GenerationRequest) ConditionIDs() []string {
	ids := make([]string, len(r.Conditions))
	for i, c := range r.Conditions {
		ids[i] = c.ID
	}
	return ids
}

// Prompt renders the request as system and user text.
func (r GenerationRequest) Prompt() (nutriplan.Prompt, error) {
	schema, err := schemaText(r.Schema)
	if err != nil {
		return nutriplan.Prompt{}, err
	}

	var b strings.Builder
	b.WriteString("Create a comprehensive daily meal plan for someone with the following profile.\n\n")

	b.WriteString("Medical Conditions:\n")
	if len(r.Conditions) == 0 {
		b.WriteString("No specific medical conditions\n")
	}
	for _, c := range r.Conditions {
		fmt.Fprintf(&b, "- %s: %s. Avoid: %s. Recommend: %s\n",
			c.Name, c.Description, strings.Join(c.Avoid, ", "), strings.Join(c.Recommend, ", "))
	}

	fmt.Fprintf(&b, "Dietary Preference: %s\n", preferenceLabel(r.Vegetarian))
	fmt.Fprintf(&b, "Daily Calorie Target: %d calories\n", r.DailyTarget)
	fmt.Fprintf(&b, "Diet Goal: %s\n\n", r.DietGoal.Label())

	b.WriteString("Per-meal calorie targets:\n")
	for _, mt := range nutriplan.MealTypes {
		fmt.Fprintf(&b, "- %s: target %d kcal (%d%% of daily calories)\n",
			mt, r.Targets.For(mt), int(math.Round(nutrition.Fraction(mt)*100)))
	}

	b.WriteString("\nFor each meal, include 2-3 specific food items with:\n")
	b.WriteString("- exact food name\n")
	b.WriteString(`- portion size in grams or common units like "1 cup", "2 slices", "1 medium apple"` + "\n")
	b.WriteString("- realistic calories, protein, carbs, fats and fiber for that portion\n")
	b.WriteString("- 1-2 concise sentences on why the food is beneficial for the conditions above, or its general health benefits\n\n")

	b.WriteString("CRITICAL:\n")
	b.WriteString("- Each meal's total_calories must closely match its target.\n")
	b.WriteString("- daily_summary.total_calories must be very close to the Daily Calorie Target.\n")
	if len(r.Conditions) > 0 {
		b.WriteString("- Never use foods listed under Avoid for the conditions above.\n")
		b.WriteString("- Prioritize foods listed under Recommend.\n")
	}
	if r.Vegetarian {
		b.WriteString("- Every item must be vegetarian: no meat, poultry or fish.\n")
	}
	b.WriteString("- ALL FIELDS MUST BE POPULATED WITH REALISTIC VALUES. DO NOT LEAVE ANY FIELD AS N/A, 0, OR EMPTY.\n")
	b.WriteString("- total_calories of each meal and daily_summary must reflect the sum of the items within them.\n")
	b.WriteString("- Provide a detailed medical_compliance explanation in daily_summary.\n\n")

	b.WriteString("Return ONLY a JSON object that validates against this JSON Schema:\n")
	b.WriteString(schema)
	b.WriteString("\n")

	return nutriplan.Prompt{
		Task:   nutriplan.TaskMealPlan,
		System: mealPlanSystemPrompt,
		User:   b.String(),
	}, nil
}

func preferenceLabel(vegetarian bool) string {
	if vegetarian {
		return "Vegetarian"
	}
	return "Non-Vegetarian"
}
