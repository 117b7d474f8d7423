package planner

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

var (
	itemFields    = []string{"food", "quantity", "calories", "protein", "carbs", "fats", "fiber", "benefits"}
	mealFields    = []string{"items", "total_calories", "meal_benefits"}
	summaryFields = []string{"total_calories", "total_protein", "total_carbs", "total_fats", "total_fiber", "medical_compliance"}
)

// MealPlanSchema describes the JSON object the generator must return.
func MealPlanSchema() *jsonschema.Schema {
	zero := 0.0
	num := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "number", Minimum: &zero, Description: desc}
	}

	item := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"food":     {Type: "string", Description: "exact food name"},
			"quantity": {Type: "string", Description: `portion size, e.g. "100g", "1 cup", "2 slices"`},
			"calories": num("kcal for the portion"),
			"protein":  num("grams"),
			"carbs":    num("grams"),
			"fats":     num("grams"),
			"fiber":    num("grams"),
			"benefits": {Type: "string", Description: "1-2 sentences on why this food suits the profile"},
		},
		Required: itemFields,
	}

	meal := func(name string) *jsonschema.Schema {
		minItems := 1
		return &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"items":          {Type: "array", Items: item, MinItems: &minItems},
				"total_calories": num("sum of the item calories"),
				"meal_benefits":  {Type: "string", Description: "overall benefits of this " + name},
			},
			Required: mealFields,
		}
	}

	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"breakfast": meal("breakfast"),
			"lunch":     meal("lunch"),
			"dinner":    meal("dinner"),
			"snacks":    meal("snacks"),
			"daily_summary": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"total_calories":     num("sum of the meal totals"),
					"total_protein":      num("grams"),
					"total_carbs":        num("grams"),
					"total_fats":         num("grams"),
					"total_fiber":        num("grams"),
					"medical_compliance": {Type: "string", Description: "how the plan addresses the medical conditions and diet goal"},
				},
				Required: summaryFields,
			},
		},
		Required: []string{"breakfast", "lunch", "dinner", "snacks", "daily_summary"},
	}
}

// AlternativesSchema describes the JSON array returned for a food alternatives request.
func AlternativesSchema() *jsonschema.Schema {
	n := MaxAlternatives
	return &jsonschema.Schema{
		Type:     "array",
		Items:    &jsonschema.Schema{Type: "string", Description: "food name"},
		MinItems: &n,
		MaxItems: &n,
	}
}

func schemaText(s *jsonschema.Schema) (string, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response schema: %w", err)
	}
	return string(b), nil
}
