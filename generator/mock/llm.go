package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"nutriplan"
)

var targetLine = regexp.MustCompile(`(?m)^- (breakfast|lunch|dinner|snacks): target (\d+) kcal`)

// fallbackTargets are used when the prompt carries no per-meal targets.
var fallbackTargets = map[nutriplan.MealType]int{
	nutriplan.Breakfast: 500,
	nutriplan.Lunch:     700,
	nutriplan.Dinner:    600,
	nutriplan.Snacks:    200,
}

type food struct {
	name     string
	quantity string
	benefits string
}

var menu = map[nutriplan.MealType][2]food{
	nutriplan.Breakfast: {
		{"Oatmeal with blueberries", "1 cup", "Slow-release carbohydrates and soluble fiber."},
		{"Greek yogurt", "150g", "Protein and probiotics for gut health."},
	},
	nutriplan.Lunch: {
		{"Grilled chicken breast", "150g", "Lean protein that supports muscle maintenance."},
		{"Brown rice", "1 cup", "Whole grain energy with B vitamins."},
	},
	nutriplan.Dinner: {
		{"Baked salmon", "180g", "Omega-3 fats that support heart health."},
		{"Steamed broccoli", "1 cup", "Fiber, vitamin C and folate."},
	},
	nutriplan.Snacks: {
		{"Almonds", "30g", "Healthy fats and vitamin E."},
		{"Apple", "1 medium", "Fiber and antioxidants."},
	},
}

var vegetarianSwaps = map[string]food{
	"Grilled chicken breast": {"Lentil curry", "1.5 cups", "Plant protein and iron."},
	"Baked salmon":           {"Tofu stir-fry", "200g", "Complete plant protein with calcium."},
}

// LLMClient is a deterministic Generator. It answers meal plan prompts with a plan whose meal
// totals equal the targets found in the prompt, and alternatives prompts with a fixed list.
type LLMClient struct {
	// Fenced wraps every response in a ```json fence.
	Fenced bool
}

var _ nutriplan.Generator = (*LLMClient)(nil)

func NewLLMClient() *LLMClient {
	return &LLMClient{}
}

func (m *LLMClient) Generate(ctx context.Context, prompt nutriplan.Prompt) (string, error) {
	slog.Info("LLM_CLIENT: Invoked", "task", prompt.Task, "prompt_len", len(prompt.User))

	var v any
	switch prompt.Task {
	case nutriplan.TaskMealPlan:
		v = mealPlan(prompt.User)
	case nutriplan.TaskAlternatives:
		v = alternatives(prompt.User)
	default:
		return "", fmt.Errorf("mock generator: unsupported task %q", prompt.Task)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("mock generator: %w", err)
	}
	out := string(b)
	if m.Fenced {
		out = "```json\n" + out + "\n```"
	}

	slog.Info("LLM_CLIENT: Returning mock response", "task", prompt.Task, "response_len", len(out))
	return out, nil
}

func targetsFrom(text string) map[nutriplan.MealType]int {
	matches := targetLine.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return fallbackTargets
	}
	targets := make(map[nutriplan.MealType]int, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		targets[nutriplan.MealType(m[1])] = n
	}
	return targets
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func item(f food, kcal int) map[string]any {
	c := float64(kcal)
	return map[string]any{
		"food":     f.name,
		"quantity": f.quantity,
		"calories": c,
		"protein":  round1(c * 0.25 / 4),
		"carbs":    round1(c * 0.50 / 4),
		"fats":     round1(c * 0.25 / 9),
		"fiber":    round1(c / 100),
		"benefits": f.benefits,
	}
}

func mealPlan(text string) map[string]any {
	targets := targetsFrom(text)
	vegetarian := strings.Contains(text, "Dietary Preference: Vegetarian")

	plan := map[string]any{}
	var total, protein, carbs, fats, fiber float64
	for _, mt := range nutriplan.MealTypes {
		target := targets[mt]
		first := int(math.Round(float64(target) * 0.6))
		second := target - first

		var items []map[string]any
		for i, f := range menu[mt] {
			if swap, ok := vegetarianSwaps[f.name]; ok && vegetarian {
				f = swap
			}
			kcal := first
			if i == 1 {
				kcal = second
			}
			it := item(f, kcal)
			protein += it["protein"].(float64)
			carbs += it["carbs"].(float64)
			fats += it["fats"].(float64)
			fiber += it["fiber"].(float64)
			items = append(items, it)
		}

		total += float64(target)
		plan[string(mt)] = map[string]any{
			"items":          items,
			"total_calories": float64(target),
			"meal_benefits":  fmt.Sprintf("A %d kcal %s balanced across protein, carbs and fats.", target, mt),
		}
	}

	plan["daily_summary"] = map[string]any{
		"total_calories":     total,
		"total_protein":      round1(protein),
		"total_carbs":        round1(carbs),
		"total_fats":         round1(fats),
		"total_fiber":        round1(fiber),
		"medical_compliance": "Built from whole foods and matched to each meal's calorie target.",
	}
	return plan
}

func alternatives(text string) []string {
	if strings.Contains(text, "- Vegetarian\n") {
		return []string{"Tofu", "Tempeh", "Chickpeas"}
	}
	return []string{"Turkey breast", "Lentils", "Cod"}
}
