package planner

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"nutriplan"

	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu      sync.Mutex
	out     string
	err     error
	prompts []nutriplan.Prompt
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt nutriplan.Prompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.out, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type recordingLogger struct {
	entries []nutriplan.GenerationLog
}

func (r *recordingLogger) LogGeneration(entry nutriplan.GenerationLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func testItem(food string, kcal float64) map[string]any {
	return map[string]any{
		"food":     food,
		"quantity": "100g",
		"calories": kcal,
		"protein":  10.0,
		"carbs":    20.0,
		"fats":     5.0,
		"fiber":    3.0,
		"benefits": "Good for you.",
	}
}

func testMeal(kcal float64, items ...map[string]any) map[string]any {
	list := make([]any, len(items))
	for i, it := range items {
		list[i] = it
	}
	return map[string]any{
		"items":          list,
		"total_calories": kcal,
		"meal_benefits":  "Balanced.",
	}
}

// validDoc returns a well-formed plan document totalling 1800 kcal.
func validDoc() map[string]any {
	return map[string]any{
		"breakfast": testMeal(450, testItem("Oats", 300), testItem("Berries", 150)),
		"lunch":     testMeal(630, testItem("Lentil soup", 400), testItem("Bread", 230)),
		"dinner":    testMeal(540, testItem("Salmon", 540)),
		"snacks":    testMeal(180, testItem("Almonds", 180)),
		"daily_summary": map[string]any{
			"total_calories":     1800.0,
			"total_protein":      60.0,
			"total_carbs":        120.0,
			"total_fats":         30.0,
			"total_fiber":        18.0,
			"medical_compliance": "Low sugar throughout.",
		},
	}
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func testProfile() nutriplan.NutritionProfile {
	return nutriplan.NutritionProfile{
		Age:           21,
		HeightCm:      160,
		WeightKg:      60,
		Gender:        nutriplan.GenderMale,
		ActivityLevel: nutriplan.ActivitySedentary,
		DietGoal:      nutriplan.GoalMaintain,
	}
}
