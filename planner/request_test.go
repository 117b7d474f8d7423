package planner

import (
	"encoding/json"
	"testing"

	"nutriplan"
	"nutriplan/conditions"
	"nutriplan/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	profile := testProfile()
	profile.Vegetarian = true
	profile.MedicalConditions = []string{"Diabetes", "astigmatism", "gerd", "diabetes"}

	req := BuildRequest(profile, conditions.Default())

	assert.Equal(t, 1800, req.DailyTarget)
	assert.Equal(t, nutrition.Targets{Daily: 1800, Breakfast: 450, Lunch: 630, Dinner: 540, Snacks: 180}, req.Targets)
	assert.True(t, req.Vegetarian)
	assert.Equal(t, nutriplan.GoalMaintain, req.DietGoal)
	assert.Equal(t, []string{"diabetes", "gerd"}, req.ConditionIDs())
	require.NotNil(t, req.Schema)
	assert.Equal(t, "object", req.Schema.Type)
}

func TestBuildRequest_NoConditions(t *testing.T) {
	req := BuildRequest(testProfile(), conditions.Default())
	assert.Empty(t, req.Conditions)
	assert.Empty(t, req.ConditionIDs())
}

func TestGenerationRequest_Prompt(t *testing.T) {
	profile := testProfile()
	profile.MedicalConditions = []string{"high_blood_pressure"}
	profile.DietGoal = nutriplan.GoalWeightLoss

	prompt, err := BuildRequest(profile, conditions.Default()).Prompt()
	require.NoError(t, err)

	assert.Equal(t, nutriplan.TaskMealPlan, prompt.Task)
	assert.Contains(t, prompt.System, "ONE valid JSON object")

	user := prompt.User
	assert.Contains(t, user, "- High Blood Pressure: Low-sodium foods that support heart health. Avoid: salt, processed meats")
	assert.Contains(t, user, "Recommend: bananas, spinach")
	assert.Contains(t, user, "Dietary Preference: Non-Vegetarian")
	assert.Contains(t, user, "Daily Calorie Target: 1300 calories")
	assert.Contains(t, user, "Diet Goal: Weight Loss")
	assert.Contains(t, user, "- breakfast: target 325 kcal (25% of daily calories)")
	assert.Contains(t, user, "- lunch: target 455 kcal (35% of daily calories)")
	assert.Contains(t, user, "- dinner: target 390 kcal (30% of daily calories)")
	assert.Contains(t, user, "- snacks: target 130 kcal (10% of daily calories)")
	assert.Contains(t, user, "Never use foods listed under Avoid")
	assert.Contains(t, user, "DO NOT LEAVE ANY FIELD AS N/A, 0, OR EMPTY")
	assert.Contains(t, user, `"daily_summary"`)
	assert.NotContains(t, user, "must be vegetarian")
}

func TestGenerationRequest_Prompt_VegetarianNoConditions(t *testing.T) {
	profile := testProfile()
	profile.Vegetarian = true

	prompt, err := BuildRequest(profile, conditions.Default()).Prompt()
	require.NoError(t, err)

	assert.Contains(t, prompt.User, "No specific medical conditions")
	assert.Contains(t, prompt.User, "Dietary Preference: Vegetarian")
	assert.Contains(t, prompt.User, "Every item must be vegetarian")
	assert.NotContains(t, prompt.User, "Never use foods listed under Avoid")
}

func TestMealPlanSchema(t *testing.T) {
	b, err := json.Marshal(MealPlanSchema())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.ElementsMatch(t, []any{"breakfast", "lunch", "dinner", "snacks", "daily_summary"}, doc["required"])

	props := doc["properties"].(map[string]any)
	lunch := props["lunch"].(map[string]any)
	assert.ElementsMatch(t, []any{"items", "total_calories", "meal_benefits"}, lunch["required"])

	items := lunch["properties"].(map[string]any)["items"].(map[string]any)
	assert.Equal(t, "array", items["type"])
	item := items["items"].(map[string]any)
	assert.Len(t, item["required"], 8)
}
