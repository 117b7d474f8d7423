package nutrition

import (
	"math"
	"testing"

	"nutriplan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBMI(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		height   float64
		expected float64
		wantErr  bool
	}{
		{name: "typical adult", weight: 70, height: 175, expected: 22.9},
		{name: "rounds to one decimal", weight: 80, height: 180, expected: 24.7},
		{name: "zero weight", weight: 0, height: 175, expected: 0, wantErr: true},
		{name: "zero height", weight: 70, height: 0, expected: 0, wantErr: true},
		{name: "negative height", weight: 70, height: -10, expected: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bmi, err := BMI(tt.weight, tt.height)
			assert.Equal(t, tt.expected, bmi)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, nutriplan.ErrInvalidInput)
				var iie *nutriplan.InvalidInputError
				assert.ErrorAs(t, err, &iie)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDailyCalories(t *testing.T) {
	tests := []struct {
		name     string
		age      int
		gender   nutriplan.Gender
		weight   float64
		height   float64
		activity nutriplan.ActivityLevel
		goal     nutriplan.DietGoal
		expected int
	}{
		{
			name: "sedentary male maintaining", age: 21, gender: nutriplan.GenderMale, weight: 60, height: 160,
			activity: nutriplan.ActivitySedentary, goal: nutriplan.GoalMaintain, expected: 1800,
		},
		{
			name: "moderate male", age: 30, gender: nutriplan.GenderMale, weight: 80, height: 180,
			activity: nutriplan.ActivityModerate, goal: nutriplan.GoalMaintain, expected: 2759,
		},
		{
			name: "muscle gain surplus", age: 30, gender: nutriplan.GenderMale, weight: 80, height: 180,
			activity: nutriplan.ActivityModerate, goal: nutriplan.GoalMuscleGain, expected: 3059,
		},
		{
			name: "unknown activity defaults to moderate", age: 30, gender: nutriplan.GenderMale, weight: 80, height: 180,
			activity: nutriplan.ActivityLevel("couch"), goal: nutriplan.GoalMaintain, expected: 2759,
		},
		{
			name: "unknown goal adds nothing", age: 30, gender: nutriplan.GenderMale, weight: 80, height: 180,
			activity: nutriplan.ActivityModerate, goal: nutriplan.DietGoal("bulk"), expected: 2759,
		},
		{
			name: "other gender uses female constant", age: 30, gender: nutriplan.GenderOther, weight: 80, height: 180,
			activity: nutriplan.ActivitySedentary, goal: nutriplan.GoalMaintain, expected: 1937,
		},
		{
			name: "deficit clamped to floor", age: 30, gender: nutriplan.GenderFemale, weight: 50, height: 150,
			activity: nutriplan.ActivitySedentary, goal: nutriplan.GoalWeightLoss, expected: DailyFloor,
		},
		{
			name: "non-finite falls back", age: 30, gender: nutriplan.GenderMale, weight: math.NaN(), height: 180,
			activity: nutriplan.ActivityModerate, goal: nutriplan.GoalMaintain, expected: FallbackDaily,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyCalories(tt.age, tt.gender, tt.weight, tt.height, tt.activity, tt.goal)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDailyCaloriesNeverBelowFloor(t *testing.T) {
	levels := []nutriplan.ActivityLevel{
		nutriplan.ActivitySedentary, nutriplan.ActivityLight, nutriplan.ActivityModerate,
		nutriplan.ActivityActive, nutriplan.ActivityVeryActive,
	}
	goals := []nutriplan.DietGoal{
		nutriplan.GoalMaintain, nutriplan.GoalWeightLoss, nutriplan.GoalWeightGain, nutriplan.GoalMuscleGain,
	}
	for age := nutriplan.MinAge; age <= nutriplan.MaxAge; age += 9 {
		for _, w := range []float64{35, 60, 120} {
			for _, h := range []float64{120, 170, 210} {
				for _, l := range levels {
					for _, g := range goals {
						for _, gender := range []nutriplan.Gender{nutriplan.GenderMale, nutriplan.GenderFemale} {
							assert.GreaterOrEqual(t, DailyCalories(age, gender, w, h, l, g), DailyFloor)
						}
					}
				}
			}
		}
	}
}

func TestForProfile(t *testing.T) {
	p := nutriplan.NutritionProfile{
		Age: 21, Gender: nutriplan.GenderMale, WeightKg: 60, HeightCm: 160,
		ActivityLevel: nutriplan.ActivitySedentary, DietGoal: nutriplan.GoalMaintain,
	}
	assert.Equal(t, 1800, ForProfile(p))
}

func TestMealFractionsSumToOne(t *testing.T) {
	var sum float64
	for _, mt := range nutriplan.MealTypes {
		sum += Fraction(mt)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestMealTargets(t *testing.T) {
	tests := []struct {
		daily    int
		expected Targets
	}{
		{daily: 1800, expected: Targets{Daily: 1800, Breakfast: 450, Lunch: 630, Dinner: 540, Snacks: 180}},
		{daily: 2000, expected: Targets{Daily: 2000, Breakfast: 500, Lunch: 700, Dinner: 600, Snacks: 200}},
		{daily: 0, expected: Targets{}},
	}

	for _, tt := range tests {
		got := MealTargets(tt.daily)
		assert.Equal(t, tt.expected, got)
		assert.Equal(t, tt.daily, got.Sum())
	}

	assert.Equal(t, 0, MealTargets(2000).For(nutriplan.MealType("brunch")))
	assert.Equal(t, 630, MealTargets(1800).For(nutriplan.Lunch))
}

func TestMealTargets_SumWithinRounding(t *testing.T) {
	for daily := DailyFloor; daily <= 5000; daily++ {
		sum := MealTargets(daily).Sum()
		if d := sum - daily; d < -2 || d > 2 {
			t.Fatalf("daily %d: meal targets sum to %d", daily, sum)
		}
	}
	// 1581 splits into 395 + 553 + 474 + 158.
	assert.Equal(t, 1580, MealTargets(1581).Sum())
}

func TestCategory(t *testing.T) {
	tests := []struct {
		bmi      float64
		expected BMICategory
	}{
		{bmi: 16.0, expected: Underweight},
		{bmi: 18.4, expected: Underweight},
		{bmi: 18.5, expected: Normal},
		{bmi: 22.9, expected: Normal},
		{bmi: 24.95, expected: Obese},
		{bmi: 25.0, expected: Overweight},
		{bmi: 29.8, expected: Overweight},
		{bmi: 29.95, expected: Obese},
		{bmi: 35.0, expected: Obese},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Category(tt.bmi), "bmi=%v", tt.bmi)
	}
}
