package storage

import (
	"time"

	"nutriplan"
)

func testPlan(id string, generatedAt time.Time) *nutriplan.MealPlan {
	meal := func(t nutriplan.MealType, cal float64) nutriplan.Meal {
		return nutriplan.Meal{
			Type: t,
			Items: []nutriplan.MealItem{{
				Food:     "Oatmeal",
				Quantity: "1 cup",
				Calories: cal,
				Protein:  10,
				Carbs:    50,
				Fats:     5,
				Fiber:    4,
				Benefits: "Slow release energy",
			}},
			TotalCalories: cal,
			MealBenefits:  "Balanced",
		}
	}
	return &nutriplan.MealPlan{
		ID:        id,
		Breakfast: meal(nutriplan.Breakfast, 450),
		Lunch:     meal(nutriplan.Lunch, 630),
		Dinner:    meal(nutriplan.Dinner, 540),
		Snacks:    meal(nutriplan.Snacks, 180),
		DailySummary: nutriplan.DailySummary{
			TotalCalories:     1800,
			TotalProtein:      40,
			TotalCarbs:        200,
			TotalFats:         20,
			TotalFiber:        16,
			MedicalCompliance: "Suitable for general health",
		},
		Coverage: 100,
		Profile: nutriplan.NutritionProfile{
			Age: 21, HeightCm: 160, WeightKg: 60,
			Gender:            nutriplan.GenderMale,
			ActivityLevel:     nutriplan.ActivitySedentary,
			DietGoal:          nutriplan.GoalMaintain,
			Vegetarian:        true,
			MedicalConditions: []string{"hypertension"},
		},
		ConditionsApplied: []string{"hypertension"},
		DailyTarget:       1800,
		GeneratedAt:       generatedAt.UTC(),
		Model:             "mock",
	}
}
