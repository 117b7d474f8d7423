package nutrition

import (
	"log/slog"
	"math"

	"nutriplan"
)

const (
	// DailyFloor is the minimum daily calorie target ever returned.
	DailyFloor = 1200

	// FallbackDaily is returned when the target cannot be computed.
	FallbackDaily = 2000

	defaultActivityMultiplier = 1.55
)

var activityMultipliers = map[nutriplan.ActivityLevel]float64{
	nutriplan.ActivitySedentary:  1.2,   // little or no exercise
	nutriplan.ActivityLight:      1.375, // 1-3 days/week
	nutriplan.ActivityModerate:   1.55,  // 3-5 days/week
	nutriplan.ActivityActive:     1.725, // 6-7 days/week
	nutriplan.ActivityVeryActive: 1.9,   // physical job or twice a day
}

var goalAdjustments = map[nutriplan.DietGoal]float64{
	nutriplan.GoalWeightLoss: -500,
	nutriplan.GoalWeightGain: 500,
	nutriplan.GoalMuscleGain: 300,
	nutriplan.GoalMaintain:   0,
}

// Round1 rounds half to even at one decimal place.
func Round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// BMI returns weight / height(m)^2 rounded to one decimal. Non-positive
// measurements yield 0 and an *nutriplan.InvalidInputError.
func BMI(weightKg, heightCm float64) (float64, error) {
	if heightCm <= 0 {
		return 0, &nutriplan.InvalidInputError{Field: "height_cm", Value: heightCm, Reason: "must be positive"}
	}
	if weightKg <= 0 {
		return 0, &nutriplan.InvalidInputError{Field: "weight_kg", Value: weightKg, Reason: "must be positive"}
	}
	m := heightCm / 100
	return Round1(weightKg / (m * m)), nil
}

// BMR is the Mifflin-St Jeor basal metabolic rate. Anything but male uses the female constant.
func BMR(age int, gender nutriplan.Gender, weightKg, heightCm float64) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == nutriplan.GenderMale {
		return base + 5
	}
	return base - 161
}

// ActivityMultiplier returns the TDEE factor for l, or 1.55 when l is unknown.
func ActivityMultiplier(l nutriplan.ActivityLevel) float64 {
	if m, ok := activityMultipliers[l]; ok {
		return m
	}
	return defaultActivityMultiplier
}

// GoalAdjustment returns the kcal offset for g, or 0 when g is unknown.
func GoalAdjustment(g nutriplan.DietGoal) float64 {
	return goalAdjustments[g]
}

func TDEE(age int, gender nutriplan.Gender, weightKg, heightCm float64, activity nutriplan.ActivityLevel) float64 {
	return BMR(age, gender, weightKg, heightCm) * ActivityMultiplier(activity)
}

// DailyCalories returns the goal-adjusted daily target, never below DailyFloor.
func DailyCalories(age int, gender nutriplan.Gender, weightKg, heightCm float64, activity nutriplan.ActivityLevel, goal nutriplan.DietGoal) int {
	total := TDEE(age, gender, weightKg, heightCm, activity) + GoalAdjustment(goal)
	if math.IsNaN(total) || math.IsInf(total, 0) {
		slog.Error("NUTRITION: Daily calorie computation not finite; using fallback",
			"age", age, "weight_kg", weightKg, "height_cm", heightCm, "fallback", FallbackDaily)
		return FallbackDaily
	}
	daily := int(math.RoundToEven(total))
	if daily < DailyFloor {
		return DailyFloor
	}
	return daily
}

// ForProfile is DailyCalories applied to a profile.
func ForProfile(p nutriplan.NutritionProfile) int {
	return DailyCalories(p.Age, p.Gender, p.WeightKg, p.HeightCm, p.ActivityLevel, p.DietGoal)
}
