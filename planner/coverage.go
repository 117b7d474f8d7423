package planner

import (
	"math"

	"nutriplan"
	"nutriplan/nutrition"
)

// driftTolerance is the relative gap between a declared total and its parts that gets reported.
const driftTolerance = 0.10

// Coverage is generated / target as a percentage with one decimal, or 0 when target is not positive.
func Coverage(generated float64, target int) float64 {
	if target <= 0 {
		return 0
	}
	return nutrition.Round1(generated / float64(target) * 100)
}

// Reconcile records target on plan and sets its coverage from the daily summary.
func Reconcile(plan *nutriplan.MealPlan, target int) {
	plan.DailyTarget = target
	plan.Coverage = Coverage(plan.DailySummary.TotalCalories, target)
}

// MealDrift compares a meal's declared total with the sum of its items.
type MealDrift struct {
	Meal     nutriplan.MealType
	Declared float64
	Items    float64
}

func (d MealDrift) Delta() float64 { return d.Declared - d.Items }

// DriftReport describes how far declared totals are from what they summarize.
type DriftReport struct {
	Meals []MealDrift

	SummaryDeclared float64
	MealsTotal      float64
}

func (r DriftReport) SummaryDelta() float64 { return r.SummaryDeclared - r.MealsTotal }

// Drift measures declared-vs-computed calorie totals without changing plan.
func Drift(plan *nutriplan.MealPlan) DriftReport {
	var r DriftReport
	for _, m := range plan.Meals() {
		r.Meals = append(r.Meals, MealDrift{Meal: m.Type, Declared: m.TotalCalories, Items: m.ItemCalories()})
		r.MealsTotal += m.TotalCalories
	}
	r.SummaryDeclared = plan.DailySummary.TotalCalories
	return r
}

// Significant returns the meals whose drift exceeds the tolerance, and whether the daily summary does.
func (r DriftReport) Significant() ([]MealDrift, bool) {
	var out []MealDrift
	for _, m := range r.Meals {
		if exceeds(m.Declared, m.Items) {
			out = append(out, m)
		}
	}
	return out, exceeds(r.SummaryDeclared, r.MealsTotal)
}

func exceeds(declared, computed float64) bool {
	base := math.Max(math.Abs(declared), math.Abs(computed))
	if base == 0 {
		return false
	}
	return math.Abs(declared-computed)/base > driftTolerance
}
