package nutrition

import (
	"math"

	"nutriplan"
)

var mealFractions = map[nutriplan.MealType]float64{
	nutriplan.Breakfast: 0.25,
	nutriplan.Lunch:     0.35,
	nutriplan.Dinner:    0.30,
	nutriplan.Snacks:    0.10,
}

// Fraction returns the share of the daily target allotted to t.
func Fraction(t nutriplan.MealType) float64 {
	return mealFractions[t]
}

// Targets holds the per-meal calorie targets of one day.
type Targets struct {
	Daily     int `json:"daily"`
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Snacks    int `json:"snacks"`
}

// MealTargets splits daily across the four meals, each rounded to the nearest integer.
func MealTargets(daily int) Targets {
	at := func(t nutriplan.MealType) int {
		return int(math.RoundToEven(float64(daily) * mealFractions[t]))
	}
	return Targets{
		Daily:     daily,
		Breakfast: at(nutriplan.Breakfast),
		Lunch:     at(nutriplan.Lunch),
		Dinner:    at(nutriplan.Dinner),
		Snacks:    at(nutriplan.Snacks),
	}
}

// For returns the target of meal type t, or 0 for an unknown type.
func (t Targets) For(mt nutriplan.MealType) int {
	switch mt {
	case nutriplan.Breakfast:
		return t.Breakfast
	case nutriplan.Lunch:
		return t.Lunch
	case nutriplan.Dinner:
		return t.Dinner
	case nutriplan.Snacks:
		return t.Snacks
	}
	return 0
}

// Sum adds the four meal targets. Rounding can make it differ from Daily by a calorie or two.
func (t Targets) Sum() int {
	return t.Breakfast + t.Lunch + t.Dinner + t.Snacks
}
