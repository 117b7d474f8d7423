package nutriplan

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Generator is the external text-generation collaborator. Implementations return the model's raw text.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// MealPlanner is the surface exposed to orchestration callers.
type MealPlanner interface {
	GeneratePlan(ctx context.Context, profile NutritionProfile) (*MealPlan, error)
	Alternatives(ctx context.Context, food string, conditions []string, vegetarian bool) ([]string, error)
}

type Notifier interface {
	PostMealPlan(ctx context.Context, channel string, plan *MealPlan) error
}

// Task identifies which kind of generation a prompt is for.
type Task string

const (
	TaskMealPlan     Task = "meal_plan"
	TaskAlternatives Task = "alternatives"
)

// Prompt is a single system + user text request to a Generator.
type Prompt struct {
	Task   Task   `json:"task"`
	System string `json:"system"`
	User   string `json:"user"`
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type DietGoal string

const (
	GoalMaintain   DietGoal = "maintain"
	GoalWeightLoss DietGoal = "weight_loss"
	GoalWeightGain DietGoal = "weight_gain"
	GoalMuscleGain DietGoal = "muscle_gain"
)

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snacks    MealType = "snacks"
)

// MealTypes lists the meal types in plan order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snacks}

// normalizeKey lower-cases s and folds spaces and hyphens into underscores.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// ParseGender maps free text onto a Gender. Anything that is not male or female is "other".
func ParseGender(s string) (Gender, bool) {
	switch normalizeKey(s) {
	case "male", "m":
		return GenderMale, true
	case "female", "f":
		return GenderFemale, true
	case "other":
		return GenderOther, true
	}
	return GenderOther, false
}

// ParseActivityLevel maps free text onto an ActivityLevel. Unknown levels map to moderate with ok=false.
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	switch l := ActivityLevel(normalizeKey(s)); l {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return l, true
	}
	return ActivityModerate, false
}

// ParseDietGoal maps free text onto a DietGoal. It accepts the UI labels
// ("Maintain Weight", "Weight Loss") as well as the identifiers. Unknown goals map to maintain with ok=false.
func ParseDietGoal(s string) (DietGoal, bool) {
	switch normalizeKey(s) {
	case "maintain", "maintain_weight":
		return GoalMaintain, true
	case "weight_loss", "lose_weight":
		return GoalWeightLoss, true
	case "weight_gain", "gain_weight":
		return GoalWeightGain, true
	case "muscle_gain", "gain_muscle":
		return GoalMuscleGain, true
	}
	return GoalMaintain, false
}

func (l *ActivityLevel) UnmarshalText(b []byte) error {
	*l, _ = ParseActivityLevel(string(b))
	return nil
}

func (g *DietGoal) UnmarshalText(b []byte) error {
	*g, _ = ParseDietGoal(string(b))
	return nil
}

func (g *Gender) UnmarshalText(b []byte) error {
	*g, _ = ParseGender(string(b))
	return nil
}

// Label returns a human readable form, e.g. "Weight Loss".
func (g DietGoal) Label() string {
	words := strings.Split(string(g), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	MinAge = 18
	MaxAge = 99
)

// NutritionProfile is owned by the profile-management collaborator and is read-only to the core.
type NutritionProfile struct {
	Age               int           `json:"age"`
	HeightCm          float64       `json:"height_cm"`
	WeightKg          float64       `json:"weight_kg"`
	Gender            Gender        `json:"gender"`
	ActivityLevel     ActivityLevel `json:"activity_level"`
	DietGoal          DietGoal      `json:"diet_goal"`
	Vegetarian        bool          `json:"vegetarian"`
	MedicalConditions []string      `json:"medical_conditions,omitempty"`
}

// Validate checks the physical measurements and age range.
func (p NutritionProfile) Validate() error {
	if p.HeightCm <= 0 {
		return &InvalidInputError{Field: "height_cm", Value: p.HeightCm, Reason: "must be positive"}
	}
	if p.WeightKg <= 0 {
		return &InvalidInputError{Field: "weight_kg", Value: p.WeightKg, Reason: "must be positive"}
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return &InvalidInputError{Field: "age", Value: float64(p.Age), Reason: fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)}
	}
	return nil
}

// Clone returns a copy that shares no slices with p.
func (p NutritionProfile) Clone() NutritionProfile {
	c := p
	if p.MedicalConditions != nil {
		c.MedicalConditions = append([]string(nil), p.MedicalConditions...)
	}
	return c
}

// MealItem is a single food within a meal.
type MealItem struct {
	Food     string  `json:"food"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber"`
	Benefits string  `json:"benefits"`
}

// Meal is one of the four meals of a plan.
type Meal struct {
	Type          MealType   `json:"meal_type"`
	Items         []MealItem `json:"items"`
	TotalCalories float64    `json:"total_calories"`
	MealBenefits  string     `json:"meal_benefits"`
}

// ItemCalories sums the calories declared by the items.
func (m Meal) ItemCalories() float64 {
	var sum float64
	for _, it := range m.Items {
		sum += it.Calories
	}
	return sum
}

type DailySummary struct {
	TotalCalories     float64 `json:"total_calories"`
	TotalProtein      float64 `json:"total_protein"`
	TotalCarbs        float64 `json:"total_carbs"`
	TotalFats         float64 `json:"total_fats"`
	TotalFiber        float64 `json:"total_fiber"`
	MedicalCompliance string  `json:"medical_compliance"`
}

// MealPlan is a complete validated plan. It is never published partially.
type MealPlan struct {
	ID           string       `json:"id"`
	Breakfast    Meal         `json:"breakfast"`
	Lunch        Meal         `json:"lunch"`
	Dinner       Meal         `json:"dinner"`
	Snacks       Meal         `json:"snacks"`
	DailySummary DailySummary `json:"daily_summary"`
	Coverage     float64      `json:"coverage"`

	Profile           NutritionProfile `json:"profile"`
	ConditionsApplied []string         `json:"medical_conditions_applied"`
	DailyTarget       int              `json:"daily_target_calories"`
	GeneratedAt       time.Time        `json:"generated_at"`
	Model             string           `json:"model,omitempty"`
}

// Meal returns the meal of the given type.
func (mp *MealPlan) Meal(t MealType) (Meal, bool) {
	switch t {
	case Breakfast:
		return mp.Breakfast, true
	case Lunch:
		return mp.Lunch, true
	case Dinner:
		return mp.Dinner, true
	case Snacks:
		return mp.Snacks, true
	}
	return Meal{}, false
}

// Meals returns the four meals in plan order.
func (mp *MealPlan) Meals() []Meal {
	return []Meal{mp.Breakfast, mp.Lunch, mp.Dinner, mp.Snacks}
}

// IsValid checks the structural guarantees a validated plan must hold.
func (mp *MealPlan) IsValid() bool {
	for _, t := range MealTypes {
		meal, _ := mp.Meal(t)
		if meal.Type != t || len(meal.Items) == 0 || meal.MealBenefits == "" || meal.TotalCalories < 0 {
			return false
		}
		for _, it := range meal.Items {
			if it.Food == "" || it.Quantity == "" || it.Benefits == "" {
				return false
			}
			if it.Calories < 0 || it.Protein < 0 || it.Carbs < 0 || it.Fats < 0 || it.Fiber < 0 {
				return false
			}
		}
	}
	return mp.DailySummary.MedicalCompliance != "" && mp.DailySummary.TotalCalories >= 0
}
