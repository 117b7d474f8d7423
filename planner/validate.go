package planner

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"nutriplan"
)

const (
	defaultItemBenefits = "General nutritional benefits."
	defaultCompliance   = "This plan aligns with your general dietary goals."
)

func defaultMealBenefits(mt nutriplan.MealType) string {
	return fmt.Sprintf("A balanced %s for your dietary needs.", mt)
}

// stripCodeFence removes a leading ``` fence (with any language tag) and its closing fence.
// Text without a leading fence is returned trimmed.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = s[3:]
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		// single line, e.g. ```json{...}```
		s = strings.TrimLeftFunc(s, func(r rune) bool {
			return r != '{' && r != '['
		})
	}
	s = strings.TrimSpace(s)
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// decodeJSON parses generator text, fenced or not.
func decodeJSON(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &v); err != nil {
		return nil, &nutriplan.ParseError{Err: err}
	}
	return v, nil
}

// ParseMealPlan turns raw generator output into a validated plan. Numeric fields are coerced,
// empty narrative fields are defaulted and declared totals are kept as given. The returned plan
// carries no provenance; see Planner.GeneratePlan.
func ParseMealPlan(raw string) (*nutriplan.MealPlan, error) {
	v, err := decodeJSON(raw)
	if err != nil {
		return nil, err
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, &nutriplan.SchemaError{Reason: fmt.Sprintf("top-level value must be a JSON object, got %s", jsonKind(v))}
	}

	var missing []string
	for _, mt := range nutriplan.MealTypes {
		if _, ok := doc[string(mt)]; !ok {
			missing = append(missing, string(mt))
		}
	}
	if len(missing) > 0 {
		return nil, &nutriplan.SchemaError{Missing: missing, Reason: "missing meals"}
	}

	var plan nutriplan.MealPlan
	meals := map[nutriplan.MealType]*nutriplan.Meal{
		nutriplan.Breakfast: &plan.Breakfast,
		nutriplan.Lunch:     &plan.Lunch,
		nutriplan.Dinner:    &plan.Dinner,
		nutriplan.Snacks:    &plan.Snacks,
	}
	for _, mt := range nutriplan.MealTypes {
		meal, err := parseMeal(mt, doc[string(mt)])
		if err != nil {
			return nil, err
		}
		*meals[mt] = meal
	}

	raws, ok := doc["daily_summary"]
	if !ok {
		return nil, &nutriplan.SchemaError{Missing: []string{"daily_summary"}}
	}
	summary, err := parseSummary(raws)
	if err != nil {
		return nil, err
	}
	plan.DailySummary = summary

	return &plan, nil
}

func parseMeal(mt nutriplan.MealType, v any) (nutriplan.Meal, error) {
	path := string(mt)
	obj, ok := v.(map[string]any)
	if !ok {
		return nutriplan.Meal{}, &nutriplan.SchemaError{Path: path, Reason: "must be a JSON object, got " + jsonKind(v)}
	}
	if missing := missingKeys(obj, mealFields); len(missing) > 0 {
		return nutriplan.Meal{}, &nutriplan.SchemaError{Path: path, Missing: missing}
	}

	rawItems, ok := obj["items"].([]any)
	if !ok || len(rawItems) == 0 {
		return nutriplan.Meal{}, &nutriplan.SchemaError{Path: path + ".items", Reason: "must be a non-empty array"}
	}

	meal := nutriplan.Meal{Type: mt, Items: make([]nutriplan.MealItem, 0, len(rawItems))}
	for i, ri := range rawItems {
		item, err := parseItem(fmt.Sprintf("%s.items[%d]", path, i), ri)
		if err != nil {
			return nutriplan.Meal{}, err
		}
		meal.Items = append(meal.Items, item)
	}

	total, err := coerceNumber(path+".total_calories", obj["total_calories"])
	if err != nil {
		return nutriplan.Meal{}, err
	}
	meal.TotalCalories = total
	meal.MealBenefits = narrative(obj["meal_benefits"], defaultMealBenefits(mt))

	return meal, nil
}

func parseItem(path string, v any) (nutriplan.MealItem, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nutriplan.MealItem{}, &nutriplan.SchemaError{Path: path, Reason: "must be a JSON object, got " + jsonKind(v)}
	}
	if missing := missingKeys(obj, itemFields); len(missing) > 0 {
		return nutriplan.MealItem{}, &nutriplan.SchemaError{Path: path, Missing: missing}
	}

	food, ok := obj["food"].(string)
	if food = strings.TrimSpace(food); !ok || food == "" {
		return nutriplan.MealItem{}, &nutriplan.SchemaError{Path: path + ".food", Reason: "must be a non-empty string"}
	}

	quantity, ok := quantityText(obj["quantity"])
	if !ok {
		return nutriplan.MealItem{}, &nutriplan.SchemaError{Path: path + ".quantity", Reason: "must be a non-empty string"}
	}

	item := nutriplan.MealItem{Food: food, Quantity: quantity}
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"calories", &item.Calories},
		{"protein", &item.Protein},
		{"carbs", &item.Carbs},
		{"fats", &item.Fats},
		{"fiber", &item.Fiber},
	} {
		n, err := coerceNumber(path+"."+f.key, obj[f.key])
		if err != nil {
			return nutriplan.MealItem{}, err
		}
		*f.dst = n
	}
	item.Benefits = narrative(obj["benefits"], defaultItemBenefits)

	return item, nil
}

func parseSummary(v any) (nutriplan.DailySummary, error) {
	const path = "daily_summary"
	obj, ok := v.(map[string]any)
	if !ok {
		return nutriplan.DailySummary{}, &nutriplan.SchemaError{Path: path, Reason: "must be a JSON object, got " + jsonKind(v)}
	}
	if missing := missingKeys(obj, summaryFields); len(missing) > 0 {
		return nutriplan.DailySummary{}, &nutriplan.SchemaError{Path: path, Missing: missing}
	}

	var s nutriplan.DailySummary
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"total_calories", &s.TotalCalories},
		{"total_protein", &s.TotalProtein},
		{"total_carbs", &s.TotalCarbs},
		{"total_fats", &s.TotalFats},
		{"total_fiber", &s.TotalFiber},
	} {
		n, err := coerceNumber(path+"."+f.key, obj[f.key])
		if err != nil {
			return nutriplan.DailySummary{}, err
		}
		*f.dst = n
	}
	s.MedicalCompliance = narrative(obj["medical_compliance"], defaultCompliance)

	return s, nil
}

func missingKeys(obj map[string]any, keys []string) []string {
	var missing []string
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// coerceNumber accepts JSON numbers and numeric strings. Anything else, or a negative
// or non-finite result, is a *nutriplan.TypeCoercionError.
func coerceNumber(path string, v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, &nutriplan.TypeCoercionError{Path: path, Value: v}
		}
		f = n
	default:
		return 0, &nutriplan.TypeCoercionError{Path: path, Value: v}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, &nutriplan.TypeCoercionError{Path: path, Value: v}
	}
	return f, nil
}

func quantityText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

// narrative returns v as text, or def when v is falsy: null, false, 0, a blank
// string, an empty array or an empty object.
func narrative(v any, def string) string {
	switch t := v.(type) {
	case nil:
		return def
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return s
		}
		return def
	case bool:
		if !t {
			return def
		}
	case float64:
		if t == 0 {
			return def
		}
	case []any:
		if len(t) == 0 {
			return def
		}
	case map[string]any:
		if len(t) == 0 {
			return def
		}
	}
	return fmt.Sprint(v)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
