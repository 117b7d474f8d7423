package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nutriplan"
	"nutriplan/conditions"
)

// MaxAlternatives caps the number of suggestions returned for one food.
const MaxAlternatives = 3

// Advisor suggests substitutes for a single food.
type Advisor struct {
	gen     nutriplan.Generator
	catalog *conditions.Catalog
}

func NewAdvisor(gen nutriplan.Generator, catalog *conditions.Catalog) *Advisor {
	return &Advisor{gen: gen, catalog: catalog}
}

// AlternativesPrompt renders the substitution request for food.
func AlternativesPrompt(food string, rules []conditions.Rule, vegetarian bool) (nutriplan.Prompt, error) {
	schema, err := schemaText(AlternativesSchema())
	if err != nil {
		return nutriplan.Prompt{}, err
	}

	restrictions := "No specific restrictions"
	if len(rules) > 0 {
		lines := make([]string, len(rules))
		for i, r := range rules {
			lines[i] = fmt.Sprintf("%s: avoid %s", r.Name, strings.Join(r.Avoid, ", "))
		}
		restrictions = strings.Join(lines, "\n")
	}

	pref := "Non-vegetarian or vegetarian"
	if vegetarian {
		pref = "Vegetarian"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d healthy alternatives to %q that are:\n", MaxAlternatives, food)
	fmt.Fprintf(&b, "- %s\n", pref)
	fmt.Fprintf(&b, "- Safe for someone with these medical conditions: %s\n", restrictions)
	b.WriteString("- Similar in nutritional value and meal type\n\n")
	b.WriteString("Return ONLY a JSON array of food names that validates against this JSON Schema:\n")
	b.WriteString(schema)
	b.WriteString("\n")

	return nutriplan.Prompt{
		Task:   nutriplan.TaskAlternatives,
		System: alternativesSystemPrompt,
		User:   b.String(),
	}, nil
}

// ParseAlternatives extracts at most MaxAlternatives names from raw. Anything that is not a
// JSON array of strings yields an empty, non-nil slice.
func ParseAlternatives(raw string) []string {
	out := []string{}

	v, err := decodeJSON(raw)
	if err != nil {
		slog.Warn("PLANNER: Alternatives response is not valid JSON", "error", err)
		return out
	}
	arr, ok := v.([]any)
	if !ok {
		slog.Warn("PLANNER: Alternatives response is not a JSON array", "kind", jsonKind(v))
		return out
	}
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			slog.Warn("PLANNER: Alternatives response holds a non-string element", "kind", jsonKind(e))
			return []string{}
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) > MaxAlternatives {
		out = out[:MaxAlternatives]
	}
	return out
}

// Suggest asks the generator for substitutes of food. Malformed responses give an empty result;
// only a generator failure is returned as an error.
func (a *Advisor) Suggest(ctx context.Context, food string, conditionIDs []string, vegetarian bool) ([]string, error) {
	food = strings.TrimSpace(food)
	if food == "" {
		return []string{}, nil
	}

	prompt, err := AlternativesPrompt(food, a.catalog.Describe(conditionIDs), vegetarian)
	if err != nil {
		return []string{}, err
	}

	raw, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return []string{}, asCollaboratorError("suggest alternatives", err)
	}

	return ParseAlternatives(raw), nil
}

func asCollaboratorError(op string, err error) error {
	var ce *nutriplan.CollaboratorError
	if errors.As(err, &ce) {
		return err
	}
	return &nutriplan.CollaboratorError{Op: op, Err: err}
}
