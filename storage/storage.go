package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nutriplan"
)

// ErrPlanNotFound is returned when a plan id has no stored plan.
var ErrPlanNotFound = errors.New("meal plan not found")

// ProfileState supplies the raw JSON of the active nutrition profile.
type ProfileState interface {
	Load(ctx context.Context) ([]byte, error)
}

// PlanStore persists validated meal plans.
type PlanStore interface {
	// Save stores plan under its ID and returns where it was written.
	Save(ctx context.Context, plan *nutriplan.MealPlan) (string, error)
	Load(ctx context.Context, id string) (*nutriplan.MealPlan, error)
}

// conditionList accepts either a JSON array or a comma separated string.
type conditionList []string

func (c *conditionList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*c = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("medical_conditions must be a list or a comma separated string")
	}
	*c = nil
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*c = append(*c, part)
		}
	}
	return nil
}

// DecodeProfile parses a profile document. Enum fields are matched leniently.
func DecodeProfile(data []byte) (nutriplan.NutritionProfile, error) {
	var doc struct {
		nutriplan.NutritionProfile
		MedicalConditions conditionList `json:"medical_conditions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nutriplan.NutritionProfile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	p := doc.NutritionProfile
	p.MedicalConditions = doc.MedicalConditions
	return p, nil
}

// LoadProfile reads and decodes the profile held by state.
func LoadProfile(ctx context.Context, state ProfileState) (nutriplan.NutritionProfile, error) {
	data, err := state.Load(ctx)
	if err != nil {
		return nutriplan.NutritionProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return DecodeProfile(data)
}

// TestProfileState is a simple in-memory implementation for testing
type TestProfileState struct {
	data []byte
	err  error
}

func NewTestProfileState(data []byte) *TestProfileState {
	return &TestProfileState{data: data}
}

func NewTestProfileStateWithError() *TestProfileState {
	return &TestProfileState{err: errors.New("not found")}
}

func (t *TestProfileState) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}

func planKey(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid plan id %q", id)
	}
	return id + ".json", nil
}
