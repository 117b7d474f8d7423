package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan"
	"nutriplan/storage"
)

const testProfile = `{"age": 21, "height_cm": 160, "weight_kg": 60, "gender": "male",
	"activity_level": "sedentary", "diet_goal": "maintain", "vegetarian": true}`

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(profilePath, []byte(testProfile), 0644))

	return &App{
		Config: nutriplan.PlannerConfig{
			ProfilePath:   profilePath,
			PlansDir:      filepath.Join(dir, "plans"),
			HistoryDBPath: filepath.Join(dir, "history.db"),
		},
		IsTerminal:   func() bool { return true },
		NewGenerator: newGenerator,
	}
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(app)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTargetsCmd(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(t, app, "targets")
	require.NoError(t, err)
	assert.Contains(t, out, "BMI: 23.4 (Normal weight)")
	assert.Contains(t, out, "Daily target: 1800 kcal")
	assert.Contains(t, out, "breakfast: 450 kcal")
	assert.Contains(t, out, "snacks:    180 kcal")

	out, err = execute(t, app, "targets", "--json")
	require.NoError(t, err)
	var report targetsReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1800, report.DailyTarget)
	assert.Equal(t, 630, report.Meals.Lunch)
}

func TestTargetsCmdInvalidMeasurements(t *testing.T) {
	app := newTestApp(t)
	profilePath := filepath.Join(t.TempDir(), "no-height.json")
	require.NoError(t, os.WriteFile(profilePath, []byte(`{"age": 21, "height_cm": 0, "weight_kg": 60,
		"gender": "male", "activity_level": "sedentary", "diet_goal": "maintain"}`), 0644))

	out, err := execute(t, app, "targets", "--profile", profilePath)
	require.NoError(t, err)
	assert.Contains(t, out, "BMI: 0.0 (Underweight)")
	assert.Contains(t, out, "Daily target: 1200 kcal")

	_, err = execute(t, app, "plan", "--profile", profilePath)
	assert.ErrorIs(t, err, nutriplan.ErrInvalidInput)
}

func TestPlanHistoryFeedbackFlow(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(t, app, "plan", "--json")
	require.NoError(t, err)

	var plan nutriplan.MealPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, 1800, plan.DailyTarget)
	assert.Equal(t, 100.0, plan.Coverage)
	assert.Equal(t, "mock", plan.Model)
	assert.True(t, plan.IsValid())
	assert.FileExists(t, filepath.Join(app.Config.PlansDir, plan.ID+".json"))

	out, err = execute(t, app, "history", "--json")
	require.NoError(t, err)
	var records []storage.PlanRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, plan.ID, records[0].ID)

	out, err = execute(t, app, "feedback", plan.ID, "--rating", "5", "--comment", "great")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved rating 5 for plan "+plan.ID)

	_, err = execute(t, app, "feedback", plan.ID, "--rating", "9")
	assert.ErrorIs(t, err, nutriplan.ErrInvalidInput)

	_, err = execute(t, app, "feedback", "no-such-plan", "--rating", "3")
	assert.ErrorIs(t, err, storage.ErrPlanNotFound)
}

func TestPlanCmdText(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(t, app, "plan", "--history", "", "--plans-dir", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily target: 1800 kcal  Coverage: 100.0%")
	assert.Contains(t, out, "BREAKFAST (450 / 450 kcal)")
	assert.Contains(t, out, "SNACKS (180 / 180 kcal)")
	assert.NoDirExists(t, app.Config.PlansDir)
}

func TestPlanCmdErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown backend", args: []string{"plan", "--backend", "gpt"}},
		{name: "missing profile", args: []string{"plan", "--profile", "/nonexistent/profile.json"}},
		{name: "slack without webhook", args: []string{"plan", "--slack", "--history", "", "--plans-dir", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, newTestApp(t), tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestAlternativesCmd(t *testing.T) {
	app := newTestApp(t)

	out, err := execute(t, app, "alternatives", "bacon", "--vegetarian", "--condition", "hypertension")
	require.NoError(t, err)
	assert.Equal(t, "1. Tofu\n2. Tempeh\n3. Chickpeas\n", out)

	out, err = execute(t, app, "alternatives", "bacon", "--json")
	require.NoError(t, err)
	var got struct {
		Food         string   `json:"food"`
		Alternatives []string `json:"alternatives"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "bacon", got.Food)
	assert.Len(t, got.Alternatives, 3)

	_, err = execute(t, app, "alternatives")
	assert.Error(t, err)
}

func TestWantJSON(t *testing.T) {
	app := &App{IsTerminal: func() bool { return false }}
	assert.True(t, app.wantJSON())

	app.IsTerminal = func() bool { return true }
	assert.False(t, app.wantJSON())

	app.jsonOut = true
	assert.True(t, app.wantJSON())
}

func TestBackendFlag(t *testing.T) {
	var b Backend
	require.NoError(t, b.Set("bedrock"))
	assert.Equal(t, BackendBedrock, b)
	assert.Equal(t, "backend", b.Type())
	assert.Error(t, b.Set("openai"))
	assert.Equal(t, BackendBedrock, b)
}
