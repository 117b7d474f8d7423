package planner

import (
	"context"
	"log/slog"
	"time"

	"nutriplan"
	"nutriplan/conditions"

	"github.com/google/uuid"
)

// Planner turns a nutrition profile into a validated meal plan using a Generator.
type Planner struct {
	gen     nutriplan.Generator
	catalog *conditions.Catalog
	advisor *Advisor
	logger  nutriplan.GenerationLogger
	model   string
	now     func() time.Time
	newID   func() string
}

var _ nutriplan.MealPlanner = (*Planner)(nil)

type Option func(*Planner)

func WithGenerationLogger(l nutriplan.GenerationLogger) Option {
	return func(p *Planner) { p.logger = l }
}

// WithModel records the generating model's name on every plan.
func WithModel(model string) Option {
	return func(p *Planner) { p.model = model }
}

func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func WithIDFunc(newID func() string) Option {
	return func(p *Planner) { p.newID = newID }
}

// New creates a Planner. A nil catalog means conditions.Default().
func New(gen nutriplan.Generator, catalog *conditions.Catalog, opts ...Option) *Planner {
	if catalog == nil {
		catalog = conditions.Default()
	}
	p := &Planner{
		gen:     gen,
		catalog: catalog,
		logger:  nutriplan.NewNoOpGenerationLogger(),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(p)
	}
	p.advisor = NewAdvisor(gen, catalog)
	return p
}

// GeneratePlan validates profile, asks the generator for a plan and returns it validated,
// reconciled and stamped with provenance. No partial plan is ever returned.
func (p *Planner) GeneratePlan(ctx context.Context, profile nutriplan.NutritionProfile) (*nutriplan.MealPlan, error) {
	if err := profile.Validate(); err != nil {
		slog.Warn("PLANNER: Rejecting profile", "error", err)
		return nil, err
	}

	req := BuildRequest(profile, p.catalog)
	prompt, err := req.Prompt()
	if err != nil {
		return nil, err
	}

	slog.Info("PLANNER: Requesting meal plan",
		"daily_target", req.DailyTarget,
		"conditions", req.ConditionIDs(),
		"vegetarian", req.Vegetarian,
		"prompt_size_bytes", len(prompt.System)+len(prompt.User),
	)

	entry := nutriplan.GenerationLog{Task: prompt.Task, Timestamp: p.now(), Prompt: prompt.User}
	start := time.Now()

	raw, err := p.gen.Generate(ctx, prompt)
	entry.DurationMs = time.Since(start).Milliseconds()
	entry.RawOutput = raw
	if err != nil {
		err = asCollaboratorError("generate meal plan", err)
		slog.Error("PLANNER: Generator failed", "error", err)
		p.record(entry, err)
		return nil, err
	}

	plan, err := ParseMealPlan(raw)
	if err != nil {
		slog.Error("PLANNER: Rejected generated meal plan", "error", err, "error_kind", nutriplan.ErrorKind(err), "raw_len", len(raw))
		p.record(entry, err)
		return nil, err
	}

	Reconcile(plan, req.DailyTarget)
	plan.ID = p.newID()
	plan.Profile = profile.Clone()
	plan.ConditionsApplied = req.ConditionIDs()
	plan.GeneratedAt = p.now()
	plan.Model = p.model

	p.reportDrift(plan)

	entry.PlanID = plan.ID
	entry.Coverage = plan.Coverage
	p.record(entry, nil)

	slog.Info("PLANNER: Meal plan ready", "plan_id", plan.ID, "coverage", plan.Coverage, "daily_target", plan.DailyTarget)
	return plan, nil
}

// Alternatives suggests up to three substitutes for food under the given conditions.
func (p *Planner) Alternatives(ctx context.Context, food string, conditionIDs []string, vegetarian bool) ([]string, error) {
	start := time.Now()
	alts, err := p.advisor.Suggest(ctx, food, conditionIDs, vegetarian)
	entry := nutriplan.GenerationLog{
		Task:       nutriplan.TaskAlternatives,
		Timestamp:  p.now(),
		DurationMs: time.Since(start).Milliseconds(),
		Prompt:     food,
	}
	p.record(entry, err)
	if err != nil {
		slog.Error("PLANNER: Alternatives lookup failed", "food", food, "error", err)
		return alts, err
	}
	slog.Info("PLANNER: Alternatives ready", "food", food, "count", len(alts))
	return alts, nil
}

func (p *Planner) reportDrift(plan *nutriplan.MealPlan) {
	report := Drift(plan)
	meals, summary := report.Significant()
	for _, m := range meals {
		slog.Warn("PLANNER: Meal total differs from its items",
			"plan_id", plan.ID, "meal", m.Meal, "declared", m.Declared, "items", m.Items, "delta", m.Delta())
	}
	if summary {
		slog.Warn("PLANNER: Daily total differs from meal totals",
			"plan_id", plan.ID, "declared", report.SummaryDeclared, "meals", report.MealsTotal, "delta", report.SummaryDelta())
	}
}

func (p *Planner) record(entry nutriplan.GenerationLog, err error) {
	if err != nil {
		entry.Error = err.Error()
		entry.ErrorKind = nutriplan.ErrorKind(err)
	}
	if lerr := p.logger.LogGeneration(entry); lerr != nil {
		slog.Warn("PLANNER: Failed to log generation", "error", lerr)
	}
}
