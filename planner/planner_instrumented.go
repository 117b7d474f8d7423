package planner

import (
	"context"
	"time"

	"nutriplan"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedPlanner wraps a MealPlanner with spans and metrics.
type InstrumentedPlanner struct {
	next   nutriplan.MealPlanner
	tracer trace.Tracer

	planRequests    metric.Int64Counter
	plansGenerated  metric.Int64Counter
	planFailures    metric.Int64Counter
	altRequests     metric.Int64Counter
	altFailures     metric.Int64Counter
	duration        metric.Float64Histogram
	coverage        metric.Float64Histogram
	alternativesLen metric.Int64Histogram
}

var _ nutriplan.MealPlanner = (*InstrumentedPlanner)(nil)

func NewInstrumentedPlanner(next nutriplan.MealPlanner, tracer trace.Tracer, meter metric.Meter) *InstrumentedPlanner {
	ip := &InstrumentedPlanner{next: next, tracer: tracer}

	ip.planRequests, _ = meter.Int64Counter("meal_plan_requests_total",
		metric.WithDescription("Total number of meal plan generations started"))
	ip.plansGenerated, _ = meter.Int64Counter("meal_plan_generated_total",
		metric.WithDescription("Total number of meal plans that passed validation"))
	ip.planFailures, _ = meter.Int64Counter("meal_plan_failures_total",
		metric.WithDescription("Total number of meal plan generations that failed, by error kind"))
	ip.altRequests, _ = meter.Int64Counter("alternatives_requests_total",
		metric.WithDescription("Total number of food alternatives lookups"))
	ip.altFailures, _ = meter.Int64Counter("alternatives_failures_total",
		metric.WithDescription("Total number of food alternatives lookups that failed"))
	ip.duration, _ = meter.Float64Histogram("generation_duration_seconds",
		metric.WithDescription("Duration of a generation pipeline in seconds"))
	ip.coverage, _ = meter.Float64Histogram("plan_coverage_percent",
		metric.WithDescription("Generated daily calories as a percentage of the target"))
	ip.alternativesLen, _ = meter.Int64Histogram("alternatives_returned",
		metric.WithDescription("Number of alternatives returned per lookup"))

	return ip
}

func (ip *InstrumentedPlanner) GeneratePlan(ctx context.Context, profile nutriplan.NutritionProfile) (*nutriplan.MealPlan, error) {
	ctx, span := ip.tracer.Start(ctx, "InstrumentedPlanner.GeneratePlan", trace.WithAttributes(
		attribute.Int("profile.age", profile.Age),
		attribute.String("profile.activity_level", string(profile.ActivityLevel)),
		attribute.String("profile.diet_goal", string(profile.DietGoal)),
		attribute.Bool("profile.vegetarian", profile.Vegetarian),
		attribute.StringSlice("profile.medical_conditions", profile.MedicalConditions),
	))
	defer span.End()

	taskAttr := metric.WithAttributes(attribute.String("task", string(nutriplan.TaskMealPlan)))
	ip.planRequests.Add(ctx, 1)

	start := time.Now()
	plan, err := ip.next.GeneratePlan(ctx, profile)
	ip.duration.Record(ctx, time.Since(start).Seconds(), taskAttr)

	if err != nil {
		kind := nutriplan.ErrorKind(err)
		ip.planFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("error_kind", kind)))
		span.SetAttributes(attribute.String("error_kind", kind))
		span.SetStatus(codes.Error, "meal plan generation failed")
		span.RecordError(err)
		return nil, err
	}

	ip.plansGenerated.Add(ctx, 1)
	ip.coverage.Record(ctx, plan.Coverage)
	span.AddEvent("Meal plan validated", trace.WithAttributes(
		attribute.String("plan_id", plan.ID),
		attribute.Int("daily_target", plan.DailyTarget),
		attribute.Float64("coverage", plan.Coverage),
		attribute.StringSlice("conditions_applied", plan.ConditionsApplied),
	))
	span.SetStatus(codes.Ok, "")
	return plan, nil
}

func (ip *InstrumentedPlanner) Alternatives(ctx context.Context, food string, conditionIDs []string, vegetarian bool) ([]string, error) {
	ctx, span := ip.tracer.Start(ctx, "InstrumentedPlanner.Alternatives", trace.WithAttributes(
		attribute.String("food", food),
		attribute.StringSlice("conditions", conditionIDs),
		attribute.Bool("vegetarian", vegetarian),
	))
	defer span.End()

	taskAttr := metric.WithAttributes(attribute.String("task", string(nutriplan.TaskAlternatives)))
	ip.altRequests.Add(ctx, 1)

	start := time.Now()
	alts, err := ip.next.Alternatives(ctx, food, conditionIDs, vegetarian)
	ip.duration.Record(ctx, time.Since(start).Seconds(), taskAttr)

	if err != nil {
		ip.altFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("error_kind", nutriplan.ErrorKind(err))))
		span.SetStatus(codes.Error, "alternatives lookup failed")
		span.RecordError(err)
		return alts, err
	}

	ip.alternativesLen.Record(ctx, int64(len(alts)))
	span.SetAttributes(attribute.Int("alternatives.count", len(alts)))
	return alts, nil
}
