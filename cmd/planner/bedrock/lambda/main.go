package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"nutriplan"
	"nutriplan/generator/bedrock"
	"nutriplan/planner"
	"nutriplan/storage"
)

const (
	ActionPlan         = "plan"
	ActionAlternatives = "alternatives"
)

// Params is the invocation event. Profile, when present, takes precedence
// over the profile object stored in S3.
type Params struct {
	Action     string          `json:"action"`
	Profile    json.RawMessage `json:"profile,omitempty"`
	Food       string          `json:"food,omitempty"`
	Conditions []string        `json:"medical_conditions,omitempty"`
	Vegetarian bool            `json:"vegetarian,omitempty"`
}

type Results struct {
	Plan         *nutriplan.MealPlan `json:"plan,omitempty"`
	Location     string              `json:"location,omitempty"`
	Alternatives []string            `json:"alternatives,omitempty"`
}

// handler holds what is built once per cold start.
type handler struct {
	planner  nutriplan.MealPlanner
	profiles storage.ProfileState
	plans    storage.PlanStore
}

// newHandler wraps plans so overlapping invocations store one plan at a time.
func newHandler(p nutriplan.MealPlanner, profiles storage.ProfileState, plans storage.PlanStore) *handler {
	return &handler{
		planner:  p,
		profiles: profiles,
		plans:    storage.NewSyncPlanStore(plans),
	}
}

func (h *handler) handle(ctx context.Context, params Params) (Results, error) {
	switch params.Action {
	case ActionPlan:
		return h.plan(ctx, params)
	case ActionAlternatives:
		alts, err := h.planner.Alternatives(ctx, params.Food, params.Conditions, params.Vegetarian)
		if err != nil {
			slog.Error("RESULT: Error suggesting alternatives", "error", err)
			return Results{}, err
		}
		return Results{Alternatives: alts}, nil
	}
	return Results{}, fmt.Errorf("unknown action %q (want %q or %q)", params.Action, ActionPlan, ActionAlternatives)
}

func (h *handler) plan(ctx context.Context, params Params) (Results, error) {
	var (
		profile nutriplan.NutritionProfile
		err     error
	)
	if len(params.Profile) > 0 {
		profile, err = storage.DecodeProfile(params.Profile)
	} else {
		profile, err = storage.LoadProfile(ctx, h.profiles)
	}
	if err != nil {
		slog.Error("SETUP: Failed to load profile", "error", err)
		return Results{}, err
	}

	plan, err := h.planner.GeneratePlan(ctx, profile)
	if err != nil {
		slog.Error("RESULT: Error generating plan", "error", err, "error_kind", nutriplan.ErrorKind(err))
		return Results{}, err
	}

	loc, err := h.plans.Save(ctx, plan)
	if err != nil {
		slog.Error("RESULT: Failed to store plan", "plan_id", plan.ID, "error", err)
		return Results{}, err
	}
	slog.Info("RESULT: Plan stored", "plan_id", plan.ID, "location", loc, "coverage", plan.Coverage)

	return Results{Plan: plan, Location: loc}, nil
}

func main() {
	ctx := context.Background()

	var modelConfig nutriplan.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		slog.Error("SETUP: Failed to decode model config", "error", err)
		return
	}

	var s3Config nutriplan.S3Config
	if err := envdecode.Decode(&s3Config); err != nil {
		slog.Error("SETUP: Failed to decode S3 config", "error", err)
		return
	}
	if s3Config.Bucket == "" {
		slog.Error("SETUP: missing S3 config: ARTIFACTS_S3_BUCKET must be set")
		return
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		slog.Error("SETUP: Failed to load AWS config", "error", err)
		return
	}
	s3Client := s3.NewFromConfig(awsCfg)

	llm := bedrock.NewLLMClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.LLMOptions{
		ModelID:     modelConfig.ModelID,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		TopP:        modelConfig.TopP,
	})

	h := newHandler(
		planner.New(llm, nil,
			planner.WithModel(llm.ModelID()),
			planner.WithGenerationLogger(nutriplan.NewStdoutGenerationLogger())),
		storage.NewS3ProfileState(s3Client, s3Config.Bucket, s3Config.ProfileKey),
		storage.NewS3PlanStore(s3Client, s3Config.Bucket, s3Config.PlansPrefix),
	)
	slog.Info("SETUP: Lambda handler initialized", "bucket", s3Config.Bucket, "model", llm.ModelID())

	lambda.Start(h.handle)
}
