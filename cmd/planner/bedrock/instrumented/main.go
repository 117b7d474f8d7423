package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"nutriplan"
	"nutriplan/generator/bedrock"
	"nutriplan/planner"
	"nutriplan/slack"
	"nutriplan/storage"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("SETUP: Failed to load .env file", "error", err)
	}

	var modelConfig nutriplan.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var plannerConfig nutriplan.PlannerConfig
	if err := envdecode.Decode(&plannerConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	profilePath := argOr(1, plannerConfig.ProfilePath)
	profile, err := storage.LoadProfile(ctx, storage.NewFileProfileState(profilePath))
	if err != nil {
		slog.Error("SETUP: Failed to load profile", "path", profilePath, "error", err)
		return
	}
	slog.Info("SETUP: Profile loaded", "path", profilePath, "conditions", len(profile.MedicalConditions))

	logger, cleanup, err := newGenerationLogger(modelConfig.ModelID)
	if err != nil {
		slog.Error("Failed to create generation logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("Failed to flush generation log", "error", err)
		}
	}()

	brc, err := newBedrockRuntimeClient(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to create Bedrock client", "error", err)
		return
	}

	llm := bedrock.NewLLMClient(brc, bedrock.LLMOptions{
		ModelID:     modelConfig.ModelID,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		TopP:        modelConfig.TopP,
	})

	tracerProvider, meterProvider, otelShutdown, err := nutriplan.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(nutriplan.TracerNamePlanner)
	ctx, span := tracer.Start(ctx, "planner.bedrock.run", trace.WithAttributes(
		attribute.String("model.id", modelConfig.ModelID),
		attribute.Int("model.max_tokens", int(modelConfig.MaxTokens)),
		attribute.Float64("model.temperature", float64(modelConfig.Temperature)),
		attribute.Float64("model.top_p", float64(modelConfig.TopP)),
	))
	defer span.End()

	p := planner.NewInstrumentedPlanner(
		planner.New(llm, nil,
			planner.WithModel(llm.ModelID()),
			planner.WithGenerationLogger(logger)),
		tracer,
		meterProvider.Meter(nutriplan.MeterNamePlanner),
	)

	plan, err := p.GeneratePlan(ctx, profile)
	if err != nil {
		slog.Error("RESULT: Error generating plan", "error", err, "error_kind", nutriplan.ErrorKind(err))
		return
	}
	slog.Info("RESULT: Plan generated", "plan_id", plan.ID, "coverage", plan.Coverage)

	path, err := storage.NewFilePlanStore(plannerConfig.PlansDir).Save(ctx, plan)
	if err != nil {
		slog.Error("RESULT: Failed to save plan", "error", err)
		return
	}
	slog.Info("RESULT: Plan saved", "path", path)

	if plannerConfig.SlackWebhookURL == "" {
		return
	}
	slackClient := slack.NewClient(plannerConfig.SlackWebhookURL, http.DefaultClient)
	if err := slackClient.PostMealPlan(ctx, plannerConfig.SlackChannel, plan); err != nil {
		slog.Error("Failed to post plan to Slack", "error", err)
	}
}

func newBedrockRuntimeClient(ctx context.Context) (*bedrockruntime.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, err
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func newGenerationLogger(modelID string) (nutriplan.GenerationLogger, func() error, error) {
	logFilePath := nutriplan.NewGenerationLogFilePath(modelID)
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to create log dir: %w", err)
	}
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := nutriplan.NewFileGenerationLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
