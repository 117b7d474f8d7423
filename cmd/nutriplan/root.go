package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joeshaw/envdecode"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"nutriplan"
	"nutriplan/generator/bedrock"
	"nutriplan/generator/mock"
	"nutriplan/generator/ollama"
	"nutriplan/storage"
)

// App carries the configuration and collaborators shared by all commands.
type App struct {
	Config nutriplan.PlannerConfig

	// IsTerminal reports whether output goes to an interactive terminal.
	// Non-terminal output defaults to JSON.
	IsTerminal func() bool

	NewGenerator func(ctx context.Context, b Backend, cfg nutriplan.PlannerConfig) (nutriplan.Generator, string, error)

	jsonOut bool
}

func (a *App) wantJSON() bool {
	if a.jsonOut {
		return true
	}
	return a.IsTerminal != nil && !a.IsTerminal()
}

func (a *App) openHistory(path string) (*storage.SQLiteHistory, error) {
	if path == "" {
		return nil, fmt.Errorf("no history database configured (set --history or HISTORY_DB_PATH)")
	}
	return storage.OpenHistory(path)
}

// NewRootCmd creates the top-level "nutriplan" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "nutriplan",
		Short:         "Personalized calorie targets and generated meal plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&app.jsonOut, "json", false, "Write JSON output even on a terminal")

	root.AddCommand(
		newPlanCmd(app),
		newAlternativesCmd(app),
		newTargetsCmd(app),
		newFeedbackCmd(app),
		newHistoryCmd(app),
	)
	return root
}

// Backend selects the generator implementation.
type Backend string

const (
	BackendMock    Backend = "mock"
	BackendOllama  Backend = "ollama"
	BackendBedrock Backend = "bedrock"
)

var _ pflag.Value = (*Backend)(nil)

func (b *Backend) String() string { return string(*b) }

func (b *Backend) Set(s string) error {
	switch Backend(s) {
	case BackendMock, BackendOllama, BackendBedrock:
		*b = Backend(s)
		return nil
	}
	return fmt.Errorf("unknown backend %q (want mock, ollama or bedrock)", s)
}

func (b *Backend) Type() string { return "backend" }

func addBackendFlag(fs *pflag.FlagSet, b *Backend) {
	*b = BackendMock
	fs.Var(b, "backend", "Generator backend: mock, ollama or bedrock")
}

func newGenerator(ctx context.Context, b Backend, cfg nutriplan.PlannerConfig) (nutriplan.Generator, string, error) {
	switch b {
	case BackendMock:
		return mock.NewLLMClient(), string(BackendMock), nil

	case BackendOllama:
		var modelConfig nutriplan.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			return nil, "", fmt.Errorf("decoding model config: %w", err)
		}
		client, err := ollama.NewClient(ollama.ClientOpts{
			BaseEndpoint: cfg.BaseOllamaEndpoint,
			ModelID:      modelConfig.ModelID,
			HTTPClient:   http.DefaultClient,
		})
		if err != nil {
			return nil, "", err
		}
		return client, client.Model(), nil

	case BackendBedrock:
		var modelConfig nutriplan.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			return nil, "", fmt.Errorf("decoding model config: %w", err)
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return nil, "", fmt.Errorf("loading AWS config: %w", err)
		}
		llm := bedrock.NewLLMClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.LLMOptions{
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		})
		return llm, llm.ModelID(), nil
	}
	return nil, "", fmt.Errorf("unknown backend %q", b)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
