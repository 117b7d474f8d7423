package bedrock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nutriplan"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const (
	// defaultModelID is an inference profile ID, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	// A full day of four meals with macros runs well past 1k tokens.
	defaultMaxTokens = 4096

	// Low temperature and top_p keep structured JSON output consistent.
	defaultTemperature = 0.2
	defaultTopP        = 0.9
)

var (
	ErrMaxTokens       = errors.New("model hit MaxTokens limit; consider increasing MaxTokens")
	ErrContentFiltered = errors.New("model response blocked by Bedrock safety filters")
	ErrEmptyResponse   = errors.New("model returned no text")
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type LLMOptions struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// LLMClient generates text with the Bedrock Converse API, one system and one user message per call.
type LLMClient struct {
	brc  bedrockRuntimeClient
	opts LLMOptions
}

var _ nutriplan.Generator = (*LLMClient)(nil)

func NewLLMClient(brc bedrockRuntimeClient, opts LLMOptions) *LLMClient {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &LLMClient{
		brc:  brc,
		opts: opts,
	}
}

// ModelID returns the model or inference profile the client invokes.
func (c *LLMClient) ModelID() string { return c.opts.ModelID }

func (c *LLMClient) Generate(ctx context.Context, prompt nutriplan.Prompt) (string, error) {
	slog.Info("LLM_CLIENT: Invoked", "task", prompt.Task, "model_id", c.opts.ModelID, "user_len", len(prompt.User))

	var sys []types.SystemContentBlock
	if prompt.System != "" {
		sys = append(sys, &types.SystemContentBlockMemberText{Value: prompt.System})
	}

	in := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.opts.ModelID),
		System:  sys,
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt.User}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("LLM_CLIENT: Bedrock invoke failed", "error", err, "task", prompt.Task)
		return "", fmt.Errorf("bedrock converse: %w", err)
	}

	attrs := []any{"stop_reason", out.StopReason}
	if out.Metrics != nil {
		attrs = append(attrs, "latency_ms", aws.ToInt64(out.Metrics.LatencyMs))
	}
	if out.Usage != nil {
		attrs = append(attrs,
			"input_tokens", aws.ToInt32(out.Usage.InputTokens),
			"output_tokens", aws.ToInt32(out.Usage.OutputTokens))
	}
	slog.Info("LLM_CLIENT: Bedrock invoke succeeded", attrs...)

	switch out.StopReason {
	case "max_tokens":
		slog.Warn("LLM_CLIENT: Model hit MaxTokens limit", "max_tokens", c.opts.MaxTokens)
		return "", ErrMaxTokens

	case "guardrail_intervened", "content_filtered":
		slog.Warn("LLM_CLIENT: Model response blocked by Bedrock safety filters")
		return "", ErrContentFiltered
	}

	text := textFromOutput(out)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	slog.Info("LLM_CLIENT: Extracted text", "text_len", len(text))
	return text, nil
}

// textFromOutput returns the assistant text:
// 1) if any text block looks like a single JSON object or array, the last such block;
// 2) else, if there's only one text block, that block;
// 3) else, all text blocks joined with '\n'.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil || len(msg.Value.Content) == 0 {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t != nil && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	if len(texts) == 0 {
		return ""
	}

	for i := len(texts) - 1; i >= 0; i-- {
		s := strings.TrimSpace(texts[i])
		if len(s) < 2 {
			continue
		}
		if (s[0] == '{' && s[len(s)-1] == '}') || (s[0] == '[' && s[len(s)-1] == ']') {
			return s
		}
	}

	if len(texts) == 1 {
		return texts[0]
	}
	return strings.Join(texts, "\n")
}
