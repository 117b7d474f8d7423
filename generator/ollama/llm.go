package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"nutriplan"
)

type options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
}

// Client generates text through the Ollama chat API.
type Client struct {
	endpoint   string
	model      string
	httpClient nutriplan.HTTPClient
	options    options
}

var _ nutriplan.Generator = (*Client)(nil)

type ClientOpts struct {
	BaseEndpoint string
	ModelID      string
	HTTPClient   nutriplan.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if strings.TrimSpace(opts.ModelID) == "" {
		return nil, fmt.Errorf("ollama: model id is required")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Client{
		model:      opts.ModelID,
		httpClient: opts.HTTPClient,
		endpoint:   strings.TrimRight(opts.BaseEndpoint, "/") + "/api/chat",
		options: options{
			Temperature:   0.2,
			TopP:          0.9,
			RepeatPenalty: 1.05,
			NumCtx:        16384, // the meal plan prompt embeds a full JSON schema
		},
	}, nil
}

// Model returns the Ollama model name.
func (c *Client) Model() string { return c.model }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireResponse struct {
	Message message `json:"message"`
	Done    bool    `json:"done"`
	// other metadata omitted but available
}

type wireRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  options   `json:"options,omitempty"`
}

// Generate sends the prompt as a system and user message and returns the model's content verbatim.
func (c *Client) Generate(ctx context.Context, prompt nutriplan.Prompt) (string, error) {
	slog.Info("LLM_CLIENT: Invoked", "task", prompt.Task, "model", c.model, "user_len", len(prompt.User))

	reqBody := wireRequest{
		Model:    c.model,
		Messages: buildMessages(prompt),
		Stream:   false,
		Options:  c.options,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama chat: %s: %s", resp.Status, string(body))
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		slog.Warn("LLM_CLIENT: decode failed, returning raw", "err", err, "body_len", len(body))
		return string(body), nil
	}

	slog.Info("LLM_CLIENT: Ollama response received", "content_len", len(wr.Message.Content), "done", wr.Done)
	return wr.Message.Content, nil
}

func buildMessages(prompt nutriplan.Prompt) []message {
	messages := make([]message, 0, 2)
	if sp := strings.TrimSpace(prompt.System); sp != "" {
		messages = append(messages, message{Role: "system", Content: sp})
	}
	return append(messages, message{Role: "user", Content: prompt.User})
}
