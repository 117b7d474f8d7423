package nutriplan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// GenerationLogger records each call made to the generator and what became of its output.
type GenerationLogger interface {
	LogGeneration(entry GenerationLog) error
}

// NewGenerationLogFilePath returns a file path based on a cleaned up model name or id to make easier to identify logs produced with various models.
func NewGenerationLogFilePath(model string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.NewReplacer(":", "_", "/", "_").Replace(strings.ToLower(model)),
	)
}

// GenerationLog represents a single generator round trip.
type GenerationLog struct {
	Task       Task      `json:"task"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms"`
	Prompt     string    `json:"prompt,omitempty"`
	RawOutput  string    `json:"raw_output,omitempty"`
	PlanID     string    `json:"plan_id,omitempty"`
	Coverage   float64   `json:"coverage,omitempty"`
	Error      string    `json:"error,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
}

// FileGenerationLogger accumulates entries and writes them as one JSON document on Flush.
type FileGenerationLogger struct {
	mu      sync.Mutex
	entries []GenerationLog
	writer  io.Writer
}

// NewFileGenerationLogger creates a new file-based generation logger
func NewFileGenerationLogger(writer io.Writer) *FileGenerationLogger {
	return &FileGenerationLogger{
		entries: make([]GenerationLog, 0),
		writer:  writer,
	}
}

// LogGeneration buffers the entry (does not flush immediately)
func (l *FileGenerationLogger) LogGeneration(entry GenerationLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

// Flush writes all buffered entries to the writer
func (l *FileGenerationLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"generation_session": map[string]any{
			"timestamp":   time.Now(),
			"generations": l.entries,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal generation log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write generation log: %w", err)
	}

	l.entries = l.entries[:0]
	return nil
}

// NoOpGenerationLogger discards all entries
type NoOpGenerationLogger struct{}

func NewNoOpGenerationLogger() *NoOpGenerationLogger {
	return &NoOpGenerationLogger{}
}

func (nop *NoOpGenerationLogger) LogGeneration(entry GenerationLog) error {
	return nil
}

// StdoutGenerationLogger writes each entry as a JSON line (for Lambda/CloudWatch)
type StdoutGenerationLogger struct {
	w io.Writer
}

func NewStdoutGenerationLogger() *StdoutGenerationLogger {
	return &StdoutGenerationLogger{w: os.Stdout}
}

func (l *StdoutGenerationLogger) LogGeneration(entry GenerationLog) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(l.w, string(data))
	return err
}
