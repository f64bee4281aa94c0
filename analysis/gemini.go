package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used unless WithModel says otherwise.
const DefaultModel = "gemini-2.5-flash"

const roleUser = "user"

// ContentGenerator is the slice of the Gemini client the analyzer needs.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAnalyzer implements Analyzer on top of the Gemini API.
type GeminiAnalyzer struct {
	generator ContentGenerator
	model     string
	logger    *slog.Logger
}

// Option configures a GeminiAnalyzer.
type Option func(*GeminiAnalyzer)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(a *GeminiAnalyzer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithLogger sets the logger for request and failure events. Without it
// the analyzer logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(a *GeminiAnalyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewGeminiAnalyzer creates a Gemini API client authenticated with apiKey.
func NewGeminiAnalyzer(ctx context.Context, apiKey string, opts ...Option) (*GeminiAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewGeminiAnalyzerWithGenerator(client.Models, opts...), nil
}

// NewGeminiAnalyzerWithGenerator wraps an existing generator.
func NewGeminiAnalyzerWithGenerator(g ContentGenerator, opts ...Option) *GeminiAnalyzer {
	a := &GeminiAnalyzer{
		generator: g,
		model:     DefaultModel,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the model name requests are sent to.
func (a *GeminiAnalyzer) Model() string {
	return a.model
}

// Analyze sends the image and prompt in one request and decodes the JSON
// answer. It makes no retries.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	if len(req.Image) == 0 {
		return nil, ErrNoImageData
	}

	contents := []*genai.Content{{
		Role: roleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: req.mimeType(), Data: req.Image}},
			{Text: BuildPrompt(req.Language)},
		},
	}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	start := time.Now()
	a.logger.InfoContext(ctx, "requesting image analysis",
		"model", a.model, "mime_type", req.mimeType(), "bytes", len(req.Image), "language", req.Language.String())

	resp, err := a.generator.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		a.logger.WarnContext(ctx, "image analysis failed", "model", a.model, "error", err)
		return nil, fmt.Errorf("generate content: %w", err)
	}

	result, err := parseResult(resp)
	if err != nil {
		a.logger.WarnContext(ctx, "image analysis failed", "model", a.model, "error", err)
		return nil, err
	}
	a.logger.DebugContext(ctx, "image analysis complete",
		"title", result.Title, "tags", len(result.Tags), "elapsed", time.Since(start))
	return result, nil
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"tags": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"title", "description", "tags"},
	}
}

func parseResult(resp *genai.GenerateContentResponse) (*Result, error) {
	if resp == nil {
		return nil, ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	for _, key := range []string{"title", "description", "tags"} {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrMalformedResponse, key)
		}
	}

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &result, nil
}
