// Package classifier resolves utterances into intents through the Groq
// chat-completions API (OpenAI-compatible). Every failure is reported as a
// ClassificationError so the caller can switch to the keyword fallback.
package classifier

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/LadiesMan0217/Projeto-Karen/internal/domain"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-8b-8192"

	requestTimeout = 60 * time.Second
)

//go:embed prompt_default.txt
var defaultPrompt string

// ClassificationError signals that the primary classifier produced nothing
// usable. The intent pipeline treats it as the cue to run the fallback.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("classification failed (%s)", e.Reason)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// Options configures the classifier client.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	PromptPath string
	HTTPClient *http.Client
}

// Classifier calls the text-generation service once per utterance, with no
// retries and no streaming.
type Classifier struct {
	client     openaigo.Client
	model      string
	promptPath string
	logger     *zap.Logger
}

// New builds a Classifier. A missing API key is a construction error so the
// caller can mark the collaborator as unavailable up front.
func New(opts Options, logger *zap.Logger) (*Classifier, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("groq api key not configured")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	client := openaigo.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(strings.TrimSpace(opts.APIKey)),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &Classifier{
		client:     client,
		model:      model,
		promptPath: opts.PromptPath,
		logger:     logger,
	}, nil
}

// Classify sends the utterance plus the instruction document and memory
// context to the model and normalizes its JSON answer. It never panics; any
// failure path returns a *ClassificationError.
func (c *Classifier) Classify(ctx context.Context, text, memoryContext string) (domain.IntentResult, error) {
	system := c.instructionDocument()
	if memoryContext != "" {
		system += "\n\n" + memoryContext
	}

	resp, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(system),
			openaigo.UserMessage(text),
		},
		Temperature: openaigo.Float(0.7),
		MaxTokens:   openaigo.Int(1024),
	})
	if err != nil {
		return domain.IntentResult{}, &ClassificationError{Reason: "service call", Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return domain.IntentResult{}, &ClassificationError{Reason: "empty completion"}
	}

	result, err := parseCompletion(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("unusable classifier output", zap.Error(err))
		return domain.IntentResult{}, err
	}
	return result, nil
}

// instructionDocument prefers the external karen_prompt.txt and falls back
// to the embedded default, mirroring how the memory file is optional.
func (c *Classifier) instructionDocument() string {
	if c.promptPath != "" {
		if data, err := os.ReadFile(c.promptPath); err == nil && len(strings.TrimSpace(string(data))) > 0 {
			return string(data)
		}
	}
	return defaultPrompt
}

// completionWire covers both answer shapes the model is known to produce:
// {"command":{"intent","details"},"responseText"} and the flat
// {"intent","details","response"}.
type completionWire struct {
	Command *struct {
		Intent  string         `json:"intent"`
		Details map[string]any `json:"details"`
	} `json:"command"`
	ResponseText string         `json:"responseText"`
	Intent       string         `json:"intent"`
	Details      map[string]any `json:"details"`
	Response     string         `json:"response"`
	MemoryUpdate *struct {
		Category string `json:"category"`
		Content  string `json:"content"`
	} `json:"memory_update"`
}

func parseCompletion(raw string) (domain.IntentResult, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return domain.IntentResult{}, &ClassificationError{Reason: "no json in completion"}
	}

	var wire completionWire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return domain.IntentResult{}, &ClassificationError{Reason: "invalid json", Err: err}
	}

	var intentName, response string
	var details map[string]any
	switch {
	case wire.Command != nil:
		intentName = wire.Command.Intent
		details = wire.Command.Details
		response = wire.ResponseText
	case wire.Intent != "":
		intentName = wire.Intent
		details = wire.Details
		response = wire.Response
		if response == "" {
			response = wire.ResponseText
		}
	default:
		return domain.IntentResult{}, &ClassificationError{Reason: "unrecognized shape"}
	}

	if !domain.KnownIntent(intentName) {
		return domain.IntentResult{}, &ClassificationError{Reason: fmt.Sprintf("unknown intent %q", intentName)}
	}

	result := domain.IntentResult{
		Intent:   domain.Intent(intentName),
		Details:  domain.DecodeDetails(domain.Intent(intentName), details),
		Response: response,
	}
	if wire.MemoryUpdate != nil &&
		strings.TrimSpace(wire.MemoryUpdate.Category) != "" &&
		strings.TrimSpace(wire.MemoryUpdate.Content) != "" {
		result.MemoryUpdate = &domain.MemoryUpdate{
			Category: wire.MemoryUpdate.Category,
			Content:  wire.MemoryUpdate.Content,
		}
	}
	return result, nil
}

// extractJSON strips markdown code fences and any prose around the first
// JSON object in the completion.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
		raw = strings.TrimSpace(raw)
	}
	if !strings.HasPrefix(raw, "{") {
		i := strings.Index(raw, "{")
		j := strings.LastIndex(raw, "}")
		if i < 0 || j <= i {
			return ""
		}
		raw = raw[i : j+1]
	}
	return raw
}
