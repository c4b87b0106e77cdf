package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/studygenius/internal/ingest"
	"github.com/csheth/studygenius/internal/study"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultEndpoint    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTemperature = 0.3
)

// Generation can take minutes for long PDFs; the transport timeout only guards
// against a connection that never answers.
const defaultLLMHTTPTimeout = 5 * time.Minute

const (
	FallbackEmptyAnswer = "I couldn't generate an answer."
	FallbackChatError   = "Sorry, I encountered an error answering that."
)

var (
	ErrMissingAPIKey = errors.New("llm: API key is required")
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Config describes how to build a Gemini client. Zero values fall back to the
// package defaults.
type Config struct {
	APIKey       string
	Model        string
	Endpoint     string
	Temperature  *float64
	StrictSchema bool
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Role names the speaker of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior message given to the model as conversation context.
type Turn struct {
	Role    Role
	Content string
}

// Client exposes document analysis and follow-up chat over one uploaded file.
type Client interface {
	AnalyzeDocument(ctx context.Context, file ingest.UploadedFile) (study.Result, error)
	Chat(ctx context.Context, file ingest.UploadedFile, history []Turn, message string) (string, error)
	Name() string
}

// GatewayError wraps any failure of a provider call.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// APIError reports a non-2xx answer from the provider.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini API error: %d %s (%s)", e.Status, http.StatusText(e.Status), e.Body)
}

// New builds a Gemini client from cfg.
func New(cfg Config) (Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &geminiClient{
		apiKey:      key,
		model:       model,
		base:        endpoint,
		temperature: temperature,
		strict:      cfg.StrictSchema,
		client:      pickHTTPClient(cfg.HTTPClient),
		logger:      logger.Named("llm"),
	}, nil
}

// ChatTurn asks one follow-up question and always returns text to show.
// Failures become a fallback reply so the conversation can continue.
func ChatTurn(ctx context.Context, client Client, file ingest.UploadedFile, history []Turn, message string) string {
	reply, err := client.Chat(ctx, file, history, message)
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return FallbackEmptyAnswer
	case err != nil:
		return FallbackChatError
	case strings.TrimSpace(reply) == "":
		return FallbackEmptyAnswer
	default:
		return reply
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}
