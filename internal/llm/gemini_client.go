package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/studygenius/internal/ingest"
	"github.com/csheth/studygenius/internal/study"
)

type geminiClient struct {
	apiKey      string
	model       string
	base        string
	temperature float64
	strict      bool
	client      *http.Client
	logger      *zap.Logger
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema  `json:"responseSchema,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (c *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.model)
}

func (c *geminiClient) AnalyzeDocument(ctx context.Context, file ingest.UploadedFile) (study.Result, error) {
	temperature := c.temperature
	req := generateRequest{
		Contents: []content{documentContent(buildAnalysisPrompt(), file)},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   studySchema(),
			Temperature:      &temperature,
		},
	}
	raw, err := c.generate(ctx, req)
	if err != nil {
		return study.Result{}, &GatewayError{Op: "analyze document", Err: err}
	}

	decode := study.DecodeLenient
	if c.strict {
		decode = study.Decode
	}
	result, err := decode([]byte(raw))
	if err != nil {
		c.logger.Warn("analysis response rejected", zap.String("file", file.Name), zap.Int("bytes", len(raw)), zap.Error(err))
		return study.Result{}, &GatewayError{Op: "analyze document", Err: err}
	}
	c.logger.Info("analysis decoded",
		zap.String("file", file.Name),
		zap.Int("questions", len(result.Assessments)),
		zap.Int("sections", len(result.Notes.DetailedNotes)),
	)
	return result, nil
}

func (c *geminiClient) Chat(ctx context.Context, file ingest.UploadedFile, history []Turn, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", &GatewayError{Op: "chat", Err: fmt.Errorf("question cannot be empty")}
	}
	req := generateRequest{
		Contents: []content{documentContent(buildChatPrompt(history, message), file)},
	}
	reply, err := c.generate(ctx, req)
	if err != nil {
		return "", &GatewayError{Op: "chat", Err: err}
	}
	return reply, nil
}

func documentContent(prompt string, file ingest.UploadedFile) content {
	return content{
		Role: string(RoleUser),
		Parts: []part{
			{Text: prompt},
			{InlineData: &inlineData{MimeType: string(file.MediaType), Data: stripDataURL(file.Data)}},
		},
	}
}

func (c *geminiClient) generate(ctx context.Context, payload generateRequest) (string, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.base, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("gemini request failed", zap.String("model", c.model), zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	c.logger.Debug("gemini response",
		zap.String("model", c.model),
		zap.Int("status", resp.StatusCode),
		zap.Int("requestBytes", len(buf)),
		zap.Int("responseBytes", len(body)),
		zap.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode >= 400 {
		return "", &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		c.logger.Warn("prompt blocked", zap.String("reason", parsed.PromptFeedback.BlockReason))
	}
	if len(parsed.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(text.String()), nil
}
