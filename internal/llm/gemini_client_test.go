package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/csheth/studygenius/internal/ingest"
	"github.com/csheth/studygenius/internal/study"
	"github.com/csheth/studygenius/internal/study/studytest"
)

type capturedRequest struct {
	Path   string
	APIKey string
	Body   generateRequest
}

func newTestServer(t *testing.T, status int, reply string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if captured != nil {
			captured.Path = r.URL.Path
			captured.APIKey = r.Header.Get("x-goog-api-key")
			if err := json.NewDecoder(r.Body).Decode(&captured.Body); err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server
}

func candidateReply(t *testing.T, text string) string {
	t.Helper()
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"role": "model", "parts": []map[string]string{{"text": text}}}},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return string(raw)
}

func testClient(server *httptest.Server, strict bool) *geminiClient {
	return &geminiClient{
		apiKey:      "test-key",
		model:       "gemini-test",
		base:        server.URL,
		temperature: DefaultTemperature,
		strict:      strict,
		client:      server.Client(),
		logger:      zapNop(),
	}
}

var pdfFile = ingest.UploadedFile{
	Name:      "notes.pdf",
	MediaType: ingest.MediaPDF,
	Data:      "data:application/pdf;base64,JVBERi0xLjQ=",
}

func TestGeminiAnalyzeDocumentBuildsStructuredRequest(t *testing.T) {
	want := studytest.Result(study.QuestionCount)
	raw, _ := json.Marshal(want)
	var captured capturedRequest
	server := newTestServer(t, http.StatusOK, candidateReply(t, string(raw)), &captured)

	got, err := testClient(server, true).AnalyzeDocument(context.Background(), pdfFile)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(got.Assessments) != study.QuestionCount || got.Notes.Summary != want.Notes.Summary {
		t.Fatalf("unexpected result: %+v", got)
	}

	if captured.Path != "/models/gemini-test:generateContent" {
		t.Fatalf("unexpected path: %s", captured.Path)
	}
	if captured.APIKey != "test-key" {
		t.Fatalf("api key header not sent")
	}
	cfg := captured.Body.GenerationConfig
	if cfg == nil || cfg.ResponseMimeType != "application/json" || cfg.ResponseSchema == nil {
		t.Fatalf("structured output not requested: %+v", cfg)
	}
	if cfg.Temperature == nil || *cfg.Temperature != DefaultTemperature {
		t.Fatalf("expected temperature %v, got %v", DefaultTemperature, cfg.Temperature)
	}
	if got := cfg.ResponseSchema.Properties["assessments"].Items.Properties["difficulty"].Enum; strings.Join(got, ",") != "Easy,Medium,Hard" {
		t.Fatalf("difficulty enum mismatch: %v", got)
	}
	parts := captured.Body.Contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected prompt + document parts, got %d", len(parts))
	}
	if !strings.Contains(parts[0].Text, "exactly 10 multiple-choice") {
		t.Fatalf("prompt missing question count: %s", parts[0].Text)
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MimeType != "application/pdf" || parts[1].InlineData.Data != "JVBERi0xLjQ=" {
		t.Fatalf("document part not stripped of data url prefix: %+v", parts[1].InlineData)
	}
}

func TestGeminiAnalyzeDocumentMalformedJSON(t *testing.T) {
	server := newTestServer(t, http.StatusOK, candidateReply(t, "not json at all"), nil)

	_, err := testClient(server, true).AnalyzeDocument(context.Background(), pdfFile)
	if !errors.Is(err, study.ErrMalformedJSON) {
		t.Fatalf("expected ErrMalformedJSON, got %v", err)
	}
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError wrapper, got %T", err)
	}
}

func TestGeminiAnalyzeDocumentEmptyResponse(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"candidates":[]}`, nil)

	_, err := testClient(server, true).AnalyzeDocument(context.Background(), pdfFile)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGeminiAnalyzeDocumentSchemaStrictness(t *testing.T) {
	result := studytest.Result(2)
	result.Assessments[0].Options = []string{"only", "three", "options"}
	raw, _ := json.Marshal(result)
	server := newTestServer(t, http.StatusOK, candidateReply(t, string(raw)), nil)

	if _, err := testClient(server, true).AnalyzeDocument(context.Background(), pdfFile); !errors.Is(err, study.ErrSchemaViolation) {
		t.Fatalf("strict client should reject schema violations, got %v", err)
	}
	got, err := testClient(server, false).AnalyzeDocument(context.Background(), pdfFile)
	if err != nil {
		t.Fatalf("lenient client should accept parseable output: %v", err)
	}
	if len(got.Assessments[0].Options) != 3 {
		t.Fatalf("lenient decode altered the payload: %+v", got.Assessments[0])
	}
}

func TestGeminiAPIError(t *testing.T) {
	server := newTestServer(t, http.StatusForbidden, `{"error":{"message":"API key not valid"}}`, nil)

	_, err := testClient(server, true).AnalyzeDocument(context.Background(), pdfFile)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || !strings.Contains(apiErr.Body, "API key not valid") {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestGeminiChatSendsHistoryAndDocument(t *testing.T) {
	var captured capturedRequest
	server := newTestServer(t, http.StatusOK, candidateReply(t, "  ATP stores energy.  "), &captured)

	history := []Turn{
		{Role: RoleModel, Content: "Hello! Ask me anything about your uploaded document."},
		{Role: RoleUser, Content: "What is a cell?"},
		{Role: RoleModel, Content: "The basic unit of life."},
	}
	reply, err := testClient(server, true).Chat(context.Background(), pdfFile, history, "What is ATP?")
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if reply != "ATP stores energy." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if captured.Body.GenerationConfig != nil {
		t.Fatalf("chat should not request structured output")
	}
	parts := captured.Body.Contents[0].Parts
	prompt := parts[0].Text
	for _, fragment := range []string{"user: What is a cell?", "model: The basic unit of life.", "User Question: What is ATP?"} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
	if parts[1].InlineData == nil || parts[1].InlineData.Data != "JVBERi0xLjQ=" {
		t.Fatalf("document not re-attached: %+v", parts[1])
	}
}

func TestGeminiChatRejectsEmptyQuestion(t *testing.T) {
	server := newTestServer(t, http.StatusOK, candidateReply(t, "unused"), nil)
	if _, err := testClient(server, true).Chat(context.Background(), pdfFile, nil, "   "); err == nil {
		t.Fatal("expected error for empty question")
	}
}

func TestStripDataURL(t *testing.T) {
	cases := map[string]string{
		"data:image/png;base64,iVBORw0KGgo=": "iVBORw0KGgo=",
		"data:,plain":                        "plain",
		"iVBORw0KGgo=":                       "iVBORw0KGgo=",
	}
	for in, want := range cases {
		if got := stripDataURL(in); got != want {
			t.Fatalf("stripDataURL(%q) = %q, want %q", in, got, want)
		}
	}
}
