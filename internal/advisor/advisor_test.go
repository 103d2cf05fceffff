package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"yield-radar/internal/domain"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

func completionWith(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func testScanResult() domain.ScanResult {
	return domain.ScanResult{
		Focus: []domain.Opportunity{
			{Project: "aave-v3", Chain: "ethereum", Symbol: "USDC", APY: 12.5, TVLUSD: 60_000_000, Risk: domain.RiskLow, ROR: 12.5},
		},
		FetchedAt: time.Now().UTC(),
	}
}

func TestAskHappyPath(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("Aave USDC looks solid")}
	store := &stubConvStore{}
	scans := &stubScans{result: testScanResult()}

	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, scans, store, "gpt-4o-mini", 20,
	)

	reply, err := svc.Ask(context.Background(), "sess1", "Where should stables go?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Aave USDC looks solid" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	// Verify messages were stored (user + assistant)
	if len(store.messages) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(store.messages))
	}
	if store.messages[0].role != "user" || store.messages[1].role != "assistant" {
		t.Fatalf("unexpected stored roles: %+v", store.messages)
	}
}

func TestAskSystemPromptCarriesScanData(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("ok")}
	store := &stubConvStore{}
	scans := &stubScans{result: testScanResult()}

	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, scans, store, "gpt-4o-mini", 20,
	)

	if _, err := svc.Ask(context.Background(), "sess1", "anything"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(llm.lastParams.Messages) == 0 {
		t.Fatal("no messages sent to LLM")
	}
	system := llm.lastParams.Messages[0].OfSystem.Content.OfString.Value
	if !strings.Contains(system, "aave-v3") {
		t.Fatalf("system prompt missing scan data: %q", system)
	}
}

func TestAskLLMError(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("api down")}
	store := &stubConvStore{}
	scans := &stubScans{result: testScanResult()}

	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, scans, store, "gpt-4o-mini", 20,
	)

	if _, err := svc.Ask(context.Background(), "sess1", "what looks good?"); err == nil {
		t.Fatal("expected error from LLM failure")
	}
	// User message should still have been stored
	if len(store.messages) != 1 || store.messages[0].role != "user" {
		t.Fatalf("expected user message stored despite LLM error, got %+v", store.messages)
	}
}

func TestAskScanFailureNonFatal(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("can't see the scan right now")}
	store := &stubConvStore{}
	scans := &stubScans{err: errors.New("aggregator down")}

	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, scans, store, "gpt-4o-mini", 20,
	)

	reply, err := svc.Ask(context.Background(), "sess1", "test")
	if err != nil {
		t.Fatalf("scan failure should be non-fatal, got: %v", err)
	}
	if reply == "" {
		t.Fatal("expected a reply")
	}
}

func TestAskHistoryIncluded(t *testing.T) {
	llm := &stubLLMClient{response: completionWith("ok")}
	store := &stubConvStore{
		history: []domain.ConversationMessage{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
		},
	}
	scans := &stubScans{result: testScanResult()}

	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, scans, store, "gpt-4o-mini", 20,
	)

	if _, err := svc.Ask(context.Background(), "sess1", "followup"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// system + 2 history turns
	if len(llm.lastParams.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(llm.lastParams.Messages))
	}
}

func TestFormatScanContextEmpty(t *testing.T) {
	got := FormatScanContext(domain.ScanResult{}, nil)
	if got != "No yield data currently available." {
		t.Fatalf("unexpected empty context: %q", got)
	}
}

func TestFormatScanContextMarksAnomalies(t *testing.T) {
	result := domain.ScanResult{
		ShortTerm: []domain.Opportunity{
			{Project: "degen-farm", Chain: "base", Symbol: "X", APY: 900, TVLUSD: 600_000, Risk: domain.RiskHigh, ROR: 270, Outlier: true},
		},
	}
	got := FormatScanContext(result, nil)
	if !strings.Contains(got, "[ANOMALY]") {
		t.Fatalf("anomaly flag missing: %q", got)
	}
}

type stubLLMClient struct {
	response   *openai.ChatCompletion
	err        error
	lastParams openai.ChatCompletionNewParams
}

func (s *stubLLMClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

type storedMessage struct {
	role    string
	content string
}

type stubConvStore struct {
	messages  []storedMessage
	history   []domain.ConversationMessage
	appendErr error
}

func (s *stubConvStore) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.messages = append(s.messages, storedMessage{role: role, content: content})
	return nil
}

func (s *stubConvStore) RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.ConversationMessage, error) {
	return s.history, nil
}

type stubScans struct {
	result domain.ScanResult
	err    error
}

func (s *stubScans) GetScan(ctx context.Context) (domain.ScanResult, error) {
	if s.err != nil {
		return domain.ScanResult{}, s.err
	}
	return s.result, nil
}

func (s *stubScans) TopPicks(ctx context.Context) ([]domain.Opportunity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result.Focus, nil
}
