package llm

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/store"
)

type journalSpy struct {
	mu      sync.Mutex
	records []store.LLMRequestData
	session []string
}

func (j *journalSpy) Record(concern store.Concern, sessionID string, payload any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if concern != store.ConcernLLMRequests {
		return
	}
	j.records = append(j.records, payload.(store.LLMRequestData))
	j.session = append(j.session, sessionID)
}

func TestLoggingProvider_RecordsEachCall(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(patientReply), Usage: Usage{InputTokens: 12, OutputTokens: 8}},
	)
	spy := &journalSpy{}
	p := WithLogging(mock, ProviderMock, spy, zap.NewNop())

	ctx := WithSession(WithPurpose(context.Background(), "freeform"), "sess-9")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected exhausted mock to fail")
	}

	if len(spy.records) != 2 {
		t.Fatalf("records = %d, want 2", len(spy.records))
	}
	ok, failed := spy.records[0], spy.records[1]
	if !ok.Success || ok.Purpose != "freeform" || ok.InputTokens != 12 || ok.Provider != ProviderMock {
		t.Errorf("success record = %+v", ok)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("failure record = %+v", failed)
	}
	if spy.session[0] != "sess-9" {
		t.Errorf("session = %q", spy.session[0])
	}
}

func TestModelCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("gpt-4o-mini should be priced")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Cost() = %v, want 0.75", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Error("unknown model should have no price")
	}
}
