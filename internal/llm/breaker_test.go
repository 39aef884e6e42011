package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	mock := NewMockProvider() // empty queue: every call fails
	p := WithBreaker(mock, BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 2; i++ {
		if _, err := p.Generate(context.Background(), Request{}); err == nil {
			t.Fatal("expected failure")
		}
	}
	if got := p.(*BreakerProvider).State(); got != gobreaker.StateOpen {
		t.Fatalf("state = %v, want open", got)
	}

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("got %v, want unavailable wrapping ErrOpenState", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("open breaker reached the provider: %d calls", mock.CallCount())
	}
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(patientReply)})
	p := WithBreaker(mock, DefaultBreakerConfig(), nil)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != patientReply {
		t.Errorf("content = %s", resp.Content)
	}
}

func TestBreaker_ZeroThresholdDisables(t *testing.T) {
	mock := NewMockProvider()
	if p := WithBreaker(mock, BreakerConfig{}, nil); p != Provider(mock) {
		t.Error("zero threshold should return the provider unchanged")
	}
}
