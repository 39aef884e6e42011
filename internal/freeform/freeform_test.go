package freeform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/interview"
	"github.com/abhisek/anamnesis/internal/llm"
	"github.com/abhisek/anamnesis/internal/rng"
)

func chestPain(t *testing.T) *cases.Case {
	t.Helper()
	c := cases.Default().Get("chest-pain")
	if c == nil {
		t.Fatal("chest-pain case missing")
	}
	return c
}

func TestCaseFallback_StableChoice(t *testing.T) {
	c := chestPain(t)
	in := Input{Case: c, Question: "What's the weather like?"}

	first := CaseFallback{}.Respond(context.Background(), in)
	if first.Source != SourceCase {
		t.Errorf("source = %q", first.Source)
	}
	found := false
	for _, line := range c.Fallbacks {
		if line == first.Text {
			found = true
		}
	}
	if !found {
		t.Errorf("%q is not one of the case fallbacks", first.Text)
	}

	in.Question = "  WHAT'S THE WEATHER LIKE?"
	if again := (CaseFallback{}).Respond(context.Background(), in); again.Text != first.Text {
		t.Errorf("same question got %q then %q", first.Text, again.Text)
	}
}

func TestCaseFallback_NoLines(t *testing.T) {
	ans := CaseFallback{}.Respond(context.Background(), Input{Case: &cases.Case{ID: "bare"}, Question: "hm"})
	if ans.Text != genericFallback {
		t.Errorf("got %q, want generic fallback", ans.Text)
	}
}

func TestLLMResponder_UsesModelReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]string{"reply": "  I sleep badly since the pain started. "}))
	r := NewLLMResponder(mock, DefaultConfig(), nil, zap.NewNop())

	in := Input{
		SessionID: "s-1",
		Case:      chestPain(t),
		Persona:   "Anxious",
		Question:  "How have you been sleeping?",
		History:   []interview.AskedQuestion{{Text: "When did this start?"}},
	}
	ans := r.Respond(context.Background(), in)
	if ans.Source != SourceLLM || ans.Text != "I sleep badly since the pain started." || ans.Warning != "" {
		t.Fatalf("got %+v", ans)
	}

	req := mock.Calls[0]
	if req.Schema != ReplySchema {
		t.Error("request should carry the reply schema")
	}
	prompt := req.Messages[0].Content
	for _, want := range []string{
		"58-year-old male",
		"chest pain",
		"Anxious",
		"smoking: About a pack a day",
		"- When did this start?",
		`"How have you been sleeping?"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestLLMResponder_FallsBackOnError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	r := NewLLMResponder(mock, DefaultConfig(), nil, nil)

	ans := r.Respond(context.Background(), Input{Case: chestPain(t), Question: "Tell me a joke"})
	if ans.Source != SourceCase {
		t.Errorf("source = %q, want case", ans.Source)
	}
	if !strings.Contains(ans.Warning, "unavailable") {
		t.Errorf("warning = %q", ans.Warning)
	}
}

func TestLLMResponder_EmptyReplyFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]string{"reply": "   "}))
	r := NewLLMResponder(mock, DefaultConfig(), nil, nil)

	if ans := r.Respond(context.Background(), Input{Case: chestPain(t), Question: "?"}); ans.Source != SourceCase {
		t.Errorf("source = %q, want case", ans.Source)
	}
}

func TestBuildUserMessage_TrimsHistory(t *testing.T) {
	hist := []interview.AskedQuestion{{Text: "one"}, {Text: "two"}, {Text: "three"}}
	msg, err := buildUserMessage(Input{Case: chestPain(t), Question: "q", History: hist}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(msg, "- one") || !strings.Contains(msg, "- two") || !strings.Contains(msg, "- three") {
		t.Errorf("history not trimmed to last two:\n%s", msg)
	}
}

func TestComplete_OnlyFillsNoMatch(t *testing.T) {
	e, err := interview.New(interview.Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	s, err := e.Start(ctx, interview.StartOptions{CaseID: "chest-pain", Source: rng.Always(0)})
	if err != nil {
		t.Fatal(err)
	}

	matched, _ := e.Ask(ctx, s.ID(), "Do you smoke?")
	before := matched.ResponseText
	Complete(ctx, CaseFallback{}, s, "Do you smoke?", matched)
	if matched.ResponseText != before {
		t.Error("matched reply was overwritten")
	}

	unmatched, _ := e.Ask(ctx, s.ID(), "Hmm, okay.")
	Complete(ctx, CaseFallback{}, s, "Hmm, okay.", unmatched)
	if unmatched.ResponseText == "" {
		t.Error("no-match reply was not filled")
	}
}
