package freeform

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/llm"
)

// Config holds LLM answer settings.
type Config struct {
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`

	// HistoryTurns is how many earlier questions go into the prompt.
	HistoryTurns int `mapstructure:"history_turns"`
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 200, Temperature: 0.7, Timeout: 15 * time.Second, HistoryTurns: 6}
}

// ReplySchema constrains the model to a single in-character reply.
var ReplySchema = &llm.Schema{
	Name:        "patient-reply",
	Description: "One in-character reply from a simulated patient",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "What the patient says, in the first person, one to three sentences",
			},
		},
		"required":             []any{"reply"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are role-playing a patient being interviewed by a medical student. Stay in character. Answer only what is asked, in plain spoken language, one to three sentences. Never volunteer a diagnosis and never give medical advice. If the question is about something not in your facts, answer plausibly and consistently with them, or say you are not sure.`

var userTemplate = template.Must(template.New("patient").Parse(`Patient: {{.Case.Age}}-year-old {{.Case.Sex}}.
Presenting complaint: {{.Case.ChiefComplaint}}.
Manner: {{if .Persona}}{{.Persona}}{{else}}neutral{{end}}.
{{- if .Facts}}

Facts you know about yourself:
{{- range .Facts}}
- {{.}}
{{- end}}
{{- end}}
{{- if .History}}

Questions already asked:
{{- range .History}}
- {{.}}
{{- end}}
{{- end}}

The student now asks: "{{.Question}}"`))

type promptData struct {
	Input
	Facts   []string
	History []string
}

func buildUserMessage(in Input, historyTurns int) (string, error) {
	data := promptData{Input: in}
	if in.Case != nil {
		for _, k := range slices.Sorted(maps.Keys(in.Case.Bindings)) {
			data.Facts = append(data.Facts, strings.ReplaceAll(k, "_", " ")+": "+in.Case.Bindings[k])
		}
	}
	hist := in.History
	if historyTurns >= 0 && len(hist) > historyTurns {
		hist = hist[len(hist)-historyTurns:]
	}
	for _, q := range hist {
		data.History = append(data.History, q.Text)
	}

	var b strings.Builder
	if err := userTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// LLMResponder asks a language model to answer in character. Any failure
// falls back to Fallback and surfaces a warning.
type LLMResponder struct {
	provider llm.Provider
	cfg      Config
	fallback Responder
	logger   *zap.Logger
}

// NewLLMResponder returns a responder over provider. A nil fallback uses
// CaseFallback.
func NewLLMResponder(provider llm.Provider, cfg Config, fallback Responder, logger *zap.Logger) *LLMResponder {
	if fallback == nil {
		fallback = CaseFallback{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMResponder{provider: provider, cfg: cfg, fallback: fallback, logger: logger}
}

func (r *LLMResponder) Respond(ctx context.Context, in Input) Answer {
	text, err := r.generate(ctx, in)
	if err == nil {
		return Answer{Text: text, Source: SourceLLM}
	}

	r.logger.Warn("free-form generation failed, using case fallback",
		zap.String("session", in.SessionID),
		zap.Error(err))
	ans := r.fallback.Respond(ctx, in)
	ans.Warning = "free-form answer unavailable: " + err.Error()
	return ans
}

type replyOutput struct {
	Reply string `json:"reply"`
}

func (r *LLMResponder) generate(ctx context.Context, in Input) (string, error) {
	if in.Case == nil {
		return "", fmt.Errorf("no case for session %s", in.SessionID)
	}
	ctx = llm.WithSession(llm.WithPurpose(ctx, "freeform"), in.SessionID)
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	msg, err := buildUserMessage(in, r.cfg.HistoryTurns)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		Schema:      ReplySchema,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("free-form generation: %w", err)
	}

	var out replyOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse free-form response: %w", err)
	}
	if reply := strings.TrimSpace(out.Reply); reply != "" {
		return reply, nil
	}
	return "", fmt.Errorf("empty free-form reply")
}
