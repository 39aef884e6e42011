// Package freeform answers questions the question table does not cover,
// either from lines authored on the case or from a language model playing
// the patient.
package freeform

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/abhisek/anamnesis/internal/cases"
	"github.com/abhisek/anamnesis/internal/interview"
)

// Sources reported in Answer.Source.
const (
	SourceCase = "case"
	SourceLLM  = "llm"
)

// genericFallback is used when a case authors no fallback lines.
const genericFallback = "I'm sorry, doctor, I don't quite follow. Could you put that another way?"

// Input is an unmatched question in the context of its session.
type Input struct {
	SessionID string
	Case      *cases.Case
	PersonaID string
	Persona   string // Persona label for prompts
	Question  string
	History   []interview.AskedQuestion
}

// Answer is free-form patient content.
type Answer struct {
	Text   string `json:"text"`
	Source string `json:"source"`

	// Warning is set when the preferred responder failed and a fallback
	// answered instead.
	Warning string `json:"warning,omitempty"`
}

// Responder produces free-form answers.
type Responder interface {
	Respond(ctx context.Context, in Input) Answer
}

// CaseFallback answers from the case's authored fallback lines. The line
// is chosen by hashing the question so a repeated question gets the same
// line without touching the session RNG.
type CaseFallback struct{}

func (CaseFallback) Respond(_ context.Context, in Input) Answer {
	var lines []string
	if in.Case != nil {
		lines = in.Case.Fallbacks
	}
	if len(lines) == 0 {
		return Answer{Text: genericFallback, Source: SourceCase}
	}
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(in.Question))))
	return Answer{Text: lines[h.Sum32()%uint32(len(lines))], Source: SourceCase}
}

// InputFor builds an Input for question asked in s.
func InputFor(s *interview.Session, question string) Input {
	in := Input{
		SessionID: s.ID(),
		Case:      s.Case(),
		Question:  question,
		History:   s.Log(),
	}
	if p := s.Persona(); p != nil {
		in.PersonaID, in.Persona = p.ID, p.Label
	}
	return in
}

// Complete fills reply with free-form content when the engine found no
// match. Replies that matched are returned untouched.
func Complete(ctx context.Context, r Responder, s *interview.Session, question string, reply *interview.Reply) {
	if r == nil || reply == nil || !reply.NoMatch {
		return
	}
	ans := r.Respond(ctx, InputFor(s, question))
	reply.ResponseText = ans.Text
	if ans.Warning != "" {
		reply.Warnings = append(reply.Warnings, ans.Warning)
	}
}
