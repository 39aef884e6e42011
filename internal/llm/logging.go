package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/store"
)

// Journal receives one record per LLM call. *store.Recorder satisfies it.
type Journal interface {
	Record(concern store.Concern, sessionID string, payload any)
}

// LoggingProvider records every call to the journal and the logger.
type LoggingProvider struct {
	inner    Provider
	provider string
	journal  Journal
	logger   *zap.Logger
}

// WithLogging wraps p. journal may be nil.
func WithLogging(p Provider, providerName string, journal Journal, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{inner: p, provider: providerName, journal: journal, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		Timestamp: start,
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if c := LookupCost(resp.Model); c != nil {
			data.CostUSD = c.Cost(data.InputTokens, data.OutputTokens)
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	fields := []zap.Field{
		zap.String("provider", data.Provider),
		zap.String("model", data.Model),
		zap.String("purpose", data.Purpose),
		zap.Int64("latency_ms", data.LatencyMs),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	if err != nil {
		l.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("llm request", fields...)
	}

	if l.journal != nil {
		l.journal.Record(store.ConcernLLMRequests, SessionFrom(ctx), data)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
