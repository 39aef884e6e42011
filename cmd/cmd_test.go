package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/anamnesis/internal/config"
	"github.com/abhisek/anamnesis/internal/store"
)

func TestAggregate(t *testing.T) {
	recs := []llmRecord{
		{LLMRequestData: store.LLMRequestData{Purpose: "freeform", Model: "b", InputTokens: 10, OutputTokens: 2, LatencyMs: 100}},
		{LLMRequestData: store.LLMRequestData{Purpose: "freeform", Model: "a", InputTokens: 5, OutputTokens: 1, LatencyMs: 300}},
		{LLMRequestData: store.LLMRequestData{Purpose: "other", Model: "a", InputTokens: 1, OutputTokens: 1, LatencyMs: 50}},
	}

	byPurpose := aggregate(recs, func(r llmRecord) string { return r.Purpose })
	require.Len(t, byPurpose, 2)
	assert.Equal(t, "freeform", byPurpose[0].key)
	assert.Equal(t, 2, byPurpose[0].calls)
	assert.Equal(t, 15, byPurpose[0].inputTokens)
	assert.Equal(t, int64(400), byPurpose[0].latencyMs)

	byModel := aggregate(recs, func(r llmRecord) string { return r.Model })
	require.Len(t, byModel, 2)
	assert.Equal(t, "a", byModel[0].key)
	assert.Equal(t, 2, byModel[0].calls)
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}

func TestOpenBackendMemory(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory

	b, err := openBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer b.close()

	ctx := context.Background()
	_, err = b.journal.Append(ctx, store.ConcernReflections, "s1", store.ReflectionData{SessionID: "s1"})
	require.NoError(t, err)
	n, err := b.journal.Count(ctx, store.ConcernReflections)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, b.snapshots.Save(ctx, &store.Snapshot{Data: store.SnapshotData{Version: 1}}))

	require.NoError(t, b.reset(ctx))
	n, err = b.journal.Count(ctx, store.ConcernReflections)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	snap, err := b.snapshots.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestOpenBackendSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendSQLite
	cfg.Store.Path = t.TempDir() + "/nested/anamnesis.db"

	b, err := openBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer b.close()

	snap, err := b.snapshots.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}
