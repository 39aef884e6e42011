package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBreakerOpensOnUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	rs := NewRedis(client, RedisConfig{FailureThreshold: 2, OpenTimeout: time.Minute}, nil)
	t.Cleanup(func() { rs.Close() })

	j := rs.Journal()
	ctx := context.Background()
	for i := range 2 {
		_, err := j.Append(ctx, ConcernAskedQuestions, "s1", map[string]int{"i": i})
		require.Error(t, err)
		assert.False(t, errors.Is(err, gobreaker.ErrOpenState), "breaker opened early on attempt %d", i)
	}

	_, err := j.Append(ctx, ConcernAskedQuestions, "s1", map[string]int{"i": 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState), "got %v", err)
}

func TestMatches(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := Record{Sequence: 5, SessionID: "s1", Timestamp: base}

	tests := []struct {
		name string
		opts QueryOpts
		want bool
	}{
		{"empty", QueryOpts{}, true},
		{"after below", QueryOpts{After: 4}, true},
		{"after equal", QueryOpts{After: 5}, false},
		{"session match", QueryOpts{SessionID: "s1"}, true},
		{"session mismatch", QueryOpts{SessionID: "s2"}, false},
		{"from later", QueryOpts{From: base.Add(time.Second)}, false},
		{"to earlier", QueryOpts{To: base.Add(-time.Second)}, false},
		{"window", QueryOpts{From: base.Add(-time.Hour), To: base.Add(time.Hour)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(r, tt.opts))
		})
	}
}

// TestRedisJournal runs against a real server when ANAMNESIS_TEST_REDIS_URL
// is set.
func TestRedisJournal(t *testing.T) {
	url := os.Getenv("ANAMNESIS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ANAMNESIS_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	cfg := DefaultRedisConfig()
	cfg.URL = url
	cfg.Prefix = "anamnesis-test-" + uuid.NewString()

	rs, err := OpenRedis(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		keys, _ := rs.client.Keys(ctx, cfg.Prefix+":*").Result()
		if len(keys) > 0 {
			rs.client.Del(ctx, keys...)
		}
		rs.Close()
	})

	j := rs.Journal()
	seq1, err := j.Append(ctx, ConcernReflections, "s1", ReflectionData{SessionID: "s1", Text: "missed smoking"})
	require.NoError(t, err)
	seq2, err := j.Append(ctx, ConcernReflections, "s2", ReflectionData{SessionID: "s2", Text: "good"})
	require.NoError(t, err)
	assert.Less(t, seq1, seq2)

	recs, err := j.Query(ctx, ConcernReflections, QueryOpts{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	var refl ReflectionData
	require.NoError(t, recs[0].Decode(&refl))
	assert.Equal(t, "missed smoking", refl.Text)

	n, err := j.Count(ctx, ConcernReflections)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snaps := rs.SnapshotRepo()
	latest, err := snaps.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for v := 1; v <= 3; v++ {
		require.NoError(t, snaps.Save(ctx, &Snapshot{Data: SnapshotData{Version: v}}))
	}
	require.NoError(t, snaps.Prune(ctx, 2))
	latest, err = snaps.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 3, latest.Data.Version)
}
