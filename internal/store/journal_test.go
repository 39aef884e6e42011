package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	j := s.Journal()
	ctx := context.Background()

	now := time.Now().UTC()
	seq1, err := j.Append(ctx, ConcernAskedQuestions, "s1", AskedQuestionData{SessionID: "s1", Text: "When did this start?", QuestionID: "onset", Timestamp: now})
	require.NoError(t, err)
	seq2, err := j.Append(ctx, ConcernNearMisses, "s1", NearMissData{SessionID: "s1", Text: "pain", ClosestID: "location", Score: 1, Timestamp: now})
	require.NoError(t, err)
	seq3, err := j.Append(ctx, ConcernAskedQuestions, "s2", AskedQuestionData{SessionID: "s2", Text: "Do you smoke?", QuestionID: "smoking", Timestamp: now})
	require.NoError(t, err)

	assert.Less(t, seq1, seq2)
	assert.Less(t, seq2, seq3)

	recs, err := j.Query(ctx, ConcernAskedQuestions, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, seq1, recs[0].Sequence)
	assert.Equal(t, seq3, recs[1].Sequence)

	var first AskedQuestionData
	require.NoError(t, recs[0].Decode(&first))
	assert.Equal(t, "onset", first.QuestionID)
	assert.Equal(t, ConcernAskedQuestions, recs[0].Concern)
	assert.Equal(t, "s1", recs[0].SessionID)

	bySession, err := j.Query(ctx, ConcernAskedQuestions, QueryOpts{SessionID: "s2"})
	require.NoError(t, err)
	require.Len(t, bySession, 1)
	assert.Equal(t, seq3, bySession[0].Sequence)

	after, err := j.Query(ctx, ConcernAskedQuestions, QueryOpts{After: seq1})
	require.NoError(t, err)
	require.Len(t, after, 1)

	limited, err := j.Query(ctx, ConcernAskedQuestions, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, seq1, limited[0].Sequence)

	n, err := j.Count(ctx, ConcernNearMisses)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = j.Count(ctx, ConcernReflections)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJournalAppendUnmarshalable(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Journal().Append(context.Background(), ConcernReflections, "s1", make(chan int))
	assert.Error(t, err)
}

func TestStoreReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Journal().Append(ctx, ConcernReflections, "s1", ReflectionData{SessionID: "s1", Text: "more social history"})
	require.NoError(t, err)
	require.NoError(t, s.SnapshotRepo().Save(ctx, &Snapshot{Data: SnapshotData{Version: 1}}))

	require.NoError(t, s.Reset(ctx))

	n, err := s.Journal().Count(ctx, ConcernReflections)
	require.NoError(t, err)
	assert.Zero(t, n)
	snap, err := s.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestMemorySnapshots(t *testing.T) {
	var repo MemorySnapshots
	ctx := context.Background()

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for v := 1; v <= 3; v++ {
		require.NoError(t, repo.Save(ctx, &Snapshot{Data: SnapshotData{Version: v}}))
	}
	latest, err = repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Data.Version)
	assert.Equal(t, int64(3), latest.Sequence)

	require.NoError(t, repo.Prune(ctx, 1))
	assert.Len(t, repo.snaps, 1)
}
