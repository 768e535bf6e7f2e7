package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRender_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := RenderRecord{
		ID:            "render-1",
		Session:       "deck",
		Document:      "doc-hash",
		Passes:        4,
		Outputs:       []string{"a, b", "c"},
		Seq:           1,
		EngineVersion: "0.1.0",
	}
	require.NoError(t, s.WriteRender(ctx, rec))
	require.NoError(t, s.WriteRender(ctx, rec))

	records, err := s.ReadRenders(ctx, "deck")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestReadRenders_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, rec := range []RenderRecord{
		{ID: "c", Session: "deck", Document: "d", Seq: 3},
		{ID: "a", Session: "deck", Document: "d", Seq: 1},
		{ID: "b2", Session: "deck", Document: "d", Seq: 2},
		{ID: "b1", Session: "deck", Document: "d", Seq: 2},
		{ID: "x", Session: "other", Document: "d", Seq: 1},
	} {
		require.NoError(t, s.WriteRender(ctx, rec))
	}

	records, err := s.ReadRenders(ctx, "deck")
	require.NoError(t, err)

	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids)
}

func TestWriteRender_NilOutputs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRender(ctx, RenderRecord{ID: "r", Session: "deck", Document: "d"}))

	records, err := s.ReadRenders(ctx, "deck")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{}, records[0].Outputs)
}

func TestLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.LastSeq(ctx, "deck")
	require.NoError(t, err)
	assert.Zero(t, seq)

	require.NoError(t, s.WriteRender(ctx, RenderRecord{ID: "a", Session: "deck", Document: "d", Seq: 7}))
	require.NoError(t, s.WriteRender(ctx, RenderRecord{ID: "b", Session: "deck", Document: "d", Seq: 3}))

	seq, err = s.LastSeq(ctx, "deck")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}
