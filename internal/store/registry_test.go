package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/position"
)

func TestRegistry_FlushOnlyChangedTabs(t *testing.T) {
	mem := NewMemory()
	r := NewRegistry(mem, position.New(), nil)
	ctx := context.Background()

	a := r.Open("")
	b := r.Open("")
	require.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, sortedPair(a.ID(), b.ID()), r.IDs())

	require.True(t, a.MakeMoveText("e4", domain.DefaultMoveOptions()))
	require.NoError(t, r.Flush(ctx))

	ids, err := mem.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID()}, ids)

	saves := testutil.ToFloat64(persistTotal.WithLabelValues("save", "ok"))
	require.NoError(t, r.Flush(ctx))
	assert.Equal(t, saves, testutil.ToFloat64(persistTotal.WithLabelValues("save", "ok")), "unchanged tab must not be rewritten")
}

func TestRegistry_LiveScoreDoesNotTriggerSave(t *testing.T) {
	mem := NewMemory()
	r := NewRegistry(mem, position.New(), nil)
	ctx := context.Background()

	s := r.Open("")
	s.SetScore(domain.CP(25))
	require.NoError(t, r.Flush(ctx))

	ids, err := mem.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.False(t, s.Dirty())
}

func TestRegistry_Restore(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	first := NewRegistry(mem, position.New(), nil)
	s := first.Open("")
	require.Equal(t, 2, s.MakeMoves([]string{"d4", "d5"}, false, true))
	s.SetComment("queen's pawn")
	require.NoError(t, first.Flush(ctx))

	second := NewRegistry(mem, position.New(), nil)
	restored, err := second.Restore(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, s.State(), restored.State())
	assert.Equal(t, "queen's pawn", restored.Current().Comment)

	again, err := second.Restore(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, restored, again)

	_, err = second.Restore(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Close(t *testing.T) {
	mem := NewMemory()
	r := NewRegistry(mem, position.New(), nil)
	ctx := context.Background()

	s := r.Open("")
	s.MakeMoveText("e4", domain.DefaultMoveOptions())
	require.NoError(t, r.Flush(ctx))

	require.NoError(t, r.Close(ctx, s.ID()))
	_, ok := r.Get(s.ID())
	assert.False(t, ok)

	_, err := mem.Load(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Close(ctx, s.ID()), ErrNotFound)
}

func TestRegistry_WithBadger(t *testing.T) {
	b, err := OpenBadger(InMemoryBadgerConfig())
	require.NoError(t, err)
	defer b.Close()

	r := NewRegistry(b, position.New(), nil)
	s := r.Open("8/8/4k3/8/8/4K3/5R2/8 w - - 0 1")
	require.True(t, s.MakeMoveText("Rf5", domain.DefaultMoveOptions()))
	require.NoError(t, r.Flush(context.Background()))

	st, err := b.Load(context.Background(), s.ID())
	require.NoError(t, err)
	assert.Equal(t, "Rf5", st.Root.Children[0].SAN)
}

func sortedPair(a, b string) []string {
	if a < b {
		return []string{a, b}
	}
	return []string{b, a}
}
