package pgn

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

// sicilianTree: 1. e4 e5 (1... c5 {Sicilian} 2. Nf3) 2. Nf3!
func sicilianTree() *domain.TreeNode {
	clock := 5 * time.Minute
	nf3 := &domain.TreeNode{SAN: "Nf3", HalfMoves: 3, Clock: &clock}
	nf3.Annotations.Add(domain.Good)
	return &domain.TreeNode{
		FEN: domain.StartFEN,
		Children: []*domain.TreeNode{{
			SAN:       "e4",
			HalfMoves: 1,
			Children: []*domain.TreeNode{
				{SAN: "e5", HalfMoves: 2, Children: []*domain.TreeNode{nf3}},
				{SAN: "c5", HalfMoves: 2, Comment: "Sicilian", Children: []*domain.TreeNode{
					{SAN: "Nf3", HalfMoves: 3},
				}},
			},
		}},
	}
}

func TestRender_Golden(t *testing.T) {
	headers := domain.GameHeaders{
		Event:  "Casual",
		Date:   "2024.01.01",
		White:  "Alice",
		Black:  "Bob",
		Result: domain.Unknown,
	}
	got := Render(sicilianTree(), headers, DefaultOptions())

	wantPath := filepath.Join("testdata", "sicilian.golden.pgn")
	if os.Getenv("UPDATE_GOLDEN") == "1" {
		require.NoError(t, os.MkdirAll(filepath.Dir(wantPath), 0o755))
		require.NoError(t, os.WriteFile(wantPath, []byte(got), 0o644))
		t.Logf("updated golden: %s", wantPath)
		return
	}

	want, err := os.ReadFile(wantPath)
	require.NoError(t, err, "set UPDATE_GOLDEN=1 to create")
	assert.Equal(t, string(want), got)
}

func TestRender_NoVariationsNoComments(t *testing.T) {
	got := Render(sicilianTree(), domain.GameHeaders{}, Options{Glyphs: true})
	assert.Equal(t, "1. e4 e5 2. Nf3!\n", got)
}

func TestRender_CustomStartPosition(t *testing.T) {
	fen := "8/8/4k3/8/8/4K3/5R2/8 b - - 0 40"
	root := &domain.TreeNode{FEN: fen, HalfMoves: 79, Children: []*domain.TreeNode{
		{SAN: "Kd5", HalfMoves: 80, Children: []*domain.TreeNode{{SAN: "Rd2+", HalfMoves: 81}}},
	}}
	got := Render(root, domain.GameHeaders{Result: domain.Draw}, DefaultOptions())
	assert.Contains(t, got, `[SetUp "1"]`)
	assert.Contains(t, got, `[FEN "`+fen+`"]`)
	assert.Contains(t, got, "\n\n40... Kd5 41. Rd2+ 1/2-1/2\n")
}

func TestRender_ScoresShapesAndMarkers(t *testing.T) {
	score := domain.CP(-35)
	node := &domain.TreeNode{
		SAN:       "e4",
		HalfMoves: 1,
		Score:     &score,
		Shapes: []domain.Shape{
			{Orig: "e4", Dest: "e4", Brush: "red"},
			{Orig: "g1", Dest: "f3", Brush: "green"},
		},
	}
	node.Annotations.Add(domain.Novelty)
	root := &domain.TreeNode{FEN: domain.StartFEN, Children: []*domain.TreeNode{node}}

	got := Render(root, domain.GameHeaders{}, Options{Comments: true, Glyphs: true, Scores: true})
	assert.Equal(t, "1. e4 $146 {[%eval -0.35] [%csl Re4] [%cal Gg1f3]}\n", got)
}

func TestRenderLine(t *testing.T) {
	root := sicilianTree()
	assert.Equal(t, "1. e4 c5 2. Nf3", RenderLine(root, domain.Path{0, 1, 0}))
	assert.Equal(t, "1. e4 e5 2. Nf3!", RenderLine(root, domain.Path{0, 0, 0}))
	assert.Equal(t, "", RenderLine(root, domain.Path{}))
}

func TestJoinTokens_Wraps(t *testing.T) {
	tokens := make([]string, 0, 60)
	for i := 0; i < 30; i++ {
		tokens = append(tokens, "Nf3", "Nf6")
	}
	out := joinTokens(tokens)
	for _, line := range splitLines(out) {
		assert.LessOrEqual(t, len(line), lineWidth)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:05:00", FormatClock(5*time.Minute))
	assert.Equal(t, "1:02:03", FormatClock(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "0:00:00", FormatClock(-time.Second))
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
