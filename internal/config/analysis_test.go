package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

func TestLoadAnalysis_YAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
- best:
    - score: {type: cp, value: 30}
      uci_moves: [e2e4, e7e5]
- best:
    - score: {type: cp, value: 30}
      uci_moves: [c7c5, g1f3]
    - score: {type: mate, value: -3}
      uci_moves: [e7e6]
  novelty: true
- best: []
`)
	entries, err := LoadAnalysis(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"e2e4", "e7e5"}, entries[0].Best[0].UCIMoves)
	assert.True(t, entries[1].Novelty)
	assert.Equal(t, domain.Mate(-3), entries[1].Best[1].Score)
	assert.Empty(t, entries[2].Best)
}

func TestLoadAnalysis_JSON(t *testing.T) {
	path := writeFile(t, "run.json", `[{"best":[{"score":{"type":"cp","value":-15},"uciMoves":["d2d4"]}],"is_sacrifice":true}]`)
	entries, err := LoadAnalysis(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.CP(-15), entries[0].Best[0].Score)
	assert.Equal(t, []string{"d2d4"}, entries[0].Best[0].UCIMoves)
	assert.True(t, entries[0].IsSacrifice)
}

func TestLoadAnalysis_Errors(t *testing.T) {
	_, err := LoadAnalysis(writeFile(t, "bad.yaml", "- best:\n    - score: {type: pawns, value: 1}\n"))
	assert.Error(t, err)

	_, err = LoadAnalysis(writeFile(t, "broken.yaml", "{not: [valid"))
	assert.Error(t, err)

	_, err = LoadAnalysis("/nonexistent/run.yaml")
	assert.Error(t, err)
}
