package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openingRun = `
- best:
    - score: {type: cp, value: 30}
      uci_moves: [e2e4, e7e5]
- best:
    - score: {type: cp, value: 30}
      uci_moves: [c7c5, g1f3, d7d6, d2d4, c5d4, f3d4]
    - score: {type: cp, value: 40}
      uci_moves: [e7e6, d2d4]
- best:
    - score: {type: cp, value: 400}
      uci_moves: [g1f3]
- best:
    - score: {type: cp, value: 400}
      uci_moves: [b8c6]
`

// testdir は設定ファイル・DB・ログ・解析ファイルをまとめて置く
func testdir(t *testing.T) (configPath, analysisPath string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "study.yaml")
	cfg := "storage:\n  path: " + filepath.Join(dir, "db") + "\n  sync_writes: false\n  gc_interval: 0s\n" +
		"log:\n  level: debug\n  file: " + filepath.Join(dir, "study.log") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))
	analysisPath = filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(analysisPath, []byte(openingRun), 0o644))
	return configPath, analysisPath
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyze_PrintsAnnotatedGame(t *testing.T) {
	cfg, analysis := testdir(t)
	out, _, err := run(t, "--config", cfg, "analyze", "--analysis", analysis,
		"--white", "Anderssen", "--black", "Kieseritzky", "e4", "e5", "Nf3")
	require.NoError(t, err)

	assert.Contains(t, out, `[White "Anderssen"]`)
	assert.Contains(t, out, `[Black "Kieseritzky"]`)
	assert.Contains(t, out, "e5??")
	for _, tok := range []string{"1...", "c5", "d6", "3.", "cxd4)"} {
		assert.Contains(t, out, tok)
	}
	assert.True(t, strings.HasSuffix(out, "*\n"), out)

	// without --save nothing is stored
	list, _, err := run(t, "--config", cfg, "tabs")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(list, "\n"), list)
}

func TestAnalyze_MovesAsOneArgument(t *testing.T) {
	cfg, analysis := testdir(t)
	out, _, err := run(t, "--config", cfg, "analyze", "--analysis", analysis, "e2e4 e7e5 g1f3")
	require.NoError(t, err)
	assert.Contains(t, out, "e5??")
}

func TestAnalyze_IllegalMove(t *testing.T) {
	cfg, analysis := testdir(t)
	_, _, err := run(t, "--config", cfg, "analyze", "--analysis", analysis, "e4", "e5", "Ke3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "move 3 (Ke3)")
}

func TestAnalyze_RequiresAnalysisFile(t *testing.T) {
	cfg, _ := testdir(t)
	_, _, err := run(t, "--config", cfg, "analyze", "e4")
	assert.Error(t, err)

	_, _, err = run(t, "--config", cfg, "analyze", "--analysis", filepath.Join(t.TempDir(), "none.yaml"), "e4")
	assert.Error(t, err)
}

func TestAnalyze_InvalidFEN(t *testing.T) {
	cfg, analysis := testdir(t)
	_, _, err := run(t, "--config", cfg, "analyze", "--analysis", analysis, "--fen", "not a fen", "e4")
	assert.Error(t, err)
}

func TestTabs_SaveListShowRemove(t *testing.T) {
	cfg, analysis := testdir(t)
	_, stderr, err := run(t, "--config", cfg, "analyze", "--analysis", analysis, "--save",
		"--white", "Morphy", "e4", "e5", "Nf3")
	require.NoError(t, err)
	require.Contains(t, stderr, "saved tab ")
	id := strings.TrimSpace(strings.TrimPrefix(stderr[strings.Index(stderr, "saved tab "):], "saved tab "))
	require.NotEmpty(t, id)

	list, _, err := run(t, "--config", cfg, "tabs")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(list), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Equal(t, []string{id, "Morphy", "-", "3", "*"}, strings.Fields(lines[1]))

	show, _, err := run(t, "--config", cfg, "tabs", "show", id)
	require.NoError(t, err)
	assert.Contains(t, show, `[White "Morphy"]`)
	assert.Contains(t, show, "e5??")
	assert.Contains(t, show, "cxd4)")

	out, _, err := run(t, "--config", cfg, "tabs", "rm", id)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+id+"\n", out)

	list, _, err = run(t, "--config", cfg, "tabs")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(list), "\n"), 1)

	_, _, err = run(t, "--config", cfg, "tabs", "show", id)
	assert.Error(t, err)
	_, _, err = run(t, "--config", cfg, "tabs", "rm", id)
	assert.ErrorContains(t, err, "no saved tab")
}

func TestOpenTab(t *testing.T) {
	cfg, _ := testdir(t)
	e, err := setup(&rootFlags{configPath: cfg}, nil, nil)
	require.NoError(t, err)
	defer e.Close()

	s, err := openTab(t.Context(), e.registry, &rootFlags{fen: "8/8/4k3/8/8/4K3/5R2/8 w - - 0 1"})
	require.NoError(t, err)
	assert.Equal(t, "8/8/4k3/8/8/4K3/5R2/8 w - - 0 1", s.State().Root.FEN)

	_, err = openTab(t.Context(), e.registry, &rootFlags{fen: "bogus"})
	assert.Error(t, err)

	again, err := openTab(t.Context(), e.registry, &rootFlags{tab: s.ID()})
	require.NoError(t, err)
	assert.Same(t, s, again)

	_, err = openTab(t.Context(), e.registry, &rootFlags{tab: "missing"})
	assert.Error(t, err)
}
