package tui

import (
	"strings"
	"testing"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

func TestRenderBoard_White(t *testing.T) {
	lines := strings.Split(RenderBoard(domain.StartFEN, domain.White, nil), "\n")
	want := map[int]string{
		0: "    a  b  c  d  e  f  g  h",
		1: "  +------------------------+",
		2: " 8| ♜  ♞  ♝  ♛  ♚  ♝  ♞  ♜ |",
		5: " 5| .  .  .  .  .  .  .  . |",
		9: " 1| ♖  ♘  ♗  ♕  ♔  ♗  ♘  ♖ |",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestRenderBoard_BlackWithLastMove(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	last := &domain.Move{From: "e2", To: "e4"}
	lines := strings.Split(RenderBoard(fen, domain.Black, last), "\n")

	want := map[int]string{
		0: "    h  g  f  e  d  c  b  a",
		2: " 1| ♖  ♘  ♗  ♔  ♕  ♗  ♘  ♖ |",
		3: " 2| ♙  ♙  ♙ [.] ♙  ♙  ♙  ♙ |",
		5: " 4| .  .  . [♙] .  .  .  . |",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestRenderBoard_Invalid(t *testing.T) {
	for _, fen := range []string{"", "8/8/8 w - - 0 1", "9/8/8/8/8/8/8/8 w - - 0 1", "rnbqkbnrx/8/8/8/8/8/8/8 w - - 0 1"} {
		if got := RenderBoard(fen, domain.White, nil); !strings.HasPrefix(got, "invalid position") {
			t.Fatalf("RenderBoard(%q) = %q", fen, got)
		}
	}
}
