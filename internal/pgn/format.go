package pgn

import (
	"fmt"
	"strings"
	"time"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

const lineWidth = 80

// MoveNumber is the fullmove number of the move that produced a node with halfMoves plies.
func MoveNumber(halfMoves int) int {
	return (halfMoves + 1) / 2
}

// whiteMoved reports whether the ply count ends on a White move.
func whiteMoved(halfMoves int) bool {
	return halfMoves%2 == 1
}

// FormatClock renders a clock as h:mm:ss.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}

// FormatEval renders a score for a [%eval] command: pawns with two decimals, or #n for mates.
func FormatEval(s domain.Score) string {
	if s.Type == domain.ScoreMate {
		return fmt.Sprintf("#%d", s.Value)
	}
	return fmt.Sprintf("%.2f", float64(s.Value)/100)
}

// nags maps markers to numeric annotation glyphs.
var nags = map[domain.Annotation]string{
	domain.OnlyMove:    "$7",
	domain.Zugzwang:    "$22",
	domain.Counterplay: "$132",
	domain.WithIdea:    "$140",
	domain.Novelty:     "$146",
}

func brushLetter(brush string) string {
	if brush == "" {
		return "G"
	}
	return strings.ToUpper(brush[:1])
}

// joinTokens joins movetext tokens with single spaces, keeping parentheses tight,
// and wraps lines at lineWidth.
func joinTokens(tokens []string) string {
	var (
		lines []string
		cur   strings.Builder
	)
	glue := false
	for _, tok := range tokens {
		tight := glue || tok == ")"
		glue = tok == "("
		switch {
		case cur.Len() == 0:
		case tight:
		case cur.Len()+1+len(tok) > lineWidth:
			lines = append(lines, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(' ')
		}
		cur.WriteString(tok)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return strings.Join(lines, "\n")
}
