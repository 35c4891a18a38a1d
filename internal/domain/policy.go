package domain

import (
	"math"
	"strings"
)

// Policy grades moves from engine evaluations. Thresholds are win-chance
// percentage points.
type Policy struct {
	BlunderDrop float64
	MistakeDrop float64
	DubiousDrop float64
	// OnlyMoveGap is the lead the best candidate needs over the second best for
	// playing it to count as finding the only good move.
	OnlyMoveGap float64
	// BrilliantCeiling: a sacrifice is not brilliant when the mover was
	// already at least this likely to win.
	BrilliantCeiling float64
}

func DefaultPolicy() Policy {
	return Policy{
		BlunderDrop:      20,
		MistakeDrop:      10,
		DubiousDrop:      5,
		OnlyMoveGap:      10,
		BrilliantCeiling: 80,
	}
}

// Evaluation is everything the policy sees about one played move.
type Evaluation struct {
	PrevPrev *Score // two plies back
	Prev     *Score // before the move
	Current  Score  // after the move
	Mover    Color
	// PrevBest are the engine's ranked candidates in the position before the move.
	PrevBest  []BestMove
	Sacrifice bool
	SAN       string
	UCI       string
}

// Classify returns the quality symbol for a move, or "" when nothing stands out.
func (p Policy) Classify(e Evaluation) Annotation {
	if e.SAN == "" {
		return ""
	}
	cur := WinChance(e.Current, e.Mover)
	if e.Prev != nil {
		drop := WinChance(*e.Prev, e.Mover) - cur
		switch {
		case drop > p.BlunderDrop:
			return Blunder
		case drop > p.MistakeDrop:
			return Mistake
		case drop > p.DubiousDrop:
			return Dubious
		}
	}
	if len(e.PrevBest) >= 2 && playedTop(e) {
		gap := WinChance(e.PrevBest[0].Score, e.Mover) - WinChance(e.PrevBest[1].Score, e.Mover)
		if gap > p.OnlyMoveGap {
			if e.Sacrifice && (e.PrevPrev == nil || WinChance(*e.PrevPrev, e.Mover) < p.BrilliantCeiling) {
				return Brilliant
			}
			return Good
		}
	}
	if e.Sacrifice && e.Prev != nil {
		return Interesting
	}
	return ""
}

func playedTop(e Evaluation) bool {
	top := e.PrevBest[0]
	if len(top.SANMoves) > 0 {
		return stripSuffixes(top.SANMoves[0]) == stripSuffixes(e.SAN)
	}
	return len(top.UCIMoves) > 0 && e.UCI != "" && strings.EqualFold(top.UCIMoves[0], e.UCI)
}

func stripSuffixes(san string) string {
	return strings.TrimRight(san, "+#!?")
}

// WinChance maps a White-relative score to the winning percentage of color.
func WinChance(s Score, color Color) float64 {
	cp := float64(s.Value)
	if s.Type == ScoreMate {
		cp = mateCP(s.Value)
	}
	if color == Black {
		cp = -cp
	}
	return 50 + 50*(2/(1+math.Exp(-0.00368208*cp))-1)
}

// mateCP converts a mate distance into a large centipawn value; shorter mates score higher.
func mateCP(n int) float64 {
	if n == 0 {
		return 0
	}
	d := n
	if d < 0 {
		d = -d
	}
	v := float64(21-min(10, d)) * 100
	if n < 0 {
		return -v
	}
	return v
}
