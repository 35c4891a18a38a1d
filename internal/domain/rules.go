package domain

import "strings"

// positionKey keeps the placement and side-to-move fields of a FEN, dropping
// castling, en passant and the clocks.
func positionKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return fen
	}
	return fields[0] + " " + fields[1]
}

// isThreefold reports whether fen, reached by a move from the node at basePath,
// has already occurred twice on the line from the root to that node.
func (s *Store) isThreefold(basePath Path, fen string) bool {
	key := positionKey(fen)
	seen := 0
	for _, n := range Line(s.state.Root, basePath) {
		if positionKey(n.FEN) == key {
			seen++
		}
	}
	return seen >= 2
}

// isFiftyMoves reports whether the move san, played from the node at basePath,
// completes 100 plies without a pawn move or capture. The count starts from the
// root position's own halfmove clock.
func (s *Store) isFiftyMoves(basePath Path, san string) bool {
	line := Line(s.state.Root, basePath)
	plies := halfmoveClock(line[0].FEN)
	for _, n := range line[1:] {
		plies = nextHalfmoveClock(plies, n.SAN)
	}
	plies = nextHalfmoveClock(plies, san)
	return plies >= 100
}

func nextHalfmoveClock(plies int, san string) int {
	if resetsHalfmoveClock(san) {
		return 0
	}
	return plies + 1
}

// resetsHalfmoveClock: captures, promotions and pawn moves (SAN starting with a file letter).
func resetsHalfmoveClock(san string) bool {
	if strings.ContainsAny(san, "x=") {
		return true
	}
	return san != "" && san[0] >= 'a' && san[0] <= 'h'
}
