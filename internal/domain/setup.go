package domain

import (
	"strconv"
	"strings"
)

// DefaultTree returns a fresh state whose root is fen (the standard start
// position when fen is empty). fen is not validated here.
func DefaultTree(fen string) *TreeState {
	if fen == "" {
		fen = StartFEN
	}
	return &TreeState{
		Root: &TreeNode{
			FEN:       fen,
			HalfMoves: startingPly(fen),
		},
		Position: Path{},
		Headers: GameHeaders{
			FEN:         fen,
			Result:      Unknown,
			Orientation: White,
		},
	}
}

// startingPly derives the ply count of a position from its fullmove number.
// 白番なら偶数、黒番なら奇数
func startingPly(fen string) int {
	fields := strings.Fields(fen)
	full := 1
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			full = n
		}
	}
	ply := (full - 1) * 2
	if sideToMove(fen) == Black {
		ply++
	}
	return ply
}

// halfmoveClock reads the fifty-move counter field of a FEN.
func halfmoveClock(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil && n >= 0 {
			return n
		}
	}
	return 0
}
