package tui

import (
	"fmt"
	"strings"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

var pieceGlyph = map[byte]string{
	'K': "♔", 'Q': "♕", 'R': "♖", 'B': "♗", 'N': "♘", 'P': "♙",
	'k': "♚", 'q': "♛", 'r': "♜", 'b': "♝", 'n': "♞", 'p': "♟",
}

// board[rank][file], rank 0 = rank 1, file 0 = a. Zero means empty.
type board [8][8]byte

func parsePlacement(fen string) (board, error) {
	var b board
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return b, fmt.Errorf("empty fen")
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != 8 {
		return b, fmt.Errorf("placement has %d ranks", len(rows))
	}
	for i, row := range rows {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			case pieceGlyph[c] != "":
				if file > 7 {
					return b, fmt.Errorf("rank %d overflows", rank+1)
				}
				b[rank][file] = c
				file++
			default:
				return b, fmt.Errorf("unexpected %q in placement", c)
			}
		}
		if file != 8 {
			return b, fmt.Errorf("rank %d has %d files", rank+1, file)
		}
	}
	return b, nil
}

// RenderBoard draws the position of fen as a fixed-width grid seen from
// orientation. The squares of last (if any) are bracketed.
func RenderBoard(fen string, orientation domain.Color, last *domain.Move) string {
	b, err := parsePlacement(fen)
	if err != nil {
		return "invalid position: " + err.Error() + "\n"
	}

	files := []int{0, 1, 2, 3, 4, 5, 6, 7}
	ranks := []int{7, 6, 5, 4, 3, 2, 1, 0}
	if orientation == domain.Black {
		files = []int{7, 6, 5, 4, 3, 2, 1, 0}
		ranks = []int{0, 1, 2, 3, 4, 5, 6, 7}
	}

	marked := map[string]bool{}
	if last != nil {
		marked[last.From] = true
		marked[last.To] = true
	}

	var sb strings.Builder
	sb.WriteString("  ")
	for _, f := range files {
		sb.WriteString("  ")
		sb.WriteByte(byte('a' + f))
	}
	sb.WriteString("\n")
	sb.WriteString("  +------------------------+\n")
	for _, r := range ranks {
		sb.WriteString(" ")
		sb.WriteByte(byte('1' + r))
		sb.WriteString("|")
		for _, f := range files {
			sq := string([]byte{byte('a' + f), byte('1' + r)})
			sb.WriteString(cell(b[r][f], marked[sq]))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("  +------------------------+\n")
	return sb.String()
}

// cell returns a fixed-width 3-column cell.
func cell(piece byte, marked bool) string {
	s := "."
	if piece != 0 {
		s = pieceGlyph[piece]
	}
	if marked {
		return "[" + s + "]"
	}
	return " " + s + " "
}
