// Package position answers chess-rule questions for the study tree using
// github.com/notnil/chess. Every call decodes its FEN afresh; nothing is cached.
package position

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notnil/chess"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

type Oracle struct{}

var _ domain.Oracle = Oracle{}

func New() Oracle { return Oracle{} }

func decode(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return chess.NewGame(opt).Position(), nil
}

// legal finds m among the legal moves of pos. Only moves from ValidMoves carry
// the tags (castling, en passant, check) Update and the notations rely on.
func legal(pos *chess.Position, m domain.Move) *chess.Move {
	from, to := strings.ToLower(m.From), strings.ToLower(m.To)
	promo := strings.ToLower(m.Promotion)
	for _, vm := range pos.ValidMoves() {
		if vm.S1().String() == from && vm.S2().String() == to && promoLetter(vm.Promo()) == promo {
			return vm
		}
	}
	return nil
}

func toMove(vm *chess.Move) domain.Move {
	return domain.Move{
		From:      vm.S1().String(),
		To:        vm.S2().String(),
		Promotion: promoLetter(vm.Promo()),
	}
}

func promoLetter(pt chess.PieceType) string {
	switch pt {
	case chess.Queen:
		return "q"
	case chess.Rook:
		return "r"
	case chess.Bishop:
		return "b"
	case chess.Knight:
		return "n"
	default:
		return ""
	}
}

func (Oracle) ParseMove(fen, text string) (domain.Move, error) {
	pos, err := decode(fen)
	if err != nil {
		return domain.Move{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" || text == domain.NullSAN {
		return domain.Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, text)
	}
	for _, san := range sanCandidates(text) {
		if vm, err := (chess.AlgebraicNotation{}).Decode(pos, san); err == nil {
			if found := legal(pos, toMove(vm)); found != nil {
				return toMove(found), nil
			}
		}
	}
	if vm, err := (chess.UCINotation{}).Decode(pos, strings.ToLower(text)); err == nil {
		if found := legal(pos, toMove(vm)); found != nil {
			return toMove(found), nil
		}
	}
	return domain.Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, text)
}

// sanCandidates lets typed input omit or misplace check marks and glyphs ("Qh4" for "Qh4#").
func sanCandidates(text string) []string {
	base := strings.TrimRight(text, "!?+#")
	return []string{text, base, base + "+", base + "#"}
}

func (Oracle) SAN(fen string, m domain.Move) string {
	pos, err := decode(fen)
	if err != nil {
		return domain.NullSAN
	}
	vm := legal(pos, m)
	if vm == nil {
		return domain.NullSAN
	}
	return chess.AlgebraicNotation{}.Encode(pos, vm)
}

func (Oracle) Play(fen string, m domain.Move) (string, error) {
	pos, err := decode(fen)
	if err != nil {
		return "", err
	}
	vm := legal(pos, m)
	if vm == nil {
		return "", fmt.Errorf("%w: %s", ErrIllegalMove, m.UCI())
	}
	return pos.Update(vm).String(), nil
}

func (Oracle) Status(fen string) (domain.Status, error) {
	pos, err := decode(fen)
	if err != nil {
		return domain.Ongoing, err
	}
	switch pos.Status() {
	case chess.Checkmate:
		return domain.Checkmate, nil
	case chess.Stalemate:
		return domain.Stalemate, nil
	}
	if insufficientMaterial(pos.Board()) {
		return domain.InsufficientMaterial, nil
	}
	return domain.Ongoing, nil
}

func (Oracle) LegalDestinations(fen string) (map[string][]string, error) {
	pos, err := decode(fen)
	if err != nil {
		return nil, err
	}
	dests := make(map[string][]string)
	seen := make(map[string]bool)
	for _, vm := range pos.ValidMoves() {
		from, to := vm.S1().String(), vm.S2().String()
		// promotions list the same square four times
		if seen[from+to] {
			continue
		}
		seen[from+to] = true
		dests[from] = append(dests[from], to)
	}
	for _, v := range dests {
		sort.Strings(v)
	}
	return dests, nil
}

// insufficientMaterial: bare kings, a single minor piece, or bishops that all
// stand on squares of one color.
func insufficientMaterial(b *chess.Board) bool {
	var minors, bishops int
	bishopColors := map[int]bool{}
	for sq, p := range b.SquareMap() {
		switch p.Type() {
		case chess.King:
		case chess.Knight:
			minors++
		case chess.Bishop:
			minors++
			bishops++
			bishopColors[(int(sq.File())+int(sq.Rank()))%2] = true
		default:
			return false
		}
	}
	if minors <= 1 {
		return true
	}
	return bishops == minors && len(bishopColors) == 1
}
