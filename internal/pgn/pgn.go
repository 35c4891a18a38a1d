// Package pgn renders study trees as PGN text.
package pgn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
)

type Options struct {
	Headers    bool
	Comments   bool
	Glyphs     bool
	Variations bool
	Clocks     bool
	Scores     bool
}

// DefaultOptions exports everything the tree holds.
func DefaultOptions() Options {
	return Options{
		Headers:    true,
		Comments:   true,
		Glyphs:     true,
		Variations: true,
		Clocks:     true,
		Scores:     true,
	}
}

// Render writes the whole tree as one PGN game.
func Render(root *domain.TreeNode, h domain.GameHeaders, opt Options) string {
	w := &writer{opt: opt}
	if opt.Comments && root.Comment != "" {
		w.tok("{" + root.Comment + "}")
	}
	w.line(root, true)

	var out []string
	if opt.Headers {
		out = append(out, headerLines(root, h)...)
		out = append(out, "")
		w.tok(string(result(h)))
	}
	out = append(out, joinTokens(w.tokens))
	return strings.Join(out, "\n") + "\n"
}

// RenderLine writes only the moves from the root to the node at path, with
// quality glyphs and without comments or variations. It matches
// domain.LineRenderer.
func RenderLine(root *domain.TreeNode, path domain.Path) string {
	w := &writer{opt: Options{Glyphs: true}}
	force := true
	for _, n := range domain.Line(root, path)[1:] {
		w.move(n, force)
		force = false
	}
	return joinTokens(w.tokens)
}

type writer struct {
	opt    Options
	tokens []string
}

func (w *writer) tok(s string) { w.tokens = append(w.tokens, s) }

// line writes the continuation of node. Variations follow the mainline move
// they replace.
func (w *writer) line(node *domain.TreeNode, force bool) {
	for len(node.Children) > 0 {
		main := node.Children[0]
		w.move(main, force)
		force = w.extras(main)
		if w.opt.Variations {
			for _, v := range node.Children[1:] {
				w.tok("(")
				w.move(v, true)
				w.line(v, w.extras(v))
				w.tok(")")
				force = true
			}
		}
		node = main
	}
}

// move writes the move number (when needed) and the SAN with its quality glyph.
func (w *writer) move(n *domain.TreeNode, force bool) {
	num := MoveNumber(n.HalfMoves)
	switch {
	case whiteMoved(n.HalfMoves):
		w.tok(strconv.Itoa(num) + ".")
	case force:
		w.tok(strconv.Itoa(num) + "...")
	}
	san := n.SAN
	if w.opt.Glyphs {
		san += string(n.Annotations.Basic)
	}
	w.tok(san)
}

// extras writes NAGs and the comment of n and reports whether a comment was written.
func (w *writer) extras(n *domain.TreeNode) bool {
	if w.opt.Glyphs {
		for _, m := range n.Annotations.Markers {
			if nag, ok := nags[m]; ok {
				w.tok(nag)
			}
		}
	}
	if !w.opt.Comments {
		return false
	}
	var parts []string
	if w.opt.Scores && n.Score != nil {
		parts = append(parts, fmt.Sprintf("[%%eval %s]", FormatEval(*n.Score)))
	}
	if w.opt.Clocks && n.Clock != nil {
		parts = append(parts, fmt.Sprintf("[%%clk %s]", FormatClock(*n.Clock)))
	}
	parts = append(parts, shapeCommands(n.Shapes)...)
	if n.Comment != "" {
		parts = append(parts, n.Comment)
	}
	if len(parts) == 0 {
		return false
	}
	w.tok("{" + strings.Join(parts, " ") + "}")
	return true
}

func shapeCommands(shapes []domain.Shape) []string {
	var squares, arrows []string
	for _, s := range shapes {
		if s.Dest == "" || s.Dest == s.Orig {
			squares = append(squares, brushLetter(s.Brush)+s.Orig)
		} else {
			arrows = append(arrows, brushLetter(s.Brush)+s.Orig+s.Dest)
		}
	}
	var out []string
	if len(squares) > 0 {
		out = append(out, "[%csl "+strings.Join(squares, ",")+"]")
	}
	if len(arrows) > 0 {
		out = append(out, "[%cal "+strings.Join(arrows, ",")+"]")
	}
	return out
}

func result(h domain.GameHeaders) domain.Outcome {
	if h.Result == "" {
		return domain.Unknown
	}
	return h.Result
}

func orUnknown(s, unknown string) string {
	if s == "" {
		return unknown
	}
	return s
}

func headerLines(root *domain.TreeNode, h domain.GameHeaders) []string {
	tag := func(name, value string) string {
		value = strings.ReplaceAll(value, `\`, `\\`)
		value = strings.ReplaceAll(value, `"`, `\"`)
		return fmt.Sprintf("[%s \"%s\"]", name, value)
	}
	out := []string{
		tag("Event", orUnknown(h.Event, "?")),
		tag("Site", orUnknown(h.Site, "?")),
		tag("Date", orUnknown(h.Date, "????.??.??")),
		tag("Round", orUnknown(h.Round, "?")),
		tag("White", orUnknown(h.White, "?")),
		tag("Black", orUnknown(h.Black, "?")),
		tag("Result", string(result(h))),
	}
	if h.WhiteElo > 0 {
		out = append(out, tag("WhiteElo", strconv.Itoa(h.WhiteElo)))
	}
	if h.BlackElo > 0 {
		out = append(out, tag("BlackElo", strconv.Itoa(h.BlackElo)))
	}
	if h.TimeControl != "" {
		out = append(out, tag("TimeControl", h.TimeControl))
	}
	if h.ECO != "" {
		out = append(out, tag("ECO", h.ECO))
	}
	if root.FEN != domain.StartFEN {
		out = append(out, tag("SetUp", "1"), tag("FEN", root.FEN))
	}
	return out
}
