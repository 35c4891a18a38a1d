package domain

import (
	"log/slog"
	"strings"
)

// BestMove is one ranked engine candidate line.
type BestMove struct {
	Score    Score    `json:"score" yaml:"score"`
	UCIMoves []string `json:"uciMoves" yaml:"uci_moves"`
	SANMoves []string `json:"sanMoves,omitempty" yaml:"san_moves,omitempty"`
	Depth    int      `json:"depth,omitempty" yaml:"depth,omitempty"`
	MultiPV  int      `json:"multipv,omitempty" yaml:"multipv,omitempty"`
	Nodes    int      `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

// AnalysisEntry is the engine's view of one mainline position. Entry 0 is the
// root position, entry i the position after the i-th mainline move.
type AnalysisEntry struct {
	Best        []BestMove `json:"best" yaml:"best"`
	Novelty     bool       `json:"novelty" yaml:"novelty"`
	IsSacrifice bool       `json:"is_sacrifice" yaml:"is_sacrifice"`
}

// AddAnalysis merges one completed analysis run into the tree: scores and quality
// symbols on the mainline, plus a suggested variation before every dubious,
// mistaken or blundering move. Earlier runs leave nothing behind, so applying the
// same input twice gives the same tree.
func (s *Store) AddAnalysis(entries []AnalysisEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clearAnalysis(s.state.Root)
	// dropped variations may have held the position or the start
	s.state.Position = validPrefix(s.state.Root, s.state.Position)
	if len(s.state.Headers.Start) > 0 {
		s.state.Headers.Start = validPrefix(s.state.Root, s.state.Headers.Start)
	}

	annotated, suggested := 0, 0
	cur := s.state.Root
	for i := 0; cur != nil; i++ {
		if i < len(entries) && len(entries[i].Best) > 0 && !s.terminal(cur.FEN) {
			entry := entries[i]
			score := entry.Best[0].Score
			cur.Score = &score
			if entry.Novelty {
				cur.Annotations.Add(Novelty)
			}

			eval := Evaluation{
				Current:   score,
				Sacrifice: entry.IsSacrifice,
				SAN:       cur.SAN,
			}
			if cur.Move != nil {
				eval.Mover = cur.Mover()
				eval.UCI = cur.Move.UCI()
			}
			if i > 0 && len(entries[i-1].Best) > 0 {
				prev := entries[i-1].Best[0].Score
				eval.Prev = &prev
				eval.PrevBest = entries[i-1].Best
			}
			if i > 1 && len(entries[i-2].Best) > 0 {
				pp := entries[i-2].Best[0].Score
				eval.PrevPrev = &pp
			}

			if a := s.policy.Classify(eval); a != "" {
				cur.Annotations.Add(a)
				annotated++
				annotationsTotal.WithLabelValues(string(a)).Inc()
				if a.IsNegative() && s.insertSuggestion(i, cur, eval.PrevBest) {
					suggested++
				}
			}
		}
		if len(cur.Children) == 0 {
			break
		}
		cur = cur.Children[0]
	}

	s.state.Report = Report{Progress: 100, IsCompleted: true}
	s.changed(true)
	analysisMerges.Inc()
	s.logger.Debug("analysis merged",
		slog.Int("entries", len(entries)),
		slog.Int("annotated", annotated),
		slog.Int("suggestions", suggested))
}

// clearAnalysis strips scores, quality symbols and novelty markers and drops
// every variation, leaving only mainline children.
func clearAnalysis(node *TreeNode) {
	for node != nil {
		node.Score = nil
		node.Annotations.Basic = ""
		node.Annotations.Remove(Novelty)
		if len(node.Children) > 1 {
			node.Children = node.Children[:1:1]
		}
		if len(node.Children) == 0 {
			return
		}
		node = node.Children[0]
	}
}

func (s *Store) terminal(fen string) bool {
	status, err := s.oracle.Status(fen)
	return err == nil && status.Terminal()
}

// insertSuggestion attaches the engine's best alternative to the move at ply as a
// variation of its parent. It reports whether a variation was added.
func (s *Store) insertSuggestion(ply int, played *TreeNode, candidates []BestMove) bool {
	if ply == 0 || len(candidates) == 0 || played.Move == nil {
		return false
	}
	line := candidates[0]
	for _, c := range candidates {
		if len(c.UCIMoves) > 0 && !strings.EqualFold(c.UCIMoves[0], played.Move.UCI()) {
			line = c
			break
		}
	}
	if len(line.UCIMoves) == 0 {
		return false
	}

	parent := s.state.Root
	for k := 0; k < ply-1; k++ {
		parent = parent.Children[0]
	}

	first, err := s.oracle.ParseMove(parent.FEN, line.UCIMoves[0])
	if err != nil {
		return false
	}
	for _, c := range parent.Children {
		if c.Move != nil && *c.Move == first {
			return false
		}
	}

	var head, tail *TreeNode
	fen := parent.FEN
	for k, text := range line.UCIMoves {
		if k >= s.suggestionPlies {
			break
		}
		m, err := s.oracle.ParseMove(fen, text)
		if err != nil {
			break
		}
		san := s.oracle.SAN(fen, m)
		if san == NullSAN {
			break
		}
		next, err := s.oracle.Play(fen, m)
		if err != nil {
			break
		}
		mv := m
		n := &TreeNode{FEN: next, Move: &mv, SAN: san, HalfMoves: parent.HalfMoves + k + 1}
		if head == nil {
			head = n
		} else {
			tail.Children = []*TreeNode{n}
		}
		tail = n
		fen = next
		if s.terminal(next) {
			break
		}
	}
	if head == nil {
		return false
	}
	parent.Children = append(parent.Children, head)
	suggestionsTotal.Inc()
	return true
}
