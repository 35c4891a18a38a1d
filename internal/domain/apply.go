package domain

import (
	"log/slog"
	"time"
)

type MoveOptions struct {
	// ChangePosition moves the current position onto the played node.
	ChangePosition bool
	// Mainline inserts a new node as child 0 instead of appending a variation.
	Mainline bool
	Clock    *time.Duration
	// ChangeHeaders updates headers.result when the move ends the game.
	ChangeHeaders bool
	// Silent suppresses the move sound.
	Silent bool

	last bool
}

func DefaultMoveOptions() MoveOptions {
	return MoveOptions{ChangePosition: true, ChangeHeaders: true}
}

// MakeMove plays m from the current node. An existing child with the same SAN is
// reused; otherwise a new node is created. Illegal moves are ignored and
// reported as false.
func (s *Store) MakeMove(m Move, opts MoveOptions) bool {
	s.mu.Lock()
	san, ok := s.makeMove(m, opts)
	s.mu.Unlock()

	if ok && !opts.Silent {
		s.playSound(san)
	}
	return ok
}

// MakeMoveText parses SAN or UCI text against the base node and plays it.
func (s *Store) MakeMoveText(text string, opts MoveOptions) bool {
	s.mu.Lock()
	m, err := s.oracle.ParseMove(Resolve(s.state.Root, s.basePath(opts)).FEN, text)
	if err != nil {
		s.mu.Unlock()
		movesTotal.WithLabelValues("rejected").Inc()
		s.logger.Debug("move rejected", slog.String("input", text), slog.String("error", err.Error()))
		return false
	}
	san, ok := s.makeMove(m, opts)
	s.mu.Unlock()

	if ok && !opts.Silent {
		s.playSound(san)
	}
	return ok
}

// MakeMoves plays a sequence of SAN/UCI moves, each from the node the previous
// one reached. It stops at the first move that cannot be played and returns the
// number of moves applied. Only the last applied move makes a sound.
func (s *Store) MakeMoves(moves []string, mainline, changeHeaders bool) int {
	s.mu.Lock()
	applied := 0
	lastSAN := ""
	for _, text := range moves {
		fen := s.state.Current().FEN
		m, err := s.oracle.ParseMove(fen, text)
		if err != nil {
			movesTotal.WithLabelValues("rejected").Inc()
			s.logger.Debug("move sequence stopped", slog.String("input", text), slog.Int("applied", applied))
			break
		}
		san, ok := s.makeMove(m, MoveOptions{
			ChangePosition: true,
			Mainline:       mainline,
			ChangeHeaders:  changeHeaders,
		})
		if !ok {
			break
		}
		lastSAN = san
		applied++
	}
	s.mu.Unlock()

	if applied > 0 {
		s.playSound(lastSAN)
	}
	return applied
}

// AppendMove plays m at the end of the mainline (live games). The current
// position follows only if it was already at the end.
func (s *Store) AppendMove(m Move, clock *time.Duration) bool {
	s.mu.Lock()
	follow := s.state.Position.Equal(MainlineEnd(s.state.Root))
	san, ok := s.makeMove(m, MoveOptions{
		ChangePosition: follow,
		Mainline:       true,
		Clock:          clock,
		ChangeHeaders:  true,
		last:           true,
	})
	s.mu.Unlock()

	if ok {
		s.playSound(san)
	}
	return ok
}

func (s *Store) basePath(opts MoveOptions) Path {
	if opts.last {
		return MainlineEnd(s.state.Root)
	}
	return s.state.Position.Clone()
}

// makeMove is the move state machine: requested → resolved (child reused) or
// created (child inserted). Caller holds the lock.
func (s *Store) makeMove(m Move, opts MoveOptions) (string, bool) {
	basePath := s.basePath(opts)
	base := Resolve(s.state.Root, basePath)

	san := s.oracle.SAN(base.FEN, m)
	if san == "" || san == NullSAN {
		movesTotal.WithLabelValues("rejected").Inc()
		s.logger.Debug("illegal move", slog.String("move", m.UCI()), slog.String("fen", base.FEN))
		return "", false
	}
	fen, err := s.oracle.Play(base.FEN, m)
	if err != nil {
		movesTotal.WithLabelValues("rejected").Inc()
		s.logger.Debug("move could not be played", slog.String("move", m.UCI()), slog.String("error", err.Error()))
		return "", false
	}

	if opts.ChangeHeaders {
		s.applyTermination(basePath, fen, san)
	}

	idx := base.childIndex(san)
	if idx >= 0 {
		movesTotal.WithLabelValues("transposed").Inc()
	} else {
		played := m
		node := &TreeNode{
			FEN:       fen,
			Move:      &played,
			SAN:       san,
			HalfMoves: base.HalfMoves + 1,
			Clock:     opts.Clock,
		}
		if opts.Mainline {
			base.Children = append([]*TreeNode{node}, base.Children...)
			idx = 0
		} else {
			base.Children = append(base.Children, node)
			idx = len(base.Children) - 1
		}
		s.state.Dirty = true
		movesTotal.WithLabelValues("created").Inc()
	}

	if opts.ChangePosition {
		s.state.Position = append(basePath, idx)
	}
	s.version++
	return san, true
}

// applyTermination sets the game result when the move at basePath leads to fen
// and ends the game.
func (s *Store) applyTermination(basePath Path, fen, san string) {
	var result Outcome
	status, err := s.oracle.Status(fen)
	if err != nil {
		return
	}
	switch status {
	case Checkmate:
		// 手番側が詰み
		if sideToMove(fen) == White {
			result = BlackWins
		} else {
			result = WhiteWins
		}
	case Stalemate, InsufficientMaterial:
		result = Draw
	}
	if result == "" && (s.isThreefold(basePath, fen) || s.isFiftyMoves(basePath, san)) {
		result = Draw
	}
	if result != "" && s.state.Headers.Result != result {
		s.state.Headers.Result = result
		s.state.Dirty = true
	}
}
