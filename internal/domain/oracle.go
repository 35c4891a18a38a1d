package domain

import (
	"context"
	"strings"
)

// NullSAN is what an Oracle returns for a move that cannot be played.
const NullSAN = "--"

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type Color byte // 'w' or 'b'

const (
	White Color = 'w'
	Black Color = 'b'
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Move is a structured move in coordinate form.
type Move struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"` // "q","r","b","n" or empty
}

// UCI returns the move in long algebraic (engine) form, e.g. "e7e8q".
func (m Move) UCI() string {
	return m.From + m.To + m.Promotion
}

func (m Move) String() string { return m.UCI() }

type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	InsufficientMaterial
)

func (s Status) Terminal() bool { return s != Ongoing }

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient material"
	default:
		return "ongoing"
	}
}

// Oracle answers chess-rule questions about positions given as FEN.
// Implementations must be pure: the tree never hands them mutable state.
type Oracle interface {
	// ParseMove accepts SAN ("Nf3", "exd5", "O-O") or UCI ("g1f3") text.
	ParseMove(fen, text string) (Move, error)
	// SAN renders m in standard algebraic notation, or NullSAN if m is not legal.
	SAN(fen string, m Move) string
	// Play returns the FEN after m.
	Play(fen string, m Move) (string, error)
	Status(fen string) (Status, error)
	LegalDestinations(fen string) (map[string][]string, error)
}

// Persister snapshots whole tree states keyed by tab id.
type Persister interface {
	Save(ctx context.Context, id string, st *TreeState) error
	Load(ctx context.Context, id string) (*TreeState, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

type SoundKind int

const (
	SoundMove SoundKind = iota
	SoundCapture
	SoundCheck
)

func (k SoundKind) String() string {
	switch k {
	case SoundCapture:
		return "capture"
	case SoundCheck:
		return "check"
	default:
		return "move"
	}
}

// SoundFor classifies a move by its SAN.
func SoundFor(san string) SoundKind {
	switch {
	case strings.ContainsAny(san, "+#"):
		return SoundCheck
	case strings.Contains(san, "x"):
		return SoundCapture
	default:
		return SoundMove
	}
}

type Sounder interface {
	PlayMove(kind SoundKind)
}

type Clipboard interface {
	WriteText(text string) error
}

// LineRenderer renders the moves from the root to the node at path as notation text.
type LineRenderer func(root *TreeNode, path Path) string

// sideToMove reads the active color field of a FEN.
func sideToMove(fen string) Color {
	fields := strings.Fields(fen)
	if len(fields) > 1 && fields[1] == "b" {
		return Black
	}
	return White
}
