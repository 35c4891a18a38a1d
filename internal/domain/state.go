package domain

import (
	"fmt"
	"slices"
	"time"
)

type ScoreType string

const (
	ScoreCP   ScoreType = "cp"
	ScoreMate ScoreType = "mate"
)

// Score is an engine evaluation from White's point of view.
type Score struct {
	Type  ScoreType `json:"type"`
	Value int       `json:"value"`
}

func CP(v int) Score   { return Score{Type: ScoreCP, Value: v} }
func Mate(n int) Score { return Score{Type: ScoreMate, Value: n} }

func (s Score) String() string {
	if s.Type == ScoreMate {
		return fmt.Sprintf("#%d", s.Value)
	}
	return fmt.Sprintf("%+.2f", float64(s.Value)/100)
}

// Shape is a drawn arrow (Orig != Dest) or a highlighted square (Orig == Dest).
type Shape struct {
	Orig  string `json:"orig"`
	Dest  string `json:"dest,omitempty"`
	Brush string `json:"brush"`
}

// TreeNode is one ply of the game tree. Children[0] is the mainline continuation.
type TreeNode struct {
	FEN         string         `json:"fen"`
	Move        *Move          `json:"move,omitempty"`
	SAN         string         `json:"san,omitempty"`
	HalfMoves   int            `json:"halfMoves"`
	Children    []*TreeNode    `json:"children,omitempty"`
	Annotations Annotations    `json:"annotations"`
	Comment     string         `json:"comment,omitempty"`
	Shapes      []Shape        `json:"shapes,omitempty"`
	Clock       *time.Duration `json:"clock,omitempty"`
	Score       *Score         `json:"score,omitempty"`
}

// Mover is the side that played this node's move.
func (n *TreeNode) Mover() Color {
	return sideToMove(n.FEN).Other()
}

func (n *TreeNode) childIndex(san string) int {
	return slices.IndexFunc(n.Children, func(c *TreeNode) bool { return c.SAN == san })
}

// Clone deep-copies the subtree rooted at n.
func (n *TreeNode) Clone() *TreeNode {
	if n == nil {
		return nil
	}
	c := *n
	if n.Move != nil {
		m := *n.Move
		c.Move = &m
	}
	if n.Clock != nil {
		d := *n.Clock
		c.Clock = &d
	}
	if n.Score != nil {
		s := *n.Score
		c.Score = &s
	}
	c.Annotations = n.Annotations.clone()
	c.Shapes = slices.Clone(n.Shapes)
	c.Children = nil
	if len(n.Children) > 0 {
		c.Children = make([]*TreeNode, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return &c
}

// Size counts the nodes of the subtree rooted at n.
func (n *TreeNode) Size() int {
	total := 1
	for _, c := range n.Children {
		total += c.Size()
	}
	return total
}

type Outcome string

const (
	WhiteWins Outcome = "1-0"
	BlackWins Outcome = "0-1"
	Draw      Outcome = "1/2-1/2"
	Unknown   Outcome = "*"
)

type GameHeaders struct {
	Event       string  `json:"event,omitempty"`
	Site        string  `json:"site,omitempty"`
	Date        string  `json:"date,omitempty"`
	Round       string  `json:"round,omitempty"`
	White       string  `json:"white,omitempty"`
	Black       string  `json:"black,omitempty"`
	WhiteElo    int     `json:"whiteElo,omitempty"`
	BlackElo    int     `json:"blackElo,omitempty"`
	TimeControl string  `json:"timeControl,omitempty"`
	ECO         string  `json:"eco,omitempty"`
	Result      Outcome `json:"result"`
	FEN         string  `json:"fen"`
	Orientation Color   `json:"orientation"`
	Start       Path    `json:"start,omitempty"`
}

func (h GameHeaders) clone() GameHeaders {
	h.Start = h.Start.Clone()
	return h
}

// Report tracks the progress of an analysis run.
type Report struct {
	Progress    float64 `json:"progress"`
	IsCompleted bool    `json:"isCompleted"`
	InProgress  bool    `json:"inProgress"`
}

type TreeState struct {
	Root     *TreeNode   `json:"root"`
	Position Path        `json:"position"`
	Headers  GameHeaders `json:"headers"`
	Dirty    bool        `json:"dirty"`
	Report   Report      `json:"report"`
}

func (st *TreeState) Clone() *TreeState {
	return &TreeState{
		Root:     st.Root.Clone(),
		Position: st.Position.Clone(),
		Headers:  st.Headers.clone(),
		Dirty:    st.Dirty,
		Report:   st.Report,
	}
}

// Current resolves the node at Position.
func (st *TreeState) Current() *TreeNode {
	return Resolve(st.Root, st.Position)
}
