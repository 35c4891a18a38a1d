package domain

import (
	"errors"
	"log/slog"
	"time"
)

// DeleteMove removes the node at path (the current node when path is nil) together
// with its subtree. The root cannot be deleted.
func (s *Store) DeleteMove(path Path) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == nil {
		path = s.state.Position.Clone()
	}
	if len(path) == 0 || !ValidPath(s.state.Root, path) {
		return
	}
	parentPath := path.Parent()
	parent := Resolve(s.state.Root, parentPath)
	index := path[len(path)-1]
	parent.Children = append(parent.Children[:index], parent.Children[index+1:]...)

	pos := s.state.Position
	switch {
	case pos.HasPrefix(path):
		s.state.Position = parentPath
	case pos.HasPrefix(parentPath) && len(pos) >= len(path) && pos[len(path)-1] > index:
		// a sibling before the current line went away; keep pointing at the same node
		pos[len(path)-1]--
	}
	if len(s.state.Headers.Start) > 0 {
		s.state.Headers.Start = validPrefix(s.state.Root, s.state.Headers.Start)
	}
	s.changed(true)
}

// PromoteVariation makes the deepest variation on path the mainline at that
// level and moves the current position onto the promoted node.
func (s *Store) PromoteVariation(path Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promoteVariation(path)
}

// PromoteToMainline promotes every divergence on path until it lies on the mainline.
func (s *Store) PromoteToMainline(path Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path.lastNonZero() >= 0 {
		if !s.promoteVariation(path) {
			return
		}
		path = s.state.Position
	}
}

func (s *Store) promoteVariation(path Path) bool {
	if !ValidPath(s.state.Root, path) {
		return false
	}
	i := path.lastNonZero()
	if i < 0 {
		return false
	}
	v := path[i]
	node := Resolve(s.state.Root, path[:i])
	promoted := node.Children[v]
	rest := append(node.Children[:v:v], node.Children[v+1:]...)
	node.Children = append([]*TreeNode{promoted}, rest...)

	p := path.Clone()
	p[i] = 0
	s.state.Position = p
	s.changed(true)
	return true
}

var ErrNoClipboard = errors.New("domain: no clipboard configured")

// CopyVariationPGN renders the line from the root to path and writes it to the clipboard.
func (s *Store) CopyVariationPGN(path Path) error {
	s.mu.Lock()
	if s.clipboard == nil || s.renderLine == nil {
		s.mu.Unlock()
		return ErrNoClipboard
	}
	if path == nil {
		path = s.state.Position.Clone()
	}
	if !ValidPath(s.state.Root, path) {
		s.mu.Unlock()
		return nil
	}
	text := s.renderLine(s.state.Root, path)
	s.mu.Unlock()

	return s.clipboard.WriteText(text)
}

// SetAnnotation toggles a on the current node. Setting a basic symbol replaces
// the previous one; setting the same symbol again clears it.
func (s *Store) SetAnnotation(a Annotation) {
	if !a.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.state.Current()
	if node.Move == nil {
		return
	}
	node.Annotations.Toggle(a)
	s.changed(true)
}

func (s *Store) SetComment(comment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.state.Current()
	if node.Comment == comment {
		return
	}
	node.Comment = comment
	s.changed(true)
}

func (s *Store) SetClock(clock *time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Current().Clock = clock
	s.changed(true)
}

// SetShapes edits the drawings of the current node. With no shapes it clears them;
// otherwise the first shape toggles: the same arrow with the same brush is removed,
// a different brush recolors it, and a new arrow is added.
func (s *Store) SetShapes(shapes []Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.state.Current()
	if len(shapes) == 0 {
		node.Shapes = nil
		s.changed(true)
		return
	}
	shape := shapes[0]
	for i, existing := range node.Shapes {
		if existing.Orig != shape.Orig || existing.Dest != shape.Dest {
			continue
		}
		if existing.Brush == shape.Brush {
			node.Shapes = append(node.Shapes[:i], node.Shapes[i+1:]...)
		} else {
			node.Shapes[i] = shape
		}
		s.changed(true)
		return
	}
	node.Shapes = append(node.Shapes, shape)
	s.changed(true)
}

func (s *Store) ClearShapes() { s.SetShapes(nil) }

// SetScore records a live evaluation on the current node. It is transient: the
// dirty flag and the persisted version are left alone.
func (s *Store) SetScore(score Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc := score
	s.state.Current().Score = &sc
}

func (s *Store) SetResult(result Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Headers.Result == result {
		return
	}
	s.state.Headers.Result = result
	s.changed(true)
}

// SetHeaders replaces the game headers. A new FEN rebuilds the tree from that
// position; an invalid FEN leaves everything unchanged.
func (s *Store) SetHeaders(h GameHeaders) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.FEN == "" {
		h.FEN = s.state.Root.FEN
	}
	if h.FEN != s.state.Root.FEN {
		if _, err := s.oracle.Status(h.FEN); err != nil {
			s.logger.Debug("headers rejected", slog.String("fen", h.FEN), slog.String("error", err.Error()))
			return
		}
		s.state.Root = DefaultTree(h.FEN).Root
		s.state.Position = Path{}
	}
	s.state.Headers = h.clone()
	if !ValidPath(s.state.Root, s.state.Headers.Start) {
		s.state.Headers.Start = nil
	}
	s.changed(true)
}

// SetFen discards the tree and starts a new one at fen.
func (s *Store) SetFen(fen string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.oracle.Status(fen); err != nil {
		s.logger.Debug("fen rejected", slog.String("fen", fen), slog.String("error", err.Error()))
		return
	}
	s.state.Root = DefaultTree(fen).Root
	s.state.Position = Path{}
	s.state.Headers.FEN = fen
	s.state.Headers.Start = nil
	s.changed(true)
}

// SetStart records path as the position GoToStart returns to.
func (s *Store) SetStart(path Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ValidPath(s.state.Root, path) {
		return
	}
	s.state.Headers.Start = path.Clone()
	s.changed(true)
}

func (s *Store) SetReportInProgress(inProgress bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Report.InProgress = inProgress
	s.changed(false)
}

func (s *Store) SetReportProgress(progress float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Report.Progress = progress
}

func (s *Store) SetReportCompleted(completed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Report.IsCompleted = completed
	s.changed(false)
}
