package domain

import "fmt"

// GoToNext follows the mainline child of the current node, if any.
func (s *Store) GoToNext(sound bool) {
	s.mu.Lock()
	node := s.state.Current()
	if len(node.Children) == 0 {
		s.mu.Unlock()
		return
	}
	s.state.Position = append(s.state.Position, 0)
	san := node.Children[0].SAN
	s.changed(false)
	s.mu.Unlock()

	if sound {
		s.playSound(san)
	}
}

func (s *Store) GoToPrevious() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.Position) == 0 {
		return
	}
	s.state.Position = s.state.Position.Parent()
	s.changed(false)
}

// GoToStart jumps to headers.start, or the root when none is recorded.
func (s *Store) GoToStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := s.state.Headers.Start
	if !ValidPath(s.state.Root, start) {
		start = Path{}
	}
	s.state.Position = start.Clone()
	s.changed(false)
}

func (s *Store) GoToEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Position = MainlineEnd(s.state.Root)
	s.changed(false)
}

// GoToMove jumps to path. An invalid path is a caller bug and panics.
func (s *Store) GoToMove(path Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ValidPath(s.state.Root, path) {
		panic(fmt.Sprintf("domain: GoToMove: invalid path %q", path.String()))
	}
	s.state.Position = path.Clone()
	s.changed(false)
}

// GoToBranchStart leaves the current variation and walks back to where it
// joined its parent line.
func (s *Store) GoToBranchStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.state.Position
	if len(p) > 0 && p[len(p)-1] != 0 {
		p = p[:len(p)-1]
	}
	for len(p) > 0 && p[len(p)-1] == 0 {
		p = p[:len(p)-1]
	}
	s.state.Position = p.Clone()
	s.changed(false)
}

func (s *Store) GoToBranchEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Position = branchEnd(s.state.Root, s.state.Position)
	s.changed(false)
}

func (s *Store) NextBranch()     { s.cycleBranch(1) }
func (s *Store) PreviousBranch() { s.cycleBranch(-1) }

// cycleBranch switches to the next/previous sibling at the current depth.
// When the current node is the only child but itself branches, the switch
// happens one level down instead.
func (s *Store) cycleBranch(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.state.Position.Clone()
	node := Resolve(s.state.Root, p)
	siblings := 1
	if len(p) > 0 {
		siblings = len(Resolve(s.state.Root, p.Parent()).Children)
	}
	if siblings <= 1 && len(node.Children) >= 2 {
		p = append(p, 0)
		siblings = len(node.Children)
	}
	if len(p) == 0 || siblings <= 1 {
		return
	}
	last := len(p) - 1
	p[last] = ((p[last]+step)%siblings + siblings) % siblings
	s.state.Position = p
	s.changed(false)
}

// NextBranching descends along the mainline to the next node that branches or ends.
func (s *Store) NextBranching() {
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.state.Current()
	if len(node.Children) == 0 {
		return
	}
	p := s.state.Position.Clone()
	for {
		p = append(p, 0)
		node = node.Children[0]
		if len(node.Children) != 1 {
			break
		}
	}
	s.state.Position = p
	s.changed(false)
}

// PreviousBranching climbs to the previous node that branches, or the root.
func (s *Store) PreviousBranching() {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.state.Position.Clone()
	if len(p) == 0 {
		return
	}
	for {
		p = p[:len(p)-1]
		if len(p) == 0 || len(Resolve(s.state.Root, p).Children) != 1 {
			break
		}
	}
	s.state.Position = p
	s.changed(false)
}

// GoToAnnotation moves forward (wrapping to the root) to the next node carrying a
// that was played by color. The search gives up, leaving the position unchanged,
// once every node of the tree could have been visited.
func (s *Store) GoToAnnotation(a Annotation, color Color) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.state.Position.Clone()
	node := Resolve(s.state.Root, p)
	limit := s.state.Root.Size() + len(p) + 1
	for i := 0; i < limit; i++ {
		if len(node.Children) == 0 {
			p = Path{}
			node = s.state.Root
		} else {
			p = append(p, 0)
			node = node.Children[0]
		}
		if node.Move != nil && node.Annotations.Has(a) && node.Mover() == color {
			s.state.Position = p
			s.changed(false)
			return
		}
	}
}
