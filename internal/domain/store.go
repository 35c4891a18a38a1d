package domain

import (
	"log/slog"
	"sync"
)

// Store owns one study tree (one tab). Every method runs atomically under the
// store's lock; readers get copies.
//
// Thread Safety: safe for concurrent use. Collaborator callbacks (sounds,
// clipboard) run after the lock is released.
type Store struct {
	mu sync.Mutex

	id      string
	state   *TreeState
	version uint64

	oracle          Oracle
	policy          Policy
	sounds          Sounder
	clipboard       Clipboard
	renderLine      LineRenderer
	suggestionPlies int
	logger          *slog.Logger
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithSounder(snd Sounder) Option {
	return func(s *Store) { s.sounds = snd }
}

func WithClipboard(c Clipboard) Option {
	return func(s *Store) { s.clipboard = c }
}

func WithLineRenderer(r LineRenderer) Option {
	return func(s *Store) { s.renderLine = r }
}

func WithPolicy(p Policy) Option {
	return func(s *Store) { s.policy = p }
}

// WithSuggestionPlies caps the length of variations inserted by AddAnalysis.
func WithSuggestionPlies(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.suggestionPlies = n
		}
	}
}

// WithFEN starts the tree at fen instead of the standard position.
func WithFEN(fen string) Option {
	return func(s *Store) { s.state = DefaultTree(fen) }
}

// WithState starts from a copy of st (e.g. a restored snapshot).
func WithState(st *TreeState) Option {
	return func(s *Store) {
		if st != nil && st.Root != nil {
			s.state = st.Clone()
			s.fixPosition()
		}
	}
}

const defaultSuggestionPlies = 5

func New(id string, oracle Oracle, opts ...Option) *Store {
	s := &Store{
		id:              id,
		state:           DefaultTree(StartFEN),
		oracle:          oracle,
		policy:          DefaultPolicy(),
		suggestionPlies: defaultSuggestionPlies,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("tab", id))
	return s
}

func (s *Store) ID() string { return s.id }

// State returns a deep copy of the whole tree state.
func (s *Store) State() *TreeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Current returns a copy of the current node and its subtree.
func (s *Store) Current() *TreeNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Current().Clone()
}

func (s *Store) Position() Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Position.Clone()
}

func (s *Store) Headers() GameHeaders {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Headers.clone()
}

func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Dirty
}

func (s *Store) Report() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Report
}

// Version increases whenever the snapshot worth persisting changes.
// Live score updates do not move it.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// LegalDestinations lists legal target squares per origin square for the current node.
func (s *Store) LegalDestinations() map[string][]string {
	s.mu.Lock()
	fen := s.state.Current().FEN
	s.mu.Unlock()
	dests, err := s.oracle.LegalDestinations(fen)
	if err != nil {
		s.logger.Debug("legal destinations unavailable", slog.String("fen", fen), slog.String("error", err.Error()))
		return nil
	}
	return dests
}

// SetState replaces the whole state with a copy of st.
func (s *Store) SetState(st *TreeState) {
	if st == nil || st.Root == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.Clone()
	s.fixPosition()
	s.version++
}

// Reset discards the tree and starts over from the standard position.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = DefaultTree(StartFEN)
	s.version++
}

// Save marks the study as written by the outer layer.
func (s *Store) Save() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Dirty {
		return
	}
	s.state.Dirty = false
	s.version++
}

// changed records a mutation. dirty is false for view-only changes such as navigation.
func (s *Store) changed(dirty bool) {
	if dirty {
		s.state.Dirty = true
	}
	s.version++
}

func (s *Store) fixPosition() {
	if !ValidPath(s.state.Root, s.state.Position) {
		s.state.Position = Path{}
	}
	if s.state.Position == nil {
		s.state.Position = Path{}
	}
}

func (s *Store) playSound(san string) {
	if s.sounds == nil || san == "" {
		return
	}
	s.sounds.PlayMove(SoundFor(san))
}
