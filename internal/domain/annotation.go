package domain

import (
	"fmt"
	"slices"
)

type Annotation string

// Basic (move quality) symbols. A node holds at most one.
const (
	Brilliant   Annotation = "!!"
	Good        Annotation = "!"
	Interesting Annotation = "!?"
	Dubious     Annotation = "?!"
	Mistake     Annotation = "?"
	Blunder     Annotation = "??"
)

// Markers toggle independently of the basic symbol.
const (
	Novelty     Annotation = "N"
	OnlyMove    Annotation = "□"
	WithIdea    Annotation = "∆"
	Counterplay Annotation = "⇆"
	Zugzwang    Annotation = "⨀"
)

var basicAnnotations = []Annotation{Brilliant, Good, Interesting, Dubious, Mistake, Blunder}

var markerAnnotations = []Annotation{Novelty, OnlyMove, WithIdea, Counterplay, Zugzwang}

func (a Annotation) IsBasic() bool  { return slices.Contains(basicAnnotations, a) }
func (a Annotation) IsMarker() bool { return slices.Contains(markerAnnotations, a) }
func (a Annotation) Valid() bool    { return a.IsBasic() || a.IsMarker() }

// IsNegative reports whether a is one of the three worst grades.
func (a Annotation) IsNegative() bool {
	return a == Dubious || a == Mistake || a == Blunder
}

func ParseAnnotation(s string) (Annotation, error) {
	a := Annotation(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown annotation %q", s)
	}
	return a, nil
}

// Annotations is the per-node annotation state: one basic slot plus a marker set.
type Annotations struct {
	Basic   Annotation   `json:"basic,omitempty"`
	Markers []Annotation `json:"markers,omitempty"`
}

func (as Annotations) Has(a Annotation) bool {
	if a.IsBasic() {
		return as.Basic == a
	}
	return slices.Contains(as.Markers, a)
}

// Add sets a basic symbol (replacing the previous one) or adds a marker.
func (as *Annotations) Add(a Annotation) {
	switch {
	case a.IsBasic():
		as.Basic = a
	case a.IsMarker():
		if !slices.Contains(as.Markers, a) {
			as.Markers = append(as.Markers, a)
			slices.SortFunc(as.Markers, markerOrder)
		}
	}
}

func (as *Annotations) Remove(a Annotation) {
	if a.IsBasic() {
		if as.Basic == a {
			as.Basic = ""
		}
		return
	}
	as.Markers = slices.DeleteFunc(as.Markers, func(m Annotation) bool { return m == a })
	if len(as.Markers) == 0 {
		as.Markers = nil
	}
}

func (as *Annotations) Toggle(a Annotation) {
	if as.Has(a) {
		as.Remove(a)
		return
	}
	as.Add(a)
}

// List returns the basic symbol first, then markers in canonical order.
func (as Annotations) List() []Annotation {
	out := make([]Annotation, 0, 1+len(as.Markers))
	if as.Basic != "" {
		out = append(out, as.Basic)
	}
	return append(out, as.Markers...)
}

func (as Annotations) Empty() bool { return as.Basic == "" && len(as.Markers) == 0 }

func (as Annotations) clone() Annotations {
	return Annotations{Basic: as.Basic, Markers: slices.Clone(as.Markers)}
}

func markerOrder(a, b Annotation) int {
	return slices.Index(markerAnnotations, a) - slices.Index(markerAnnotations, b)
}
