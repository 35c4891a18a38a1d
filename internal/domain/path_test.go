package domain

import "testing"

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{"", Path{}},
		{"0", Path{0}},
		{"0.1.0", Path{0, 1, 0}},
		{" 2.10 ", Path{2, 10}},
	}
	for _, tt := range tests {
		got, err := ParsePath(tt.in)
		if err != nil {
			t.Fatalf("ParsePath(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("ParsePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, in := range []string{"a", "0..1", "-1", "1.", ".1", "0,1"} {
		if _, err := ParsePath(in); err == nil {
			t.Fatalf("ParsePath(%q): expected error, got nil", in)
		}
	}
}

func TestPath_StringRoundTrip(t *testing.T) {
	p := Path{0, 1, 0, 3}
	if p.String() != "0.1.0.3" {
		t.Fatalf("String() = %q", p.String())
	}
	back, err := ParsePath(p.String())
	if err != nil || !back.Equal(p) {
		t.Fatalf("ParsePath(String()) = %v, %v", back, err)
	}
}

func TestPath_HasPrefix(t *testing.T) {
	p := Path{0, 1, 2}
	if !p.HasPrefix(Path{}) || !p.HasPrefix(Path{0, 1}) || !p.HasPrefix(p) {
		t.Fatalf("expected prefixes of %v", p)
	}
	if p.HasPrefix(Path{0, 2}) || p.HasPrefix(Path{0, 1, 2, 0}) {
		t.Fatalf("unexpected prefix of %v", p)
	}
}

func TestPath_ParentDoesNotAlias(t *testing.T) {
	p := Path{0, 1, 2}
	parent := p.Parent()
	parent[0] = 9
	if p[0] != 0 {
		t.Fatalf("Parent aliases the original path")
	}
	if len(Path{}.Parent()) != 0 {
		t.Fatalf("parent of the root must be the root")
	}
}

func TestPath_LastNonZero(t *testing.T) {
	if got := (Path{0, 0}).lastNonZero(); got != -1 {
		t.Fatalf("lastNonZero = %d, want -1", got)
	}
	if got := (Path{0, 2, 0, 1, 0}).lastNonZero(); got != 3 {
		t.Fatalf("lastNonZero = %d, want 3", got)
	}
}

// 本筋 e4 e5、e4 の変化 c5
func sampleTree() *TreeNode {
	return &TreeNode{
		FEN: StartFEN,
		Children: []*TreeNode{{
			SAN: "e4",
			Children: []*TreeNode{
				{SAN: "e5", Children: []*TreeNode{{SAN: "Nf3"}}},
				{SAN: "c5"},
			},
		}},
	}
}

func TestValidPathAndResolve(t *testing.T) {
	root := sampleTree()
	if !ValidPath(root, Path{}) || !ValidPath(root, Path{0, 1}) || !ValidPath(root, Path{0, 0, 0}) {
		t.Fatalf("expected valid paths")
	}
	for _, p := range []Path{{1}, {0, 2}, {0, 1, 0}, {-1}} {
		if ValidPath(root, p) {
			t.Fatalf("ValidPath(%v) = true", p)
		}
	}
	if got := Resolve(root, Path{0, 1}).SAN; got != "c5" {
		t.Fatalf("Resolve = %q, want c5", got)
	}
}

func TestLineAndMainlineEnd(t *testing.T) {
	root := sampleTree()
	line := Line(root, Path{0, 0, 0})
	if len(line) != 4 || line[0] != root || line[3].SAN != "Nf3" {
		t.Fatalf("unexpected line %v", line)
	}
	if end := MainlineEnd(root); !end.Equal(Path{0, 0, 0}) {
		t.Fatalf("MainlineEnd = %v", end)
	}
	if end := branchEnd(root, Path{0, 1}); !end.Equal(Path{0, 1}) {
		t.Fatalf("branchEnd = %v", end)
	}
}

func TestTreeNode_CloneIsDeep(t *testing.T) {
	root := sampleTree()
	c := root.Clone()
	c.Children[0].Children[1].SAN = "d5"
	c.Children[0].Annotations.Add(Novelty)
	if root.Children[0].Children[1].SAN != "c5" || !root.Children[0].Annotations.Empty() {
		t.Fatalf("Clone shares nodes with the original")
	}
	if root.Size() != 5 {
		t.Fatalf("Size = %d, want 5", root.Size())
	}
}

func TestStartingPly(t *testing.T) {
	if got := startingPly(StartFEN); got != 0 {
		t.Fatalf("startingPly(start) = %d", got)
	}
	if got := startingPly("8/8/4k3/8/8/4K3/5R2/8 b - - 0 40"); got != 79 {
		t.Fatalf("startingPly = %d, want 79", got)
	}
	if got := halfmoveClock("8/8/4k3/8/8/4K3/5R2/8 b - - 37 40"); got != 37 {
		t.Fatalf("halfmoveClock = %d, want 37", got)
	}
}
