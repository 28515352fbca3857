package wfnet

import "testing"

func flagsClear(n *Net) bool {
	for _, p := range n.places {
		if p != nil && (p.fromStart || p.fromEnd) {
			return false
		}
	}
	for _, t := range n.transitions {
		if t != nil && (t.fromStart || t.fromEnd) {
			return false
		}
	}
	return true
}

func TestPathCoverageResetsFlags(t *testing.T) {
	n := NewNet("flags")
	p0, p1, p2 := n.NewPlace(), n.NewPlace(), n.NewPlace()
	t0 := n.NewTransition()
	if _, err := n.Connect(p0, t0); err != nil {
		t.Fatal(err)
	}
	if _, err := n.Connect(t0, p1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if n.PathCoverageHolds() {
			t.Errorf("call %d: isolated P2 should break coverage", i)
		}
		if !flagsClear(n) {
			t.Errorf("call %d: flags left set", i)
		}
	}
	n.RemoveNode(p2)
	for i := 0; i < 2; i++ {
		if !n.PathCoverageHolds() {
			t.Errorf("call %d: coverage should hold", i)
		}
		if !flagsClear(n) {
			t.Errorf("call %d: flags left set", i)
		}
	}
}

func TestArenaIndicesStable(t *testing.T) {
	n := NewNet("arena")
	a, b := n.NewPlace(), n.NewPlace()
	n.RemoveNode(a)
	c := n.NewPlace()
	if c.Identifier() != "P0" {
		t.Errorf("expected freed identifier P0, got %s", c.Identifier())
	}
	if n.places[b.idx] != b || n.places[c.idx] != c {
		t.Errorf("arena slots moved")
	}
	if n.places[a.idx] != nil {
		t.Errorf("removed slot should be nil")
	}
}
