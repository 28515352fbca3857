package wfnet

import (
	"context"
	"io"
)

// Kind tells places, transitions and arcs apart.
type Kind int

const (
	PlaceKind Kind = iota
	TransitionKind
	ArcKind
)

func (k Kind) String() string {
	switch k {
	case PlaceKind:
		return "place"
	case TransitionKind:
		return "transition"
	case ArcKind:
		return "arc"
	}
	return "unknown"
}

// Node is a place or a transition. The set of implementations is closed: only *Place and *Transition satisfy it.
type Node interface {
	Identifier() string
	Kind() Kind
	String() string
	isNode()
}

var (
	_ Node = (*Place)(nil)
	_ Node = (*Transition)(nil)
)

// node holds what places and transitions have in common. pre and post are arena indices into the opposite kind's
// collection of the owning Net.
type node struct {
	id   string
	idx  int
	name string
	x, y int
	pre  []int
	post []int
	// reachability flags, only ever true while a path coverage check is running
	fromStart bool
	fromEnd   bool
}

func (n *node) Identifier() string { return n.id }

// Name returns the display name, which may be empty.
func (n *node) Name() string { return n.name }

// Position returns the display coordinates.
func (n *node) Position() (x, y int) { return n.x, n.y }

// String returns the display name, or the identifier when no name is set.
func (n *node) String() string {
	if n.name == "" {
		return n.id
	}
	return n.name
}

func (n *node) isNode() {}

func (n *node) clone() node {
	c := *n
	c.pre = append([]int(nil), n.pre...)
	c.post = append([]int(nil), n.post...)
	return c
}

func addIndex(s []int, i int) []int {
	for _, v := range s {
		if v == i {
			return s
		}
	}
	return append(s, i)
}

func removeIndex(s []int, i int) []int {
	for j, v := range s {
		if v == i {
			return append(s[:j], s[j+1:]...)
		}
	}
	return s
}

func hasIndex(s []int, i int) bool {
	for _, v := range s {
		if v == i {
			return true
		}
	}
	return false
}

// Loader reads a T from a serialized description.
type Loader[T any] interface {
	Load(ctx context.Context, r io.Reader) (T, error)
}

// Flusher writes a T out in a serialized form.
type Flusher[T any] interface {
	Flush(ctx context.Context, w io.Writer, t T) error
}

// Builder is the element-at-a-time contract net file readers populate a net through. *Net implements it.
type Builder interface {
	AddPlace(id string) (*Place, error)
	AddTransition(id string) (*Transition, error)
	AddArc(id, source, target string) (*Arc, error)
	SetPosition(id string, x, y int) error
	SetName(id, name string) error
	SetMarking(id, token string) error
}

var _ Builder = (*Net)(nil)
