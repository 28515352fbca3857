// Package wfnet models workflow nets: Petri nets with a single start place, a single end place and every node on a
// path between them. A Net holds places, transitions and the arcs between them, checks its own structure and plays
// the token game with at most one token per place.
package wfnet

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDuplicateID  = errors.New("identifier already in use")
	ErrInvalidArc   = errors.New("arc must connect a place and a transition")
	ErrDuplicateArc = errors.New("arc already exists")
	ErrUnknownID    = errors.New("unknown identifier")
	ErrNotPlace     = errors.New("not a place")

	ErrNotWorkflowNet = errors.New("not a workflow net")
)

type ref struct {
	kind Kind
	idx  int
}

// Net is a workflow net. It owns its places, transitions and arcs. Nodes and arcs live in arenas indexed by
// position; deleted slots stay nil so indices held in adjacency lists never move. Identifiers are unique across all
// three collections.
//
// A Net is not safe for concurrent use.
type Net struct {
	ID   string
	Name string

	places      []*Place
	transitions []*Transition
	arcs        []*Arc
	ids         map[string]ref

	// start and end are arena indices, -1 when unknown
	start     int
	end       int
	structure Structure
	// analyzed is cleared by every topology edit, covered also by ComputeStartAndEnd
	analyzed bool
	covered  bool

	logger *zap.Logger
}

// NewNet creates an empty net with a random ID.
func NewNet(name string) *Net {
	return &Net{
		ID:     uuid.New().String(),
		Name:   name,
		ids:    make(map[string]ref),
		start:  -1,
		end:    -1,
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger rejected edits are reported to.
func (n *Net) WithLogger(logger *zap.Logger) *Net {
	if logger == nil {
		logger = zap.NewNop()
	}
	n.logger = logger
	return n
}

// Logger returns the net's diagnostic logger.
func (n *Net) Logger() *zap.Logger { return n.logger }

func (n *Net) used(id string) bool {
	_, ok := n.ids[id]
	return ok
}

func (n *Net) nextID(prefix string) string {
	for i := 0; ; i++ {
		id := prefix + strconv.Itoa(i)
		if !n.used(id) {
			return id
		}
	}
}

func (n *Net) touch() {
	n.analyzed = false
	n.covered = false
}

// AddPlace inserts a place under the given identifier. If the identifier is already taken the net is left
// unchanged and ErrDuplicateID is returned.
func (n *Net) AddPlace(id string) (*Place, error) {
	if n.used(id) {
		n.logger.Warn("non-unique identifier, place skipped", zap.String("id", id))
		return nil, fmt.Errorf("place %s: %w", id, ErrDuplicateID)
	}
	p := newPlace(id, len(n.places))
	n.places = append(n.places, p)
	n.ids[id] = ref{kind: PlaceKind, idx: p.idx}
	n.touch()
	return p, nil
}

// AddTransition inserts a transition under the given identifier. If the identifier is already taken the net is
// left unchanged and ErrDuplicateID is returned.
func (n *Net) AddTransition(id string) (*Transition, error) {
	if n.used(id) {
		n.logger.Warn("non-unique identifier, transition skipped", zap.String("id", id))
		return nil, fmt.Errorf("transition %s: %w", id, ErrDuplicateID)
	}
	t := newTransition(id, len(n.transitions))
	n.transitions = append(n.transitions, t)
	n.ids[id] = ref{kind: TransitionKind, idx: t.idx}
	n.touch()
	return t, nil
}

// NewPlace inserts a place under the smallest free identifier of the form P<n>.
func (n *Net) NewPlace() *Place {
	p, _ := n.AddPlace(n.nextID("P"))
	return p
}

// NewTransition inserts a transition under the smallest free identifier of the form T<n>.
func (n *Net) NewTransition() *Transition {
	t, _ := n.AddTransition(n.nextID("T"))
	return t
}

// AddArc connects source to target. One endpoint must be a place and the other a transition, and no arc may
// already run from source to target; otherwise the net is left unchanged and an error is returned. An arc and its
// reverse may coexist.
func (n *Net) AddArc(id, source, target string) (*Arc, error) {
	if n.used(id) {
		n.logger.Warn("non-unique identifier, arc skipped", zap.String("id", id))
		return nil, fmt.Errorf("arc %s: %w", id, ErrDuplicateID)
	}
	src, srcOK := n.ids[source]
	dst, dstOK := n.ids[target]
	if !srcOK || !dstOK || src.kind == ArcKind || dst.kind == ArcKind || src.kind == dst.kind {
		n.logger.Warn("invalid arc",
			zap.String("id", id),
			zap.String("source", source),
			zap.String("target", target),
		)
		return nil, fmt.Errorf("arc %s from %s to %s: %w", id, source, target, ErrInvalidArc)
	}
	a := &Arc{
		id:      id,
		idx:     len(n.arcs),
		source:  source,
		target:  target,
		toPlace: src.kind == TransitionKind,
	}
	if a.toPlace {
		a.transition, a.place = src.idx, dst.idx
	} else {
		a.place, a.transition = src.idx, dst.idx
	}
	p := n.places[a.place]
	t := n.transitions[a.transition]
	if a.toPlace && hasIndex(t.post, p.idx) || !a.toPlace && hasIndex(p.post, t.idx) {
		n.logger.Warn("arc already exists, arc skipped",
			zap.String("id", id),
			zap.String("source", source),
			zap.String("target", target),
		)
		return nil, fmt.Errorf("arc %s from %s to %s: %w", id, source, target, ErrDuplicateArc)
	}
	if a.toPlace {
		t.post = addIndex(t.post, p.idx)
		p.pre = addIndex(p.pre, t.idx)
	} else {
		p.post = addIndex(p.post, t.idx)
		t.pre = addIndex(t.pre, p.idx)
	}
	n.arcs = append(n.arcs, a)
	n.ids[id] = ref{kind: ArcKind, idx: a.idx}
	n.touch()
	return a, nil
}

// Connect adds an arc from source to target under the smallest free identifier of the form K<n>.
func (n *Net) Connect(source, target Node) (*Arc, error) {
	return n.AddArc(n.nextID("K"), source.Identifier(), target.Identifier())
}

// RemoveArc removes a live arc and repairs the adjacency of its endpoints, then re-checks path coverage.
func (n *Net) RemoveArc(a *Arc) {
	n.unlink(a)
	n.PathCoverageHolds()
}

func (n *Net) unlink(a *Arc) {
	p := n.places[a.place]
	t := n.transitions[a.transition]
	if a.toPlace {
		t.post = removeIndex(t.post, p.idx)
		p.pre = removeIndex(p.pre, t.idx)
	} else {
		p.post = removeIndex(p.post, t.idx)
		t.pre = removeIndex(t.pre, p.idx)
	}
	n.arcs[a.idx] = nil
	delete(n.ids, a.id)
	n.touch()
}

// RemoveNode removes a live place or transition together with every arc touching it, then re-checks path coverage.
func (n *Net) RemoveNode(nd Node) {
	switch v := nd.(type) {
	case *Place:
		for _, a := range n.arcs {
			if a != nil && a.place == v.idx {
				n.unlink(a)
			}
		}
		n.places[v.idx] = nil
		if n.start == v.idx {
			n.start = -1
		}
		if n.end == v.idx {
			n.end = -1
		}
	case *Transition:
		for _, a := range n.arcs {
			if a != nil && a.transition == v.idx {
				n.unlink(a)
			}
		}
		n.transitions[v.idx] = nil
	}
	delete(n.ids, nd.Identifier())
	n.touch()
	n.PathCoverageHolds()
}

// ArcExists reports whether an arc runs from source to target.
func (n *Net) ArcExists(source, target Node) bool {
	return n.FindArc(source, target) != nil
}

// FindArc returns the arc running from source to target, or nil.
func (n *Net) FindArc(source, target Node) *Arc {
	for _, a := range n.arcs {
		if a != nil && a.source == source.Identifier() && a.target == target.Identifier() {
			return a
		}
	}
	return nil
}

// Place returns the place with the given identifier, or nil.
func (n *Net) Place(id string) *Place {
	r, ok := n.ids[id]
	if !ok || r.kind != PlaceKind {
		return nil
	}
	return n.places[r.idx]
}

// Transition returns the transition with the given identifier, or nil.
func (n *Net) Transition(id string) *Transition {
	r, ok := n.ids[id]
	if !ok || r.kind != TransitionKind {
		return nil
	}
	return n.transitions[r.idx]
}

// Arc returns the arc with the given identifier, or nil.
func (n *Net) Arc(id string) *Arc {
	r, ok := n.ids[id]
	if !ok || r.kind != ArcKind {
		return nil
	}
	return n.arcs[r.idx]
}

// Node returns the place or transition with the given identifier, or nil.
func (n *Net) Node(id string) Node {
	r, ok := n.ids[id]
	if !ok {
		return nil
	}
	switch r.kind {
	case PlaceKind:
		return n.places[r.idx]
	case TransitionKind:
		return n.transitions[r.idx]
	}
	return nil
}

// Endpoints returns the source and target nodes of a live arc.
func (n *Net) Endpoints(a *Arc) (source, target Node) {
	p, t := n.places[a.place], n.transitions[a.transition]
	if a.toPlace {
		return t, p
	}
	return p, t
}

func byID[T interface{ Identifier() string }](a, b T) int {
	return strings.Compare(a.Identifier(), b.Identifier())
}

func live[T any](s []*T) []*T {
	ret := make([]*T, 0, len(s))
	for _, v := range s {
		if v != nil {
			ret = append(ret, v)
		}
	}
	return ret
}

// Places returns all places sorted by identifier.
func (n *Net) Places() []*Place {
	ret := live(n.places)
	slices.SortFunc(ret, byID[*Place])
	return ret
}

// Transitions returns all transitions sorted by identifier.
func (n *Net) Transitions() []*Transition {
	ret := live(n.transitions)
	slices.SortFunc(ret, byID[*Transition])
	return ret
}

// Arcs returns all arcs sorted by identifier.
func (n *Net) Arcs() []*Arc {
	ret := live(n.arcs)
	slices.SortFunc(ret, byID[*Arc])
	return ret
}

// Inputs returns the predecessors of a node sorted by identifier.
func (n *Net) Inputs(nd Node) []Node {
	switch v := nd.(type) {
	case *Place:
		return n.transitionNodes(v.pre)
	case *Transition:
		return n.placeNodes(v.pre)
	}
	return nil
}

// Outputs returns the successors of a node sorted by identifier.
func (n *Net) Outputs(nd Node) []Node {
	switch v := nd.(type) {
	case *Place:
		return n.transitionNodes(v.post)
	case *Transition:
		return n.placeNodes(v.post)
	}
	return nil
}

func (n *Net) placeNodes(idx []int) []Node {
	ret := make([]Node, len(idx))
	for i, j := range idx {
		ret[i] = n.places[j]
	}
	slices.SortFunc(ret, byID[Node])
	return ret
}

func (n *Net) transitionNodes(idx []int) []Node {
	ret := make([]Node, len(idx))
	for i, j := range idx {
		ret[i] = n.transitions[j]
	}
	slices.SortFunc(ret, byID[Node])
	return ret
}

// SetPosition sets the display coordinates of a node.
func (n *Net) SetPosition(id string, x, y int) error {
	nd := n.node(id)
	if nd == nil {
		n.logger.Warn("set position called with unknown identifier", zap.String("id", id))
		return fmt.Errorf("set position of %s: %w", id, ErrUnknownID)
	}
	nd.x, nd.y = x, y
	return nil
}

// SetName sets the display name of a node.
func (n *Net) SetName(id, name string) error {
	nd := n.node(id)
	if nd == nil {
		n.logger.Warn("set name called with unknown identifier", zap.String("id", id))
		return fmt.Errorf("set name of %s: %w", id, ErrUnknownID)
	}
	nd.name = name
	return nil
}

// SetMarking sets the mark of a place from its serialized form; see ParseToken.
func (n *Net) SetMarking(id, token string) error {
	return n.SetMarked(id, ParseToken(token))
}

// SetMarked marks or unmarks a place.
func (n *Net) SetMarked(id string, marked bool) error {
	r, ok := n.ids[id]
	if !ok {
		n.logger.Warn("set marking called with unknown identifier", zap.String("id", id))
		return fmt.Errorf("set marking of %s: %w", id, ErrUnknownID)
	}
	if r.kind != PlaceKind {
		n.logger.Warn("set marking called on a non-place", zap.String("id", id), zap.Stringer("kind", r.kind))
		return fmt.Errorf("set marking of %s: %w", id, ErrNotPlace)
	}
	n.places[r.idx].marked = marked
	return nil
}

func (n *Net) node(id string) *node {
	r, ok := n.ids[id]
	if !ok {
		return nil
	}
	switch r.kind {
	case PlaceKind:
		return &n.places[r.idx].node
	case TransitionKind:
		return &n.transitions[r.idx].node
	}
	return nil
}

// Clone returns a deep copy of the net sharing only the logger.
func (n *Net) Clone() *Net {
	c := &Net{
		ID:          n.ID,
		Name:        n.Name,
		places:      make([]*Place, len(n.places)),
		transitions: make([]*Transition, len(n.transitions)),
		arcs:        make([]*Arc, len(n.arcs)),
		ids:         make(map[string]ref, len(n.ids)),
		start:       n.start,
		end:         n.end,
		structure:   n.structure,
		analyzed:    n.analyzed,
		covered:     n.covered,
		logger:      n.logger,
	}
	for i, p := range n.places {
		if p != nil {
			c.places[i] = &Place{node: p.node.clone(), marked: p.marked}
		}
	}
	for i, t := range n.transitions {
		if t != nil {
			c.transitions[i] = &Transition{node: t.node.clone()}
		}
	}
	for i, a := range n.arcs {
		if a != nil {
			cp := *a
			c.arcs[i] = &cp
		}
	}
	for k, v := range n.ids {
		c.ids[k] = v
	}
	return c
}
