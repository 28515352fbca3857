package wfnet

import "go.uber.org/zap"

// Structure is the outcome of the last structural analysis.
type Structure struct {
	StartExists       bool
	EndExists         bool
	StartMoreThanOne  bool
	EndMoreThanOne    bool
	PathPropertyHolds bool
}

// WorkflowNet reports whether the net has a single start, a single end and every node on a path between them.
func (s Structure) WorkflowNet() bool {
	return s.StartExists && s.EndExists && !s.StartMoreThanOne && !s.EndMoreThanOne && s.PathPropertyHolds
}

// Structure returns the flags computed by the last call to ComputeStartAndEnd and PathCoverageHolds.
func (n *Net) Structure() Structure {
	return n.structure
}

// Analyze recomputes start and end and the path coverage property.
func (n *Net) Analyze() Structure {
	n.ComputeStartAndEnd()
	n.PathCoverageHolds()
	return n.structure
}

// StartPlace returns the start place found by the last analysis, or nil if there is none or the net has been
// edited since.
func (n *Net) StartPlace() *Place {
	if !n.analyzed || n.start < 0 {
		return nil
	}
	return n.places[n.start]
}

// EndPlace returns the end place found by the last analysis, or nil if there is none or the net has been edited
// since.
func (n *Net) EndPlace() *Place {
	if !n.analyzed || n.end < 0 {
		return nil
	}
	return n.places[n.end]
}

// ComputeStartAndEnd looks for the unique place without predecessors and the unique place without successors. It
// reports whether exactly one of each exists and they differ; on failure neither is cached.
func (n *Net) ComputeStartAndEnd() bool {
	s := &n.structure
	*s = Structure{}
	n.start, n.end = -1, -1
	n.analyzed = true
	n.covered = false
	for _, p := range n.Places() {
		if len(p.pre) == 0 {
			if n.start < 0 {
				n.start = p.idx
				s.StartExists = true
			} else {
				s.StartMoreThanOne = true
			}
		}
		if len(p.post) == 0 {
			if n.end < 0 {
				n.end = p.idx
				s.EndExists = true
			} else {
				s.EndMoreThanOne = true
			}
		}
	}
	if n.start < 0 || n.end < 0 || n.start == n.end || s.StartMoreThanOne || s.EndMoreThanOne {
		n.logger.Debug("no valid start and end",
			zap.Bool("startExists", s.StartExists),
			zap.Bool("endExists", s.EndExists),
			zap.Bool("startMoreThanOne", s.StartMoreThanOne),
			zap.Bool("endMoreThanOne", s.EndMoreThanOne),
		)
		n.start, n.end = -1, -1
		return false
	}
	return true
}

// PathCoverageHolds reports whether every place and transition is reachable from the start place and can reach the
// end place. Start and end are recomputed first if the net changed since the last analysis.
func (n *Net) PathCoverageHolds() bool {
	if !n.analyzed {
		n.ComputeStartAndEnd()
	}
	n.covered = true
	if n.start < 0 || n.end < 0 {
		n.structure.PathPropertyHolds = false
		return false
	}
	n.walk(n.places[n.start], true)
	n.walk(n.places[n.end], false)

	holds := true
	for _, p := range n.places {
		if p == nil {
			continue
		}
		if !p.fromStart || !p.fromEnd {
			holds = false
		}
		p.fromStart, p.fromEnd = false, false
	}
	for _, t := range n.transitions {
		if t == nil {
			continue
		}
		if !t.fromStart || !t.fromEnd {
			holds = false
		}
		t.fromStart, t.fromEnd = false, false
	}
	n.structure.PathPropertyHolds = holds
	return holds
}

// walk marks everything reachable from p, along the arcs when forward is set and against them otherwise. A node
// already marked in that direction is not visited again.
func (n *Net) walk(p *Place, forward bool) {
	type item struct {
		kind Kind
		idx  int
	}
	visit := func(nd *node) bool {
		if forward {
			if nd.fromStart {
				return false
			}
			nd.fromStart = true
			return true
		}
		if nd.fromEnd {
			return false
		}
		nd.fromEnd = true
		return true
	}
	next := func(nd *node) []int {
		if forward {
			return nd.post
		}
		return nd.pre
	}

	visit(&p.node)
	stack := []item{{kind: PlaceKind, idx: p.idx}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.kind == PlaceKind {
			for _, i := range next(&n.places[it.idx].node) {
				if visit(&n.transitions[i].node) {
					stack = append(stack, item{kind: TransitionKind, idx: i})
				}
			}
			continue
		}
		for _, i := range next(&n.transitions[it.idx].node) {
			if visit(&n.places[i].node) {
				stack = append(stack, item{kind: PlaceKind, idx: i})
			}
		}
	}
}
