package wfnet

import "go.uber.org/zap"

// Activated reports whether t has at least one predecessor and all of its predecessors are marked.
func (n *Net) Activated(t *Transition) bool {
	if len(t.pre) == 0 {
		return false
	}
	for _, i := range t.pre {
		if !n.places[i].marked {
			return false
		}
	}
	return true
}

// Contact reports whether t is activated and firing it would mark an already marked successor. A successor that is
// also a predecessor of t does not count, since firing leaves it marked anyway.
func (n *Net) Contact(t *Transition) bool {
	if !n.Activated(t) {
		return false
	}
	return n.contact(t)
}

func (n *Net) contact(t *Transition) bool {
	for _, i := range t.post {
		p := n.places[i]
		if p.marked && !hasIndex(p.post, t.idx) {
			return true
		}
	}
	return false
}

// CanFire reports whether t is activated and has no contact.
func (n *Net) CanFire(t *Transition) bool {
	return n.Activated(t) && !n.contact(t)
}

// Enabled returns the transitions that can fire, sorted by identifier.
func (n *Net) Enabled() []*Transition {
	var ret []*Transition
	for _, t := range n.Transitions() {
		if n.CanFire(t) {
			ret = append(ret, t)
		}
	}
	return ret
}

// Fire unmarks every predecessor of t and then marks every successor. It does nothing and returns false unless t
// can fire.
func (n *Net) Fire(t *Transition) bool {
	if !n.CanFire(t) {
		return false
	}
	for _, i := range t.pre {
		n.places[i].marked = false
	}
	for _, i := range t.post {
		n.places[i].marked = true
	}
	n.logger.Debug("fired", zap.String("transition", t.id))
	return true
}

// SetInitialMarking marks only the start place. If the net is not a workflow net every mark is cleared instead and
// false is returned. Start, end and path coverage are recomputed first when stale.
func (n *Net) SetInitialMarking() bool {
	if !n.analyzed {
		n.Analyze()
	} else if !n.covered {
		n.PathCoverageHolds()
	}
	if n.start < 0 || n.end < 0 || !n.structure.PathPropertyHolds {
		n.VoidMarking()
		return false
	}
	n.VoidMarking()
	n.places[n.start].marked = true
	return true
}

// VoidMarking clears the mark of every place.
func (n *Net) VoidMarking() {
	for _, p := range n.places {
		if p != nil {
			p.marked = false
		}
	}
}

// Marking returns the identifiers of the marked places, sorted.
func (n *Net) Marking() []string {
	var ret []string
	for _, p := range n.Places() {
		if p.marked {
			ret = append(ret, p.id)
		}
	}
	return ret
}

// Finished reports whether the end place is marked.
func (n *Net) Finished() bool {
	end := n.EndPlace()
	return end != nil && end.marked
}

// Deadlocked reports whether no transition can fire. A finished net is never deadlocked.
func (n *Net) Deadlocked() bool {
	if n.Finished() {
		return false
	}
	for _, t := range n.transitions {
		if t != nil && n.CanFire(t) {
			return false
		}
	}
	return true
}

// State is a snapshot of the simulation predicates.
type State struct {
	Deadlocked bool
	Finished   bool
}

// State evaluates Finished and Deadlocked.
func (n *Net) State() State {
	return State{Deadlocked: n.Deadlocked(), Finished: n.Finished()}
}
