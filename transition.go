package wfnet

// Transition is a net node whose predecessors and successors are places. Its activation and contact status are
// derived from the marks of those places; see Net.Activated and Net.Contact.
type Transition struct {
	node
}

func (t *Transition) Kind() Kind { return TransitionKind }

func newTransition(id string, idx int) *Transition {
	return &Transition{node: node{id: id, idx: idx}}
}
