package wfnet

// Arc is a connection from a place to a transition or from a transition to a place. Arcs only establish the pre and
// post sets of their endpoints.
type Arc struct {
	id         string
	idx        int
	place      int
	transition int
	// toPlace is true for arcs running from the transition to the place.
	toPlace bool
	source  string
	target  string
}

func (a *Arc) Identifier() string { return a.id }

func (a *Arc) Kind() Kind { return ArcKind }

// Source returns the identifier of the node the arc starts at.
func (a *Arc) Source() string { return a.source }

// Target returns the identifier of the node the arc ends at.
func (a *Arc) Target() string { return a.target }

// FromPlace reports whether the arc runs from a place to a transition.
func (a *Arc) FromPlace() bool { return !a.toPlace }

func (a *Arc) String() string {
	return a.source + " -> " + a.target
}
