package wfnet

// Place is a net node holding a mark. Its predecessors and successors are transitions.
type Place struct {
	node
	marked bool
}

func (p *Place) Kind() Kind { return PlaceKind }

// Marked reports whether the place currently holds a token.
func (p *Place) Marked() bool { return p.marked }

// Token returns the serialized form of the mark, "1" or "0".
func (p *Place) Token() string {
	if p.marked {
		return "1"
	}
	return "0"
}

// ParseToken reads a serialized mark. "0" is absent, anything else is present.
func ParseToken(token string) bool {
	return token != "0"
}

func newPlace(id string, idx int) *Place {
	return &Place{node: node{id: id, idx: idx}}
}
