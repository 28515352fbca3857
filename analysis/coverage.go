package analysis

import (
	"slices"

	"github.com/jt05610/wfnet"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// NodeCoverage tells where a single node stands with respect to the path property.
type NodeCoverage struct {
	ID        string
	Kind      wfnet.Kind
	FromStart bool
	ToEnd     bool
}

// Covered reports whether the node lies on a path from start to end.
func (c NodeCoverage) Covered() bool {
	return c.FromStart && c.ToEnd
}

// CoverageReport explains a path coverage result node by node.
type CoverageReport struct {
	Structure wfnet.Structure
	// Start and End are empty when the net has no unique start or end
	Start string
	End   string
	Nodes []NodeCoverage
	// Cycles lists the strongly connected components with more than one node
	Cycles [][]string
}

// Holds reports whether every node is covered. It agrees with Net.PathCoverageHolds.
func (r *CoverageReport) Holds() bool {
	if r.Start == "" || r.End == "" {
		return false
	}
	for _, c := range r.Nodes {
		if !c.Covered() {
			return false
		}
	}
	return true
}

// Offenders lists the identifiers of the nodes that are not on a path from start to end.
func (r *CoverageReport) Offenders() []string {
	var ret []string
	for _, c := range r.Nodes {
		if !c.Covered() {
			ret = append(ret, c.ID)
		}
	}
	return ret
}

// flow is a net seen as a plain directed graph. Places come first in the id space, then transitions.
type flow struct {
	nodes   []wfnet.Node
	index   map[string]int64
	forward *simple.DirectedGraph
	reverse *simple.DirectedGraph
}

func newFlow(n *wfnet.Net) *flow {
	f := &flow{
		index:   make(map[string]int64),
		forward: simple.NewDirectedGraph(),
		reverse: simple.NewDirectedGraph(),
	}
	for _, p := range n.Places() {
		f.add(p)
	}
	for _, t := range n.Transitions() {
		f.add(t)
	}
	for _, a := range n.Arcs() {
		u, v := f.index[a.Source()], f.index[a.Target()]
		f.forward.SetEdge(f.forward.NewEdge(simple.Node(u), simple.Node(v)))
		f.reverse.SetEdge(f.reverse.NewEdge(simple.Node(v), simple.Node(u)))
	}
	return f
}

func (f *flow) add(nd wfnet.Node) {
	id := int64(len(f.nodes))
	f.nodes = append(f.nodes, nd)
	f.index[nd.Identifier()] = id
	f.forward.AddNode(simple.Node(id))
	f.reverse.AddNode(simple.Node(id))
}

func reach(g *simple.DirectedGraph, from int64) map[int64]bool {
	seen := make(map[int64]bool)
	w := traverse.DepthFirst{
		Visit: func(n graph.Node) { seen[n.ID()] = true },
	}
	w.Walk(g, simple.Node(from), nil)
	return seen
}

// Coverage analyzes n and reports, for every place and transition, whether it is reachable from the start place
// and whether the end place is reachable from it.
func Coverage(n *wfnet.Net) *CoverageReport {
	r := &CoverageReport{Structure: n.Analyze()}
	f := newFlow(n)

	var fromStart, toEnd map[int64]bool
	if p := n.StartPlace(); p != nil {
		r.Start = p.Identifier()
		fromStart = reach(f.forward, f.index[r.Start])
	}
	if p := n.EndPlace(); p != nil {
		r.End = p.Identifier()
		toEnd = reach(f.reverse, f.index[r.End])
	}
	for i, nd := range f.nodes {
		r.Nodes = append(r.Nodes, NodeCoverage{
			ID:        nd.Identifier(),
			Kind:      nd.Kind(),
			FromStart: fromStart[int64(i)],
			ToEnd:     toEnd[int64(i)],
		})
	}
	for _, scc := range topo.TarjanSCC(f.forward) {
		if len(scc) < 2 {
			continue
		}
		ids := make([]string, 0, len(scc))
		for _, nd := range scc {
			ids = append(ids, f.nodes[nd.ID()].Identifier())
		}
		slices.Sort(ids)
		r.Cycles = append(r.Cycles, ids)
	}
	slices.SortFunc(r.Cycles, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	return r
}
