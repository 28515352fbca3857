// Package analysis holds behavioural and structural checks that go beyond what a Net computes for itself: the
// incidence matrix, path coverage diagnostics and an exhaustive exploration of the reachable markings.
package analysis

import (
	"strings"

	"github.com/jt05610/wfnet"
	"gonum.org/v1/gonum/mat"
)

// Incidence is the transition by place incidence matrix of a net. Rows follow Transitions and columns follow
// Places, both sorted by identifier.
type Incidence struct {
	Places      []*wfnet.Place
	Transitions []*wfnet.Transition
	// C is nil when the net has no places or no transitions
	C *mat.Dense

	column map[string]int
	pre    [][]int
	post   [][]int
}

// NewIncidence computes C[t][p] = (t→p ? 1 : 0) - (p→t ? 1 : 0).
func NewIncidence(n *wfnet.Net) *Incidence {
	inc := &Incidence{
		Places:      n.Places(),
		Transitions: n.Transitions(),
		column:      make(map[string]int),
	}
	for j, p := range inc.Places {
		inc.column[p.Identifier()] = j
	}
	inc.pre = make([][]int, len(inc.Transitions))
	inc.post = make([][]int, len(inc.Transitions))
	for i, t := range inc.Transitions {
		for _, p := range n.Inputs(t) {
			inc.pre[i] = append(inc.pre[i], inc.column[p.Identifier()])
		}
		for _, p := range n.Outputs(t) {
			inc.post[i] = append(inc.post[i], inc.column[p.Identifier()])
		}
	}
	m, k := len(inc.Places), len(inc.Transitions)
	if m == 0 || k == 0 {
		return inc
	}
	d := make([]float64, m*k)
	for i := range inc.Transitions {
		for _, j := range inc.post[i] {
			d[i*m+j]++
		}
		for _, j := range inc.pre[i] {
			d[i*m+j]--
		}
	}
	inc.C = mat.NewDense(k, m, d)
	return inc
}

// State is a marking as a vector over Places: 1 for marked, 0 for unmarked.
type State []float64

// Key is a compact text form of s, usable as a map key.
func (s State) Key() string {
	var b strings.Builder
	for _, v := range s {
		if v > 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// State reads the current marking of n, which must have the places the matrix was built from.
func (inc *Incidence) State(n *wfnet.Net) State {
	s := make(State, len(inc.Places))
	for _, id := range n.Marking() {
		if j, ok := inc.column[id]; ok {
			s[j] = 1
		}
	}
	return s
}

// Marked returns the identifiers of the places marked in s.
func (inc *Incidence) Marked(s State) []string {
	var ret []string
	for j, v := range s {
		if v > 0 {
			ret = append(ret, inc.Places[j].Identifier())
		}
	}
	return ret
}

// CanFire applies the token game rules to transition row t in state s: every predecessor is marked, there is at
// least one, and no successor outside the predecessors is marked.
func (inc *Incidence) CanFire(s State, t int) bool {
	if len(inc.pre[t]) == 0 {
		return false
	}
	for _, j := range inc.pre[t] {
		if s[j] == 0 {
			return false
		}
	}
	for _, j := range inc.post[t] {
		if s[j] > 0 && !contains(inc.pre[t], j) {
			return false
		}
	}
	return true
}

// FiringVector is the unit row vector selecting transition row t.
func (inc *Incidence) FiringVector(t int) *mat.Dense {
	v := make([]float64, len(inc.Transitions))
	v[t] = 1
	return mat.NewDense(1, len(inc.Transitions), v)
}

// Next computes the marking equation s' = s + f·C for transition row t. It reports false, leaving s untouched,
// when t cannot fire in s.
func (inc *Incidence) Next(s State, t int) (State, bool) {
	if !inc.CanFire(s, t) {
		return nil, false
	}
	var delta mat.Dense
	delta.Mul(inc.FiringVector(t), inc.C)

	cur := mat.NewDense(1, len(s), append([]float64(nil), s...))
	var out mat.Dense
	out.Add(cur, &delta)
	ret := make(State, len(s))
	for j := range ret {
		ret[j] = out.At(0, j)
	}
	return ret, true
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
