package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/jt05610/wfnet"
	"go.uber.org/zap"
)

var ErrStateLimit = errors.New("state limit exceeded")

// Edge is a single firing between two explored states.
type Edge struct {
	Transition string
	To         int
}

// StateSpace is the reachability graph of a workflow net from its initial marking.
type StateSpace struct {
	*Incidence
	// States[0] is the initial marking
	States []State
	Edges  [][]Edge
	// Final is the index of the marking with only the end place marked, -1 if unreachable
	Final int
	// Deadlocks are the states where nothing can fire and the end place is unmarked
	Deadlocks []int
	// DeadTransitions never fire in any reachable state
	DeadTransitions []string
	// OptionToComplete holds when the final marking is reachable from every state
	OptionToComplete bool
	// ProperCompletion holds when no reachable state marks the end place together with another place
	ProperCompletion bool
}

// Sound reports whether the net has the option to complete, completes properly and has no dead transitions.
func (s *StateSpace) Sound() bool {
	return s.OptionToComplete && s.ProperCompletion && len(s.DeadTransitions) == 0
}

// Explorer walks the reachable markings breadth first.
type Explorer struct {
	// Limit bounds the number of states, zero or less means unbounded
	Limit  int
	logger *zap.Logger
}

func NewExplorer(limit int, logger *zap.Logger) *Explorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Explorer{Limit: limit, logger: logger}
}

// Explore builds the state space of n starting from its initial marking. n itself is left untouched.
func (e *Explorer) Explore(ctx context.Context, n *wfnet.Net) (*StateSpace, error) {
	c := n.Clone()
	if !c.SetInitialMarking() {
		return nil, wfnet.ErrNotWorkflowNet
	}
	inc := NewIncidence(c)
	end := inc.column[c.EndPlace().Identifier()]

	ss := &StateSpace{Incidence: inc, Final: -1, ProperCompletion: true}
	seen := make(map[string]int)
	fired := make([]bool, len(inc.Transitions))

	add := func(s State) (int, error) {
		if i, ok := seen[s.Key()]; ok {
			return i, nil
		}
		if e.Limit > 0 && len(ss.States) >= e.Limit {
			return 0, fmt.Errorf("%w: %d", ErrStateLimit, e.Limit)
		}
		i := len(ss.States)
		seen[s.Key()] = i
		ss.States = append(ss.States, s)
		ss.Edges = append(ss.Edges, nil)
		return i, nil
	}
	if _, err := add(inc.State(c)); err != nil {
		return nil, err
	}

	for cur := 0; cur < len(ss.States); cur++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := ss.States[cur]
		if s[end] > 0 {
			only := true
			for j, v := range s {
				if j != end && v > 0 {
					only = false
				}
			}
			if only {
				ss.Final = cur
			} else {
				ss.ProperCompletion = false
			}
		}
		for t := range inc.Transitions {
			next, ok := inc.Next(s, t)
			if !ok {
				continue
			}
			fired[t] = true
			to, err := add(next)
			if err != nil {
				return nil, err
			}
			ss.Edges[cur] = append(ss.Edges[cur], Edge{Transition: inc.Transitions[t].Identifier(), To: to})
		}
		if len(ss.Edges[cur]) == 0 && s[end] == 0 {
			ss.Deadlocks = append(ss.Deadlocks, cur)
		}
	}
	for t, ok := range fired {
		if !ok {
			ss.DeadTransitions = append(ss.DeadTransitions, inc.Transitions[t].Identifier())
		}
	}
	ss.OptionToComplete = ss.completes()
	e.logger.Debug("explored",
		zap.Int("states", len(ss.States)),
		zap.Int("deadlocks", len(ss.Deadlocks)),
		zap.Strings("dead", ss.DeadTransitions),
	)
	return ss, nil
}

// completes walks the edges backwards from the final state and checks that every state was reached.
func (s *StateSpace) completes() bool {
	if s.Final < 0 {
		return false
	}
	back := make([][]int, len(s.States))
	for from, edges := range s.Edges {
		for _, e := range edges {
			back[e.To] = append(back[e.To], from)
		}
	}
	seen := make([]bool, len(s.States))
	seen[s.Final] = true
	stack := []int{s.Final}
	count := 1
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, j := range back[i] {
			if !seen[j] {
				seen[j] = true
				count++
				stack = append(stack, j)
			}
		}
	}
	return count == len(s.States)
}

// Explore builds the state space of n with at most limit states.
func Explore(ctx context.Context, n *wfnet.Net, limit int) (*StateSpace, error) {
	return NewExplorer(limit, n.Logger()).Explore(ctx, n)
}
