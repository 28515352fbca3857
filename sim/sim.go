// Package sim plays the token game on a workflow net: it fires enabled transitions one at a time until the net
// finishes, deadlocks or a stop condition holds.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/jt05610/wfnet"
	"go.uber.org/zap"
)

var ErrNotEnabled = errors.New("transition cannot fire")

// Strategy picks the next transition among the enabled ones.
type Strategy int

const (
	// First fires the enabled transition with the lowest identifier.
	First Strategy = iota
	// Random fires a uniformly chosen enabled transition.
	Random
)

func (s Strategy) String() string {
	switch s {
	case First:
		return "first"
	case Random:
		return "random"
	}
	return "unknown"
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "first", "":
		return First, nil
	case "random":
		return Random, nil
	}
	return First, fmt.Errorf("unknown strategy %q", s)
}

// Outcome tells why a run ended.
type Outcome int

const (
	Finished Outcome = iota
	Deadlocked
	// Stopped means the Until condition held, or a replay ran out of steps.
	Stopped
	StepLimit
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Finished:
		return "finished"
	case Deadlocked:
		return "deadlocked"
	case Stopped:
		return "stopped"
	case StepLimit:
		return "step limit"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Trace records a run. It is only returned, never persisted.
type Trace struct {
	Fired   []string
	Marking []string
	Outcome Outcome
	Steps   int
}

func (t *Trace) fire(id string) {
	t.Fired = append(t.Fired, id)
	t.Steps++
}

func (t *Trace) end(n *wfnet.Net, o Outcome) *Trace {
	t.Marking = n.Marking()
	t.Outcome = o
	return t
}

type Config struct {
	Strategy Strategy
	Seed     int64
	// MaxSteps bounds the number of firings, zero or less means unbounded
	MaxSteps int
	// Until is an optional boolean expression. It sees every place identifier bound to its mark, the same marks
	// under marked["id"], and finished, deadlocked and step.
	Until string
}

type Runner struct {
	*Config
	rng    *rand.Rand
	logger *zap.Logger
}

func NewRunner(config *Config, logger *zap.Logger) *Runner {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
		logger: logger,
	}
}

func env(n *wfnet.Net, step int) map[string]interface{} {
	marked := make(map[string]bool)
	ret := map[string]interface{}{
		"step":       step,
		"finished":   n.Finished(),
		"deadlocked": n.Deadlocked(),
		"marked":     marked,
	}
	for _, p := range n.Places() {
		marked[p.Identifier()] = p.Marked()
		if _, reserved := ret[p.Identifier()]; !reserved {
			ret[p.Identifier()] = p.Marked()
		}
	}
	return ret
}

func (r *Runner) compile(n *wfnet.Net) (*vm.Program, error) {
	if r.Until == "" {
		return nil, nil
	}
	program, err := expr.Compile(r.Until, expr.Env(env(n, 0)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile until condition: %w", err)
	}
	return program, nil
}

func (r *Runner) stop(program *vm.Program, n *wfnet.Net, step int) (bool, error) {
	if program == nil {
		return false, nil
	}
	ret, err := expr.Run(program, env(n, step))
	if err != nil {
		return false, err
	}
	return ret.(bool), nil
}

func (r *Runner) pick(enabled []*wfnet.Transition) *wfnet.Transition {
	if r.Strategy == Random {
		return enabled[r.rng.Intn(len(enabled))]
	}
	return enabled[0]
}

// Run puts n in its initial marking and fires transitions until the run ends. n keeps the final marking. A
// cancelled run returns its trace along with the context error.
func (r *Runner) Run(ctx context.Context, n *wfnet.Net) (*Trace, error) {
	if !n.SetInitialMarking() {
		return nil, wfnet.ErrNotWorkflowNet
	}
	until, err := r.compile(n)
	if err != nil {
		return nil, err
	}
	tr := &Trace{}
	for {
		if err := ctx.Err(); err != nil {
			return tr.end(n, Cancelled), err
		}
		stop, err := r.stop(until, n, tr.Steps)
		if err != nil {
			return nil, err
		}
		if stop {
			break
		}
		if n.Finished() {
			return r.done(tr.end(n, Finished)), nil
		}
		enabled := n.Enabled()
		if len(enabled) == 0 {
			return r.done(tr.end(n, Deadlocked)), nil
		}
		if r.MaxSteps > 0 && tr.Steps >= r.MaxSteps {
			return r.done(tr.end(n, StepLimit)), nil
		}
		t := r.pick(enabled)
		n.Fire(t)
		tr.fire(t.Identifier())
		r.logger.Debug("step", zap.Int("step", tr.Steps), zap.String("fired", t.Identifier()))
	}
	return r.done(tr.end(n, Stopped)), nil
}

// Replay puts n in its initial marking and fires the given transitions in order. The first one that cannot fire
// aborts the replay with ErrNotEnabled; the trace up to that point is returned with the error.
func (r *Runner) Replay(ctx context.Context, n *wfnet.Net, ids []string) (*Trace, error) {
	if !n.SetInitialMarking() {
		return nil, wfnet.ErrNotWorkflowNet
	}
	tr := &Trace{}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return tr.end(n, Cancelled), err
		}
		t := n.Transition(id)
		if t == nil {
			return tr.end(n, Stopped), fmt.Errorf("step %d: %s: %w", i, id, wfnet.ErrUnknownID)
		}
		if !n.Fire(t) {
			return tr.end(n, Stopped), fmt.Errorf("step %d: %s: %w", i, id, ErrNotEnabled)
		}
		tr.fire(id)
	}
	switch {
	case n.Finished():
		tr.end(n, Finished)
	case n.Deadlocked():
		tr.end(n, Deadlocked)
	default:
		tr.end(n, Stopped)
	}
	return r.done(tr), nil
}

func (r *Runner) done(tr *Trace) *Trace {
	r.logger.Info("run ended",
		zap.Stringer("outcome", tr.Outcome),
		zap.Int("steps", tr.Steps),
		zap.Strings("marking", tr.Marking),
	)
	return tr
}
