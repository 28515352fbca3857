package sim_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jt05610/wfnet"
	"github.com/jt05610/wfnet/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func build(t testing.TB, places, transitions string, arcs ...string) *wfnet.Net {
	n := wfnet.NewNet("")
	for _, id := range strings.Fields(places) {
		_, err := n.AddPlace(id)
		require.NoError(t, err)
	}
	for _, id := range strings.Fields(transitions) {
		_, err := n.AddTransition(id)
		require.NoError(t, err)
	}
	for _, a := range arcs {
		f := strings.Fields(a)
		_, err := n.Connect(n.Node(f[0]), n.Node(f[1]))
		require.NoError(t, err, a)
	}
	return n
}

func parallel(t testing.TB) *wfnet.Net {
	return build(t, "P0 P1 P2 P3 P4 P5", "T0 T1 T2 T3",
		"P0 T0", "T0 P1", "T0 P2",
		"P1 T1", "T1 P3",
		"P2 T2", "T2 P4",
		"P3 T3", "P4 T3", "T3 P5",
	)
}

func loop(t testing.TB) *wfnet.Net {
	return build(t, "P0 P1 P2", "T0 T1 T2", "P0 T0", "T0 P1", "P1 T1", "T1 P1", "P1 T2", "T2 P2")
}

func TestRunner_Run(t *testing.T) {
	cases := map[string]struct {
		net     func(testing.TB) *wfnet.Net
		config  sim.Config
		fired   []string
		marking []string
		outcome sim.Outcome
	}{
		"First": {
			net:     parallel,
			fired:   []string{"T0", "T1", "T2", "T3"},
			marking: []string{"P5"},
			outcome: sim.Finished,
		},
		"Deadlock": {
			net: func(t testing.TB) *wfnet.Net {
				return build(t, "P0 P1 P2 P3", "T0 T1 T2",
					"P0 T0", "T0 P1", "P0 T1", "T1 P2", "P1 T2", "P2 T2", "T2 P3")
			},
			fired:   []string{"T0"},
			marking: []string{"P1"},
			outcome: sim.Deadlocked,
		},
		"UntilPlace": {
			net:     parallel,
			config:  sim.Config{Until: "P3"},
			fired:   []string{"T0", "T1"},
			marking: []string{"P2", "P3"},
			outcome: sim.Stopped,
		},
		"UntilStep": {
			net:     parallel,
			config:  sim.Config{Until: `step >= 1 || marked["P5"]`},
			fired:   []string{"T0"},
			marking: []string{"P1", "P2"},
			outcome: sim.Stopped,
		},
		"StepLimit": {
			net:     loop,
			config:  sim.Config{MaxSteps: 4},
			fired:   []string{"T0", "T1", "T1", "T1"},
			marking: []string{"P1"},
			outcome: sim.StepLimit,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			n := tc.net(t)
			tr, err := sim.NewRunner(&tc.config, nil).Run(context.Background(), n)
			require.NoError(t, err)
			assert.Equal(t, tc.fired, tr.Fired)
			assert.Equal(t, tc.marking, tr.Marking)
			assert.Equal(t, tc.outcome, tr.Outcome)
			assert.Equal(t, len(tc.fired), tr.Steps)
			assert.Equal(t, tc.marking, n.Marking())
		})
	}
}

func TestRunner_Random(t *testing.T) {
	run := func(seed int64) *sim.Trace {
		tr, err := sim.NewRunner(&sim.Config{Strategy: sim.Random, Seed: seed}, nil).
			Run(context.Background(), parallel(t))
		require.NoError(t, err)
		return tr
	}
	a, b := run(7), run(7)
	assert.Equal(t, a, b)
	assert.Equal(t, sim.Finished, a.Outcome)
	require.Len(t, a.Fired, 4)
	assert.Equal(t, "T0", a.Fired[0])
	assert.Equal(t, "T3", a.Fired[3])
	assert.ElementsMatch(t, []string{"T1", "T2"}, a.Fired[1:3])
}

func TestRunner_Errors(t *testing.T) {
	t.Run("NotWorkflowNet", func(t *testing.T) {
		_, err := sim.NewRunner(nil, nil).Run(context.Background(), build(t, "P0 P1", ""))
		assert.ErrorIs(t, err, wfnet.ErrNotWorkflowNet)
	})
	t.Run("BadCondition", func(t *testing.T) {
		_, err := sim.NewRunner(&sim.Config{Until: "P9 &&"}, nil).Run(context.Background(), parallel(t))
		assert.Error(t, err)
	})
	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		tr, err := sim.NewRunner(nil, nil).Run(ctx, parallel(t))
		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, tr)
		assert.Equal(t, sim.Cancelled, tr.Outcome)
		assert.Equal(t, []string{"P0"}, tr.Marking)
	})
}

func TestRunner_Replay(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := sim.NewRunner(nil, zap.New(core))

	tr, err := r.Replay(context.Background(), parallel(t), []string{"T0", "T2", "T1", "T3"})
	require.NoError(t, err)
	assert.Equal(t, sim.Finished, tr.Outcome)
	assert.Equal(t, []string{"P5"}, tr.Marking)
	assert.Equal(t, 1, logs.FilterMessage("run ended").Len())

	tr, err = r.Replay(context.Background(), parallel(t), []string{"T0"})
	require.NoError(t, err)
	assert.Equal(t, sim.Stopped, tr.Outcome)

	tr, err = r.Replay(context.Background(), parallel(t), []string{"T0", "T3"})
	assert.ErrorIs(t, err, sim.ErrNotEnabled)
	assert.Equal(t, []string{"T0"}, tr.Fired)
	assert.Equal(t, []string{"P1", "P2"}, tr.Marking)

	_, err = r.Replay(context.Background(), parallel(t), []string{"T7"})
	assert.ErrorIs(t, err, wfnet.ErrUnknownID)
}

func TestParseStrategy(t *testing.T) {
	s, err := sim.ParseStrategy("Random")
	require.NoError(t, err)
	assert.Equal(t, sim.Random, s)
	s, err = sim.ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, sim.First, s)
	_, err = sim.ParseStrategy("greedy")
	assert.Error(t, err)
}

func TestRunner_ReservedPlaceName(t *testing.T) {
	n := build(t, "P0 marked P2", "T0 T1", "P0 T0", "T0 marked", "marked T1", "T1 P2")
	tr, err := sim.NewRunner(&sim.Config{Until: `marked["marked"]`}, nil).Run(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, []string{"T0"}, tr.Fired)
	assert.Equal(t, sim.Stopped, tr.Outcome)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "step limit", sim.StepLimit.String())
	assert.Equal(t, "cancelled", sim.Cancelled.String())
	assert.Equal(t, "unknown", sim.Outcome(42).String())
}
