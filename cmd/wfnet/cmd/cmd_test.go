package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jt05610/wfnet"
	"github.com/jt05610/wfnet/analysis"
	"github.com/jt05610/wfnet/env"
	"github.com/jt05610/wfnet/netfile"
	"github.com/jt05610/wfnet/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command. Flag values stick between runs, so callers reset the flags they used before.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(env.LogLevelKey, "error")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "missing.env")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "-i", "testdata/order.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "net: order (6 places, 4 transitions, 10 arcs)")
	assert.Contains(t, out, "start: P0\nend: P5\n")
	assert.Contains(t, out, "off path: -")
	assert.Contains(t, out, "workflow net: true")

	out, err = run(t, "check", "-i", "testdata/island.yaml")
	assert.ErrorIs(t, err, wfnet.ErrNotWorkflowNet)
	assert.Contains(t, out, "path property holds: false")
	assert.Contains(t, out, "off path: P2 T1")
	assert.Contains(t, out, "cycle: P2 T1")

	_, err = run(t, "check", "-i", "")
	assert.Error(t, err)
}

func TestSim(t *testing.T) {
	final := filepath.Join(t.TempDir(), "final.pnml")
	out, err := run(t, "sim", "-i", "testdata/order.yaml", "-o", final)
	require.NoError(t, err)
	assert.Contains(t, out, "fired: T0 T1 T2 T3\n")
	assert.Contains(t, out, "marking: P5\n")
	assert.Contains(t, out, "outcome: finished after 4 steps")
	n, err := netfile.Load(context.Background(), final, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"P5"}, n.Marking())

	out, err = run(t, "sim", "-i", "testdata/order.yaml", "-o", "", "--until", "P3")
	require.NoError(t, err)
	assert.Contains(t, out, "fired: T0 T1\n")
	assert.Contains(t, out, "outcome: stopped after 2 steps")

	out, err = run(t, "sim", "-i", "testdata/choice.yaml", "--until", "", "--steps", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome: deadlocked after 1 steps")

	out, err = run(t, "sim", "-i", "testdata/order.yaml", "--fire", "T0,T3")
	assert.ErrorIs(t, err, sim.ErrNotEnabled)
	assert.Contains(t, out, "fired: T0\n")
}

func TestExplore(t *testing.T) {
	out, err := run(t, "explore", "-i", "testdata/order.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "states: 6\n")
	assert.Contains(t, out, "dead transitions: -\n")
	assert.Contains(t, out, "sound: true\n")

	out, err = run(t, "explore", "-i", "testdata/choice.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "states: 3\n")
	assert.Contains(t, out, "deadlock: P1\n")
	assert.Contains(t, out, "deadlock: P2\n")
	assert.Contains(t, out, "dead transitions: T2\n")
	assert.Contains(t, out, "option to complete: false\n")
	assert.Contains(t, out, "sound: false\n")

	_, err = run(t, "explore", "-i", "testdata/order.yaml", "--limit", "2")
	assert.ErrorIs(t, err, analysis.ErrStateLimit)
}

func TestViz(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "viz", "-i", "testdata/order.yaml", "-o", dir, "-f", "dot")
	require.NoError(t, err)
	path := filepath.Join(dir, "order.dot")
	assert.Contains(t, out, path)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "digraph")
	assert.Contains(t, string(b), "accept")
}

func TestConvert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.pnml")
	_, err := run(t, "convert", "-i", "testdata/order.yaml", "-o", path)
	require.NoError(t, err)
	n, err := netfile.Load(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Len(t, n.Places(), 6)
	assert.Len(t, n.Arcs(), 10)
	assert.Equal(t, "ship", n.Transition("T3").Name())

	_, err = run(t, "convert", "-i", "testdata/order.yaml", "-o", "")
	assert.Error(t, err)
}
