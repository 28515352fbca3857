package graphviz_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jt05610/wfnet"
	"github.com/jt05610/wfnet/graphviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(t *testing.T) *wfnet.Net {
	t.Helper()
	n := wfnet.NewNet("sequence")
	p0, p1 := n.NewPlace(), n.NewPlace()
	t0 := n.NewTransition()
	_, err := n.Connect(p0, t0)
	require.NoError(t, err)
	_, err = n.Connect(t0, p1)
	require.NoError(t, err)
	require.NoError(t, n.SetName("T0", "work"))
	require.NoError(t, n.SetPosition("P0", 111, 222))
	require.NoError(t, n.SetPosition("T0", 333, 444))
	n.SetInitialMarking()
	return n
}

func TestWriter_Flush(t *testing.T) {
	n := sequence(t)
	w := graphviz.New(&graphviz.Config{
		Font:    graphviz.Helvetica,
		RankDir: graphviz.LeftToRight,
		Format:  graphviz.DOT,
	})
	var buf bytes.Buffer
	require.NoError(t, w.Flush(context.Background(), &buf, n))
	out := buf.String()
	for _, s := range []string{"P0", "P1", "T0", "work", "circle", "doublecircle", "box", "filled"} {
		assert.Contains(t, out, s)
	}
}

func TestReader_Load(t *testing.T) {
	dot := `digraph order {
	P0 [shape=circle, label="received", style=filled, pos="10,20"];
	P1 [shape=doublecircle];
	T0 [shape=box, label="ship"];
	note [shape=plaintext];
	P0 -> T0;
	T0 -> P1;
	P0 -> P1;
	note -> P0;
}`
	n, err := graphviz.Loader(nil).Load(context.Background(), strings.NewReader(dot))
	require.NoError(t, err)
	assert.Equal(t, "order", n.Name)
	assert.Len(t, n.Places(), 2)
	assert.Len(t, n.Transitions(), 1)
	assert.Len(t, n.Arcs(), 2)
	assert.Equal(t, "received", n.Place("P0").Name())
	assert.Equal(t, "ship", n.Transition("T0").Name())
	assert.True(t, n.Place("P0").Marked())
	x, y := n.Place("P0").Position()
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
	assert.True(t, n.Analyze().WorkflowNet())
}

func TestRoundTrip(t *testing.T) {
	n := sequence(t)
	var buf bytes.Buffer
	require.NoError(t, graphviz.New(&graphviz.Config{}).Flush(context.Background(), &buf, n))
	got, err := graphviz.Loader(nil).Load(context.Background(), &buf)
	require.NoError(t, err)
	assert.Len(t, got.Places(), 2)
	assert.Len(t, got.Transitions(), 1)
	assert.Len(t, got.Arcs(), 2)
	assert.Equal(t, n.Marking(), got.Marking())
	assert.Equal(t, "work", got.Transition("T0").Name())
	for _, id := range []string{"P0", "P1", "T0"} {
		wx, wy := n.Node(id).(interface{ Position() (int, int) }).Position()
		gx, gy := got.Node(id).(interface{ Position() (int, int) }).Position()
		assert.Equal(t, []int{wx, wy}, []int{gx, gy}, id)
	}
	for _, a := range n.Arcs() {
		ga := got.Arc(a.Identifier())
		require.NotNil(t, ga, a.Identifier())
		assert.Equal(t, a.Source(), ga.Source())
		assert.Equal(t, a.Target(), ga.Target())
	}
}

func TestWriter_FlushUnnamed(t *testing.T) {
	n := wfnet.NewNet("")
	_, err := n.Connect(n.NewPlace(), n.NewTransition())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, graphviz.New(&graphviz.Config{Name: "fallback"}).Flush(context.Background(), &buf, n))
	assert.Contains(t, buf.String(), "fallback")
	assert.Contains(t, buf.String(), "wfnet_pos")
}
