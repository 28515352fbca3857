package yaml_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jt05610/wfnet/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Load(t *testing.T) {
	f, err := os.Open("testdata/order.yaml")
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	n, err := yaml.NewService(nil).Load(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, "order", n.Name)
	assert.Equal(t, "6f1c2d8e-8a51-4d7e-9b5e-0f1a2b3c4d5e", n.ID)
	assert.Len(t, n.Places(), 4)
	assert.Len(t, n.Transitions(), 2)
	assert.Len(t, n.Arcs(), 6, "K6 joins two transitions and is skipped")
	assert.Equal(t, "received", n.Place("P0").Name())
	x, y := n.Transition("T1").Position()
	assert.Equal(t, 400, x)
	assert.Equal(t, 100, y)
	assert.Equal(t, []string{"P0"}, n.Marking())
	assert.True(t, n.Analyze().WorkflowNet())
}

func TestService_LoadErrors(t *testing.T) {
	cases := map[string]string{
		"version":        "petri: v9\n",
		"arc source":     "petri: v1\narcs:\n  K0: {target: T0}\n",
		"not a document": "places: [1, 2\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			n, err := yaml.NewService(nil).Load(context.Background(), strings.NewReader(doc))
			assert.Error(t, err)
			assert.Nil(t, n)
		})
	}
}

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := yaml.NewService(nil)
	f, err := os.Open("testdata/order.yaml")
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	n, err := srv.Load(ctx, f)
	require.NoError(t, err)
	n.SetInitialMarking()
	require.True(t, n.Fire(n.Transition("T0")))

	var buf bytes.Buffer
	require.NoError(t, srv.Flush(ctx, &buf, n))
	got, err := srv.Load(ctx, &buf)
	require.NoError(t, err)

	assert.Equal(t, yaml.FromNet(n), yaml.FromNet(got))
	assert.Equal(t, []string{"P1", "P2"}, got.Marking())
}
