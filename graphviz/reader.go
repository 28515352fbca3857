package graphviz

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz/cgraph"
	"github.com/jt05610/wfnet"
	"go.uber.org/zap"
)

var _ wfnet.Loader[*wfnet.Net] = (*Reader)(nil)

// Reader builds a net from a DOT graph. Circle and doublecircle nodes become places, box nodes transitions; node
// names are used as identifiers. Filled places are marked. Positions come from wfnet_pos, or from the layout
// position when that is missing. Other nodes are skipped, as are edges that do not join a place and a transition.
type Reader struct {
	logger *zap.Logger
}

func placeShape(s string) bool {
	return s == string(cgraph.CircleShape) || s == string(cgraph.DoubleCircleShape)
}

func transitionShape(s string) bool {
	return s == string(cgraph.BoxShape)
}

// position parses a layout position "x,y" or "x,y!".
func position(s string) (int, int, bool) {
	parts := strings.Split(strings.TrimSuffix(s, "!"), ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, false
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return int(x), int(y), true
}

func (r *Reader) addNode(n *wfnet.Net, node *cgraph.Node) {
	id := node.Name()
	shape := node.Get("shape")
	var err error
	switch {
	case placeShape(shape):
		_, err = n.AddPlace(id)
	case transitionShape(shape):
		_, err = n.AddTransition(id)
	default:
		r.logger.Debug("node skipped", zap.String("id", id), zap.String("shape", shape))
		return
	}
	if err != nil {
		r.logger.Debug("node skipped", zap.Error(err))
		return
	}
	if label := node.Get("label"); label != "" && label != `\N` && label != id {
		_ = n.SetName(id, label)
	}
	if x, y, ok := position(node.Get(positionAttr)); ok {
		_ = n.SetPosition(id, x, y)
	} else if x, y, ok := position(node.Get("pos")); ok {
		_ = n.SetPosition(id, x, y)
	}
	if placeShape(shape) && strings.Contains(node.Get("style"), "filled") {
		_ = n.SetMarked(id, true)
	}
}

func (r *Reader) Load(ctx context.Context, in io.Reader) (*wfnet.Net, error) {
	bytes, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	g, err := cgraph.ParseBytes(bytes)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = g.Close()
	}()
	n := wfnet.NewNet(g.Name()).WithLogger(r.logger)
	for node := g.FirstNode(); node != nil; node = g.NextNode(node) {
		r.addNode(n, node)
	}
	for node := g.FirstNode(); node != nil; node = g.NextNode(node) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for edge := g.FirstOut(node); edge != nil; edge = g.NextOut(edge) {
			src, dst := n.Node(node.Name()), n.Node(edge.Node().Name())
			if src == nil || dst == nil {
				continue
			}
			var err error
			if id := edge.Name(); id != "" {
				_, err = n.AddArc(id, src.Identifier(), dst.Identifier())
			} else {
				_, err = n.Connect(src, dst)
			}
			if err != nil {
				r.logger.Debug("edge skipped", zap.Error(err))
			}
		}
	}
	return n, nil
}

func Loader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}
