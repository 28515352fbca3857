package graphviz

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/jt05610/wfnet"
)

var _ wfnet.Flusher[*wfnet.Net] = (*Writer)(nil)

// positionAttr holds the model coordinates; layout rewrites pos.
const positionAttr = "wfnet_pos"

// Writer renders a net. Places are circles, transitions boxes. Marked places are filled, the end place is drawn
// with a double circle and transitions that can fire are highlighted.
type Writer struct {
	*Config
	g       *cgraph.Graph
	mapping map[wfnet.Node]*cgraph.Node
}

func (w *Writer) writePlace(n *wfnet.Net, p *wfnet.Place) error {
	node, err := w.g.CreateNode(p.Identifier())
	if err != nil {
		return err
	}
	node.SetShape(cgraph.CircleShape)
	if end := n.EndPlace(); end == p {
		node.SetShape(cgraph.DoubleCircleShape)
	}
	w.common(node, p)
	if p.Marked() {
		node.SetStyle(cgraph.FilledNodeStyle)
		node.SetFillColor(w.MarkColor)
	}
	w.mapping[p] = node
	return nil
}

func (w *Writer) writeTransition(n *wfnet.Net, t *wfnet.Transition) error {
	node, err := w.g.CreateNode(t.Identifier())
	if err != nil {
		return err
	}
	w.mapping[t] = node
	node.SetShape(cgraph.BoxShape)
	w.common(node, t)
	if n.CanFire(t) {
		node.SetColor(w.EnabledColor)
	}
	return nil
}

func (w *Writer) common(node *cgraph.Node, nd interface {
	wfnet.Node
	Position() (int, int)
}) {
	node.SetLabel(nd.String())
	node.Set("fontname", string(w.Font))
	x, y := nd.Position()
	node.Set(positionAttr, fmt.Sprintf("%d,%d", x, y))
}

func (w *Writer) writeArc(n *wfnet.Net, a *wfnet.Arc) error {
	src, dst := n.Endpoints(a)
	_, err := w.g.CreateEdge(a.Identifier(), w.mapping[src], w.mapping[dst])
	return err
}

func (w *Writer) Flush(_ context.Context, out io.Writer, n *wfnet.Net) error {
	graph := graphviz.New()
	defer func() {
		_ = graph.Close()
	}()
	g, err := graph.Graph()
	if err != nil {
		return err
	}
	defer func() {
		_ = g.Close()
	}()
	g.SetRankDir(cgraph.RankDir(w.RankDir))
	if n.Name != "" {
		g.SetLabel(n.Name)
	} else {
		g.SetLabel(w.Name)
	}
	w.g = g
	w.mapping = make(map[wfnet.Node]*cgraph.Node)
	for _, p := range n.Places() {
		if err := w.writePlace(n, p); err != nil {
			return err
		}
	}
	for _, t := range n.Transitions() {
		if err := w.writeTransition(n, t); err != nil {
			return err
		}
	}
	for _, a := range n.Arcs() {
		if err := w.writeArc(n, a); err != nil {
			return err
		}
	}
	return graph.Render(g, graphviz.Format(w.Format), out)
}

type Font string

const (
	Helvetica  Font = "Helvetica"
	Arial      Font = "Arial"
	Roboto     Font = "Roboto"
	Montserrat Font = "Montserrat"
	SansSerif  Font = "sans-serif"
	Serif      Font = "Serif"
	Times      Font = "Times"
)

type RankDir string

const (
	LeftToRight RankDir = "LR"
	RightToLeft RankDir = "RL"
	TopToBottom RankDir = "TB"
	BottomToTop RankDir = "BT"
)

type Format string

const (
	DOT Format = "dot"
	SVG Format = "svg"
	PNG Format = "png"
	JPG Format = "jpg"
)

type Config struct {
	// Name labels the graph of a net without a name
	Name string
	Font
	RankDir
	Format
	MarkColor    string
	EnabledColor string
}

func New(config *Config) *Writer {
	if config.Name == "" {
		config.Name = "wfnet"
	}
	if config.Font == "" {
		config.Font = Helvetica
	}
	if config.RankDir == "" {
		config.RankDir = LeftToRight
	}
	if config.Format == "" {
		config.Format = DOT
	}
	if config.MarkColor == "" {
		config.MarkColor = "gray"
	}
	if config.EnabledColor == "" {
		config.EnabledColor = "green"
	}
	return &Writer{
		Config:  config,
		mapping: make(map[wfnet.Node]*cgraph.Node),
	}
}
