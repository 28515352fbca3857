package pnml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/jt05610/wfnet"
)

type document struct {
	XMLName xml.Name `xml:"pnml"`
	Net     net      `xml:"net"`
}

type net struct {
	Places      []place      `xml:"place"`
	Transitions []transition `xml:"transition"`
	Arcs        []arc        `xml:"arc"`
}

type value struct {
	Value string `xml:"value"`
}

type position struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

type graphics struct {
	Position position `xml:"position"`
}

type marking struct {
	Token value `xml:"token"`
}

type place struct {
	ID             string   `xml:"id,attr"`
	Name           value    `xml:"name"`
	Graphics       graphics `xml:"graphics"`
	InitialMarking marking  `xml:"initialMarking"`
}

type transition struct {
	ID       string   `xml:"id,attr"`
	Name     value    `xml:"name"`
	Graphics graphics `xml:"graphics"`
}

type arc struct {
	ID     string `xml:"id,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

func toDocument(n *wfnet.Net) *document {
	doc := &document{}
	for _, p := range n.Places() {
		x, y := p.Position()
		doc.Net.Places = append(doc.Net.Places, place{
			ID:             p.Identifier(),
			Name:           value{Value: p.Name()},
			Graphics:       graphics{Position: position{X: x, Y: y}},
			InitialMarking: marking{Token: value{Value: p.Token()}},
		})
	}
	for _, t := range n.Transitions() {
		x, y := t.Position()
		doc.Net.Transitions = append(doc.Net.Transitions, transition{
			ID:       t.Identifier(),
			Name:     value{Value: t.Name()},
			Graphics: graphics{Position: position{X: x, Y: y}},
		})
	}
	for _, a := range n.Arcs() {
		doc.Net.Arcs = append(doc.Net.Arcs, arc{
			ID:     a.Identifier(),
			Source: a.Source(),
			Target: a.Target(),
		})
	}
	return doc
}

// Writer serializes a net as PNML. Places, transitions and arcs are written sorted by identifier.
type Writer struct {
	Indent string
}

func NewWriter() *Writer {
	return &Writer{Indent: "  "}
}

func (w *Writer) Write(out io.Writer, n *wfnet.Net) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(out)
	enc.Indent("", w.Indent)
	if err := enc.Encode(toDocument(n)); err != nil {
		return fmt.Errorf("pnml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}
