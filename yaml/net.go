// Package yaml reads and writes workflow nets as YAML documents:
//
//	petri: v1
//	name: order
//	places:
//	  P0: {name: received, x: 100, y: 100, marked: true}
//	transitions:
//	  T0: {name: split, x: 200, y: 100}
//	arcs:
//	  K0: {source: P0, target: T0}
package yaml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/jt05610/wfnet"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const Version = "v1"

var (
	_ wfnet.Loader[*wfnet.Net]  = (*Service)(nil)
	_ wfnet.Flusher[*wfnet.Net] = (*Service)(nil)
)

var ErrVersion = errors.New("unsupported net file version")

type Node struct {
	Name string `yaml:"name,omitempty"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
}

type Place struct {
	Node   `yaml:",inline"`
	Marked bool `yaml:"marked,omitempty"`
}

type Arc struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// File is the document layout. Maps are keyed by identifier.
type File struct {
	Petri       string           `yaml:"petri"`
	ID          string           `yaml:"id,omitempty"`
	Name        string           `yaml:"name,omitempty"`
	Places      map[string]Place `yaml:"places,omitempty"`
	Transitions map[string]Node  `yaml:"transitions,omitempty"`
	Arcs        map[string]Arc   `yaml:"arcs,omitempty"`
}

func keys[T any](m map[string]T) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func soft(logger *zap.Logger, err error) {
	if err != nil {
		logger.Debug("element skipped", zap.Error(err))
	}
}

// Build feeds the file into b in identifier order: places, then transitions, then arcs. An arc without source or
// target fails the whole build.
func (f *File) Build(b wfnet.Builder, logger *zap.Logger) error {
	if f.Petri != "" && f.Petri != Version {
		return fmt.Errorf("%w: %s", ErrVersion, f.Petri)
	}
	for _, id := range keys(f.Arcs) {
		a := f.Arcs[id]
		if a.Source == "" || a.Target == "" {
			return fmt.Errorf("yaml: arc %s: missing source or target", id)
		}
	}
	for _, id := range keys(f.Places) {
		p := f.Places[id]
		if _, err := b.AddPlace(id); err != nil {
			soft(logger, err)
			continue
		}
		soft(logger, b.SetName(id, p.Name))
		soft(logger, b.SetPosition(id, p.X, p.Y))
		if p.Marked {
			soft(logger, b.SetMarking(id, "1"))
		}
	}
	for _, id := range keys(f.Transitions) {
		t := f.Transitions[id]
		if _, err := b.AddTransition(id); err != nil {
			soft(logger, err)
			continue
		}
		soft(logger, b.SetName(id, t.Name))
		soft(logger, b.SetPosition(id, t.X, t.Y))
	}
	for _, id := range keys(f.Arcs) {
		a := f.Arcs[id]
		_, err := b.AddArc(id, a.Source, a.Target)
		soft(logger, err)
	}
	return nil
}

// FromNet captures the current state of a net.
func FromNet(n *wfnet.Net) *File {
	f := &File{
		Petri:       Version,
		ID:          n.ID,
		Name:        n.Name,
		Places:      make(map[string]Place),
		Transitions: make(map[string]Node),
		Arcs:        make(map[string]Arc),
	}
	for _, p := range n.Places() {
		x, y := p.Position()
		f.Places[p.Identifier()] = Place{Node: Node{Name: p.Name(), X: x, Y: y}, Marked: p.Marked()}
	}
	for _, t := range n.Transitions() {
		x, y := t.Position()
		f.Transitions[t.Identifier()] = Node{Name: t.Name(), X: x, Y: y}
	}
	for _, a := range n.Arcs() {
		f.Arcs[a.Identifier()] = Arc{Source: a.Source(), Target: a.Target()}
	}
	return f
}

type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

func (s *Service) Load(_ context.Context, r io.Reader) (*wfnet.Net, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	n := wfnet.NewNet(f.Name).WithLogger(s.logger)
	if f.ID != "" {
		n.ID = f.ID
	}
	if err := f.Build(n, s.logger); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Flush(_ context.Context, w io.Writer, n *wfnet.Net) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromNet(n)); err != nil {
		return err
	}
	return enc.Close()
}
