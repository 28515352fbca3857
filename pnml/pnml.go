// Package pnml reads and writes workflow nets in the Petri Net Markup Language subset used by the editor: places
// and transitions with a name, a position and, for places, an initial token, plus arcs with source and target.
package pnml

import (
	"context"
	"io"

	"github.com/jt05610/wfnet"
	"go.uber.org/zap"
)

var (
	_ wfnet.Loader[*wfnet.Net]  = (*Service)(nil)
	_ wfnet.Flusher[*wfnet.Net] = (*Service)(nil)
)

type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Load reads a new net. Rejected elements are reported to the logger and skipped; a malformed document fails the
// whole load.
func (s *Service) Load(ctx context.Context, r io.Reader) (*wfnet.Net, error) {
	n := wfnet.NewNet("").WithLogger(s.logger)
	if err := NewReader(s.logger).Read(ctx, r, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) Flush(_ context.Context, w io.Writer, n *wfnet.Net) error {
	return NewWriter().Write(w, n)
}
