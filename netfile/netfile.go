// Package netfile picks a net file format from a file name and loads or saves nets through it.
package netfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jt05610/wfnet"
	"github.com/jt05610/wfnet/graphviz"
	"github.com/jt05610/wfnet/pnml"
	"github.com/jt05610/wfnet/yaml"
	"go.uber.org/zap"
)

var ErrUnknownFormat = errors.New("unknown net file format")

type Codec interface {
	wfnet.Loader[*wfnet.Net]
	wfnet.Flusher[*wfnet.Net]
}

type Format string

const (
	PNML Format = "pnml"
	YAML Format = "yaml"
	DOT  Format = "dot"
)

var extensions = map[string]Format{
	".pnml": PNML,
	".xml":  PNML,
	".yaml": YAML,
	".yml":  YAML,
	".dot":  DOT,
	".gv":   DOT,
}

// FormatOf infers the format from the extension of path.
func FormatOf(path string) (Format, error) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	return f, nil
}

type dot struct {
	*graphviz.Reader
	*graphviz.Writer
}

func New(f Format, logger *zap.Logger) (Codec, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch f {
	case PNML:
		return pnml.NewService(logger), nil
	case YAML:
		return yaml.NewService(logger), nil
	case DOT:
		return &dot{
			Reader: graphviz.Loader(logger),
			Writer: graphviz.New(&graphviz.Config{Format: graphviz.DOT}),
		}, nil
	}
	return nil, fmt.Errorf("%s: %w", f, ErrUnknownFormat)
}

// ForPath returns the codec matching the extension of path.
func ForPath(path string, logger *zap.Logger) (Codec, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return New(f, logger)
}

// Load reads the net stored at path.
func Load(ctx context.Context, path string, logger *zap.Logger) (*wfnet.Net, error) {
	c, err := ForPath(path, logger)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	n, err := c.Load(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if n.Name == "" {
		n.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return n, nil
}

// Save writes n to path in the format matching its extension, creating parent directories as needed.
func Save(ctx context.Context, path string, n *wfnet.Net, logger *zap.Logger) error {
	c, err := ForPath(path, logger)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Flush(ctx, f, n); err != nil {
		_ = f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
