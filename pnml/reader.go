package pnml

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jt05610/wfnet"
	"go.uber.org/zap"
)

// ParseError reports a malformed element. It aborts the whole load.
type ParseError struct {
	Element string
	Attr    string
	Line    int
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("pnml: line %d: %s", e.Line, e.Element)
	if e.Attr != "" {
		msg += " missing " + e.Attr
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reader streams a PNML document into a wfnet.Builder one element at a time.
type Reader struct {
	logger *zap.Logger

	dec     *xml.Decoder
	lastID  string
	inName  bool
	inToken bool
	inValue bool
}

// NewReader returns a reader that logs elements at debug level.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

// Read parses the document and forwards each element to b. Missing required attributes and XML syntax errors abort
// the read; rejections reported by b are logged and skipped.
func (r *Reader) Read(ctx context.Context, in io.Reader, b wfnet.Builder) error {
	r.dec = xml.NewDecoder(in)
	r.lastID, r.inName, r.inToken, r.inValue = "", false, false, false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("pnml: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if err := r.start(el, b); err != nil {
				return err
			}
		case xml.EndElement:
			r.end(el)
		case xml.CharData:
			r.text(string(el), b)
		}
	}
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

func (r *Reader) fail(el, attr string, err error) error {
	line, _ := r.dec.InputPos()
	return &ParseError{Element: el, Attr: attr, Line: line, Err: err}
}

func (r *Reader) soft(err error) {
	if err != nil {
		r.logger.Debug("element skipped", zap.Error(err))
	}
}

func (r *Reader) start(el xml.StartElement, b wfnet.Builder) error {
	name := strings.ToLower(el.Name.Local)
	switch name {
	case "place", "transition":
		id, ok := attr(el, "id")
		if !ok {
			r.lastID = ""
			return r.fail(name, "id", nil)
		}
		r.logger.Debug("found "+name, zap.String("id", id))
		if name == "place" {
			_, err := b.AddPlace(id)
			r.soft(err)
		} else {
			_, err := b.AddTransition(id)
			r.soft(err)
		}
		r.lastID = id
	case "arc":
		id, okID := attr(el, "id")
		src, okSrc := attr(el, "source")
		dst, okDst := attr(el, "target")
		switch {
		case !okID:
			return r.fail(name, "id", nil)
		case !okSrc:
			return r.fail(name, "source", nil)
		case !okDst:
			return r.fail(name, "target", nil)
		}
		r.logger.Debug("found arc", zap.String("id", id), zap.String("source", src), zap.String("target", dst))
		_, err := b.AddArc(id, src, dst)
		r.soft(err)
		r.lastID = ""
	case "position":
		return r.position(el, b)
	case "name":
		r.inName = true
	case "token", "initialmarking":
		r.inToken = true
	case "value", "text":
		r.inValue = true
	}
	return nil
}

func coordinate(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func (r *Reader) position(el xml.StartElement, b wfnet.Builder) error {
	xs, okX := attr(el, "x")
	ys, okY := attr(el, "y")
	if !okX {
		return r.fail("position", "x", nil)
	}
	if !okY {
		return r.fail("position", "y", nil)
	}
	x, err := coordinate(xs)
	if err != nil {
		return r.fail("position", "", err)
	}
	y, err := coordinate(ys)
	if err != nil {
		return r.fail("position", "", err)
	}
	if r.lastID == "" {
		// arc bend points
		r.logger.Debug("position outside of a node ignored", zap.Int("x", x), zap.Int("y", y))
		return nil
	}
	r.soft(b.SetPosition(r.lastID, x, y))
	return nil
}

func (r *Reader) end(el xml.EndElement) {
	switch strings.ToLower(el.Name.Local) {
	case "place", "transition":
		r.lastID = ""
	case "name":
		r.inName = false
	case "token", "initialmarking":
		r.inToken = false
	case "value", "text":
		r.inValue = false
	}
}

func (r *Reader) text(s string, b wfnet.Builder) {
	if !r.inValue || r.lastID == "" {
		return
	}
	if strings.TrimSpace(s) == "" {
		return
	}
	switch {
	case r.inName:
		r.soft(b.SetName(r.lastID, s))
	case r.inToken:
		r.soft(b.SetMarking(r.lastID, strings.TrimSpace(s)))
	}
}
