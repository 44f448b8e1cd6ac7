// Package inspect reports a target line of a text file together with its
// immediate neighbors.
//
// The report order is fixed: the target line first, then the line before it,
// then the line after it. Every failure is folded into the report as a single
// *Error; nothing is returned to the caller as a Go error.
package inspect

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"lineinspect/internal/document"
)

// DefaultTarget is the line inspected when no other line is configured.
const DefaultTarget = 1160

// NeighborPolicy decides what happens when a neighbor line does not exist.
type NeighborPolicy string

const (
	// PolicyStrict reads neighbors without a range check, so a missing
	// neighbor ends the report with an out-of-range error.
	PolicyStrict NeighborPolicy = "strict"

	// PolicyLenient notes missing neighbors and keeps going.
	PolicyLenient NeighborPolicy = "lenient"
)

// ParsePolicy parses a neighbor policy name. Empty means strict.
func ParsePolicy(s string) (NeighborPolicy, error) {
	switch NeighborPolicy(s) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown neighbor policy %q (valid: %s, %s)", s, PolicyStrict, PolicyLenient)
	}
}

// Entry is one labeled line of a report.
type Entry struct {
	Number int
	Text   string
	// Absent marks a neighbor that does not exist (lenient policy only).
	Absent bool
}

// Report is the outcome of one inspection.
type Report struct {
	Path   string
	Target int
	// Total is the number of lines in the document, 0 if it was never loaded.
	Total   int
	Entries []Entry
	Err     error
}

// Options configures an Inspector.
type Options struct {
	Neighbors NeighborPolicy
	Logger    *zap.Logger
}

// Inspector runs line inspections.
type Inspector struct {
	policy NeighborPolicy
	logger *zap.Logger
}

// New creates an Inspector. A nil logger disables logging.
func New(opts Options) *Inspector {
	policy := opts.Neighbors
	if policy == "" {
		policy = PolicyStrict
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{policy: policy, logger: logger}
}

// Inspect loads path and collects the target line and its neighbors.
func (in *Inspector) Inspect(ctx context.Context, path string, target int) Report {
	r := Report{Path: path, Target: target}

	if target < 1 {
		r.Err = &Error{Kind: KindInvalidTarget, Path: path, Err: fmt.Errorf("line %d must be 1 or greater", target)}
		return r
	}

	in.logger.Debug("Loading document", zap.String("path", path), zap.Int("target", target))
	doc, err := document.Load(ctx, path)
	if err != nil {
		r.Err = classify(path, err)
		return r
	}
	r.Total = doc.Len()

	if !doc.Has(target) {
		in.logger.Debug("Document shorter than target",
			zap.Int("lines", doc.Len()),
			zap.Int("target", target))
		return r
	}

	for _, n := range []int{target, target - 1, target + 1} {
		line, err := doc.Line(n)
		if err != nil {
			if in.policy == PolicyLenient {
				r.Entries = append(r.Entries, Entry{Number: n, Absent: true})
				continue
			}
			r.Err = classify(path, err)
			break
		}
		r.Entries = append(r.Entries, Entry{Number: line.Number, Text: line.Text})
	}
	return r
}

// Run inspects path and writes the rendered report to w.
func (in *Inspector) Run(ctx context.Context, w io.Writer, path string, target int) Report {
	r := in.Inspect(ctx, path, target)
	if r.Err != nil {
		in.logger.Warn("Inspection failed",
			zap.String("path", path),
			zap.String("kind", string(KindOf(r.Err))),
			zap.Error(r.Err))
	} else {
		in.logger.Info("Inspection complete",
			zap.String("path", path),
			zap.Int("lines", r.Total),
			zap.Int("entries", len(r.Entries)))
	}
	if err := Render(w, r); err != nil {
		in.logger.Error("Failed to write report", zap.Error(err))
	}
	return r
}

// Render writes r in its console form. Entry text keeps its own line
// terminator, so a terminated line is followed by an empty line.
func Render(w io.Writer, r Report) error {
	for _, e := range r.Entries {
		var err error
		if e.Absent {
			_, err = fmt.Fprintf(w, "Line %d: <absent, document has %d lines>\n", e.Number, r.Total)
		} else {
			_, err = fmt.Fprintf(w, "Line %d: %s\n", e.Number, e.Text)
		}
		if err != nil {
			return err
		}
	}
	if r.Err != nil {
		if _, err := fmt.Fprintln(w, r.Err.Error()); err != nil {
			return err
		}
	}
	return nil
}
