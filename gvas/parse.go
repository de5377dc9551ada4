package gvas

import (
	"context"
	"errors"
)

// DefaultMaxDepth bounds property nesting (struct-in-array-in-map chains).
// Depth is corruption-controlled, so the ceiling is explicit and
// independent of the host call stack.
const DefaultMaxDepth = 50

// ParseOptions configures a decode pass.
type ParseOptions struct {
	// Policy controls large-collection materialization.
	Policy Policy
	// MaxDepth bounds property nesting. Values <= 0 use DefaultMaxDepth.
	MaxDepth int
	// Context is checked between top-level properties; cancellation
	// aborts the pass with the context's error. Decoding has no finer
	// suspension points.
	Context context.Context
}

// DefaultParseOptions returns the stock configuration.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Policy:   DefaultPolicy(),
		MaxDepth: DefaultMaxDepth,
	}
}

// ParseStats summarizes how much of the buffer one pass consumed.
type ParseStats struct {
	FileSize  int64
	Parsed    int64
	Remaining int64
	Percent   float64
}

// ParseResult carries the decoded document plus everything observed along
// the way.
type ParseResult struct {
	// Doc is the decoded document. On a fatal error it holds whatever
	// decoded before the abort.
	Doc *Document
	// Diags collects recoverable anomalies, in detection order. Lazy
	// materialization after the pass appends here too.
	Diags *DiagSink
	// BytesParsed is the absolute offset the decode pass reached.
	BytesParsed int64
}

// Parse decodes a decompressed GVAS buffer with default options.
func Parse(data []byte) (*ParseResult, error) {
	return ParseWithOptions(data, DefaultParseOptions())
}

// ParseWithOptions decodes a decompressed GVAS buffer.
//
// A non-nil error means the pass aborted: bad magic, a structural failure
// outside any sized scope, recursion past the ceiling, or cancellation.
// Recoverable anomalies never fail the pass; they are appended to
// ParseResult.Diags and the document parses to completion around them.
func ParseWithOptions(data []byte, opts ParseOptions) (*ParseResult, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	d := &decoder{
		cur:   NewCursor(data),
		sink:  &DiagSink{},
		names: newInternTable(),
		opts:  opts,
	}
	res := &ParseResult{Diags: d.sink}
	doc := &Document{}
	res.Doc = doc

	finish := func() {
		res.BytesParsed = d.cur.Pos()
		doc.Stats = ParseStats{
			FileSize:  int64(len(data)),
			Parsed:    d.cur.Pos(),
			Remaining: d.cur.Remaining(),
		}
		if len(data) > 0 {
			doc.Stats.Percent = 100 * float64(d.cur.Pos()) / float64(len(data))
		}
	}

	hdr, err := d.parseHeader()
	doc.Header = hdr
	if err != nil {
		finish()
		return res, err
	}

	props, err := d.parsePropertyList(0, "")
	doc.Props = props
	finish()
	return res, err
}

// decoder threads the cursor, diagnostics sink, intern table, and options
// through one pass. The recursion depth is threaded explicitly as a
// parameter instead.
type decoder struct {
	cur   *Cursor
	sink  *DiagSink
	names *internTable
	opts  ParseOptions
}

// readStr reads a plain string value.
func (d *decoder) readStr() (string, error) {
	return d.cur.ReadString()
}

// readName reads a string through the intern table. Used for property
// names, type tags, and struct/enum/module names, which repeat heavily.
func (d *decoder) readName() (string, error) {
	s, err := d.cur.ReadString()
	if err != nil {
		return "", err
	}
	return d.names.get(s), nil
}

func (d *decoder) checkCtx() error {
	if d.opts.Context == nil {
		return nil
	}
	if err := d.opts.Context.Err(); err != nil {
		return errAt(d.cur.Pos(), err)
	}
	return nil
}

// runScoped decodes one sized construct: fn runs under a sub-cursor
// limited to end, and whatever happens inside, the outer cursor resumes
// exactly at end. A failure or a short decode becomes a diagnostic;
// recursion overflow and cancellation always propagate.
func (d *decoder) runScoped(end int64, path string, fn func() error) error {
	start := d.cur.Pos()
	sub, err := d.cur.LimitTo(end)
	if err != nil {
		// The declared size runs past the enclosing scope; the anchor
		// is unusable, so consume the rest of the scope instead.
		d.sink.Report(start, path, "declared end 0x%X exceeds scope end 0x%X", end, d.cur.End())
		return d.cur.SeekTo(d.cur.End())
	}
	outer := d.cur
	d.cur = sub
	err = fn()
	d.cur = outer
	switch {
	case err == nil:
		if sub.Pos() != end {
			d.sink.Report(sub.Pos(), path, "%v: decoded %d of %d declared bytes",
				ErrStructBoundary, sub.Pos()-start, end-start)
		}
	case errors.Is(err, ErrRecursionLimit),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		d.sink.Report(start, path, "%v", err)
	}
	return d.cur.SeekTo(end)
}
