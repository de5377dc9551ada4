package gvas

import "errors"

// elemDecoder decodes one bare element at the cursor.
type elemDecoder func(c *Cursor) (*Value, error)

// ElementSeq is the body of an Array or Set property: the element region's
// byte range plus the decode strategy, realized into values on demand. The
// region aliases the input buffer; nothing is copied. A sequence is finite
// and single-pass: an unmaterialized region is walked front to back at
// most once, and dropping it unconsumed is always safe.
type ElementSeq struct {
	inner    string
	count    int
	start    int64
	end      int64
	data     []byte
	dec      elemDecoder // nil for opaque regions
	decision Decision
	sink     *DiagSink
	context  string

	vals  []*Value // cached by Materialize
	spent bool
}

// InnerType returns the element type tag.
func (s *ElementSeq) InnerType() string { return s.inner }

// Len returns the declared element count.
func (s *ElementSeq) Len() int { return s.count }

// ByteRange returns the element region's [start, end) offsets.
func (s *ElementSeq) ByteRange() (start, end int64) { return s.start, s.end }

// Decision returns the policy outcome applied when the sequence was
// decoded.
func (s *ElementSeq) Decision() Decision { return s.decision }

// Materialized returns the cached element values, or nil if the sequence
// has not been materialized.
func (s *ElementSeq) Materialized() []*Value { return s.vals }

// Materialize decodes every element, caches the result, and returns it.
// Anomalies inside the region are appended to the owning document's
// diagnostics sink; the cache then holds the elements decoded before the
// anomaly. Recursion overflow is returned, never recorded as an anomaly.
func (s *ElementSeq) Materialize() ([]*Value, error) {
	if s.vals != nil {
		return s.vals, nil
	}
	it := s.Iter()
	if it.err != nil {
		return nil, it.err
	}
	// The declared count is corruption-controlled; cap preallocation by
	// the region size.
	n := int64(s.count)
	if r := s.end - s.start; n > r {
		n = r
	}
	vals := make([]*Value, 0, n)
	for it.Next() {
		vals = append(vals, it.Value())
	}
	s.vals = vals
	return vals, it.Err()
}

// Iter begins the forward pass over the elements. A materialized sequence
// iterates its cached values; an unmaterialized one may be walked once.
func (s *ElementSeq) Iter() *ElementIter {
	if s.vals != nil {
		return &ElementIter{seq: s}
	}
	if s.dec == nil {
		return &ElementIter{seq: s, err: errAt(s.start, ErrSeqOpaque)}
	}
	if s.spent {
		return &ElementIter{seq: s, err: errAt(s.start, ErrSeqConsumed)}
	}
	s.spent = true
	return &ElementIter{
		seq: s,
		cur: &Cursor{data: s.data, pos: s.start, end: s.end},
	}
}

// ElementIter walks an ElementSeq front to back.
type ElementIter struct {
	seq  *ElementSeq
	cur  *Cursor // nil when iterating cached values
	i    int
	val  *Value
	err  error
	done bool
}

// Next advances to the next element, reporting whether one is available.
func (it *ElementIter) Next() bool {
	if it.err != nil || it.done {
		return false
	}
	s := it.seq
	if it.cur == nil {
		if it.i >= len(s.vals) {
			it.done = true
			return false
		}
		it.val = s.vals[it.i]
		it.i++
		return true
	}
	if it.i >= s.count {
		it.done = true
		if rest := s.end - it.cur.Pos(); rest != 0 {
			s.report(it.cur.Pos(), "%v: %d bytes after last element", ErrStructBoundary, rest)
		}
		return false
	}
	v, err := s.dec(it.cur)
	if err != nil {
		it.done = true
		it.err = err
		if !errors.Is(err, ErrRecursionLimit) {
			s.report(it.cur.Pos(), "element %d: %v", it.i, err)
		}
		return false
	}
	it.val = v
	it.i++
	return true
}

// Value returns the element produced by the last successful Next.
func (it *ElementIter) Value() *Value { return it.val }

// Err returns the error that stopped iteration, if any.
func (it *ElementIter) Err() error { return it.err }

func (s *ElementSeq) report(offset int64, format string, args ...any) {
	if s.sink != nil {
		s.sink.Report(offset, s.context, format, args...)
	}
}
