package gvas

import "fmt"

// Diagnostic records one recoverable decode anomaly: the construct kept its
// declared byte boundary, the body did not decode cleanly.
type Diagnostic struct {
	// Offset is the absolute byte offset where the anomaly was detected.
	Offset int64
	// Context is the dotted property path (or construct description)
	// active when the anomaly occurred.
	Context string
	// Message describes the cause.
	Message string
}

// String renders the diagnostic as "0x<offset> <context>: <message>".
func (d Diagnostic) String() string {
	if d.Context == "" {
		return fmt.Sprintf("0x%X: %s", d.Offset, d.Message)
	}
	return fmt.Sprintf("0x%X %s: %s", d.Offset, d.Context, d.Message)
}

// DiagSink accumulates diagnostics in detection order. It is append-only
// and single-writer: the one decode pass, plus any later lazy
// materialization by the caller. Entries carry byte offsets rather than
// sequence numbers.
type DiagSink struct {
	diags []Diagnostic
}

// Report appends one diagnostic. It never fails and never reorders.
func (s *DiagSink) Report(offset int64, context, format string, args ...any) {
	s.diags = append(s.diags, Diagnostic{
		Offset:  offset,
		Context: context,
		Message: fmt.Sprintf(format, args...),
	})
}

// All returns the recorded diagnostics in detection order. The slice is
// the sink's backing storage; callers must not mutate it.
func (s *DiagSink) All() []Diagnostic {
	return s.diags
}

// Len returns the number of recorded diagnostics.
func (s *DiagSink) Len() int {
	return len(s.diags)
}
