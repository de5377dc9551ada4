package gvas

// Mode selects how much of a large collection is materialized.
type Mode uint8

const (
	// Terse summarizes collections above TerseLimit as count-only.
	Terse Mode = iota
	// Verbose materializes every element.
	Verbose
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Verbose {
		return "verbose"
	}
	return "terse"
}

// DefaultTerseLimit is the element count above which terse mode stops
// materializing a collection.
const DefaultTerseLimit = 100

// Policy controls materialization of array/set/map bodies. The cursor
// advances by each construct's declared byte length under every policy,
// so sibling decoding never depends on the choice.
type Policy struct {
	Mode Mode
	// IncludeNames lists property names materialized in full even in
	// terse mode.
	IncludeNames []string
	// TerseLimit is the element count above which terse mode
	// summarizes. Values <= 0 use DefaultTerseLimit.
	TerseLimit int
}

// DefaultPolicy returns the terse policy with the stock limit.
func DefaultPolicy() Policy {
	return Policy{Mode: Terse, TerseLimit: DefaultTerseLimit}
}

// Decision is the materialization outcome for one collection.
type Decision uint8

const (
	// MaterializeFull decodes every element.
	MaterializeFull Decision = iota
	// MaterializeSummary keeps the count and byte range only; elements
	// stay decodable on demand.
	MaterializeSummary
	// MaterializeSkip marks an element encoding the decoder cannot
	// read; the byte range is retained opaque.
	MaterializeSkip
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case MaterializeFull:
		return "full"
	case MaterializeSummary:
		return "summary"
	case MaterializeSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// decide returns the outcome for a named collection of count elements.
func (p Policy) decide(name string, count int) Decision {
	if p.Mode == Verbose {
		return MaterializeFull
	}
	for _, n := range p.IncludeNames {
		if n == name {
			return MaterializeFull
		}
	}
	limit := p.TerseLimit
	if limit <= 0 {
		limit = DefaultTerseLimit
	}
	if count > limit {
		return MaterializeSummary
	}
	return MaterializeFull
}
