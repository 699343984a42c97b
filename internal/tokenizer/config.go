package tokenizer

// Dialect selects which structural recognition rules apply. The
// tokenizer itself reports only what was literally spelled — HTML's
// element model (registry, auto-balancing, void detection) lives in
// internal/htmlmodel and is applied by the parser core, not here.
type Dialect int

const (
	DialectXML Dialect = iota
	DialectHTML
)

// Config carries the subset of corexml.Config the tokenizer needs.
type Config struct {
	Dialect Dialect
	// Lenient relaxes malformed-structure handling: an unrecognized '<'
	// is treated as literal text instead of raising an error, and an
	// unterminated comment/CDATA/declaration at end-of-input is
	// reinterpreted as text rather than failing.
	Lenient bool
}
