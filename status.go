package corexml

// Status is the mutable back-channel between handlers and the parser
// core: a small context passed by reference to every handler via
// SetParseStatus. A handler mutates the fields it cares about from
// within an event method; the parser core reads them back before
// deciding the next action. Fields are reset to their zero value once
// consumed.
type Status struct {
	// LimitSequence, when non-nil, disables structure recognition and
	// puts the tokenizer into raw-text mode: every character up to the
	// next case-insensitive literal match is emitted as a single text
	// event. The parser core sets this itself when opening a raw-text
	// HTML element; a handler may also set it directly to force
	// raw-text scanning for elements the registry doesn't know about.
	LimitSequence []rune

	// AutoOpenRequested, when non-empty, asks the parser to synthesize
	// an autoOpenElementStart/End pair for the named element before the
	// next event is processed, then push it onto the element stack.
	AutoOpenRequested string

	// AutoCloseRequested, when non-empty, asks the parser to synthesize
	// an autoCloseElementStart/End pair for the named element before
	// the next event is processed, popping it (and any elements opened
	// inside it) off the element stack. A request naming an element
	// that is not open is ignored. Both hold with the HTML auto-balancer
	// active; without it (XML dialect, or any other balancing mode) the
	// pair is emitted for the named element as requested, and the
	// required-balancing stack is popped only when its top is that
	// element.
	AutoCloseRequested string

	// AvoidStackingOpenElement, when true, tells the parser not to push
	// the next opened element onto the stack (it is still reported via
	// the normal openElementStart/End events).
	AvoidStackingOpenElement bool

	// Err, when set non-nil by a handler, aborts the parse: no further
	// input is read, DocumentEnd is not emitted, and Parse returns the
	// error wrapped in a *ParseError of kind HandlerError. Events already
	// under way when it is set, such as the remaining events of the
	// token being dispatched, are still delivered.
	Err error
}

// Selection is an opaque per-parse context shared across a handler
// chain for the duration of one Parse call. The
// core never reads or writes Data itself; it exists purely so
// cooperating handlers in a chain (e.g. a selector filter feeding a DOM
// builder) can pass information to each other without a side channel.
type Selection struct {
	Data map[string]any
}
