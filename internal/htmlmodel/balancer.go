package htmlmodel

// OpenResult describes how the Balancer wants an open tag handled.
// ImplicitCloses names the elements that must be auto-closed, in pop
// order (innermost first), before the real open event is emitted.
type OpenResult struct {
	Void               bool
	RawText            bool
	EscapableRawText   bool
	ImplicitCloses     []string
}

// CloseResult describes how the Balancer wants a close tag handled.
type CloseResult struct {
	// Matched is true if name was found somewhere on the stack.
	Matched bool
	// ImplicitCloses names elements above the matched one that must be
	// auto-closed first, in pop order (innermost first). Empty when the
	// matched element was already the stack top.
	ImplicitCloses []string
}

// Balancer owns the open-element stack and decides, as a pure function
// of the incoming element name and the current stack top, what
// synthetic open/close events the parser core must emit around a real
// one. It never touches a buffer or a handler — those belong to the
// parser core.
type Balancer struct {
	reg   *Registry
	stack elementStack
}

// NewBalancer creates a Balancer backed by reg.
func NewBalancer(reg *Registry) *Balancer {
	return &Balancer{reg: reg}
}

// Open plans the effect of opening element name: it pops implicitly
// closed elements off the stack (applying the registry's optional-close
// rules repeatedly until a fixed point) and reports whether the element
// is void, raw-text, or escapable-raw-text.
//
// Open does not itself push name onto the stack — call PushOpened after
// the caller has emitted the real open event and consulted the
// handler's suppression request.
func (b *Balancer) Open(name string) OpenResult {
	el := b.reg.Lookup(name)
	res := OpenResult{
		Void:             el.IsVoid,
		RawText:          el.IsRawText,
		EscapableRawText: el.IsEscapableRawText,
	}
	for {
		top := b.stack.top()
		if top == "" || !b.reg.ShouldAutoClose(top, name) {
			break
		}
		b.stack.pop()
		res.ImplicitCloses = append(res.ImplicitCloses, top)
	}
	return res
}

// PushOpened pushes name onto the open-element stack, unless suppress is
// true (the handler set avoidStackingOpenElement) or the element is
// void (voids are never pushed).
func (b *Balancer) PushOpened(name string, void, suppress bool) {
	if void || suppress {
		return
	}
	b.stack.push(name)
}

// Close plans the effect of closing element name, covering the three
// cases: exact top match, a match further down the stack (which
// implicitly closes everything above it), or no match at all.
func (b *Balancer) Close(name string) CloseResult {
	if b.stack.top() == name {
		b.stack.pop()
		return CloseResult{Matched: true}
	}
	idx := b.stack.indexOf(name)
	if idx == -1 {
		return CloseResult{Matched: false}
	}
	var implicit []string
	for b.stack.len()-1 > idx {
		implicit = append(implicit, b.stack.pop())
	}
	b.stack.pop() // name itself
	return CloseResult{Matched: true, ImplicitCloses: implicit}
}

// AutoOpen pushes name directly, for the handler-requested auto-open
// hint.
func (b *Balancer) AutoOpen(name string) {
	b.stack.push(name)
}

// IsEmpty reports whether the open-element stack is empty.
func (b *Balancer) IsEmpty() bool {
	return b.stack.len() == 0
}

// DrainAll pops and returns every remaining open element, innermost
// first, for the document-end auto-close pass that restores the
// invariant that the stack is empty at document end.
func (b *Balancer) DrainAll() []string {
	var out []string
	for b.stack.len() > 0 {
		out = append(out, b.stack.pop())
	}
	return out
}

// Depth reports the number of currently open elements.
func (b *Balancer) Depth() int {
	return b.stack.len()
}
