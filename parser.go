package corexml

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/flowmark/corexml/internal/buffer"
	"github.com/flowmark/corexml/internal/charset"
	"github.com/flowmark/corexml/internal/htmlmodel"
	"github.com/flowmark/corexml/internal/tokenizer"
)

// Source is the character source a Parser consumes: the parser never
// owns I/O, it pulls runes from whatever the caller supplies. It is
// satisfied by internal/buffer.Source; re-declared here so callers
// outside this module can implement one without reaching into an
// internal package.
type Source interface {
	ReadRunes(p []rune) (n int, err error)
}

// Parser wires configuration, status, selection, and the handler chain,
// then drives the tokenize/dispatch loop. A Parser is reusable across
// calls to Parse but not reentrant for concurrent calls; independent
// instances are independent.
type Parser struct {
	cfg *Config
}

// NewParser creates a Parser with cfg. A nil cfg uses NewConfig()'s
// HTML-dialect defaults.
func NewParser(cfg *Config) *Parser {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Parser{cfg: cfg}
}

// Parse reads from r and dispatches events to h until end-of-input or a
// fatal error.
func (p *Parser) Parse(r io.Reader, h Handler) error {
	return p.parse(buffer.New(buffer.NewReaderSource(r)), h)
}

// ParseString parses s directly from memory, without going through an
// io.Reader — useful for tests and for re-feeding a captured span.
func (p *Parser) ParseString(s string, h Handler) error {
	return p.parse(buffer.NewFromRunes([]rune(s)), h)
}

// ParseSource parses runes pulled from an arbitrary Source.
func (p *Parser) ParseSource(src Source, h Handler) error {
	return p.parse(buffer.New(src), h)
}

func (p *Parser) parse(buf *buffer.Buffer, h Handler) error {
	if err := p.cfg.Validate(); err != nil {
		h.ParseError(err)
		return err
	}

	status := &Status{}
	sel := &Selection{Data: map[string]any{}}
	view := &View{buf: buf}

	h.SetParseConfiguration(p.cfg)
	h.SetParseStatus(status)
	h.SetParseSelection(sel)
	h.SetParser(p)
	h.SetHandlerChain(nil)

	var reg *htmlmodel.Registry
	var bal *htmlmodel.Balancer
	if p.cfg.Dialect == HTML && p.cfg.ElementBalancing == BalancingAutoOpenAndClose {
		reg = htmlmodel.NewRegistry()
		bal = htmlmodel.NewBalancer(reg)
	}

	tDialect := tokenizer.DialectXML
	if p.cfg.Dialect == HTML {
		tDialect = tokenizer.DialectHTML
	}
	tok := tokenizer.New(buf, tokenizer.Config{Dialect: tDialect, Lenient: p.cfg.Lenient})

	start := time.Now()
	h.DocumentStart(start.UnixNano(), 1, 1)

	run := &run{p: p, h: h, view: view, status: status, buf: buf, tok: tok, reg: reg, bal: bal}
	err := run.loop()

	if err == nil {
		err = run.finalizeBalancing()
	}
	if err == nil && status.Err != nil {
		err = &ParseError{Kind: HandlerError, Line: buf.Line(), Col: buf.Col(),
			Err: errors.Join(ErrHandlerAborted, status.Err)}
	}

	// No event is emitted after a fatal error; DocumentEnd only marks a
	// parse that ran to completion.
	if err != nil {
		h.ParseError(err)
		return err
	}

	end := time.Now()
	h.DocumentEnd(end.UnixNano(), end.Sub(start).Nanoseconds(), buf.Line(), buf.Col())
	return nil
}

// run holds the mutable state threaded through one parse's dispatch
// loop — split out of Parser itself and created afresh by each Parse
// call, so no per-parse state carries over from one call to the next.
type run struct {
	p      *Parser
	h      Handler
	view   *View
	status *Status
	buf    *buffer.Buffer
	tok    *tokenizer.Tokenizer
	reg    *htmlmodel.Registry
	bal    *htmlmodel.Balancer

	rawTextElement string // name of the element currently in raw-text mode, if any

	// reqStack is the plain open-element stack used when
	// ElementBalancing == BalancingRequired: unlike the HTML balancer,
	// it never repairs anything, only validates exact nesting.
	reqStack []string

	sawXMLDecl bool
	sawDoctype bool

	// depth approximates element nesting for the non-balancer modes;
	// with the balancer active the stack itself is authoritative.
	depth     int
	rootElems int
}

func (rn *run) finalizeBalancing() error {
	if rn.bal != nil {
		rn.drainStack()
		return nil
	}
	if rn.p.cfg.ElementBalancing == BalancingRequired && len(rn.reqStack) > 0 {
		return &ParseError{Kind: ConfigurationViolation,
			Err: errors.New("unclosed elements at document end: " + strings.Join(rn.reqStack, ", "))}
	}
	return nil
}

func (rn *run) loop() error {
	for {
		if rn.status.AutoCloseRequested != "" {
			name := rn.status.AutoCloseRequested
			rn.status.AutoCloseRequested = ""
			rn.handleAutoCloseRequest(name)
		}
		if rn.status.AutoOpenRequested != "" {
			name := rn.status.AutoOpenRequested
			rn.status.AutoOpenRequested = ""
			rn.emitAutoOpen(name)
		}

		if aerr := rn.status.Err; aerr != nil {
			return &ParseError{Kind: HandlerError, Line: rn.buf.Line(), Col: rn.buf.Col(),
				Err: errors.Join(ErrHandlerAborted, aerr)}
		}

		rn.tok.SetLimitSequence(rn.status.LimitSequence)
		tk, err := rn.tok.Next()
		rn.status.LimitSequence = rn.tok.LimitSequence()
		if errors.Is(err, io.EOF) {
			return rn.checkPrologPresence()
		}
		if err != nil {
			return rn.wrapTokenizerError(err)
		}
		if err := rn.dispatch(tk); err != nil {
			return err
		}
	}
}

func (rn *run) checkPrologPresence() error {
	present := rn.sawXMLDecl || rn.sawDoctype
	switch rn.p.cfg.PrologPresence {
	case PresenceRequired:
		if !present {
			return &ParseError{Kind: ConfigurationViolation, Err: errors.New("no XML declaration or DOCTYPE present but a prolog is required")}
		}
	case PresenceForbidden:
		if present {
			return &ParseError{Kind: ConfigurationViolation, Err: errors.New("an XML declaration or DOCTYPE is present but a prolog is forbidden")}
		}
	}
	if rn.p.cfg.XMLDeclarationPresence == PresenceRequired && !rn.sawXMLDecl {
		return &ParseError{Kind: ConfigurationViolation, Err: errors.New("no XML declaration present but one is required")}
	}
	if rn.p.cfg.DoctypePresence == PresenceRequired && !rn.sawDoctype {
		return &ParseError{Kind: ConfigurationViolation, Err: errors.New("no DOCTYPE present but one is required")}
	}
	if rn.uniqueRootEnforced() && rn.rootElems == 0 {
		return &ParseError{Kind: ConfigurationViolation, Err: errors.New("no root element present but one is required")}
	}
	return nil
}

// uniqueRootEnforced reports whether the unique-root-element rule is
// active for this parse: always under RootElementRequired, and only
// once a prolog (XML declaration or DOCTYPE) has been seen under
// RootElementDependsOnPrologDoctype.
func (rn *run) uniqueRootEnforced() bool {
	switch rn.p.cfg.UniqueRootElementPresence {
	case RootElementRequired:
		return true
	case RootElementDependsOnPrologDoctype:
		return rn.sawXMLDecl || rn.sawDoctype
	}
	return false
}

// noteRootElement records an element starting at nesting depth zero and
// rejects it eagerly when it is the second such root under an active
// unique-root rule, so the violation points at the offending tag.
func (rn *run) noteRootElement(tk tokenizer.Token) error {
	rn.rootElems++
	if rn.rootElems > 1 && rn.uniqueRootEnforced() {
		return &ParseError{Kind: ConfigurationViolation, Line: tk.Outer.Line, Col: tk.Outer.Col,
			Err: errors.New("multiple top-level elements but a unique root is required")}
	}
	return nil
}

func (rn *run) wrapTokenizerError(err error) error {
	var terr *tokenizer.Error
	if errors.As(err, &terr) {
		kind := MalformedStructure
		if terr.Kind == tokenizer.UnexpectedStructure {
			kind = UnexpectedStructure
		}
		return &ParseError{Kind: kind, Line: terr.Line, Col: terr.Col, Err: terr}
	}
	return &ParseError{Kind: HandlerError, Err: err}
}

func toPartition(s tokenizer.Span) Partition {
	return Partition{Offset: s.Offset, Length: s.Length, Line: s.Line, Col: s.Col}
}

func (rn *run) foldName(name string) string {
	if rn.p.cfg.CaseSensitive {
		return name
	}
	return charset.ToLowerASCII([]rune(name))
}

func (rn *run) dispatch(tk tokenizer.Token) error {
	switch tk.Kind {
	case tokenizer.KindText:
		rn.h.Text(rn.view, toPartition(tk.Text))
		if tk.RawTextUnterminated {
			name := rn.rawTextElement
			rn.rawTextElement = ""
			if rn.bal != nil && name != "" {
				// Pop the raw-text element too, or the document-end
				// drain would close it a second time.
				rn.bal.Close(name)
				rn.emitAutoClose(name)
			}
		}
		return nil

	case tokenizer.KindComment:
		rn.h.Comment(rn.view, toPartition(tk.Content), toPartition(tk.Outer))
		return nil

	case tokenizer.KindCDATA:
		rn.h.CDATASection(rn.view, toPartition(tk.Content), toPartition(tk.Outer))
		return nil

	case tokenizer.KindDoctype:
		if rn.p.cfg.DoctypePresence == PresenceForbidden {
			return &ParseError{Kind: ConfigurationViolation, Line: tk.Outer.Line, Col: tk.Outer.Col,
				Err: errors.New("DOCTYPE declaration present but forbidden by configuration")}
		}
		rn.sawDoctype = true
		rn.h.DocType(rn.view, toPartition(tk.Keyword), toPartition(tk.ElementName), toPartition(tk.DoctypeType),
			toPartition(tk.PublicID), toPartition(tk.SystemID), toPartition(tk.InternalSubset), toPartition(tk.Outer))
		return nil

	case tokenizer.KindXMLDecl:
		if rn.p.cfg.XMLDeclarationPresence == PresenceForbidden {
			return &ParseError{Kind: ConfigurationViolation, Line: tk.Outer.Line, Col: tk.Outer.Col,
				Err: errors.New("XML declaration present but forbidden by configuration")}
		}
		rn.sawXMLDecl = true
		rn.h.XMLDeclaration(rn.view, toPartition(tk.Keyword), toPartition(tk.Version), toPartition(tk.Encoding),
			toPartition(tk.Standalone), toPartition(tk.Outer))
		return nil

	case tokenizer.KindPI:
		rn.h.ProcessingInstruction(rn.view, toPartition(tk.Target), toPartition(tk.Content), toPartition(tk.Outer))
		return nil

	case tokenizer.KindOpenTag:
		return rn.dispatchOpenTag(tk)

	case tokenizer.KindCloseTag:
		return rn.dispatchCloseTag(tk)
	}
	return nil
}

func (rn *run) emitAttributesAndWhitespace(parts []tokenizer.TagPart) error {
	seen := map[string]bool{}
	for _, part := range parts {
		switch part.Kind {
		case tokenizer.PartWhitespace:
			rn.h.InnerWhiteSpace(rn.view, toPartition(part.Whitespace))
		case tokenizer.PartAttribute:
			folded := rn.foldName(rn.view.Text(toPartition(part.Name)))
			if rn.p.cfg.UniqueAttributesInElement {
				if seen[folded] {
					return &ParseError{Kind: ConfigurationViolation, Line: part.Name.Line, Col: part.Name.Col,
						Err: errors.New("duplicate attribute " + folded)}
				}
				seen[folded] = true
			}
			rn.h.Attribute(rn.view, toPartition(part.Name), toPartition(part.Operator),
				toPartition(part.ValueContent), toPartition(part.ValueOuter))
		}
	}
	return nil
}

func (rn *run) dispatchOpenTag(tk tokenizer.Token) error {
	namePartition := toPartition(tk.Name)
	rawName := rn.view.Text(namePartition)
	foldedName := rn.foldName(rawName)

	if rn.bal == nil {
		// No HTML auto-balancer in play: either balancing is off
		// entirely, or it is "required" and validated against a plain
		// stack instead of repaired.
		if rn.depth == 0 {
			if err := rn.noteRootElement(tk); err != nil {
				return err
			}
		}
		if tk.SelfClosing {
			rn.h.StandaloneElementStart(rn.view, namePartition, true)
			if err := rn.emitAttributesAndWhitespace(tk.Parts); err != nil {
				return err
			}
			rn.h.StandaloneElementEnd(rn.view, namePartition, true)
			return nil
		}
		rn.h.OpenElementStart(rn.view, namePartition)
		if err := rn.emitAttributesAndWhitespace(tk.Parts); err != nil {
			return err
		}
		rn.h.OpenElementEnd(rn.view, namePartition)
		rn.depth++
		if rn.p.cfg.ElementBalancing == BalancingRequired {
			rn.reqStack = append(rn.reqStack, foldedName)
		}
		return nil
	}

	result := rn.bal.Open(foldedName)
	if rn.bal.Depth() == 0 {
		if err := rn.noteRootElement(tk); err != nil {
			return err
		}
	}
	for _, closedName := range result.ImplicitCloses {
		rn.emitAutoClose(closedName)
	}

	// Standalone on the explicit "/>" spelling or a registry void;
	// minimized stays true only for the "/>" form.
	minimized := tk.SelfClosing
	if result.Void || tk.SelfClosing {
		rn.h.StandaloneElementStart(rn.view, namePartition, minimized)
		if err := rn.emitAttributesAndWhitespace(tk.Parts); err != nil {
			return err
		}
		rn.h.StandaloneElementEnd(rn.view, namePartition, minimized)
		return nil
	}

	rn.h.OpenElementStart(rn.view, namePartition)
	if err := rn.emitAttributesAndWhitespace(tk.Parts); err != nil {
		return err
	}
	rn.h.OpenElementEnd(rn.view, namePartition)

	suppress := rn.status.AvoidStackingOpenElement
	rn.status.AvoidStackingOpenElement = false
	rn.bal.PushOpened(foldedName, result.Void, suppress)

	if result.RawText || result.EscapableRawText {
		rn.status.LimitSequence = []rune("</" + foldedName)
		rn.rawTextElement = foldedName
	}
	return nil
}

func (rn *run) dispatchCloseTag(tk tokenizer.Token) error {
	namePartition := toPartition(tk.Name)
	foldedName := rn.foldName(rn.view.Text(namePartition))

	if rn.bal == nil {
		if rn.p.cfg.ElementBalancing == BalancingRequired {
			if len(rn.reqStack) == 0 || rn.reqStack[len(rn.reqStack)-1] != foldedName {
				return &ParseError{Kind: ConfigurationViolation, Line: tk.Outer.Line, Col: tk.Outer.Col,
					Err: errors.New("mismatched close tag </" + foldedName + ">")}
			}
			rn.reqStack = rn.reqStack[:len(rn.reqStack)-1]
		}
		rn.h.CloseElementStart(rn.view, namePartition)
		rn.h.CloseElementEnd(rn.view, namePartition)
		if rn.depth > 0 {
			rn.depth--
		}
		return nil
	}

	result := rn.bal.Close(foldedName)
	if !result.Matched {
		if rn.p.cfg.NoUnmatchedCloseElementsRequired {
			return &ParseError{Kind: UnexpectedStructure, Line: tk.Outer.Line, Col: tk.Outer.Col,
				Err: errors.New("unmatched close tag </" + foldedName + ">")}
		}
		rn.p.cfg.Logger.Debug("unmatched close element", "name", foldedName, "line", tk.Outer.Line, "col", tk.Outer.Col)
		rn.h.UnmatchedCloseElementStart(rn.view, namePartition)
		rn.h.UnmatchedCloseElementEnd(rn.view, namePartition)
		return nil
	}

	for _, closedName := range result.ImplicitCloses {
		rn.emitAutoClose(closedName)
	}
	rn.h.CloseElementStart(rn.view, namePartition)
	rn.h.CloseElementEnd(rn.view, namePartition)
	return nil
}

// syntheticNameView builds the view and name partition for a synthetic
// auto-open/auto-close event. The named element was never read from the
// input at this position, so the view is backed by the name's own runes
// rather than the shared buffer; line/column report where in the source
// the synthesis happened.
func (rn *run) syntheticNameView(name string) (*View, Partition) {
	runes := []rune(name)
	line, col := rn.buf.Line(), rn.buf.Col()
	return &View{runes: runes}, Partition{Offset: 0, Length: len(runes), Line: line, Col: col}
}

func (rn *run) emitAutoOpen(name string) {
	v, p := rn.syntheticNameView(name)
	rn.p.cfg.Logger.Debug("auto-opening element", "name", name, "line", p.Line, "col", p.Col)
	rn.h.AutoOpenElementStart(v, p)
	rn.h.AutoOpenElementEnd(v, p)
	if rn.bal != nil {
		rn.bal.AutoOpen(name)
	}
}

// handleAutoCloseRequest services a handler's autoCloseRequested hint:
// the named element, and anything opened inside it, is popped with
// synthetic close events before the next token is read.
func (rn *run) handleAutoCloseRequest(name string) {
	folded := rn.foldName(name)
	if rn.bal == nil {
		if n := len(rn.reqStack); n > 0 && rn.reqStack[n-1] == folded {
			rn.reqStack = rn.reqStack[:n-1]
		}
		if rn.depth > 0 {
			rn.depth--
		}
		rn.emitAutoClose(folded)
		return
	}
	result := rn.bal.Close(folded)
	if !result.Matched {
		rn.p.cfg.Logger.Debug("auto-close requested for element that is not open", "name", folded)
		return
	}
	for _, closedName := range result.ImplicitCloses {
		rn.emitAutoClose(closedName)
	}
	rn.emitAutoClose(folded)
}

func (rn *run) emitAutoClose(name string) {
	v, p := rn.syntheticNameView(name)
	rn.p.cfg.Logger.Debug("auto-closing element", "name", name, "line", p.Line, "col", p.Col)
	rn.h.AutoCloseElementStart(v, p)
	rn.h.AutoCloseElementEnd(v, p)
}

func (rn *run) drainStack() {
	for _, name := range rn.bal.DrainAll() {
		rn.emitAutoClose(name)
	}
}
