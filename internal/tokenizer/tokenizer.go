// Package tokenizer recognizes markup primitives on a sliding character
// buffer and computes the spans (offsets, not copies) that describe
// them.
//
// Every scan method in this file follows the same discipline: positions
// are tracked as a delta from the artifact's start (never as a cached
// absolute buffer offset), because the underlying buffer.Buffer may
// shift its window — renumbering every absolute offset — each time
// Ensure is called to pull in more data. Only once a full artifact has
// been scanned does a scan method fetch the buffer's current position
// once more (after which no further Ensure calls occur) to turn deltas
// into the absolute offsets a Span needs, then commits by calling
// Advance. See buffer.Buffer's doc comment for the shift contract.
package tokenizer

import (
	"io"

	"github.com/flowmark/corexml/internal/buffer"
	"github.com/flowmark/corexml/internal/charset"
)

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\f':
		return true
	}
	return false
}

// Tokenizer recognizes structural artifacts on buf according to cfg.
type Tokenizer struct {
	buf *buffer.Buffer
	cfg Config

	limitSeq []rune
	pending  []Token

	// pendingErr defers a strict-mode recognition error until the text
	// run preceding the offending character has been flushed, keeping
	// event order aligned with source order.
	pendingErr error
}

// New creates a Tokenizer reading from buf.
func New(buf *buffer.Buffer, cfg Config) *Tokenizer {
	return &Tokenizer{buf: buf, cfg: cfg}
}

// SetLimitSequence puts the tokenizer into (or out of, with nil)
// raw-text mode: structure recognition is disabled and input is scanned
// for a case-insensitive literal match of seq. This is the
// tokenizer-side half of the parse status back-channel.
func (t *Tokenizer) SetLimitSequence(seq []rune) {
	t.limitSeq = seq
}

// LimitSequence reports the tokenizer's current raw-text terminator, or
// nil if none is set.
func (t *Tokenizer) LimitSequence() []rune {
	return t.limitSeq
}

// Next returns the next token, or io.EOF once the buffer is exhausted.
func (t *Tokenizer) Next() (Token, error) {
	if len(t.pending) > 0 {
		tok := t.pending[0]
		t.pending = t.pending[1:]
		return tok, nil
	}
	if t.pendingErr != nil {
		err := t.pendingErr
		t.pendingErr = nil
		return Token{}, err
	}
	if t.limitSeq != nil {
		return t.nextRawText()
	}
	return t.nextNormal()
}

// cur is a scan-in-progress cursor: n counts runes confirmed to belong
// to the artifact currently being scanned, measured from the buffer's
// read head (which is not advanced until the scan commits).
type cur struct {
	t *Tokenizer
	n int
}

func (t *Tokenizer) newCur() cur { return cur{t: t} }

// ensure guarantees extra more runes are available past what's already
// been scanned. It returns false if end-of-input was reached first.
func (c *cur) ensure(extra int) bool {
	return c.t.buf.Ensure(c.n + extra)
}

// at returns the rune k runes past the current scan position. The
// caller must have ensured enough data first.
func (c *cur) at(k int) rune {
	return c.t.buf.At(c.t.buf.Pos() + c.n + k)
}

// peekAt returns the rune at delta runes from the artifact's start
// (not from the current scan position).
func (c *cur) peekAt(delta int) rune {
	return c.t.buf.At(c.t.buf.Pos() + delta)
}

// ensureTotal guarantees total runes are available counting from the
// artifact's start, regardless of how much has been scanned so far.
func (c *cur) ensureTotal(total int) bool {
	return c.t.buf.Ensure(total)
}

func (c *cur) advance(k int) { c.n += k }

// slice returns the length runes starting at fromDelta runes from the
// artifact's start.
func (c *cur) slice(fromDelta, length int) []rune {
	return c.t.buf.Slice(c.t.buf.Pos()+fromDelta, length)
}

// span builds a Span covering [fromDelta, fromDelta+length) of the
// artifact being scanned.
func (c *cur) span(fromDelta, length int) Span {
	line, col := c.t.lineColAt(fromDelta)
	return Span{Offset: c.t.buf.Pos() + fromDelta, Length: length, Line: line, Col: col}
}

// commit advances the underlying buffer past the whole scanned
// artifact. Call exactly once, after every Span for the artifact has
// already been built.
func (c *cur) commit() {
	c.t.buf.Advance(c.n)
}

// lineColAt computes the line/column at delta runes past the current
// read head, by replaying the same newline-counting rule as
// buffer.Buffer.Advance over the not-yet-consumed range.
func (t *Tokenizer) lineColAt(delta int) (line, col int) {
	line, col = t.buf.Line(), t.buf.Col()
	base := t.buf.Pos()
	for i := 0; i < delta; i++ {
		r := t.buf.At(base + i)
		switch r {
		case '\n':
			line++
			col = 1
		case '\r':
			if base+i+1 < t.buf.End() && t.buf.At(base+i+1) == '\n' {
				col++
			} else {
				line++
				col = 1
			}
		default:
			col++
		}
	}
	return line, col
}

func (t *Tokenizer) errorf(kind ErrorKind, detail string) error {
	return &Error{Kind: kind, Line: t.buf.Line(), Col: t.buf.Col(), Detail: detail}
}

// errorfAt reports a failure at delta runes past the read head, so the
// error names the offending character even when a text run precedes it.
func (t *Tokenizer) errorfAt(kind ErrorKind, delta int, detail string) error {
	line, col := t.lineColAt(delta)
	return &Error{Kind: kind, Line: line, Col: col, Detail: detail}
}

// nextNormal recognizes structures in priority order (comment, CDATA,
// DOCTYPE, XML declaration, processing instruction, close tag, open
// tag, text) outside of raw-text mode.
func (t *Tokenizer) nextNormal() (Token, error) {
	textLine, textCol := t.buf.Line(), t.buf.Col()
	textDelta := 0
	haveText := false

	for {
		c := t.newCur()
		if !c.ensure(textDelta + 1) {
			if haveText {
				return t.flushText(textDelta, textLine, textCol), nil
			}
			return Token{}, io.EOF
		}
		if t.buf.At(t.buf.Pos()+textDelta) != '<' {
			textDelta++
			haveText = true
			continue
		}

		structLine, structCol := textLine, textCol
		if haveText {
			structLine, structCol = t.lineColAt(textDelta)
		}
		tok, recognized, err := t.recognizeAt(textDelta)
		if err != nil {
			if haveText {
				t.pendingErr = err
				return t.flushText(textDelta, textLine, textCol), nil
			}
			return Token{}, err
		}
		if !recognized {
			// Lenient: this '<' cannot begin any structure, so it is
			// literal text; keep extending the text run past it.
			textDelta++
			haveText = true
			continue
		}
		if haveText {
			// The scan methods measure Outer, and a declaration's
			// Keyword, from the read head, which is the start of the text
			// run; move them onto the structure's own '<'. The scan
			// already committed the buffer past both the text run and the
			// structure, so the text span is recovered from the
			// structure's own start rather than re-advanced.
			tok.Outer = Span{Offset: tok.Outer.Offset + textDelta, Length: tok.Outer.Length - textDelta, Line: structLine, Col: structCol}
			switch tok.Kind {
			case KindXMLDecl:
				tok.Keyword = Span{Offset: tok.Outer.Offset + 2, Length: 3, Line: structLine, Col: structCol + 2}
			case KindDoctype:
				tok.Keyword = Span{Offset: tok.Outer.Offset + 2, Length: 7, Line: structLine, Col: structCol + 2}
			}
			t.pending = append(t.pending, tok)
			span := Span{Offset: tok.Outer.Offset - textDelta, Length: textDelta, Line: textLine, Col: textCol}
			return Token{Kind: KindText, Outer: span, Text: span}, nil
		}
		return tok, nil
	}
}

// flushText builds and commits a KindText token of length textDelta
// starting at the buffer's current read head, which is also where
// textLine/textCol were captured.
func (t *Tokenizer) flushText(textDelta, textLine, textCol int) Token {
	span := Span{Offset: t.buf.Pos(), Length: textDelta, Line: textLine, Col: textCol}
	t.buf.Advance(textDelta)
	return Token{Kind: KindText, Outer: span, Text: span}
}

// recognizeAt attempts to recognize a structure starting at delta runes
// past the read head, where delta is the length of the text run that
// nextNormal has already scanned ahead of this '<' (0 when the structure
// starts right at the read head).
func (t *Tokenizer) recognizeAt(delta int) (Token, bool, error) {
	c := t.newCur()
	c.advance(delta)

	if t.matchLiteral(&c, "<!--") {
		return t.scanComment(c)
	}
	if t.matchLiteral(&c, "<![CDATA[") {
		return t.scanCDATA(c)
	}
	if t.matchKeyword(&c, "<!doctype") {
		return t.scanDoctype(c)
	}
	if t.matchKeyword(&c, "<?xml") {
		return t.scanXMLDecl(c)
	}
	if t.matchLiteral(&c, "<?") {
		return t.scanPI(c)
	}
	if t.matchLiteral(&c, "</") {
		return t.scanCloseTag(c)
	}
	if c.ensure(2) && isTagNameStart(c.at(1)) {
		c.advance(1) // consume '<'; scanOpenTag starts at the name
		return t.scanOpenTag(c)
	}

	if !t.cfg.Lenient {
		return Token{}, false, t.errorfAt(UnexpectedStructure, delta, "unrecognized '<'")
	}
	return Token{}, false, nil
}

func isTagNameStart(r rune) bool {
	return !isSpace(r) && r != '>' && r != '/' && r != '!' && r != '?'
}

// matchLiteral reports whether the artifact at c's current position
// begins with lit, advancing c past it on success.
func (t *Tokenizer) matchLiteral(c *cur, lit string) bool {
	runes := []rune(lit)
	if !c.ensure(len(runes)) {
		return false
	}
	if !charset.Equal(c.slice(c.n, len(runes)), runes) {
		return false
	}
	c.advance(len(runes))
	return true
}

// matchKeyword is like matchLiteral but case-insensitive, and requires
// the keyword not be immediately followed by a name-continuation
// character (so "<!doctypeish" is not mistaken for "<!doctype").
func (t *Tokenizer) matchKeyword(c *cur, kw string) bool {
	runes := []rune(kw)
	if !c.ensure(len(runes)) {
		return false
	}
	if !charset.EqualFold(c.slice(c.n, len(runes)), runes) {
		return false
	}
	if c.ensure(len(runes) + 1) {
		if isNameContinuation(c.at(len(runes))) {
			return false
		}
	}
	// End-of-input right at the boundary also satisfies it.
	c.advance(len(runes))
	return true
}

func isNameContinuation(r rune) bool {
	return !isSpace(r) && r != '>' && r != '?' && r != '/'
}
