package tokenizer

import "github.com/flowmark/corexml/internal/charset"

// scanUntil advances c past the first occurrence of term (inclusive),
// growing the lookahead window as needed. When fold is true the match
// folds ASCII case, as raw-text terminator scanning requires. It
// reports false, having consumed everything through end-of-input, if
// term never appears.
func (t *Tokenizer) scanUntil(c *cur, term []rune, fold bool) bool {
	tl := len(term)
	eq := charset.Equal
	if fold {
		eq = charset.EqualFold
	}
	searchFrom := c.n
	chunk := 64

	for {
		want := searchFrom + tl + chunk
		ok := c.ensureTotal(want)
		avail := t.buf.Available()
		limit := avail - tl
		for i := searchFrom; i <= limit; i++ {
			if eq(t.buf.Slice(t.buf.Pos()+i, tl), term) {
				c.n = i + tl
				return true
			}
		}
		if !ok {
			c.n = avail
			return false
		}
		if limit+1 > searchFrom {
			searchFrom = limit + 1
		}
		chunk *= 2
	}
}

// scanComment scans a comment body, c having already consumed "<!--".
func (t *Tokenizer) scanComment(c cur) (Token, bool, error) {
	contentStart := c.n
	found := t.scanUntil(&c, []rune("-->"), false)
	if !found {
		if !t.cfg.Lenient {
			return Token{}, false, t.errorf(MalformedStructure, "unterminated comment")
		}
		return Token{}, false, nil
	}
	content := c.span(contentStart, c.n-3-contentStart)
	outer := c.span(0, c.n)
	c.commit()
	return Token{Kind: KindComment, Outer: outer, Content: content}, true, nil
}

// scanCDATA scans a CDATA section, c having already consumed "<![CDATA[".
func (t *Tokenizer) scanCDATA(c cur) (Token, bool, error) {
	contentStart := c.n
	found := t.scanUntil(&c, []rune("]]>"), false)
	if !found {
		if !t.cfg.Lenient {
			return Token{}, false, t.errorf(MalformedStructure, "unterminated CDATA section")
		}
		return Token{}, false, nil
	}
	content := c.span(contentStart, c.n-3-contentStart)
	outer := c.span(0, c.n)
	c.commit()
	return Token{Kind: KindCDATA, Outer: outer, Content: content}, true, nil
}

// scanPI scans a processing instruction, c having already consumed "<?".
func (t *Tokenizer) scanPI(c cur) (Token, bool, error) {
	targetStart := c.n
	for c.ensure(1) && !isSpace(c.at(0)) && !(c.at(0) == '?' && c.ensure(2) && c.at(1) == '>') {
		c.advance(1)
	}
	target := c.span(targetStart, c.n-targetStart)

	found := t.scanUntil(&c, []rune("?>"), false)
	if !found {
		if !t.cfg.Lenient {
			return Token{}, false, t.errorf(MalformedStructure, "unterminated processing instruction")
		}
		return Token{}, false, nil
	}
	content := c.span(targetStart+(target.Length), c.n-2-(targetStart+target.Length))
	outer := c.span(0, c.n)
	c.commit()
	return Token{Kind: KindPI, Outer: outer, Target: target, Content: content}, true, nil
}

// scanXMLDecl scans an XML declaration, c having already consumed
// "<?xml". Version/encoding/standalone are extracted as pseudo-attribute
// values the same way scanAttribute reads them, but position and
// well-formedness of the declaration body are not second-guessed here —
// presence rules belong to the parser core.
func (t *Tokenizer) scanXMLDecl(c cur) (Token, bool, error) {
	// c has consumed "<?xml"; the keyword partition is the bare "xml".
	tok := Token{Kind: KindXMLDecl, Keyword: c.span(2, 3)}
	for {
		if !c.ensure(1) {
			if !t.cfg.Lenient {
				return Token{}, false, t.errorf(MalformedStructure, "unterminated XML declaration")
			}
			return Token{}, false, nil
		}
		if isSpace(c.at(0)) {
			for c.ensure(1) && isSpace(c.at(0)) {
				c.advance(1)
			}
			continue
		}
		if c.at(0) == '?' && c.ensure(2) && c.at(1) == '>' {
			c.advance(2)
			break
		}
		part, ok := t.scanAttribute(&c)
		if !ok {
			if !t.cfg.Lenient {
				return Token{}, false, t.errorf(MalformedStructure, "unterminated XML declaration")
			}
			return Token{}, false, nil
		}
		switch charset.ToLowerASCII(c.t.buf.Slice(part.Name.Offset, part.Name.Length)) {
		case "version":
			tok.Version = part.ValueContent
		case "encoding":
			tok.Encoding = part.ValueContent
		case "standalone":
			tok.Standalone = part.ValueContent
		}
	}
	tok.Outer = c.span(0, c.n)
	c.commit()
	return tok, true, nil
}

// scanDoctype scans a DOCTYPE declaration, c having already consumed
// "<!doctype" (case folded): the root element name, the optional
// PUBLIC/SYSTEM identifiers, and an optional bracketed internal subset.
func (t *Tokenizer) scanDoctype(c cur) (Token, bool, error) {
	// c has consumed "<!doctype"; the keyword partition excludes "<!".
	tok := Token{Kind: KindDoctype, Keyword: c.span(2, c.n-2)}

	skipSpace := func() bool {
		for c.ensure(1) && isSpace(c.at(0)) {
			c.advance(1)
		}
		return c.ensure(1)
	}
	readToken := func() Span {
		start := c.n
		for c.ensure(1) && !isSpace(c.at(0)) && c.at(0) != '>' {
			c.advance(1)
		}
		return c.span(start, c.n-start)
	}
	readQuoted := func() (Span, bool) {
		if !c.ensure(1) {
			return Span{}, false
		}
		q := c.at(0)
		if q != '"' && q != '\'' {
			return Span{}, false
		}
		c.advance(1)
		start := c.n
		for c.ensure(1) && c.at(0) != q {
			c.advance(1)
		}
		sp := c.span(start, c.n-start)
		if c.ensure(1) && c.at(0) == q {
			c.advance(1)
		}
		return sp, true
	}

	if !skipSpace() {
		return t.unterminatedDoctype(c)
	}
	if c.at(0) != '>' {
		tok.ElementName = readToken()
	}
	if skipSpace() && c.at(0) != '>' && c.at(0) != '[' {
		kw := readToken()
		kind := charset.ToLowerASCII(c.t.buf.Slice(kw.Offset, kw.Length))
		if kind == "public" || kind == "system" {
			tok.DoctypeType = kw
			if skipSpace() {
				if sp, ok := readQuoted(); ok {
					if kind == "public" {
						tok.PublicID = sp
					} else {
						tok.SystemID = sp
					}
				}
			}
			if kind == "public" && skipSpace() {
				if sp, ok := readQuoted(); ok {
					tok.SystemID = sp
				}
			}
		}
	}
	skipSpace()
	if c.ensure(1) && c.at(0) == '[' {
		subsetStart := c.n
		c.advance(1)
		if !t.scanUntil(&c, []rune("]"), false) {
			return t.unterminatedDoctype(c)
		}
		tok.InternalSubset = c.span(subsetStart+1, c.n-1-(subsetStart+1))
		skipSpace()
	}
	if !c.ensure(1) || c.at(0) != '>' {
		return t.unterminatedDoctype(c)
	}
	c.advance(1)
	tok.Outer = c.span(0, c.n)
	c.commit()
	return tok, true, nil
}

func (t *Tokenizer) unterminatedDoctype(c cur) (Token, bool, error) {
	if !t.cfg.Lenient {
		return Token{}, false, t.errorf(MalformedStructure, "unterminated DOCTYPE declaration")
	}
	return Token{}, false, nil
}

// scanOpenTag scans an open or standalone tag, c having already
// confirmed a name-start character follows '<'.
func (t *Tokenizer) scanOpenTag(c cur) (Token, bool, error) {
	nameStart := c.n
	for c.ensure(1) && isTagNameStart(c.at(0)) {
		c.advance(1)
	}
	name := c.span(nameStart, c.n-nameStart)

	parts, selfClosing, closed := t.scanTagBody(&c)
	if !closed {
		if !t.cfg.Lenient {
			return Token{}, false, t.errorf(MalformedStructure, "unterminated tag")
		}
		return Token{}, false, nil
	}
	// SelfClosing reflects only the literal "/>" form here; whether an
	// HTML void element without a slash is nonetheless standalone is a
	// decision for the element registry and auto-balancer, not the
	// tokenizer (the "minimized" flag a caller reports to its handler
	// must stay true only for the explicit "/>" spelling).
	outer := c.span(0, c.n)
	c.commit()
	return Token{Kind: KindOpenTag, Outer: outer, Name: name, SelfClosing: selfClosing, Parts: parts}, true, nil
}

// scanCloseTag scans a close tag, c having already consumed "</".
func (t *Tokenizer) scanCloseTag(c cur) (Token, bool, error) {
	nameStart := c.n
	for c.ensure(1) && isTagNameStart(c.at(0)) {
		c.advance(1)
	}
	name := c.span(nameStart, c.n-nameStart)

	parts, _, closed := t.scanTagBody(&c)
	if !closed {
		if !t.cfg.Lenient {
			return Token{}, false, t.errorf(MalformedStructure, "unterminated close tag")
		}
		return Token{}, false, nil
	}
	outer := c.span(0, c.n)
	c.commit()
	return Token{Kind: KindCloseTag, Outer: outer, Name: name, Parts: parts}, true, nil
}

// nextRawText implements raw-text mode: a single text token runs
// up to (not including) the limit sequence, and the close tag that
// follows is emitted as a second, queued token so callers always see a
// real close-tag event ending raw-text content.
func (t *Tokenizer) nextRawText() (Token, error) {
	textLine, textCol := t.buf.Line(), t.buf.Col()
	c := t.newCur()
	found := t.scanUntil(&c, t.limitSeq, true)

	textLen := c.n
	if found {
		textLen -= len(t.limitSeq)
		// The limit sequence is "</" + tag name; consume through the
		// tag's terminating '>' so the buffer doesn't retain a dangling
		// fragment of the close tag.
		for c.ensure(1) && c.at(0) != '>' {
			c.advance(1)
		}
		if c.ensure(1) && c.at(0) == '>' {
			c.advance(1)
		}
	}
	textSpan := Span{Offset: t.buf.Pos(), Length: textLen, Line: textLine, Col: textCol}

	if !found {
		t.buf.Advance(textLen)
		t.limitSeq = nil
		return Token{Kind: KindText, Outer: textSpan, Text: textSpan, RawTextUnterminated: true}, nil
	}

	closeTagLen := c.n - textLen
	closeSpan := c.span(textLen, closeTagLen)
	t.buf.Advance(c.n)
	t.limitSeq = nil

	// Re-tokenize the consumed limit sequence's interior (the close tag's
	// name and body) so the queued token carries real TagPart data
	// instead of an opaque blob; the limit sequence is always of the
	// form "</name" plus whatever follows up to '>', scanned fresh here
	// because it has already been committed to the buffer.
	closeTok := t.classifyConsumedCloseTag(closeSpan)
	t.pending = append(t.pending, closeTok)
	return Token{Kind: KindText, Outer: textSpan, Text: textSpan}, nil
}

// classifyConsumedCloseTag re-derives Name/Parts for a close tag whose
// bytes have already been advanced past (raw-text mode commits the
// whole limit sequence in one step, since the text token and the close
// tag are discovered together).
func (t *Tokenizer) classifyConsumedCloseTag(span Span) Token {
	body := t.buf.Slice(span.Offset, span.Length)
	// body is "</" + name + (attrs/whitespace, ignored for raw-text
	// close tags per HTML) + ">"
	i := 2
	nameStart := i
	for i < len(body) && isTagNameStart(body[i]) {
		i++
	}
	name := Span{Offset: span.Offset + nameStart, Length: i - nameStart, Line: span.Line, Col: span.Col + nameStart}
	return Token{Kind: KindCloseTag, Outer: span, Name: name}
}
