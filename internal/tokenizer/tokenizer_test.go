package tokenizer_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmark/corexml/internal/buffer"
	"github.com/flowmark/corexml/internal/tokenizer"
)

func newTok(t *testing.T, s string, cfg tokenizer.Config) *tokenizer.Tokenizer {
	t.Helper()
	buf := buffer.NewFromRunes([]rune(s))
	return tokenizer.New(buf, cfg)
}

func collect(t *testing.T, tok *tokenizer.Tokenizer) []tokenizer.Token {
	t.Helper()
	var toks []tokenizer.Token
	for {
		tk, err := tok.Next()
		if err == io.EOF {
			return toks
		}
		require.NoError(t, err)
		toks = append(toks, tk)
	}
}

func text(s string, span tokenizer.Span) string {
	return s[span.Offset : span.Offset+span.Length]
}

func TestSimpleElement(t *testing.T) {
	s := "<p>hi</p>"
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML}))
	require.Len(t, toks, 3)
	require.Equal(t, tokenizer.KindOpenTag, toks[0].Kind)
	require.Equal(t, "p", text(s, toks[0].Name))
	require.False(t, toks[0].SelfClosing)
	require.Equal(t, tokenizer.KindText, toks[1].Kind)
	require.Equal(t, "hi", text(s, toks[1].Text))
	require.Equal(t, tokenizer.KindCloseTag, toks[2].Kind)
	require.Equal(t, "p", text(s, toks[2].Name))
}

func TestVoidElementWithoutSlashIsNotSelfClosing(t *testing.T) {
	// The tokenizer reports SelfClosing for the literal "/>" spelling
	// only; recognizing <br> as standalone despite the missing slash is
	// the element registry's and auto-balancer's job, not the
	// tokenizer's.
	s := "<br>"
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML}))
	require.Len(t, toks, 1)
	require.Equal(t, tokenizer.KindOpenTag, toks[0].Kind)
	require.False(t, toks[0].SelfClosing)
}

func TestExplicitSelfClosingTag(t *testing.T) {
	s := `<r/>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectXML}))
	require.Len(t, toks, 1)
	require.True(t, toks[0].SelfClosing)
	require.Equal(t, "r", text(s, toks[0].Name))
}

func TestAttributesQuotedAndUnquoted(t *testing.T) {
	s := `<a x=1 y='2' z="3 4">`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML}))
	require.Len(t, toks, 1)
	var attrs []tokenizer.TagPart
	for _, p := range toks[0].Parts {
		if p.Kind == tokenizer.PartAttribute {
			attrs = append(attrs, p)
		}
	}
	require.Len(t, attrs, 3)
	require.Equal(t, "x", text(s, attrs[0].Name))
	require.Equal(t, "1", text(s, attrs[0].ValueContent))
	require.Equal(t, "y", text(s, attrs[1].Name))
	require.Equal(t, "2", text(s, attrs[1].ValueContent))
	require.Equal(t, "'2'", text(s, attrs[1].ValueOuter))
	require.Equal(t, "z", text(s, attrs[2].Name))
	require.Equal(t, "3 4", text(s, attrs[2].ValueContent))
}

func TestRawTextScanningIgnoresMarkupLookingContent(t *testing.T) {
	s := `<script>if (a<b) {}</script>`
	tok := newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML})

	open, err := tok.Next()
	require.NoError(t, err)
	require.Equal(t, tokenizer.KindOpenTag, open.Kind)

	tok.SetLimitSequence([]rune("</script"))
	body, err := tok.Next()
	require.NoError(t, err)
	require.Equal(t, tokenizer.KindText, body.Kind)
	require.Equal(t, "if (a<b) {}", text(s, body.Text))
	require.False(t, body.RawTextUnterminated)

	closeTag, err := tok.Next()
	require.NoError(t, err)
	require.Equal(t, tokenizer.KindCloseTag, closeTag.Kind)
	require.Equal(t, "script", text(s, closeTag.Name))

	_, err = tok.Next()
	require.Equal(t, io.EOF, err)
}

func TestUnterminatedRawText(t *testing.T) {
	s := `<script>var x = 1;`
	tok := newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML})
	_, err := tok.Next()
	require.NoError(t, err)
	tok.SetLimitSequence([]rune("</script"))
	body, err := tok.Next()
	require.NoError(t, err)
	require.True(t, body.RawTextUnterminated)
	require.Equal(t, "var x = 1;", text(s, body.Text))
}

func TestXMLDeclarationAndStandaloneElement(t *testing.T) {
	s := `<?xml version="1.0"?><r/>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectXML}))
	require.Len(t, toks, 2)
	require.Equal(t, tokenizer.KindXMLDecl, toks[0].Kind)
	require.Equal(t, "1.0", text(s, toks[0].Version))
	require.Equal(t, tokenizer.KindOpenTag, toks[1].Kind)
	require.True(t, toks[1].SelfClosing)
}

func TestDoctypeThenElement(t *testing.T) {
	s := `<!DOCTYPE html><p>x</p>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML}))
	require.Equal(t, tokenizer.KindDoctype, toks[0].Kind)
	require.Equal(t, "html", text(s, toks[0].ElementName))
	require.Equal(t, tokenizer.KindOpenTag, toks[1].Kind)
}

func TestDoctypeWithPublicAndSystemIDs(t *testing.T) {
	s := `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML}))
	require.Len(t, toks, 1)
	require.Equal(t, "PUBLIC", text(s, toks[0].DoctypeType))
	require.Equal(t, "-//W3C//DTD XHTML 1.0//EN", text(s, toks[0].PublicID))
	require.Contains(t, text(s, toks[0].SystemID), "xhtml1-strict.dtd")
}

func TestCommentAndCDATA(t *testing.T) {
	s := `<!-- remark --><![CDATA[<raw>]]>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectXML}))
	require.Len(t, toks, 2)
	require.Equal(t, tokenizer.KindComment, toks[0].Kind)
	require.Equal(t, " remark ", text(s, toks[0].Content))
	require.Equal(t, tokenizer.KindCDATA, toks[1].Kind)
	require.Equal(t, "<raw>", text(s, toks[1].Content))
}

func TestListMarkupTokenKindsInSourceOrder(t *testing.T) {
	s := `<ul><li>a</li><li>b</li></ul>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML}))
	var kinds []tokenizer.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	require.Equal(t, []tokenizer.Kind{
		tokenizer.KindOpenTag, tokenizer.KindOpenTag, tokenizer.KindText, tokenizer.KindCloseTag,
		tokenizer.KindOpenTag, tokenizer.KindText, tokenizer.KindCloseTag, tokenizer.KindCloseTag,
	}, kinds)
}

func TestLenientUnrecognizedLessThanIsLiteralText(t *testing.T) {
	s := `a < b`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML, Lenient: true}))
	require.Len(t, toks, 1)
	require.Equal(t, tokenizer.KindText, toks[0].Kind)
	require.Equal(t, s, text(s, toks[0].Text))
}

func TestStrictUnrecognizedLessThanErrors(t *testing.T) {
	s := `a < b`
	tok := newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML, Lenient: false})
	_, err := tok.Next()
	require.NoError(t, err) // "a " flushed as text first
	_, err = tok.Next()
	require.Error(t, err)
	var terr *tokenizer.Error
	require.ErrorAs(t, err, &terr)
	require.Equal(t, tokenizer.UnexpectedStructure, terr.Kind)
}

func TestLineAndColumnTracking(t *testing.T) {
	s := "<p>\n<b>x</b>\n</p>"
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML}))
	require.Equal(t, 1, toks[0].Outer.Line)
	require.Equal(t, 1, toks[0].Outer.Col)
	// <b> begins on line 2.
	var bOpen tokenizer.Token
	for _, tk := range toks {
		if tk.Kind == tokenizer.KindOpenTag && text(s, tk.Name) == "b" {
			bOpen = tk
		}
	}
	require.Equal(t, 2, bOpen.Outer.Line)
	require.Equal(t, 1, bOpen.Outer.Col)
}

func TestXMLDeclarationKeywordAndPseudoAttributes(t *testing.T) {
	s := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectXML}))
	require.Len(t, toks, 1)
	require.Equal(t, "xml", text(s, toks[0].Keyword))
	require.Equal(t, "1.0", text(s, toks[0].Version))
	require.Equal(t, "UTF-8", text(s, toks[0].Encoding))
	require.Equal(t, "yes", text(s, toks[0].Standalone))
	require.Equal(t, s, text(s, toks[0].Outer))
}

func TestXMLDeclarationAbsentPartsHaveZeroLength(t *testing.T) {
	s := `<?xml version="1.0"?>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectXML}))
	require.Len(t, toks, 1)
	require.Zero(t, toks[0].Encoding.Length)
	require.Zero(t, toks[0].Standalone.Length)
}

func TestDoctypeKeywordExcludesMarkupDelimiters(t *testing.T) {
	s := `<!DOCTYPE html>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML}))
	require.Len(t, toks, 1)
	require.Equal(t, "DOCTYPE", text(s, toks[0].Keyword))
}

func TestRawTextTerminatorMatchIsCaseInsensitive(t *testing.T) {
	s := `<script>x</SCRIPT>`
	tok := newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML})
	_, err := tok.Next()
	require.NoError(t, err)
	tok.SetLimitSequence([]rune("</script"))
	body, err := tok.Next()
	require.NoError(t, err)
	require.Equal(t, "x", text(s, body.Text))
	closeTag, err := tok.Next()
	require.NoError(t, err)
	require.Equal(t, tokenizer.KindCloseTag, closeTag.Kind)
	require.Equal(t, "SCRIPT", text(s, closeTag.Name))
}

func TestProcessingInstruction(t *testing.T) {
	s := `<?php echo "hi"; ?>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectXML}))
	require.Len(t, toks, 1)
	require.Equal(t, tokenizer.KindPI, toks[0].Kind)
	require.Equal(t, "php", text(s, toks[0].Target))
	require.Equal(t, ` echo "hi"; `, text(s, toks[0].Content))
	require.Equal(t, s, text(s, toks[0].Outer))
}

func TestLenientUnterminatedCommentBecomesText(t *testing.T) {
	s := `before<!-- never closed`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectHTML, Lenient: true}))
	require.Len(t, toks, 1)
	require.Equal(t, tokenizer.KindText, toks[0].Kind)
	require.Equal(t, s, text(s, toks[0].Text))
}

func TestStrictUnterminatedCommentErrors(t *testing.T) {
	s := `<!-- never closed`
	tok := newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectXML, Lenient: false})
	_, err := tok.Next()
	require.Error(t, err)
	var terr *tokenizer.Error
	require.ErrorAs(t, err, &terr)
	require.Equal(t, tokenizer.MalformedStructure, terr.Kind)
}

func TestDoctypeWithInternalSubset(t *testing.T) {
	s := `<!DOCTYPE note [<!ENTITY x "y">]>`
	toks := collect(t, newTok(t, s, tokenizer.Config{Dialect: tokenizer.DialectXML}))
	require.Len(t, toks, 1)
	require.Equal(t, "note", text(s, toks[0].ElementName))
	require.Equal(t, `<!ENTITY x "y">`, text(s, toks[0].InternalSubset))
}
