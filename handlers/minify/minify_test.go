package minify_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmark/corexml"
	"github.com/flowmark/corexml/handlers/minify"
)

func minified(t *testing.T, doc string) string {
	t.Helper()
	var sb strings.Builder
	m := minify.New(&sb)
	require.NoError(t, corexml.NewParser(corexml.NewConfig()).ParseString(doc, m))
	require.NoError(t, m.Flush())
	return sb.String()
}

func TestDropsInterTagWhitespace(t *testing.T) {
	out := minified(t, "<div>\n  <p>a</p>\n</div>")
	require.Equal(t, "<div><p>a</p></div>", out)
}

func TestCollapsesWhitespaceRunsInText(t *testing.T) {
	out := minified(t, "<p>a  b\n\tc</p>")
	require.Equal(t, "<p>a b c</p>", out)
}

func TestKeepsUnminimizedStandaloneForm(t *testing.T) {
	out := minified(t, "<div><br></div>")
	require.Equal(t, "<div><br></div>", out)
}

func TestQuotesAttributeValues(t *testing.T) {
	out := minified(t, "<a  x=1   y='2'>z</a>")
	require.Equal(t, `<a x="1" y="2">z</a>`, out)
}
