package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmark/corexml"
	"github.com/flowmark/corexml/handlers/pretty"
)

func prettyPrint(t *testing.T, doc string) string {
	t.Helper()
	var sb strings.Builder
	p := pretty.New(&sb)
	require.NoError(t, corexml.NewParser(corexml.NewConfig()).ParseString(doc, p))
	require.NoError(t, p.Flush())
	return sb.String()
}

func TestIndentsNestedElements(t *testing.T) {
	out := prettyPrint(t, "<div><p>hi</p></div>")
	require.Equal(t, "<div>\n  <p>\n    hi\n  </p>\n</div>\n", out)
}

func TestQuotesAttributeValues(t *testing.T) {
	out := prettyPrint(t, `<a href=x>y</a>`)
	require.Equal(t, "<a href=\"x\">\n  y\n</a>\n", out)
}

func TestDropsInsignificantWhitespace(t *testing.T) {
	out := prettyPrint(t, "<div>\n   \n<p>hi</p>\n</div>")
	require.Equal(t, "<div>\n  <p>\n    hi\n  </p>\n</div>\n", out)
}

func TestCommentsKeptAtCurrentIndent(t *testing.T) {
	out := prettyPrint(t, "<div><!-- note --></div>")
	require.Equal(t, "<div>\n  <!-- note -->\n</div>\n", out)
}
