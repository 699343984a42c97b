package domtree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmark/corexml"
	"github.com/flowmark/corexml/handlers/domtree"
)

func build(t *testing.T, doc string) *domtree.Builder {
	t.Helper()
	b := domtree.New()
	require.NoError(t, corexml.NewParser(corexml.NewConfig()).ParseString(doc, b))
	return b
}

func TestBuildSimpleTree(t *testing.T) {
	b := build(t, `<div id="x"><p>hi</p><br></div>`)
	root := b.Document().Root()
	require.NotNil(t, root)
	require.Equal(t, "div", root.Tag)
	require.Equal(t, "x", root.SelectAttrValue("id", ""))

	children := root.ChildElements()
	require.Len(t, children, 2)
	require.Equal(t, "p", children[0].Tag)
	require.Equal(t, "hi", children[0].Text())
	require.Equal(t, "br", children[1].Tag)
}

func TestBuildTreeWithAutoClosedListItems(t *testing.T) {
	// The parser repairs the missing </li> tags; the builder must pop on
	// the synthetic close events so both items end up siblings.
	b := build(t, "<ul><li>a<li>b</ul>")
	root := b.Document().Root()
	require.Equal(t, "ul", root.Tag)

	items := root.ChildElements()
	require.Len(t, items, 2)
	require.Equal(t, "a", items[0].Text())
	require.Equal(t, "b", items[1].Text())
}

func TestBuildTreeWithCommentAndCDATA(t *testing.T) {
	b := build(t, `<r><!-- note --><![CDATA[<raw>]]></r>`)
	root := b.Document().Root()
	require.Equal(t, "r", root.Tag)
	require.Len(t, root.Child, 2)
}

func TestBuildRepairedTableTree(t *testing.T) {
	// Closing </table> implicitly closes the open td and tr; the builder
	// must pop on those synthetic close events too.
	b := build(t, "<table><tr><td>x</table>")
	root := b.Document().Root()
	require.Equal(t, "table", root.Tag)
	require.Len(t, root.ChildElements(), 1)
	require.Equal(t, "tr", root.ChildElements()[0].Tag)
}
