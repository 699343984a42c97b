package htmlmodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmark/corexml/internal/htmlmodel"
)

func TestOpenVoidElementIsNotPushed(t *testing.T) {
	b := htmlmodel.NewBalancer(htmlmodel.NewRegistry())
	res := b.Open("br")
	require.True(t, res.Void)
	b.PushOpened("br", res.Void, false)
	require.Equal(t, 0, b.Depth())
}

func TestLiImplicitlyClosesPriorLi(t *testing.T) {
	reg := htmlmodel.NewRegistry()
	b := htmlmodel.NewBalancer(reg)

	r1 := b.Open("ul")
	b.PushOpened("ul", r1.Void, false)

	r2 := b.Open("li")
	require.Empty(t, r2.ImplicitCloses)
	b.PushOpened("li", r2.Void, false)

	r3 := b.Open("li")
	require.Equal(t, []string{"li"}, r3.ImplicitCloses)
	b.PushOpened("li", r3.Void, false)

	require.Equal(t, 2, b.Depth()) // ul, li
}

func TestRawTextElementFlag(t *testing.T) {
	b := htmlmodel.NewBalancer(htmlmodel.NewRegistry())
	res := b.Open("script")
	require.True(t, res.RawText)
	b.PushOpened("script", res.Void, false)
	require.Equal(t, 1, b.Depth())
}

func TestCloseExactTop(t *testing.T) {
	b := htmlmodel.NewBalancer(htmlmodel.NewRegistry())
	r := b.Open("p")
	b.PushOpened("p", r.Void, false)
	cr := b.Close("p")
	require.True(t, cr.Matched)
	require.Empty(t, cr.ImplicitCloses)
	require.Equal(t, 0, b.Depth())
}

func TestCloseMatchesLowerInStack(t *testing.T) {
	b := htmlmodel.NewBalancer(htmlmodel.NewRegistry())
	for _, name := range []string{"div", "span", "b"} {
		r := b.Open(name)
		b.PushOpened(name, r.Void, false)
	}
	cr := b.Close("div")
	require.True(t, cr.Matched)
	require.Equal(t, []string{"b", "span"}, cr.ImplicitCloses)
	require.Equal(t, 0, b.Depth())
}

func TestCloseUnmatchedLeavesStack(t *testing.T) {
	b := htmlmodel.NewBalancer(htmlmodel.NewRegistry())
	r := b.Open("div")
	b.PushOpened("div", r.Void, false)
	cr := b.Close("span")
	require.False(t, cr.Matched)
	require.Equal(t, 1, b.Depth())
}

func TestPushSuppressed(t *testing.T) {
	b := htmlmodel.NewBalancer(htmlmodel.NewRegistry())
	r := b.Open("div")
	b.PushOpened("div", r.Void, true)
	require.Equal(t, 0, b.Depth())
}

func TestDrainAllInnermostFirst(t *testing.T) {
	b := htmlmodel.NewBalancer(htmlmodel.NewRegistry())
	for _, name := range []string{"html", "body", "div"} {
		r := b.Open(name)
		b.PushOpened(name, r.Void, false)
	}
	drained := b.DrainAll()
	require.Equal(t, []string{"div", "body", "html"}, drained)
	require.True(t, b.IsEmpty())
}

func TestParagraphClosedByBlockElement(t *testing.T) {
	b := htmlmodel.NewBalancer(htmlmodel.NewRegistry())
	r1 := b.Open("p")
	b.PushOpened("p", r1.Void, false)
	r2 := b.Open("div")
	require.Equal(t, []string{"p"}, r2.ImplicitCloses)
}
