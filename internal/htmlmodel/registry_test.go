package htmlmodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmark/corexml/internal/htmlmodel"
)

func TestVoidElements(t *testing.T) {
	reg := htmlmodel.NewRegistry()
	for _, name := range []string{"br", "img", "input", "hr"} {
		require.True(t, reg.Lookup(name).IsVoid, name)
	}
	require.False(t, reg.Lookup("div").IsVoid)
}

func TestRawTextVsEscapableRawText(t *testing.T) {
	reg := htmlmodel.NewRegistry()
	require.True(t, reg.Lookup("script").IsRawText)
	require.True(t, reg.Lookup("style").IsRawText)
	require.True(t, reg.Lookup("textarea").IsEscapableRawText)
	require.True(t, reg.Lookup("title").IsEscapableRawText)
	require.False(t, reg.Lookup("textarea").IsRawText)
}

func TestUnknownElementIsOrdinary(t *testing.T) {
	reg := htmlmodel.NewRegistry()
	el := reg.Lookup("custom-widget")
	require.False(t, el.IsVoid)
	require.False(t, el.IsRawText)
	require.Empty(t, el.OptionalCloseTriggers)
}

func TestShouldAutoClose(t *testing.T) {
	reg := htmlmodel.NewRegistry()
	require.True(t, reg.ShouldAutoClose("li", "li"))
	require.True(t, reg.ShouldAutoClose("dt", "dd"))
	require.False(t, reg.ShouldAutoClose("div", "li"))
}
