package charset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmark/corexml/internal/charset"
)

func TestEqualFold(t *testing.T) {
	require.True(t, charset.EqualFold([]rune("SCRIPT"), []rune("script")))
	require.True(t, charset.EqualFold([]rune("Script"), []rune("sCrIpT")))
	require.False(t, charset.EqualFold([]rune("script"), []rune("scripts")))
	require.False(t, charset.EqualFold([]rune("scripp"), []rune("script")))
}

func TestEqualFoldNonASCII(t *testing.T) {
	// Non-ASCII runes are compared by identity, so casing that only exists
	// outside ASCII (e.g. 'É' vs 'é') must not be folded.
	require.False(t, charset.EqualFold([]rune("É"), []rune("é")))
	require.True(t, charset.EqualFold([]rune("café"), []rune("café")))
}

func TestHasPrefixFold(t *testing.T) {
	require.True(t, charset.HasPrefixFold([]rune("</SCRIPT>"), []rune("</script")))
	require.False(t, charset.HasPrefixFold([]rune("<b"), []rune("</script")))
	require.False(t, charset.HasPrefixFold([]rune("sh"), []rune("short")))
}

func TestEqual(t *testing.T) {
	require.True(t, charset.Equal([]rune("id"), []rune("id")))
	require.False(t, charset.Equal([]rune("id"), []rune("Id")))
}

func TestHasPrefix(t *testing.T) {
	require.True(t, charset.HasPrefix([]rune("-->"), []rune("--")))
	require.False(t, charset.HasPrefix([]rune("->"), []rune("--")))
}

func TestToLowerASCII(t *testing.T) {
	require.Equal(t, "script", charset.ToLowerASCII([]rune("SCRIPT")))
	require.Equal(t, "cafÉ", charset.ToLowerASCII([]rune("CAFÉ")))
}
