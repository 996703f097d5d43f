package ranking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokensBasic(t *testing.T) {
	require.Equal(t, []string{"what", "is", "dart"}, Tokens("What is Dart?"))
}

func TestTokensCollapsesPunctuationAndWhitespace(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, Tokens("  a,,b...c  "))
}

func TestTokensEmpty(t *testing.T) {
	require.Nil(t, Tokens("   !!! "))
}

func TestTokensIdempotentOnOwnOutput(t *testing.T) {
	inputs := []string{"What is Dart?", "  weird!!  punctuation,,,here  ", "ALLCAPS text", ""}
	for _, in := range inputs {
		first := Tokens(in)
		again := Tokens(strings.Join(first, " "))
		require.Equal(t, first, again, "input=%q", in)
	}
}

func TestNormalizedQuestion(t *testing.T) {
	require.Equal(t, "what is dart?", NormalizedQuestion("  What is Dart?  "))
}
