package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithin1Equal(t *testing.T) {
	require.True(t, Within1("dart", "dart"))
}

func TestWithin1Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"dart", "datt"},
		{"dart", "dar"},
		{"dart", "darts"},
		{"flutter", "fluter"},
		{"a", "b"},
	}
	for _, p := range pairs {
		require.Equal(t, Within1(p[0], p[1]), Within1(p[1], p[0]), "pair=%v", p)
	}
}

func TestWithin1Substitution(t *testing.T) {
	require.True(t, Within1("dart", "datt"))
	require.False(t, Within1("dart", "ditt"))
}

func TestWithin1Insertion(t *testing.T) {
	require.True(t, Within1("dart", "darts"))
	require.True(t, Within1("darts", "dart"))
	require.True(t, Within1("art", "dart"))
	require.True(t, Within1("drt", "dart"))
}

func TestWithin1Deletion(t *testing.T) {
	require.True(t, Within1("dart", "dar"))
}

func TestWithin1TooFar(t *testing.T) {
	require.False(t, Within1("dart", "zzzz"))
	require.False(t, Within1("dart", "flutter"))
	require.False(t, Within1("dart", "da"))
}

func TestWithin1MatchesLevenshteinOne(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"kitten", "sitten", true},  // substitution
		{"kitten", "kittn", true},   // deletion
		{"kitten", "kittens", true}, // insertion
		{"kitten", "sittens", false},
		{"", "a", true},
		{"", "", true},
		{"a", "", true},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Within1(c.a, c.b), "a=%q b=%q", c.a, c.b)
	}
}

func TestWordOverlapCount(t *testing.T) {
	require.Equal(t, 2, WordOverlapCount([]string{"what", "dart"}, "What is Dart?"))
	require.Equal(t, 1, WordOverlapCount([]string{"datt"}, "What is Dart?"))
	require.Equal(t, 0, WordOverlapCount([]string{"zzzz"}, "What is Dart?"))
}
