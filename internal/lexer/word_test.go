package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func joinedList(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Joined()
	}
	return out
}

func TestCompoundWordDecomposition(t *testing.T) {
	words := ExtractWords([]byte("half-space"))
	require.Len(t, words, 1)
	require.Equal(t, []string{"half", "space"}, words[0].Components)
	require.Equal(t, "halfspace", words[0].Joined())
}

func TestTeXAccent(t *testing.T) {
	words := ExtractWords([]byte(`Erd{\H o}s`))
	require.Len(t, words, 1)
	require.Equal(t, []string{"erdos"}, words[0].Components)
}

func TestBracedWhitespaceSplitsComponents(t *testing.T) {
	words := ExtractWords([]byte("{van Dam}"))
	require.Len(t, words, 1)
	require.Equal(t, []string{"van", "dam"}, words[0].Components)
	require.Equal(t, "vandam", words[0].Joined())
}

func TestMathComponentSplit(t *testing.T) {
	words := ExtractWords([]byte(`$\Omega(n\log n)$`))
	require.Len(t, words, 1)
	require.Equal(t, []string{"omega", "n", "log", "n"}, words[0].Components)
}

func TestDoubleHyphenSeparatesWords(t *testing.T) {
	words := ExtractWords([]byte("18--21"))
	require.Equal(t, []string{"18", "21"}, joinedList(words))
	require.Len(t, words[0].Components, 1)
	require.Len(t, words[1].Components, 1)
}

func TestMultipleWordsSeparatedBySpace(t *testing.T) {
	words := ExtractWords([]byte("Fast Algorithms"))
	require.Equal(t, []string{"fast", "algorithms"}, joinedList(words))
}

func TestApostropheAndBracketsDropped(t *testing.T) {
	words := ExtractWords([]byte(`O'Rourke J[ohn]`))
	require.Equal(t, []string{"orourke", "john"}, joinedList(words))
}

func TestCharacterEscapeDiscarded(t *testing.T) {
	words := ExtractWords([]byte(`AT\&T Labs`))
	require.Equal(t, []string{"att", "labs"}, joinedList(words))
}

func TestPunctuationEndsWordAtDepthZero(t *testing.T) {
	words := ExtractWords([]byte("alpha.beta"))
	require.Equal(t, []string{"alpha", "beta"}, joinedList(words))
}
