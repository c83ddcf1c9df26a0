package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssembleNormalizesWhitespaceAndTrailingSpace(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{" hello", "world.", "\nfrom", "mockprep"}, Options{TrailingSpace: true})
	require.Equal(t, "hello world. from mockprep ", got)
}

func TestAssembleWithoutTrailingSpace(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{"hello", "world"}, Options{})
	require.Equal(t, "hello world", got)
}

func TestAssembleEmptyInput(t *testing.T) {
	t.Parallel()

	require.Empty(t, Assemble(nil, Options{TrailingSpace: true}))
}

func TestAssembleSkipsWhitespaceOnlySegments(t *testing.T) {
	t.Parallel()

	got := Assemble([]string{"  ", "\n\t", "hello"}, Options{})
	require.Equal(t, "hello", got)
	require.Empty(t, Assemble([]string{" ", "\t"}, Options{TrailingSpace: true}))
}

func TestWordsDropsEmptyTokens(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"I", "am", "an", "engineer"}, Words("  I am  an\tengineer "))
	require.Empty(t, Words("   "))
}

func TestCountFillers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "none", text: "I build distributed systems", want: 0},
		{name: "plain fillers", text: "um so uh I basically did it", want: 3},
		{name: "case insensitive", text: "UM Actually", want: 2},
		{name: "substring match", text: "I likely liked it", want: 2},
		{name: "one count per word", text: "umlike", want: 1},
		{name: "multi word marker never matches single token", text: "you know", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CountFillers(Words(tc.text)))
		})
	}
}

func TestTailKeepsShortTextAndCutsLongText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hello world", Tail("  hello \n world ", 20))
	require.Equal(t, "", Tail("   ", 10))
	require.Equal(t, "...fox jumps", Tail("the quick brown fox jumps", 9))
	require.Equal(t, "...jumps", Tail("the quick brown fox jumps", 6))
}
