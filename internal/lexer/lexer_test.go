package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindNextEntryAndReadRealEntry(t *testing.T) {
	src := `@article{knuth74,
  title = "The Art of Computer Programming",
  author = "Donald Knuth",
  year = 1974
}
`
	l := New(strings.NewReader(src))
	off, err := l.FindNextEntry()
	require.NoError(t, err)
	require.Equal(t, int64(0), off)

	kind, open, err := l.ReadEntryKind()
	require.NoError(t, err)
	require.Equal(t, KindReal, kind)
	require.Equal(t, byte('{'), open)

	entry, err := l.ReadRealEntry(open)
	require.NoError(t, err)
	require.Equal(t, "knuth74", entry.Key)
	require.Len(t, entry.Fields, 3)
	require.Equal(t, "title", entry.Fields[0].Name)
	require.Equal(t, PartQuoted, entry.Fields[0].Parts[0].Kind)
	require.Equal(t, "year", entry.Fields[2].Name)
	require.Equal(t, PartDigits, entry.Fields[2].Parts[0].Kind)
	require.Equal(t, "1974", entry.Fields[2].Parts[0].Raw)
}

func TestCommentQuirkLeavesDelimiterUnconsumed(t *testing.T) {
	l := New(strings.NewReader(`@comment{ignored text}`))
	_, err := l.FindNextEntry()
	require.NoError(t, err)
	kind, open, err := l.ReadEntryKind()
	require.NoError(t, err)
	require.Equal(t, KindComment, kind)
	require.Equal(t, byte(0), open)
	// The opening brace must still be in the stream.
	b, err := l.readByte()
	require.NoError(t, err)
	require.Equal(t, byte('{'), b)
}

func TestStringDefinitionAbbrevReference(t *testing.T) {
	src := `@string{foo = "Fast Algorithms"}
@article{x, title = foo}
`
	l := New(strings.NewReader(src))

	_, err := l.FindNextEntry()
	require.NoError(t, err)
	kind, open, err := l.ReadEntryKind()
	require.NoError(t, err)
	require.Equal(t, KindString, kind)
	name, parts, err := l.ReadStringDef(open)
	require.NoError(t, err)
	require.Equal(t, "foo", name)
	require.Len(t, parts, 1)
	require.Equal(t, PartQuoted, parts[0].Kind)

	off, err := l.FindNextEntry()
	require.NoError(t, err)
	require.Greater(t, off, int64(0))
	kind, open, err = l.ReadEntryKind()
	require.NoError(t, err)
	require.Equal(t, KindReal, kind)
	entry, err := l.ReadRealEntry(open)
	require.NoError(t, err)
	require.Equal(t, "x", entry.Key)
	require.Equal(t, PartIdent, entry.Fields[0].Parts[0].Kind)
	require.Equal(t, "foo", entry.Fields[0].Parts[0].Raw)
}
