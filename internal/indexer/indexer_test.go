package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biblook/go-biblook/internal/session"
)

func TestAbbreviationPropagation(t *testing.T) {
	src := `@string{foo = "Fast Algorithms"}
@article{x, title = foo}
`
	res, err := Run(strings.NewReader(src), Options{}, nil)
	require.NoError(t, err)
	// The @string definition occupies entry id 0, the article entry id 1.
	require.Equal(t, 2, res.EntryCount)

	titleDict, ok := res.Fields.Lookup("title")
	require.True(t, ok)

	fastPostings, ok := titleDict.Lookup("fast")
	require.True(t, ok)
	require.Equal(t, []uint32{1}, fastPostings)

	fooPostings, ok := titleDict.Lookup("foo")
	require.True(t, ok)
	require.Equal(t, []uint32{1}, fooPostings)

	stringDict, ok := res.Fields.Lookup(StringField)
	require.True(t, ok)
	defPostings, ok := stringDict.Lookup("fast")
	require.True(t, ok)
	require.Equal(t, []uint32{0}, defPostings)

	a, ok := res.Abbrevs.Lookup("foo")
	require.True(t, ok)
	require.Equal(t, uint32(0), a.EntryID)
	require.Equal(t, []string{"fast", "algorithms"}, a.Expansion)
}

func TestBooleanCompositionFixture(t *testing.T) {
	src := `@article{A, author = "Erdos", title = "Graph Theory"}
@article{B, author = "Erdos", title = "Voronoi Diagrams"}
@article{C, author = "Smith", title = "Voronoi Regions"}
`
	res, err := Run(strings.NewReader(src), Options{}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, res.EntryCount)

	authorDict, ok := res.Fields.Lookup("author")
	require.True(t, ok)
	erdos, ok := authorDict.Lookup("erdos")
	require.True(t, ok)
	require.Equal(t, []uint32{0, 1}, erdos)

	titleDict, ok := res.Fields.Lookup("title")
	require.True(t, ok)
	voronoi, ok := titleDict.Lookup("voronoi")
	require.True(t, ok)
	require.Equal(t, []uint32{1, 2}, voronoi)
}

func TestBlackHoleFieldIgnored(t *testing.T) {
	src := `@article{x, note = "Irrelevant commentary", title = "Kept"}
`
	res, err := Run(strings.NewReader(src), Options{IgnoreFields: []string{"note"}}, nil)
	require.NoError(t, err)
	_, ok := res.Fields.Lookup("note")
	require.True(t, ok) // registered, but...
	d, _ := res.Fields.Lookup("note")
	require.True(t, d.IsBlackHole())
	_, found := d.Lookup("irrelevant")
	require.False(t, found)

	titleDict, ok := res.Fields.Lookup("title")
	require.True(t, ok)
	_, found = titleDict.Lookup("kept")
	require.True(t, found)
}

func TestPrefilterMatchesIndexedWords(t *testing.T) {
	src := `@article{x, title = "Algorithmic Graphs"}
`
	res, err := Run(strings.NewReader(src), Options{WithPrefilter: true}, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Prefilter)
	require.True(t, res.Prefilter.MightContain("algorithmic"))
	require.False(t, res.Prefilter.MightContain("nonexistentword"))
}

func TestWarningsRecordedOnSession(t *testing.T) {
	src := `@article{x, title = undefinedmacro}
`
	sess := session.New("test", nil)
	_, err := Run(strings.NewReader(src), Options{}, sess)
	require.NoError(t, err)
	require.Greater(t, sess.Warnings(), 0)
}
