package query

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biblook/go-biblook/internal/indexer"
	"github.com/biblook/go-biblook/internal/sidecar"
)

type bytesReaderAt struct{ b []byte }

func (r bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(r.b).ReadAt(p, off)
}

func buildIndex(t *testing.T, src string) *Index {
	t.Helper()
	res, err := indexer.Run(strings.NewReader(src), indexer.Options{}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sidecar.Write(&buf, res, 1700000000))

	sc, err := sidecar.Load(bytesReaderAt{buf.Bytes()})
	require.NoError(t, err)

	return Open(sc, sc.Fields, sc.EntryOffsets, sc.Abbrevs, bytesReaderAt{[]byte(src)}, 0, nil)
}

const booleanFixture = `@article{A, author = "Erdos", title = "Graph Theory"}
@article{B, author = "Erdos", title = "Voronoi Diagrams"}
@article{C, author = "Smith", title = "Voronoi Regions"}
`

func TestBooleanCompositionScenario(t *testing.T) {
	idx := buildIndex(t, booleanFixture)

	result, err := idx.EvalQuery("au erdos & ~t voronoi")
	require.NoError(t, err)

	var ids []uint32
	result.Each(func(id uint32) { ids = append(ids, id) })
	require.Equal(t, []uint32{0}, ids) // entry A only
}

func TestPrefixSearchScenario(t *testing.T) {
	src := `@article{x, title = "Algorithmic Graphs"}
@article{y, title = "Algorithmes Rapides"}
@article{z, title = "Algorithmen Studien"}
@article{w, title = "Unrelated Topic"}
`
	idx := buildIndex(t, src)

	result, err := idx.EvalQuery("t algorithm??")
	require.NoError(t, err)

	var ids []uint32
	result.Each(func(id uint32) { ids = append(ids, id) })
	require.Equal(t, []uint32{0, 1, 2}, ids)
}

func TestFieldPrefixResolvesContiguousRange(t *testing.T) {
	idx := buildIndex(t, booleanFixture)
	matches := idx.ResolveFieldPrefix("au")
	require.Len(t, matches, 1)
	require.Equal(t, "author", idx.Fields[matches[0]].Name)

	all := idx.ResolveFieldPrefix("-")
	require.Equal(t, len(idx.Fields), len(all))
}

func TestShellFindAndDisplay(t *testing.T) {
	idx := buildIndex(t, booleanFixture)
	var out bytes.Buffer
	sh := NewShell(idx, NewWriterSink(&out))

	require.NoError(t, sh.Execute("find au erdos"))
	require.NoError(t, sh.Execute("display"))
	require.Contains(t, out.String(), "2 entries")
}

func TestShellHelpTwiceIsVerbose(t *testing.T) {
	idx := buildIndex(t, booleanFixture)
	var out bytes.Buffer
	sh := NewShell(idx, NewWriterSink(&out))

	require.NoError(t, sh.Execute("help"))
	first := out.String()
	out.Reset()
	require.NoError(t, sh.Execute("help"))
	second := out.String()
	require.Greater(t, len(second), len(first))
}

func TestShellQuit(t *testing.T) {
	idx := buildIndex(t, booleanFixture)
	var out bytes.Buffer
	sh := NewShell(idx, NewWriterSink(&out))
	require.ErrorIs(t, sh.Execute("quit"), ErrQuit)
}
