package sidecar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biblook/go-biblook/internal/indexer"
	"github.com/biblook/go-biblook/internal/varint"
)

const fixture = `@article{A, author = "Erdos", title = "Graph Theory"}
@article{B, author = "Erdos", title = "Voronoi Diagrams"}
`

type bytesReaderAt struct{ b []byte }

func (r bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(r.b).ReadAt(p, off)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	res, err := indexer.Run(strings.NewReader(fixture), indexer.Options{WithPrefilter: true}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res, 1700000000))

	sc, err := Load(bytesReaderAt{buf.Bytes()})
	require.NoError(t, err)

	require.Equal(t, FileVersion, sc.Header.Version)
	require.Len(t, sc.EntryOffsets, 2)
	require.NotNil(t, sc.PrefilterHashes)

	var authorField *FieldEntry
	for i := range sc.Fields {
		if sc.Fields[i].Name == "author" {
			authorField = &sc.Fields[i]
		}
	}
	require.NotNil(t, authorField)

	var erdosWord *WordEntry
	for i := range authorField.Words {
		if authorField.Words[i].Word == "erdos" {
			erdosWord = &authorField.Words[i]
		}
	}
	require.NotNil(t, erdosWord)
	require.Equal(t, 2, erdosWord.PostingCount)

	raw, err := sc.FetchPostings(*erdosWord)
	require.NoError(t, err)
	ids, err := varint.Decode(raw, erdosWord.PostingCount)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, ids)
}

func TestByteExactDoubleRun(t *testing.T) {
	res1, err := indexer.Run(strings.NewReader(fixture), indexer.Options{}, nil)
	require.NoError(t, err)
	res2, err := indexer.Run(strings.NewReader(fixture), indexer.Options{}, nil)
	require.NoError(t, err)

	var buf1, buf2 bytes.Buffer
	require.NoError(t, Write(&buf1, res1, 42))
	require.NoError(t, Write(&buf2, res2, 42))
	require.Equal(t, buf1.Bytes(), buf2.Bytes())
}

func TestVersionMismatchIsFatal(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("bibindex 3 2 11 1700000000\n")
	_, err := Load(bytesReaderAt{buf.Bytes()})
	require.Error(t, err)
}
