package wordio

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerSplitsOnWhitespace(t *testing.T) {
	t.Parallel()
	scan := NewScanner(io.NopCloser(strings.NewReader("  foo\tbar\nbaz  qux\r\nlast ")))

	var tokens []string
	for {
		tok, ok := scan.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	require.NoError(t, scan.Err())
	require.NoError(t, scan.Close())
	assert.Equal(t, []string{"foo", "bar", "baz", "qux", "last"}, tokens)
}

func TestScannerEmptyInput(t *testing.T) {
	t.Parallel()
	scan := NewScanner(io.NopCloser(strings.NewReader("   \n\t  ")))
	_, ok := scan.Next()
	assert.False(t, ok)
	require.NoError(t, scan.Err())
	require.NoError(t, scan.Close())
}

func TestScannerLongToken(t *testing.T) {
	t.Parallel()
	// Well past bufio.Scanner's 64KB default token limit.
	long := strings.Repeat("x", 200*1024)
	scan := NewScanner(io.NopCloser(strings.NewReader(long + " tail")))
	defer scan.Close()

	tok, ok := scan.Next()
	require.True(t, ok)
	assert.Equal(t, long, tok)
	tok, ok = scan.Next()
	require.True(t, ok)
	assert.Equal(t, "tail", tok)
	require.NoError(t, scan.Err())
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	require.Error(t, err)
}

func TestOpenReadsFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha beta\ngamma"), 0o644))

	scan, err := Open(path)
	require.NoError(t, err)
	defer scan.Close()

	tok, ok := scan.Next()
	require.True(t, ok)
	assert.Equal(t, "alpha", tok)
}

func TestWriterWritesAndWraps(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.txt")
	w, err := OpenAppend(path)
	require.NoError(t, err)
	require.NoError(t, w.Write("hello"))
	require.NoError(t, w.Write(" "))
	require.NoError(t, w.Write("world"))
	require.NoError(t, w.NewLine())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(data))
}

func TestOpenAppendAppends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("existing "), 0o644))

	w, err := OpenAppend(path)
	require.NoError(t, err)
	require.NoError(t, w.Write("appended"))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing appended", string(data))
}
