package wordio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/garethgeorge/wordsort/internal/ioutil"
)

// Writer is a buffered word sink. Close flushes the buffer and releases the
// underlying file.
type Writer struct {
	bufw *bufio.Writer
	c    io.Closer
}

func NewWriter(wc io.WriteCloser) *Writer {
	return &Writer{
		bufw: bufio.NewWriterSize(wc, ioutil.DefaultBufioSize),
		c:    wc,
	}
}

// OpenAppend opens the file at path as a word sink, creating it if needed and
// appending to any existing content.
func OpenAppend(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", path, err)
	}
	return NewWriter(f), nil
}

func (w *Writer) Write(text string) error {
	_, err := w.bufw.WriteString(text)
	return err
}

func (w *Writer) NewLine() error {
	return w.bufw.WriteByte('\n')
}

func (w *Writer) Close() error {
	if err := w.bufw.Flush(); err != nil {
		w.c.Close()
		return err
	}
	return w.c.Close()
}
