package ioutil

import (
	"bufio"
	"io"
)

const DefaultBufioSize = 64 * 1024 // 64KB

// MaxTokenSize is the largest single whitespace-delimited token accepted
// when scanning words. bufio.Scanner's 64KB default would fail the whole
// sort on one pathological word.
const MaxTokenSize = 16 * 1024 * 1024 // 16MB

// WithBufferedWrites wraps w in a buffered writer whose Close flushes the
// buffer and then closes w.
func WithBufferedWrites(w io.WriteCloser) io.WriteCloser {
	bufw := bufio.NewWriterSize(w, DefaultBufioSize)
	return WithWriterCloser(bufw, func() error {
		if err := bufw.Flush(); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	})
}
