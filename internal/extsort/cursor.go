package extsort

import (
	"bufio"
	"fmt"
	"io"

	"github.com/garethgeorge/wordsort/internal/ioutil"
	"github.com/garethgeorge/wordsort/internal/runstore"
)

// RunCursor reads one persisted sorted run with a single token of lookahead.
// Tokens are read one at a time rather than line-buffered, so per-cursor
// memory stays small even when many runs are merged concurrently.
type RunCursor struct {
	run  runstore.Handle
	rc   io.ReadCloser
	scan *bufio.Scanner
	next string
	ok   bool
}

// OpenRunCursor opens a cursor over run and preloads the first token.
func OpenRunCursor(run runstore.Handle) (*RunCursor, error) {
	rc, err := run.GetReader()
	if err != nil {
		return nil, fmt.Errorf("open run %s: %w", run.Name(), err)
	}
	scan := bufio.NewScanner(rc)
	scan.Split(bufio.ScanWords)
	scan.Buffer(make([]byte, 0, ioutil.DefaultBufioSize), ioutil.MaxTokenSize)
	c := &RunCursor{run: run, rc: rc, scan: scan}
	c.advance()
	return c, nil
}

// Peek returns the cached next token without advancing. It returns the empty
// string once the cursor is empty.
func (c *RunCursor) Peek() string { return c.next }

// Pop returns the cached token and reads one token ahead to refill the cache.
func (c *RunCursor) Pop() string {
	tok := c.next
	c.advance()
	return tok
}

// IsEmpty reports whether no further tokens exist. Check Err to distinguish
// exhaustion from a read failure.
func (c *RunCursor) IsEmpty() bool { return !c.ok }

// Err returns the first read error encountered, if any.
func (c *RunCursor) Err() error { return c.scan.Err() }

// Run returns the handle of the underlying run.
func (c *RunCursor) Run() runstore.Handle { return c.run }

// Close releases the underlying reader.
func (c *RunCursor) Close() error { return c.rc.Close() }

func (c *RunCursor) advance() {
	if c.scan.Scan() {
		c.next, c.ok = c.scan.Text(), true
	} else {
		c.next, c.ok = "", false
	}
}
