// Package wordio provides the token source and word sink collaborators used
// by the external sort: a forward-only whitespace tokenizer over a file and a
// buffered word writer.
package wordio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/garethgeorge/wordsort/internal/ioutil"
)

// Scanner is a forward-only token source over a reader, splitting on
// whitespace. It reads one token at a time rather than whole lines, which
// keeps per-reader memory bounded by the scanner buffer.
type Scanner struct {
	rc   io.ReadCloser
	scan *bufio.Scanner
}

func NewScanner(rc io.ReadCloser) *Scanner {
	scan := bufio.NewScanner(rc)
	scan.Split(bufio.ScanWords)
	scan.Buffer(make([]byte, 0, ioutil.DefaultBufioSize), ioutil.MaxTokenSize)
	return &Scanner{rc: rc, scan: scan}
}

// Open opens the file at path as a token source.
func Open(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file %s: %w", path, err)
	}
	return NewScanner(f), nil
}

// Next returns the next token. ok is false once the source is exhausted or a
// read error occurred; check Err to distinguish.
func (s *Scanner) Next() (token string, ok bool) {
	if !s.scan.Scan() {
		return "", false
	}
	return s.scan.Text(), true
}

// Err returns the first read error encountered, if any. io.EOF is not
// reported as an error.
func (s *Scanner) Err() error {
	return s.scan.Err()
}

func (s *Scanner) Close() error {
	return s.rc.Close()
}
