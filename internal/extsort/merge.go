package extsort

import (
	"container/heap"
	"fmt"
	"log/slog"

	"github.com/garethgeorge/wordsort/internal/runstore"
)

// WordSink is a buffered word-oriented output. The merge phase owns the sink
// and closes it on every exit path.
type WordSink interface {
	Write(text string) error
	NewLine() error
	Close() error
}

// cursorHeap is an index-based binary heap of non-empty run cursors ordered
// by the comparator applied to each cursor's peeked token. The heap head
// always holds the globally next token to emit.
type cursorHeap struct {
	cursors []*RunCursor
	cmp     Comparator
}

var _ heap.Interface = (*cursorHeap)(nil)

func (h *cursorHeap) Len() int { return len(h.cursors) }

func (h *cursorHeap) Less(i, j int) bool {
	return h.cmp(h.cursors[i].Peek(), h.cursors[j].Peek()) < 0
}

func (h *cursorHeap) Swap(i, j int) {
	h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i]
}

func (h *cursorHeap) Push(x any) {
	h.cursors = append(h.cursors, x.(*RunCursor))
}

func (h *cursorHeap) Pop() any {
	old := h.cursors
	n := len(old)
	x := old[n-1]
	old[n-1] = nil // avoid memory leak
	h.cursors = old[:n-1]
	return x
}

// merge performs a k-way merge of the runs into sink, separating tokens with
// a single space and inserting a line break after every wordWrap tokens
// (wordWrap <= 0 wraps after every token). Each run is removed as soon as it
// has been fully drained. The sink and every cursor still resident in the
// heap are closed on all exit paths.
func merge(cmp Comparator, runs []runstore.Handle, sink WordSink, wordWrap int, logger *slog.Logger) (err error) {
	h := &cursorHeap{cmp: cmp}
	defer func() {
		for _, cur := range h.cursors {
			if cerr := cur.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close run %s: %w", cur.Run().Name(), cerr)
			}
		}
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	// Open a cursor per run, discarding runs that are empty at open time.
	for _, run := range runs {
		cur, oerr := OpenRunCursor(run)
		if oerr != nil {
			return oerr
		}
		if cur.IsEmpty() {
			if derr := drainCursor(cur, logger); derr != nil {
				return derr
			}
			continue
		}
		h.cursors = append(h.cursors, cur)
	}
	heap.Init(h)

	wrapEvery := wordWrap
	if wrapEvery <= 0 {
		wrapEvery = 1
	}

	counter := 0
	for h.Len() > 0 {
		cur := h.cursors[0]
		tok := cur.Pop()

		if werr := sink.Write(tok); werr != nil {
			return fmt.Errorf("write output: %w", werr)
		}
		if werr := sink.Write(" "); werr != nil {
			return fmt.Errorf("write output: %w", werr)
		}
		counter++
		if counter >= wrapEvery {
			if werr := sink.NewLine(); werr != nil {
				return fmt.Errorf("write output: %w", werr)
			}
			counter = 0
		}

		if cur.IsEmpty() {
			popped := heap.Pop(h).(*RunCursor)
			if derr := drainCursor(popped, logger); derr != nil {
				return derr
			}
		} else {
			heap.Fix(h, 0)
		}
	}
	return nil
}

// drainCursor finishes with a fully consumed cursor: surfaces any deferred
// read error, releases the reader, and deletes the run's backing file.
func drainCursor(cur *RunCursor, logger *slog.Logger) error {
	name := cur.Run().Name()
	if rerr := cur.Err(); rerr != nil {
		cur.Close()
		return fmt.Errorf("read run %s: %w", name, rerr)
	}
	if cerr := cur.Close(); cerr != nil {
		return fmt.Errorf("close run %s: %w", name, cerr)
	}
	if rmerr := cur.Run().Remove(); rmerr != nil {
		// Not fatal, the run was fully merged. Leftovers can be swept later.
		logger.Warn("failed to remove drained run", "run", name, "error", rmerr)
	}
	return nil
}
