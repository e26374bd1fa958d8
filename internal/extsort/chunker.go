package extsort

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/btree"

	"github.com/garethgeorge/wordsort/internal/ioutil"
	"github.com/garethgeorge/wordsort/internal/runstore"
)

// TokenSource is a forward-only source of whitespace-delimited tokens.
// Err reports the first read error once Next has returned ok == false.
type TokenSource interface {
	Next() (token string, ok bool)
	Err() error
	Close() error
}

// workingSetDegree is the branching factor of the chunk working set tree.
const workingSetDegree = 16

// lessWithTieBreak orders the working set by the injected comparator, with an
// exact byte-order tie-break so comparator-equal but distinct tokens (e.g.
// "Ut" vs "ut") are kept as separate entries. Exact duplicates collapse into
// one entry, de-duplicating each chunk the same way the working set being a
// set implies.
func lessWithTieBreak(cmp Comparator) btree.LessFunc[string] {
	return func(a, b string) bool {
		if c := cmp(a, b); c != 0 {
			return c < 0
		}
		return a < b
	}
}

// splitIntoRuns pulls tokens from src into an in-memory working set bounded
// by the estimated block budget, persisting each full working set as a sorted
// run via store. The source is closed on all exit paths. The returned run
// handles are in creation order, though the merge treats them symmetrically.
func splitIntoRuns(src TokenSource, fileSize int64, maxRuns int, freeMemory int64,
	cmp Comparator, store runstore.Store, est SizeEstimator, logger *slog.Logger) (runs []runstore.Handle, err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close token source: %w", cerr)
		}
	}()

	blockSize, err := BlockSize(fileSize, maxRuns, freeMemory)
	if err != nil {
		return nil, err
	}

	working := btree.NewG[string](workingSetDegree, lessWithTieBreak(cmp))
	for {
		// Fill the working set. Every pulled token counts toward the budget,
		// duplicates included: the budget is a planning bound on what was
		// read, not on the de-duplicated set.
		var used int64
		for {
			tok, ok := src.Next()
			if !ok {
				break
			}
			working.ReplaceOrInsert(tok)
			used += est.Token(tok)
			if used >= blockSize {
				break
			}
		}
		if working.Len() == 0 {
			break
		}

		handle, perr := persistRun(working, store)
		if perr != nil {
			return nil, perr
		}
		runs = append(runs, handle)
		logger.Info("run created", "run", handle.Name(), "tokens", working.Len(), "estimatedBytes", used)
		working.Clear(false)
	}

	if serr := src.Err(); serr != nil {
		return nil, fmt.Errorf("read token source: %w", serr)
	}
	return runs, nil
}

// persistRun writes the working set in comparator order as a newline-
// terminated run.
func persistRun(working *btree.BTreeG[string], store runstore.Store) (runstore.Handle, error) {
	handle, err := store.New()
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	w, err := handle.GetWriter()
	if err != nil {
		return nil, fmt.Errorf("get writer for run %s: %w", handle.Name(), err)
	}

	bufw := ioutil.WithBufferedWrites(w)
	var werr error
	working.Ascend(func(tok string) bool {
		if _, werr = io.WriteString(bufw, tok); werr != nil {
			return false
		}
		_, werr = bufw.Write([]byte{'\n'})
		return werr == nil
	})
	if werr != nil {
		bufw.Close()
		return nil, fmt.Errorf("write run %s: %w", handle.Name(), werr)
	}
	if err := bufw.Close(); err != nil {
		return nil, fmt.Errorf("close run %s: %w", handle.Name(), err)
	}
	return handle, nil
}
