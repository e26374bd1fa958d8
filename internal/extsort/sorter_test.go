package extsort

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garethgeorge/wordsort/internal/runstore"
)

// 24 mixed-case words, roughly the first sentence of lorem ipsum.
var loremWords = []string{
	"Lorem", "ipsum", "dolor", "sit", "amet", "consectetur",
	"adipiscing", "elit", "sed", "do", "eiusmod", "tempor",
	"incididunt", "ut", "labore", "et", "dolore", "magna",
	"aliqua", "Ut", "enim", "ad", "minim", "veniam",
}

func inputSizeBytes(tokens []string) int64 {
	var n int64
	for _, tok := range tokens {
		n += int64(len(tok)) + 1
	}
	return n
}

func newTestSorter(store runstore.Store, cmp Comparator, opts ...Option) *Sorter {
	base := []Option{
		WithMemoryEstimator(FixedMemoryEstimator(1 << 20)),
		WithLogger(testLogger()),
	}
	return New(cmp, store, append(base, opts...)...)
}

func TestSortAscending(t *testing.T) {
	t.Parallel()
	store := runstore.NewInMemoryStore()
	defer store.Release()

	src := newSliceSource(loremWords...)
	sink := &captureSink{}
	sorter := newTestSorter(store, Ascending)
	require.NoError(t, sorter.Sort(src, inputSizeBytes(loremWords), sink))

	out := strings.Fields(sink.sb.String())
	require.Len(t, out, len(loremWords))
	assert.Equal(t, "ad", out[0])
	assert.Equal(t, "veniam", out[len(out)-1])
	assert.True(t, isSortedBy(out, Ascending), "output is not in ascending order: %v", out)
	assert.ElementsMatch(t, loremWords, out, "original casing must be preserved")
	assert.True(t, sink.closed)
	assert.True(t, src.closed)
}

func TestSortDescending(t *testing.T) {
	t.Parallel()
	store := runstore.NewInMemoryStore()
	defer store.Release()

	src := newSliceSource(loremWords...)
	sink := &captureSink{}
	sorter := newTestSorter(store, Descending)
	require.NoError(t, sorter.Sort(src, inputSizeBytes(loremWords), sink))

	out := strings.Fields(sink.sb.String())
	require.Len(t, out, len(loremWords))
	assert.Equal(t, "veniam", out[0])
	assert.Equal(t, "ad", out[len(out)-1])
	assert.True(t, isSortedBy(out, Descending), "output is not in descending order: %v", out)
	assert.ElementsMatch(t, loremWords, out)
}

func TestSortCapacityError(t *testing.T) {
	t.Parallel()
	store := runstore.NewInMemoryStore()
	defer store.Release()

	src := newSliceSource(loremWords...)
	sink := &captureSink{}
	sorter := New(Ascending, store,
		WithMaxRuns(1),
		WithMemoryEstimator(FixedMemoryEstimator(16)),
		WithLogger(testLogger()))

	err := sorter.Sort(src, 1<<30, sink)
	require.ErrorIs(t, err, ErrCapacity)
	assert.True(t, sink.closed, "sink must be closed when the split phase fails")
	assert.True(t, src.closed)
}

func TestSortEndToEndAcrossStores(t *testing.T) {
	t.Parallel()

	// The same test suite runs against every store implementation, following
	// the shape of the split/merge pipeline in production.
	stores := map[string]func(t *testing.T) runstore.Store{
		"inMemory": func(t *testing.T) runstore.Store {
			return runstore.NewInMemoryStore()
		},
		"dir": func(t *testing.T) runstore.Store {
			store, err := runstore.NewDirStore(filepath.Join(t.TempDir(), "runs"))
			require.NoError(t, err)
			return store
		},
		"dirCompressed": func(t *testing.T) runstore.Store {
			store, err := runstore.NewDirStore(filepath.Join(t.TempDir(), "runs"))
			require.NoError(t, err)
			return runstore.NewCompressedStore(store)
		},
		"dirChecksummed": func(t *testing.T) runstore.Store {
			store, err := runstore.NewDirStore(filepath.Join(t.TempDir(), "runs"))
			require.NoError(t, err)
			return runstore.NewChecksummedStore(store)
		},
	}

	// Distinct shuffled tokens so the expected output is the full input.
	const tokenCount = 500
	tokens := make([]string, 0, tokenCount)
	for i := 0; i < tokenCount; i++ {
		tokens = append(tokens, fmt.Sprintf("word%04d", i))
	}
	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(len(tokens), func(i, j int) { tokens[i], tokens[j] = tokens[j], tokens[i] })

	expected := slices.Clone(tokens)
	slices.SortFunc(expected, Ascending)

	for name, storeFn := range stores {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := storeFn(t)
			defer store.Release()

			src := newSliceSource(tokens...)
			sink := &captureSink{}
			// A small fixed memory estimate forces many runs.
			sorter := New(Ascending, store,
				WithMemoryEstimator(FixedMemoryEstimator(4000)),
				WithSizeEstimator(SizeEstimator{Overhead: 0}),
				WithWordWrap(10),
				WithLogger(testLogger()))
			require.NoError(t, sorter.Sort(src, inputSizeBytes(tokens), sink))

			assert.Equal(t, expected, strings.Fields(sink.sb.String()))
			for _, line := range strings.Split(sink.sb.String(), "\n") {
				assert.LessOrEqual(t, len(strings.Fields(line)), 10)
			}
		})
	}
}

func TestSortRemovesDrainedRunFiles(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "runs")
	store, err := runstore.NewDirStore(dir)
	require.NoError(t, err)

	src := newSliceSource(loremWords...)
	sink := &captureSink{}
	sorter := newTestSorter(store, Ascending)
	require.NoError(t, sorter.Sort(src, inputSizeBytes(loremWords), sink))

	leftovers, err := filepath.Glob(filepath.Join(dir, "sorted*.txt"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "every run file must be deleted once drained")
}

func TestSortEmptyInput(t *testing.T) {
	t.Parallel()
	store := runstore.NewInMemoryStore()
	defer store.Release()

	src := newSliceSource()
	sink := &captureSink{}
	sorter := newTestSorter(store, Ascending)
	require.NoError(t, sorter.Sort(src, 0, sink))
	assert.Empty(t, sink.sb.String())
	assert.True(t, sink.closed)
}

func TestForOrder(t *testing.T) {
	t.Parallel()
	assert.Negative(t, ForOrder("asc")("apple", "banana"))
	assert.Positive(t, ForOrder("desc")("apple", "banana"))
	assert.Negative(t, ForOrder("")("apple", "banana"), "unknown order falls back to ascending")
	assert.Zero(t, ForOrder("asc")("Apple", "apple"), "comparison is case-insensitive")
}
