package extsort

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"runtime/debug"
	"unicode/utf8"
)

// ErrCapacity is returned when no chunk size can bound the input into the
// configured number of runs that individually fit in free memory. The caller
// must raise maxTempFiles or free memory, retrying cannot help.
var ErrCapacity = errors.New("cannot bound the file into the configured number of runs that individually fit in free memory")

// MemoryEstimator produces a point-in-time estimate of free memory in bytes.
type MemoryEstimator interface {
	FreeMemory() int64
}

const (
	// assumedMemoryBudget is used when the runtime has no configured memory
	// limit to measure against.
	assumedMemoryBudget = 1 << 30 // 1 GiB

	// minFreeMemory floors the estimate so a transiently large heap cannot
	// produce a useless near-zero budget.
	minFreeMemory = 16 << 20 // 16 MiB
)

// RuntimeMemoryEstimator estimates free memory as the runtime's configured
// memory limit minus the live heap. It hints the collector to reclaim unused
// memory before measuring to reduce under-estimation.
type RuntimeMemoryEstimator struct{}

var _ MemoryEstimator = RuntimeMemoryEstimator{}

func (RuntimeMemoryEstimator) FreeMemory() int64 {
	runtime.GC()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	limit := debug.SetMemoryLimit(-1) // query without changing
	if limit <= 0 || limit == math.MaxInt64 {
		limit = assumedMemoryBudget
	}

	free := limit - int64(ms.HeapAlloc)
	if free < minFreeMemory {
		free = minFreeMemory
	}
	return free
}

// FixedMemoryEstimator reports a fixed free-memory value, used in tests and
// to override the runtime estimate.
type FixedMemoryEstimator int64

var _ MemoryEstimator = FixedMemoryEstimator(0)

func (f FixedMemoryEstimator) FreeMemory() int64 { return int64(f) }

// BlockSize estimates how many bytes of tokens one chunk may hold in memory
// before it must be sorted and spilled to a run.
//
// The naive share ceil(fileSize/maxRuns) keeps the run count within maxRuns.
// If even that share exceeds free memory the sort cannot proceed and
// ErrCapacity is returned. Otherwise the share is widened to at least half of
// free memory so a small run limit does not produce needlessly tiny chunks.
func BlockSize(fileSize int64, maxRuns int, freeMemory int64) (int64, error) {
	if maxRuns < 1 {
		return 0, fmt.Errorf("max runs must be at least 1, got %d", maxRuns)
	}

	blockSize := fileSize / int64(maxRuns)
	if fileSize%int64(maxRuns) != 0 {
		blockSize++
	}

	if blockSize > freeMemory {
		return 0, fmt.Errorf("%w: need %d bytes per run across %d runs but only %d bytes free, raise maxTempFiles",
			ErrCapacity, blockSize, maxRuns, freeMemory)
	}

	if half := freeMemory / 2; blockSize < half {
		blockSize = half
	}
	return blockSize, nil
}

// DefaultTokenOverhead models the bookkeeping cost of holding one token in
// the chunk working set: a 16 byte string header plus allocator and tree
// entry overhead. Advisory only, the contract is monotonic growth with token
// length.
const DefaultTokenOverhead = 48

// SizeEstimator estimates the in-memory footprint of a single token. It is
// an immutable value threaded explicitly through the split phase, there is no
// process-wide overhead state.
type SizeEstimator struct {
	Overhead int64
}

func (e SizeEstimator) Token(tok string) int64 {
	return 2*int64(utf8.RuneCountInString(tok)) + e.Overhead
}
