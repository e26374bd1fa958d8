package extsort

import (
	"log/slog"
	"time"

	"github.com/garethgeorge/wordsort/internal/runstore"
)

type options struct {
	maxRuns  int
	wordWrap int
	memEst   MemoryEstimator
	sizeEst  SizeEstimator
	logger   *slog.Logger
}

type Option = func(*options)

// WithMaxRuns bounds how many sorted runs the split phase may create.
func WithMaxRuns(maxRuns int) func(*options) {
	return func(o *options) {
		o.maxRuns = maxRuns
	}
}

// WithWordWrap sets how many tokens are written per output line. Values <= 0
// wrap after every token.
func WithWordWrap(wordWrap int) func(*options) {
	return func(o *options) {
		o.wordWrap = wordWrap
	}
}

// WithMemoryEstimator overrides the free-memory estimator.
func WithMemoryEstimator(est MemoryEstimator) func(*options) {
	return func(o *options) {
		o.memEst = est
	}
}

// WithSizeEstimator overrides the per-token size estimator.
func WithSizeEstimator(est SizeEstimator) func(*options) {
	return func(o *options) {
		o.sizeEst = est
	}
}

// WithLogger sets the logger used for phase and run progress.
func WithLogger(logger *slog.Logger) func(*options) {
	return func(o *options) {
		o.logger = logger
	}
}

// Sorter sequences the external sort: estimate the memory budget, split the
// input into sorted runs, merge the runs into the output sink.
type Sorter struct {
	cmp   Comparator
	store runstore.Store
	opts  options
}

func New(cmp Comparator, store runstore.Store, opts ...Option) *Sorter {
	options := options{
		maxRuns:  1024,
		wordWrap: 100,
		memEst:   RuntimeMemoryEstimator{},
		sizeEst:  SizeEstimator{Overhead: DefaultTokenOverhead},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Sorter{cmp: cmp, store: store, opts: options}
}

// Sort runs both phases sequentially: the split phase completes before the
// merge phase begins. Sort takes ownership of src and sink and closes both on
// every exit path. Any error from either phase is fatal, there is no partial
// recovery; a failed invocation may leave run files behind for deferred
// cleanup.
func (s *Sorter) Sort(src TokenSource, fileSize int64, sink WordSink) error {
	start := time.Now()
	logger := s.opts.logger

	freeMemory := s.opts.memEst.FreeMemory()
	logger.Info("splitting input into sorted runs",
		"fileSizeBytes", fileSize, "freeMemoryBytes", freeMemory, "maxRuns", s.opts.maxRuns)
	runs, err := splitIntoRuns(src, fileSize, s.opts.maxRuns, freeMemory,
		s.cmp, s.store, s.opts.sizeEst, logger)
	if err != nil {
		sink.Close()
		return err
	}
	splitElapsed := time.Since(start)

	logger.Info("merging sorted runs", "runs", len(runs))
	if err := merge(s.cmp, runs, sink, s.opts.wordWrap, logger); err != nil {
		return err
	}

	logger.Info("sort complete",
		"runs", len(runs),
		"splitElapsed", splitElapsed.Round(time.Millisecond),
		"mergeElapsed", time.Since(start.Add(splitElapsed)).Round(time.Millisecond),
		"totalElapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
