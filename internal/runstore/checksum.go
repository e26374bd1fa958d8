package runstore

import (
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/garethgeorge/wordsort/internal/ioutil"
)

// checksummedStore records an xxhash64 digest of each run's bytes as it is
// written and verifies the digest when a fully drained reader is closed.
// This catches temp-file corruption between the split and merge phases.
type checksummedStore struct {
	base Store
}

func NewChecksummedStore(base Store) Store {
	return &checksummedStore{base: base}
}

var _ Store = (*checksummedStore)(nil)

func (s *checksummedStore) New() (Handle, error) {
	baseHandle, err := s.base.New()
	if err != nil {
		return nil, err
	}
	return &checksummedRun{base: baseHandle}, nil
}

func (s *checksummedStore) Release() error {
	return s.base.Release()
}

type checksummedRun struct {
	base Handle

	mu      sync.Mutex
	sum     uint64
	haveSum bool
}

func (r *checksummedRun) GetWriter() (io.WriteCloser, error) {
	baseWriter, err := r.base.GetWriter()
	if err != nil {
		return nil, err
	}
	digest := xxhash.New()
	tee := io.MultiWriter(baseWriter, digest)
	return ioutil.WithWriterCloser(tee, func() error {
		r.mu.Lock()
		r.sum = digest.Sum64()
		r.haveSum = true
		r.mu.Unlock()
		return baseWriter.Close()
	}), nil
}

func (r *checksummedRun) GetReader() (io.ReadCloser, error) {
	baseReader, err := r.base.GetReader()
	if err != nil {
		return nil, err
	}
	digest := xxhash.New()
	vr := &verifyingReader{base: baseReader, digest: digest}
	return ioutil.WithReaderCloser(vr, func() error {
		closeErr := baseReader.Close()
		// Only verify when the reader consumed the whole run, a partial read
		// has a valid prefix digest that proves nothing.
		if !vr.sawEOF {
			return closeErr
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.haveSum && digest.Sum64() != r.sum {
			return fmt.Errorf("run %s failed checksum verification: expected %016x got %016x",
				r.base.Name(), r.sum, digest.Sum64())
		}
		return closeErr
	}), nil
}

func (r *checksummedRun) Name() string { return r.base.Name() }

func (r *checksummedRun) Remove() error { return r.base.Remove() }

type verifyingReader struct {
	base   io.Reader
	digest *xxhash.Digest
	sawEOF bool
}

func (v *verifyingReader) Read(p []byte) (int, error) {
	n, err := v.base.Read(p)
	if n > 0 {
		_, _ = v.digest.Write(p[:n])
	}
	if err == io.EOF {
		v.sawEOF = true
	}
	return n, err
}
