package runstore

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/garethgeorge/wordsort/internal/ioutil"
)

// compressedStore is a Store that transparently zstd-compresses run bytes.
// Runs lose their plain-text on-disk format but take far less temp space.
type compressedStore struct {
	base Store
}

func NewCompressedStore(base Store) Store {
	return &compressedStore{base: base}
}

var _ Store = (*compressedStore)(nil)

func (s *compressedStore) New() (Handle, error) {
	baseHandle, err := s.base.New()
	if err != nil {
		return nil, err
	}
	return &compressedRun{base: baseHandle}, nil
}

func (s *compressedStore) Release() error {
	return s.base.Release()
}

type compressedRun struct {
	base Handle
}

func (r *compressedRun) GetReader() (io.ReadCloser, error) {
	baseReader, err := r.base.GetReader()
	if err != nil {
		return nil, err
	}
	zstdReader, err := zstd.NewReader(baseReader)
	if err != nil {
		baseReader.Close()
		return nil, err
	}
	// The decoder must be closed to release its state before the base
	// reader goes away.
	return ioutil.WithReaderCloser(zstdReader, func() error {
		zstdReader.Close()
		return baseReader.Close()
	}), nil
}

func (r *compressedRun) GetWriter() (io.WriteCloser, error) {
	baseWriter, err := r.base.GetWriter()
	if err != nil {
		return nil, err
	}
	zstdWriter, err := zstd.NewWriter(
		baseWriter,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		baseWriter.Close()
		return nil, err
	}
	return ioutil.WithWriterCloser(zstdWriter, func() error {
		if err := zstdWriter.Close(); err != nil {
			baseWriter.Close()
			return err
		}
		return baseWriter.Close()
	}), nil
}

func (r *compressedRun) Name() string { return r.base.Name() }

func (r *compressedRun) Remove() error { return r.base.Remove() }
