package runstore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Handle is a handle to one persisted sorted run that can be written once and
// read back.
type Handle interface {
	GetReader() (io.ReadCloser, error)
	GetWriter() (io.WriteCloser, error)
	Name() string
	// Remove deletes the run's backing storage. The merge phase removes each
	// run as soon as it has been fully drained.
	Remove() error
}

// Store creates run handles and can release any remaining storage when done.
type Store interface {
	New() (Handle, error)
	Release() error
}

// inMemoryStore keeps runs in byte slices, used in tests and for small inputs.
type inMemoryStore struct {
	mu   sync.Mutex
	runs []*inMemoryRun
}

func NewInMemoryStore() Store {
	return &inMemoryStore{}
}

func (s *inMemoryStore) New() (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := &inMemoryRun{name: fmt.Sprintf("sorted%04d.txt", len(s.runs)+1)}
	s.runs = append(s.runs, run)
	return run, nil
}

func (s *inMemoryStore) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = nil
	return nil
}

type inMemoryRun struct {
	name string
	data []byte
}

var _ io.WriteCloser = (*inMemoryRun)(nil)

func (r *inMemoryRun) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(r.data)), nil
}

func (r *inMemoryRun) GetWriter() (io.WriteCloser, error) {
	r.data = r.data[:0]
	return r, nil
}

func (r *inMemoryRun) Write(p []byte) (n int, err error) {
	r.data = append(r.data, p...)
	return len(p), nil
}

func (r *inMemoryRun) Close() error { return nil }

func (r *inMemoryRun) Name() string { return r.name }

func (r *inMemoryRun) Remove() error {
	r.data = nil
	return nil
}

// dirStore places numbered run files in a directory. The directory may be the
// user's working directory, so Release removes only the files this store
// created, never the directory itself.
type dirStore struct {
	dir    string
	nextID atomic.Int64

	mu    sync.Mutex
	paths []string
}

func NewDirStore(dir string) (Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &dirStore{dir: dir}, nil
}

func (d *dirStore) New() (Handle, error) {
	id := d.nextID.Add(1)
	path := filepath.Join(d.dir, fmt.Sprintf("sorted%04d.txt", id))
	d.mu.Lock()
	d.paths = append(d.paths, path)
	d.mu.Unlock()
	return &fileRun{path: path}, nil
}

func (d *dirStore) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var firstErr error
	for _, path := range d.paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("remove run file %s: %w", path, err)
		}
	}
	d.paths = nil
	return firstErr
}

type fileRun struct {
	path string
}

func (f *fileRun) GetWriter() (io.WriteCloser, error) {
	return os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

func (f *fileRun) GetReader() (io.ReadCloser, error) {
	return os.OpenFile(f.path, os.O_RDONLY, 0o644)
}

func (f *fileRun) Name() string { return f.path }

func (f *fileRun) Remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
