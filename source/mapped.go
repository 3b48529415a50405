package source

import (
	"errors"
	"os"
	"sync"

	cvdnn "github.com/swdee/go-cvdnn"
)

// ErrMappingClosed is returned when a Mapped source is read after Close
var ErrMappingClosed = errors.New("source: mapping is closed")

// Mapped is a read only memory mapping of a model file.  Bytes returns the
// mapping itself without copying, the slice is valid until Close.
type Mapped struct {
	path string
	data []byte
	// mapped is false when the file was read into memory instead
	mapped bool
	closed bool
	mu     sync.Mutex
}

// Map memory maps the file at path
func Map(path string) (*Mapped, error) {

	if path == "" {
		return nil, &cvdnn.ArgumentError{Name: "path", Reason: "must not be empty"}
	}

	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	info, err := f.Stat()

	if err != nil {
		return nil, err
	}

	m := &Mapped{path: path}

	// empty files can not be mapped
	if info.Size() == 0 {
		m.data = []byte{}
		return m, nil
	}

	if err := m.open(f, info.Size()); err != nil {
		return nil, err
	}

	return m, nil
}

// Bytes returns the mapped contents
func (m *Mapped) Bytes() ([]byte, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrMappingClosed
	}

	return m.data, nil
}

// Len returns the size of the mapping
func (m *Mapped) Len() int {

	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.data)
}

// Path returns the file the mapping was made from
func (m *Mapped) Path() string {
	return m.path
}

// Close releases the mapping.  Calling Close more than once is a no-op.
func (m *Mapped) Close() error {

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	err := m.release()
	m.data = nil

	return err
}
