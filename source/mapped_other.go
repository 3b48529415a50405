//go:build !unix

package source

import (
	"fmt"
	"io"
	"os"
)

// open reads the file into memory on platforms without mmap support in
// golang.org/x/sys/unix
func (m *Mapped) open(f *os.File, size int64) error {

	data := make([]byte, size)

	if _, err := io.ReadFull(f, data); err != nil {
		return fmt.Errorf("source: error reading %s: %w", m.path, err)
	}

	m.data = data
	return nil
}

func (m *Mapped) release() error {
	return nil
}
