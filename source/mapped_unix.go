//go:build unix

package source

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

func (m *Mapped) open(f *os.File, size int64) error {

	if size > math.MaxInt {
		return fmt.Errorf("source: %s is too large to map", m.path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)

	if err != nil {
		return fmt.Errorf("source: error mapping %s: %w", m.path, err)
	}

	m.data = data
	m.mapped = true

	return nil
}

func (m *Mapped) release() error {

	if !m.mapped || m.data == nil {
		return nil
	}

	return unix.Munmap(m.data)
}
