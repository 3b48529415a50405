package externlib

import (
	"sync"

	"github.com/swdee/go-cvdnn/native"
)

// borrowCount counts the live imports of Mats owned by gocv callers.  The
// same gocv Mat imported twice has the same handle, so it stays borrowed
// until every import has been released.
type borrowCount struct {
	mu     sync.Mutex
	counts map[native.Handle]int
}

func newBorrowCount() *borrowCount {
	return &borrowCount{counts: make(map[native.Handle]int)}
}

// add records one more import of h
func (b *borrowCount) add(h native.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts[h]++
}

// release drops one import of h and reports whether h was borrowed, in
// which case the caller must not delete the native Mat
func (b *borrowCount) release(h native.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, ok := b.counts[h]

	if !ok {
		return false
	}

	if n <= 1 {
		delete(b.counts, h)
	} else {
		b.counts[h] = n - 1
	}

	return true
}
