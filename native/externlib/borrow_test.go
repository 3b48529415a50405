package externlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swdee/go-cvdnn/native"
)

func TestBorrowCountOverlappingImports(t *testing.T) {

	b := newBorrowCount()
	h := native.Handle(0x1000)

	// the same gocv Mat imported by two wrappers
	b.add(h)
	b.add(h)

	assert.True(t, b.release(h), "first close must not delete the caller's Mat")
	assert.True(t, b.release(h), "second close must not delete the caller's Mat")

	// anything else is owned by the library and gets deleted
	assert.False(t, b.release(h))
	assert.False(t, b.release(native.Handle(0x2000)))
}
