package result

import "sync"

// IDGenerator hands out increasing detection IDs and is safe for concurrent
// use
type IDGenerator struct {
	mu sync.Mutex
	id int64
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// GetNext returns the next ID, starting from 1
func (g *IDGenerator) GetNext() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id++
	return g.id
}
