package cvdnn

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// NetPool is a simple pool of copies of the same network so a model can be
// run from several goroutines, each holding its own Net
type NetPool struct {
	// pool of networks
	nets chan *Net
	// size of pool
	size int
	// closed guards sending on nets after Close
	closed bool
	mu     sync.RWMutex
}

// NewNetPool creates a pool of size networks, each created by calling load.
// The networks are loaded concurrently, if any load fails the networks
// already loaded are closed.
func NewNetPool(size int, load func() (*Net, error)) (*NetPool, error) {

	if size < 1 {
		return nil, &ArgumentError{Name: "size", Reason: fmt.Sprintf("%d is less than 1", size)}
	}

	if load == nil {
		return nil, nilArg("load")
	}

	p := &NetPool{
		nets: make(chan *Net, size),
		size: size,
	}

	var g errgroup.Group

	for i := 0; i < size; i++ {
		g.Go(func() error {
			net, err := load()

			if err != nil {
				return err
			}

			// attach to pool
			p.Return(net)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// close any instances that were created before receiving the error
		return nil, errors.Join(fmt.Errorf("error loading pool network: %w", err), p.Close())
	}

	return p, nil
}

// Get takes a network from the pool, blocking until one is available
func (p *NetPool) Get() *Net {
	return <-p.nets
}

// Return a network to the pool.  Networks returned to a closed or full pool
// are closed.
func (p *NetPool) Return(net *Net) {

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		_ = net.Close()
		return
	}

	select {
	case p.nets <- net:
	default:
		// pool is full
		_ = net.Close()
	}
}

// Size returns the number of networks the pool was created with
func (p *NetPool) Size() int {
	return p.size
}

// Close the pool and all networks in it.  Networks taken with Get and not
// yet returned must be closed by their holder.
func (p *NetPool) Close() error {

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	close(p.nets)

	var errs []error

	// close all networks
	for next := range p.nets {
		errs = append(errs, next.Close())
	}

	return errors.Join(errs...)
}
