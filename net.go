package cvdnn

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/swdee/go-cvdnn/native"
)

// Net is a loaded neural network.  A Net must not be used from more than one
// goroutine at a time, use a NetPool to run a model concurrently.
type Net struct {
	d *DNN
	h native.Handle
	// closed is a flag to indicate if the native network has been released
	closed bool
	// mutex to lock access to closed
	sync.Mutex
}

// newNet wraps a handle returned by a successful native call
func (d *DNN) newNet(h native.Handle) *Net {
	return &Net{d: d, h: h}
}

// handle returns the native handle or ErrClosed
func (n *Net) handle() (native.Handle, error) {

	if n == nil {
		return 0, ErrClosed
	}

	n.Lock()
	defer n.Unlock()

	if n.closed || n.h == 0 {
		return 0, ErrClosed
	}

	return n.h, nil
}

// Close releases the native network.  Calling Close more than once is a
// no-op.
func (n *Net) Close() error {

	if n == nil {
		return nil
	}

	n.Lock()
	defer n.Unlock()

	if n.closed {
		return nil
	}

	n.closed = true
	h := n.h
	n.h = 0

	return n.d.invoke("dnn_Net_delete", func() native.Status {
		return n.d.lib.NetDelete(h)
	})
}

// Empty returns true if the network has no layers
func (n *Net) Empty() (bool, error) {

	h, err := n.handle()

	if err != nil {
		return true, err
	}

	var empty bool

	err = n.d.invoke("dnn_Net_empty", func() native.Status {
		var st native.Status
		empty, st = n.d.lib.NetEmpty(h)
		return st
	})

	runtime.KeepAlive(n)
	return empty, err
}

// LayerNames returns the names of all layers in the network
func (n *Net) LayerNames() ([]string, error) {

	h, err := n.handle()

	if err != nil {
		return nil, err
	}

	var names []string

	err = n.d.invoke("dnn_Net_getLayerNames", func() native.Status {
		var st native.Status
		names, st = n.d.lib.NetLayerNames(h)
		return st
	})

	runtime.KeepAlive(n)
	return names, err
}

// SetInput sets the blob as the input of the named layer, an empty name
// selects the first input
func (n *Net) SetInput(blob *Mat, name string) error {

	if blob == nil {
		return nilArg("blob")
	}

	h, err := n.handle()

	if err != nil {
		return err
	}

	bh, err := blob.handle()

	if err != nil {
		return &ArgumentError{Name: "blob", Reason: "is closed", Err: err}
	}

	err = n.d.invoke("dnn_Net_setInput", func() native.Status {
		return n.d.lib.NetSetInput(h, bh, name)
	})

	runtime.KeepAlive(n)
	runtime.KeepAlive(blob)
	return err
}

// Forward runs a forward pass and returns the blob of the named output layer,
// an empty name selects the last layer
func (n *Net) Forward(outputName string) (*Mat, error) {

	h, err := n.handle()

	if err != nil {
		return nil, err
	}

	var out native.Handle

	err = n.d.invoke("dnn_Net_forward", func() native.Status {
		var st native.Status
		out, st = n.d.lib.NetForward(h, outputName)
		return st
	})

	runtime.KeepAlive(n)

	if err != nil {
		return nil, err
	}

	return n.d.wrapMat("dnn_Net_forward", out)
}

// Query the network and write its layer information in text/human readable
// format
func (n *Net) Query(w io.Writer) error {

	empty, err := n.Empty()

	if err != nil {
		return fmt.Errorf("error querying network: %w", err)
	}

	names, err := n.LayerNames()

	if err != nil {
		return fmt.Errorf("error querying layer names: %w", err)
	}

	fmt.Fprintf(w, "Empty: %t, Layer Number: %d\n", empty, len(names))
	fmt.Fprintf(w, "Layers:\n")

	for i, name := range names {
		fmt.Fprintf(w, "  %d: %s\n", i+1, name)
	}

	return nil
}
