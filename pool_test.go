package cvdnn

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetPool(t *testing.T) {

	d, lib := newTestDNN(t)

	pool, err := NewNetPool(4, func() (*Net, error) {
		return d.ReadNetFromONNX("yolov8n.onnx")
	})
	require.NoError(t, err)
	assert.Equal(t, 4, pool.Size())
	assert.Equal(t, 4, lib.CallCount("ReadNetFromONNX"))

	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			net := pool.Get()
			defer pool.Return(net)

			_, err := net.LayerNames()
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	require.NoError(t, pool.Close())
	require.NoError(t, pool.Close())

	assert.Equal(t, 4, lib.CallCount("NetDelete"))
	assert.Zero(t, lib.Live())
}

func TestNetPoolReturnAfterClose(t *testing.T) {

	d, lib := newTestDNN(t)

	pool, err := NewNetPool(2, func() (*Net, error) {
		return d.ReadNetFromONNX("yolov8n.onnx")
	})
	require.NoError(t, err)

	net := pool.Get()
	require.NoError(t, pool.Close())

	// a network returned to a closed pool is closed instead
	pool.Return(net)

	assert.Equal(t, 2, lib.CallCount("NetDelete"))
	assert.Zero(t, lib.Live())
}

func TestNetPoolLoadFailureClosesLoaded(t *testing.T) {

	d, lib := newTestDNN(t)
	loadErr := errors.New("model file corrupt")

	var calls atomic.Int32

	pool, err := NewNetPool(3, func() (*Net, error) {

		if calls.Add(1) == 2 {
			return nil, loadErr
		}

		return d.ReadNetFromONNX("yolov8n.onnx")
	})

	assert.Nil(t, pool)
	assert.ErrorIs(t, err, loadErr)
	assert.Zero(t, lib.Live())
}

func TestNetPoolArguments(t *testing.T) {

	_, err := NewNetPool(0, func() (*Net, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewNetPool(1, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
