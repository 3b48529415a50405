package cvdnn

import (
	"github.com/swdee/go-cvdnn/native"
)

// ShrinkCaffeModel converts the float32 weights of a Caffe model to half
// precision floats.  layerTypes lists the layer types to convert, nil or
// empty selects Convolution and InnerProduct.
func (d *DNN) ShrinkCaffeModel(src, dst string, layerTypes []string) error {

	if src == "" {
		return emptyArg("src")
	}

	if dst == "" {
		return emptyArg("dst")
	}

	if layerTypes == nil {
		layerTypes = []string{}
	}

	return d.invoke("dnn_shrinkCaffeModel", func() native.Status {
		return d.lib.ShrinkCaffeModel(src, dst, layerTypes)
	})
}

// WriteTextGraph writes a human readable text graph of a binary TensorFlow
// model to output
func (d *DNN) WriteTextGraph(model, output string) error {

	if model == "" {
		return emptyArg("model")
	}

	if output == "" {
		return emptyArg("output")
	}

	return d.invoke("dnn_writeTextGraph", func() native.Status {
		return d.lib.WriteTextGraph(model, output)
	})
}

// ResetMyriadDevice releases a Myriad VPU held by the Inference Engine so
// another process can use it
func (d *DNN) ResetMyriadDevice() error {
	return d.invoke("dnn_resetMyriadDevice", func() native.Status {
		return d.lib.ResetMyriadDevice()
	})
}

// ShrinkCaffeModel converts a Caffe model to half precision using the
// default DNN
func ShrinkCaffeModel(src, dst string, layerTypes []string) error {
	return std.ShrinkCaffeModel(src, dst, layerTypes)
}

// WriteTextGraph writes a TensorFlow text graph using the default DNN
func WriteTextGraph(model, output string) error {
	return std.WriteTextGraph(model, output)
}

// ResetMyriadDevice releases the Myriad VPU using the default DNN
func ResetMyriadDevice() error {
	return std.ResetMyriadDevice()
}
