package cvdnn

import (
	"fmt"

	"github.com/swdee/go-cvdnn/native"
)

// Framework names the origin framework of a model passed to ReadNet
type Framework string

// framework names understood by the native model reader.  FrameworkAuto
// leaves detection by file extension to the native library.
const (
	FrameworkAuto       Framework = ""
	FrameworkCaffe      Framework = "caffe"
	FrameworkTensorflow Framework = "tensorflow"
	FrameworkTorch      Framework = "torch"
	FrameworkDarknet    Framework = "darknet"
	FrameworkDLDT       Framework = "dldt"
	FrameworkONNX       Framework = "onnx"
)

// Format selects the model reader used by ReadNetFrom
type Format int

const (
	FormatDarknet Format = iota
	FormatCaffe
	FormatTensorflow
	FormatONNX
)

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatDarknet:
		return "darknet"
	case FormatCaffe:
		return "caffe"
	case FormatTensorflow:
		return "tensorflow"
	case FormatONNX:
		return "onnx"
	default:
		return fmt.Sprintf("unknown format %d", int(f))
	}
}

// readNet issues a native loader call and wraps the returned handle
func (d *DNN) readNet(op string, call func() (native.Handle, native.Status)) (*Net, error) {

	var h native.Handle

	err := d.invoke(op, func() native.Status {
		var st native.Status
		h, st = call()
		return st
	})

	if err != nil {
		return nil, err
	}

	if h == 0 {
		return nil, &NativeError{Op: op, Status: native.StatusException,
			Message: "native library returned no network"}
	}

	d.log.Debug("network loaded", "op", op)

	return d.newNet(h), nil
}

// ReadNetFromDarknet reads a network stored in Darknet format.  cfgFile is
// the path to the .cfg text description, darknetModel the optional path to
// the learned .weights.
func (d *DNN) ReadNetFromDarknet(cfgFile, darknetModel string) (*Net, error) {

	if cfgFile == "" {
		return nil, emptyArg("cfgFile")
	}

	return d.readNet("dnn_readNetFromDarknet", func() (native.Handle, native.Status) {
		return d.lib.ReadNetFromDarknet(cfgFile, darknetModel)
	})
}

// ReadNetFromDarknetSource reads a Darknet network from in memory sources.
// model may be nil.
func (d *DNN) ReadNetFromDarknetSource(cfg, model Source) (*Net, error) {
	return d.ReadNetFrom(FormatDarknet, cfg, model)
}

// ReadNetFromCaffe reads a network stored in Caffe format.  prototxt is the
// path to the network description, caffeModel the optional path to the
// learned weights.
func (d *DNN) ReadNetFromCaffe(prototxt, caffeModel string) (*Net, error) {

	if prototxt == "" {
		return nil, emptyArg("prototxt")
	}

	return d.readNet("dnn_readNetFromCaffe", func() (native.Handle, native.Status) {
		return d.lib.ReadNetFromCaffe(prototxt, caffeModel)
	})
}

// ReadNetFromCaffeSource reads a Caffe network from in memory sources.
// model may be nil.
func (d *DNN) ReadNetFromCaffeSource(proto, model Source) (*Net, error) {
	return d.ReadNetFrom(FormatCaffe, proto, model)
}

// ReadNetFromTensorflow reads a network stored in TensorFlow frozen graph
// format.  config is the optional path to a .pbtxt text graph.
func (d *DNN) ReadNetFromTensorflow(model, config string) (*Net, error) {

	if model == "" {
		return nil, emptyArg("model")
	}

	return d.readNet("dnn_readNetFromTensorflow", func() (native.Handle, native.Status) {
		return d.lib.ReadNetFromTensorflow(model, config)
	})
}

// ReadNetFromTensorflowSource reads a TensorFlow network from in memory
// sources.  config may be nil.
func (d *DNN) ReadNetFromTensorflowSource(model, config Source) (*Net, error) {
	return d.ReadNetFrom(FormatTensorflow, model, config)
}

// ReadNetFromTorch reads a network stored in Torch7 format.  isBinary
// selects between binary and ASCII serialisation.
func (d *DNN) ReadNetFromTorch(model string, isBinary bool) (*Net, error) {

	if model == "" {
		return nil, emptyArg("model")
	}

	return d.readNet("dnn_readNetFromTorch", func() (native.Handle, native.Status) {
		return d.lib.ReadNetFromTorch(model, isBinary)
	})
}

// ReadNetFromONNX reads a network from an .onnx file
func (d *DNN) ReadNetFromONNX(path string) (*Net, error) {

	if path == "" {
		return nil, emptyArg("path")
	}

	return d.readNet("dnn_readNetFromONNX", func() (native.Handle, native.Status) {
		return d.lib.ReadNetFromONNX(path)
	})
}

// ReadNetFromONNXSource reads an ONNX network from an in memory source
func (d *DNN) ReadNetFromONNXSource(data Source) (*Net, error) {
	return d.ReadNetFrom(FormatONNX, data, nil)
}

// ReadNet reads a network from any supported format.  The format is taken
// from framework, or detected by the native library from the file
// extensions of model and config when framework is FrameworkAuto.
func (d *DNN) ReadNet(model, config string, framework Framework) (*Net, error) {

	if model == "" {
		return nil, emptyArg("model")
	}

	return d.readNet("dnn_readNet", func() (native.Handle, native.Status) {
		return d.lib.ReadNet(model, config, string(framework))
	})
}

// ReadNetFrom reads a network of the given format from in memory sources.
// The primary source is required, the secondary is optional and ignored by
// ONNX.  Both sources are fully read before the native call so an unreadable
// source fails without touching the native library.
func (d *DNN) ReadNetFrom(format Format, primary, secondary Source) (*Net, error) {

	if format < FormatDarknet || format > FormatONNX {
		return nil, &ArgumentError{Name: "format", Reason: format.String()}
	}

	primaryName, secondaryName := sourceNames(format)

	a, err := readSource(primaryName, primary)

	if err != nil {
		return nil, err
	}

	b, err := readOptionalSource(secondaryName, secondary)

	if err != nil {
		return nil, err
	}

	switch format {
	case FormatDarknet:
		return d.readNet("dnn_readNetFromDarknet_buffer", func() (native.Handle, native.Status) {
			return d.lib.ReadNetFromDarknetBuffer(a, b)
		})

	case FormatCaffe:
		return d.readNet("dnn_readNetFromCaffe_buffer", func() (native.Handle, native.Status) {
			return d.lib.ReadNetFromCaffeBuffer(a, b)
		})

	case FormatTensorflow:
		return d.readNet("dnn_readNetFromTensorflow_buffer", func() (native.Handle, native.Status) {
			return d.lib.ReadNetFromTensorflowBuffer(a, b)
		})

	default:
		return d.readNet("dnn_readNetFromONNX_buffer", func() (native.Handle, native.Status) {
			return d.lib.ReadNetFromONNXBuffer(a)
		})
	}
}

// sourceNames returns the argument names of a format's two sources, used in
// error messages
func sourceNames(format Format) (string, string) {
	switch format {
	case FormatDarknet:
		return "bufferCfg", "bufferModel"
	case FormatCaffe:
		return "bufferProto", "bufferModel"
	case FormatTensorflow:
		return "bufferModel", "bufferConfig"
	default:
		return "onnxFileData", "unused"
	}
}

// ReadTorchBlob loads a blob serialised by Torch7
func (d *DNN) ReadTorchBlob(fileName string, isBinary bool) (*Mat, error) {

	if fileName == "" {
		return nil, emptyArg("fileName")
	}

	var h native.Handle

	err := d.invoke("dnn_readTorchBlob", func() native.Status {
		var st native.Status
		h, st = d.lib.ReadTorchBlob(fileName, isBinary)
		return st
	})

	if err != nil {
		return nil, err
	}

	if h == 0 {
		return nil, &NativeError{Op: "dnn_readTorchBlob", Status: native.StatusException,
			Message: "native library returned no blob"}
	}

	return d.newMat(h), nil
}

// ReadTensorFromONNX loads a serialised ONNX TensorProto.  A nil Mat and nil
// error are returned when the file holds no tensor.
func (d *DNN) ReadTensorFromONNX(path string) (*Mat, error) {

	if path == "" {
		return nil, emptyArg("path")
	}

	var h native.Handle

	err := d.invoke("dnn_readTensorFromONNX", func() native.Status {
		var st native.Status
		h, st = d.lib.ReadTensorFromONNX(path)
		return st
	})

	if err != nil || h == 0 {
		return nil, err
	}

	return d.newMat(h), nil
}

// ReadNetFromDarknet reads a Darknet network using the default DNN
func ReadNetFromDarknet(cfgFile, darknetModel string) (*Net, error) {
	return std.ReadNetFromDarknet(cfgFile, darknetModel)
}

// ReadNetFromDarknetSource reads a Darknet network from sources using the
// default DNN
func ReadNetFromDarknetSource(cfg, model Source) (*Net, error) {
	return std.ReadNetFromDarknetSource(cfg, model)
}

// ReadNetFromCaffe reads a Caffe network using the default DNN
func ReadNetFromCaffe(prototxt, caffeModel string) (*Net, error) {
	return std.ReadNetFromCaffe(prototxt, caffeModel)
}

// ReadNetFromCaffeSource reads a Caffe network from sources using the default
// DNN
func ReadNetFromCaffeSource(proto, model Source) (*Net, error) {
	return std.ReadNetFromCaffeSource(proto, model)
}

// ReadNetFromTensorflow reads a TensorFlow network using the default DNN
func ReadNetFromTensorflow(model, config string) (*Net, error) {
	return std.ReadNetFromTensorflow(model, config)
}

// ReadNetFromTensorflowSource reads a TensorFlow network from sources using
// the default DNN
func ReadNetFromTensorflowSource(model, config Source) (*Net, error) {
	return std.ReadNetFromTensorflowSource(model, config)
}

// ReadNetFromTorch reads a Torch7 network using the default DNN
func ReadNetFromTorch(model string, isBinary bool) (*Net, error) {
	return std.ReadNetFromTorch(model, isBinary)
}

// ReadNetFromONNX reads an ONNX network using the default DNN
func ReadNetFromONNX(path string) (*Net, error) {
	return std.ReadNetFromONNX(path)
}

// ReadNetFromONNXSource reads an ONNX network from a source using the default
// DNN
func ReadNetFromONNXSource(data Source) (*Net, error) {
	return std.ReadNetFromONNXSource(data)
}

// ReadNet reads a network of any supported format using the default DNN
func ReadNet(model, config string, framework Framework) (*Net, error) {
	return std.ReadNet(model, config, framework)
}

// ReadNetFrom reads a network from sources using the default DNN
func ReadNetFrom(format Format, primary, secondary Source) (*Net, error) {
	return std.ReadNetFrom(format, primary, secondary)
}

// ReadTorchBlob loads a Torch7 blob using the default DNN
func ReadTorchBlob(fileName string, isBinary bool) (*Mat, error) {
	return std.ReadTorchBlob(fileName, isBinary)
}

// ReadTensorFromONNX loads an ONNX tensor using the default DNN
func ReadTensorFromONNX(path string) (*Mat, error) {
	return std.ReadTensorFromONNX(path)
}
