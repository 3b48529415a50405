/*
go-cvdnn provides Go language bindings for the OpenCV deep neural network
(dnn) module and the LATCH feature descriptor.  It aims to provide lite
bindings in the spirit of the .NET OpenCvSharp wrapper, every function
validates its arguments, marshals them into native memory layouts, makes one
call into the native library and wraps the returned handle in a Go value
that must be closed when no longer needed.

Networks can be loaded from Darknet, Caffe, TensorFlow, Torch and ONNX
models, either by file path or from in memory Sources such as byte buffers,
io.Readers, memory mapped files, compressed streams and object storage.

The native library is reached through the native.Library interface.  By
default the gocv backend is used, building with -tags cvextern switches to
direct cgo bindings against the OpenCvSharpExtern shared library which
exposes the entire API.

The preprocess, postprocess and render packages build an object detection
pipeline on top: letterbox resizing, decoding of YOLO output blobs and
drawing of the results.

See example code and usage in the example subdirectory.
*/
package cvdnn
