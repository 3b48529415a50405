// Package gocvlib implements native.Library on top of gocv, the default
// backend when the OpenCvSharpExtern library is not linked.
//
// gocv exposes a subset of the dnn module.  Entry points without a gocv
// counterpart fail with StatusException and a diagnostic naming the
// missing operation.
package gocvlib

import (
	"fmt"
	"image"
	"sync"

	"github.com/swdee/go-cvdnn/internal/handles"
	"github.com/swdee/go-cvdnn/internal/layout"
	"github.com/swdee/go-cvdnn/native"
	"gocv.io/x/gocv"
)

type matEntry struct {
	m gocv.Mat
	// borrowed mats belong to the caller and are not closed on delete
	borrowed bool
}

type vecEntry struct {
	kind native.VectorKind
	data []byte
}

// Library is the gocv backed native library
type Library struct {
	objects *handles.Table
	// lastErr holds the diagnostic per OS thread
	lastErr sync.Map
}

// New returns a gocv backed library
func New() *Library {
	return &Library{
		objects: handles.New(),
	}
}

// LastError returns the diagnostic of the most recent failed call made on
// the calling OS thread
func (l *Library) LastError() string {

	v, ok := l.lastErr.Load(threadID())

	if !ok {
		return ""
	}

	return v.(string)
}

// fail records a diagnostic for the calling OS thread
func (l *Library) fail(format string, args ...any) native.Status {
	l.lastErr.Store(threadID(), fmt.Sprintf(format, args...))
	return native.StatusException
}

// unsupported fails an entry point gocv has no binding for
func (l *Library) unsupported(op string) native.Status {
	return l.fail("%s is not available in the gocv backend", op)
}

// addNet registers a loaded network, an empty network is a load failure
func (l *Library) addNet(net gocv.Net, source string) (native.Handle, native.Status) {

	if net.Empty() {
		net.Close()
		return 0, l.fail("failed to load network from %s", source)
	}

	return native.Handle(l.objects.Register(&net)), native.StatusOK
}

// addNetErr registers a network returned by a gocv loader with an error
func (l *Library) addNetErr(net gocv.Net, err error, source string) (native.Handle, native.Status) {

	if err != nil {
		return 0, l.fail("failed to load network from %s: %v", source, err)
	}

	return l.addNet(net, source)
}

func (l *Library) net(h native.Handle) (*gocv.Net, native.Status) {

	n, ok := handles.Lookup[*gocv.Net](l.objects, uintptr(h))

	if !ok {
		return nil, l.fail("invalid network handle %d", h)
	}

	return n, native.StatusOK
}

func (l *Library) mat(h native.Handle) (*matEntry, native.Status) {

	m, ok := handles.Lookup[*matEntry](l.objects, uintptr(h))

	if !ok {
		return nil, l.fail("invalid Mat handle %d", h)
	}

	return m, native.StatusOK
}

func (l *Library) addMat(m gocv.Mat, borrowed bool) native.Handle {
	return native.Handle(l.objects.Register(&matEntry{m: m, borrowed: borrowed}))
}

func (l *Library) vec(kind native.VectorKind, h native.Handle) (*vecEntry, native.Status) {

	v, ok := handles.Lookup[*vecEntry](l.objects, uintptr(h))

	if !ok || v.kind != kind {
		return nil, l.fail("invalid %s handle %d", kind, h)
	}

	return v, native.StatusOK
}

func (l *Library) ReadNetFromDarknet(cfgFile, model string) (native.Handle, native.Status) {
	// readNet detects the darknet pair from the .cfg and .weights extensions
	return l.addNet(gocv.ReadNet(model, cfgFile), cfgFile)
}

func (l *Library) ReadNetFromDarknetBuffer(cfg, model []byte) (native.Handle, native.Status) {
	net, err := gocv.ReadNetBytes("darknet", model, cfg)
	return l.addNetErr(net, err, "darknet buffer")
}

func (l *Library) ReadNetFromCaffe(prototxt, model string) (native.Handle, native.Status) {
	return l.addNet(gocv.ReadNetFromCaffe(prototxt, model), prototxt)
}

func (l *Library) ReadNetFromCaffeBuffer(prototxt, model []byte) (native.Handle, native.Status) {
	net, err := gocv.ReadNetFromCaffeBytes(prototxt, model)
	return l.addNetErr(net, err, "caffe buffer")
}

func (l *Library) ReadNetFromTensorflow(model, config string) (native.Handle, native.Status) {

	if config == "" {
		return l.addNet(gocv.ReadNetFromTensorflow(model), model)
	}

	return l.addNet(gocv.ReadNet(model, config), model)
}

func (l *Library) ReadNetFromTensorflowBuffer(model, config []byte) (native.Handle, native.Status) {

	if len(config) == 0 {
		net, err := gocv.ReadNetFromTensorflowBytes(model)
		return l.addNetErr(net, err, "tensorflow buffer")
	}

	net, err := gocv.ReadNetBytes("tensorflow", model, config)
	return l.addNetErr(net, err, "tensorflow buffer")
}

func (l *Library) ReadNetFromTorch(model string, isBinary bool) (native.Handle, native.Status) {

	if !isBinary {
		return 0, l.unsupported("readNetFromTorch with ASCII serialisation")
	}

	return l.addNet(gocv.ReadNetFromTorch(model), model)
}

func (l *Library) ReadNetFromONNX(path string) (native.Handle, native.Status) {
	return l.addNet(gocv.ReadNetFromONNX(path), path)
}

func (l *Library) ReadNetFromONNXBuffer(data []byte) (native.Handle, native.Status) {
	net, err := gocv.ReadNetFromONNXBytes(data)
	return l.addNetErr(net, err, "onnx buffer")
}

func (l *Library) ReadNet(model, config, framework string) (native.Handle, native.Status) {

	// gocv detects the framework from the file extensions, the name is not
	// forwarded
	return l.addNet(gocv.ReadNet(model, config), model)
}

func (l *Library) ReadTorchBlob(file string, isBinary bool) (native.Handle, native.Status) {
	return 0, l.unsupported("readTorchBlob")
}

func (l *Library) ReadTensorFromONNX(path string) (native.Handle, native.Status) {
	return 0, l.unsupported("readTensorFromONNX")
}

func (l *Library) NetDelete(net native.Handle) native.Status {

	v, ok := l.objects.Remove(uintptr(net))

	if !ok {
		return l.fail("invalid network handle %d", net)
	}

	if err := v.(*gocv.Net).Close(); err != nil {
		return l.fail("error closing network: %v", err)
	}

	return native.StatusOK
}

func (l *Library) NetEmpty(net native.Handle) (bool, native.Status) {

	n, st := l.net(net)

	if st != native.StatusOK {
		return false, st
	}

	return n.Empty(), native.StatusOK
}

func (l *Library) NetLayerNames(net native.Handle) ([]string, native.Status) {

	n, st := l.net(net)

	if st != native.StatusOK {
		return nil, st
	}

	return n.GetLayerNames(), native.StatusOK
}

func (l *Library) NetSetInput(net, blob native.Handle, name string) native.Status {

	n, st := l.net(net)

	if st != native.StatusOK {
		return st
	}

	b, st := l.mat(blob)

	if st != native.StatusOK {
		return st
	}

	n.SetInput(b.m, name)
	return native.StatusOK
}

func (l *Library) NetForward(net native.Handle, outputName string) (native.Handle, native.Status) {

	n, st := l.net(net)

	if st != native.StatusOK {
		return 0, st
	}

	out := n.Forward(outputName)

	if out.Empty() {
		out.Close()
		return 0, l.fail("forward pass produced no output for layer %q", outputName)
	}

	return l.addMat(out, false), native.StatusOK
}

func (l *Library) MatNew() (native.Handle, native.Status) {
	return l.addMat(gocv.NewMat(), false), native.StatusOK
}

func (l *Library) MatImport(m gocv.Mat) (native.Handle, native.Status) {
	return l.addMat(m, true), native.StatusOK
}

func (l *Library) MatDelete(mat native.Handle) native.Status {

	v, ok := l.objects.Remove(uintptr(mat))

	if !ok {
		return l.fail("invalid Mat handle %d", mat)
	}

	e := v.(*matEntry)

	if e.borrowed {
		return native.StatusOK
	}

	if err := e.m.Close(); err != nil {
		return l.fail("error closing Mat: %v", err)
	}

	return native.StatusOK
}

func (l *Library) MatDims(mat native.Handle) ([]int, native.Status) {

	e, st := l.mat(mat)

	if st != native.StatusOK {
		return nil, st
	}

	return e.m.Size(), native.StatusOK
}

func (l *Library) MatType(mat native.Handle) (gocv.MatType, native.Status) {

	e, st := l.mat(mat)

	if st != native.StatusOK {
		return 0, st
	}

	return e.m.Type(), native.StatusOK
}

func (l *Library) MatData(mat native.Handle) ([]byte, native.Status) {

	e, st := l.mat(mat)

	if st != native.StatusOK {
		return nil, st
	}

	return e.m.ToBytes(), native.StatusOK
}

func (l *Library) BlobFromImage(img native.Handle, p native.BlobParams) (native.Handle, native.Status) {

	e, st := l.mat(img)

	if st != native.StatusOK {
		return 0, st
	}

	if p.Depth != gocv.MatTypeCV32F {
		// only the batch variant takes an output depth
		return l.BlobFromImages([]native.Handle{img}, p)
	}

	blob := gocv.BlobFromImage(e.m, p.ScaleFactor, p.Size, p.Mean, p.SwapRB, p.Crop)

	if blob.Empty() {
		blob.Close()
		return 0, l.fail("blobFromImage produced an empty blob")
	}

	return l.addMat(blob, false), native.StatusOK
}

func (l *Library) BlobFromImages(imgs []native.Handle, p native.BlobParams) (native.Handle, native.Status) {

	mats := make([]gocv.Mat, len(imgs))

	for i, h := range imgs {

		e, st := l.mat(h)

		if st != native.StatusOK {
			return 0, st
		}

		mats[i] = e.m
	}

	if len(mats) == 0 {
		return 0, l.fail("blobFromImages requires at least one image")
	}

	blob := gocv.NewMat()
	gocv.BlobFromImages(mats, &blob, p.ScaleFactor, p.Size, p.Mean, p.SwapRB, p.Crop, p.Depth)

	if blob.Empty() {
		blob.Close()
		return 0, l.fail("blobFromImages produced an empty blob")
	}

	return l.addMat(blob, false), native.StatusOK
}

func (l *Library) NMSBoxes(g native.Geometry, bboxes, scores, indices native.Handle, p native.NMSParams) native.Status {

	if g != native.GeometryRect {
		return l.unsupported("NMSBoxes for " + g.String())
	}

	bv, st := l.vec(native.VectorRect, bboxes)

	if st != native.StatusOK {
		return st
	}

	sv, st := l.vec(native.VectorFloat32, scores)

	if st != native.StatusOK {
		return st
	}

	iv, st := l.vec(native.VectorInt32, indices)

	if st != native.StatusOK {
		return st
	}

	rects := layout.Slice[native.Rect](bv.data)
	scoreVals := layout.Slice[float32](sv.data)

	if len(rects) != len(scoreVals) {
		return l.fail("NMSBoxes: %d boxes but %d scores", len(rects), len(scoreVals))
	}

	boxes := make([]image.Rectangle, len(rects))

	for i, r := range rects {
		boxes[i] = image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
	}

	var kept []int

	if len(boxes) > 0 {
		kept = gocv.NMSBoxesWithParams(boxes, scoreVals, p.ScoreThreshold,
			p.NMSThreshold, p.Eta, p.TopK)
	}

	out := make([]int32, len(kept))

	for i, k := range kept {
		out[i] = int32(k)
	}

	iv.data = layout.Bytes(out)
	return native.StatusOK
}

func (l *Library) ShrinkCaffeModel(src, dst string, layerTypes []string) native.Status {
	return l.unsupported("shrinkCaffeModel")
}

func (l *Library) WriteTextGraph(model, output string) native.Status {
	return l.unsupported("writeTextGraph")
}

func (l *Library) ResetMyriadDevice() native.Status {
	return l.unsupported("resetMyriadDevice")
}

func (l *Library) VectorNew(kind native.VectorKind, data []byte) (native.Handle, native.Status) {

	if size := kind.ElemSize(); size == 0 || len(data)%size != 0 {
		return 0, l.fail("%d bytes is not a whole number of %s elements", len(data), kind)
	}

	h := l.objects.Register(&vecEntry{kind: kind, data: append([]byte{}, data...)})
	return native.Handle(h), native.StatusOK
}

func (l *Library) VectorSize(kind native.VectorKind, vec native.Handle) (int, native.Status) {

	v, st := l.vec(kind, vec)

	if st != native.StatusOK {
		return 0, st
	}

	return len(v.data) / kind.ElemSize(), native.StatusOK
}

func (l *Library) VectorCopy(kind native.VectorKind, vec native.Handle, dst []byte) native.Status {

	v, st := l.vec(kind, vec)

	if st != native.StatusOK {
		return st
	}

	copy(dst, v.data)
	return native.StatusOK
}

func (l *Library) VectorDelete(kind native.VectorKind, vec native.Handle) native.Status {

	if _, st := l.vec(kind, vec); st != native.StatusOK {
		return st
	}

	l.objects.Remove(uintptr(vec))
	return native.StatusOK
}

func (l *Library) LATCHCreate(p native.LATCHParams) (native.Handle, native.Status) {
	return 0, l.unsupported("xfeatures2d LATCH")
}

func (l *Library) PtrLATCHGet(ptr native.Handle) (native.Handle, native.Status) {
	return 0, l.unsupported("xfeatures2d LATCH")
}

func (l *Library) PtrLATCHDelete(ptr native.Handle) native.Status {
	return l.unsupported("xfeatures2d LATCH")
}

func (l *Library) Feature2DCompute(obj, img, keypoints, descriptors native.Handle) native.Status {
	return l.unsupported("Feature2D compute")
}

func (l *Library) Feature2DDescriptorSize(obj native.Handle) (int, native.Status) {
	return 0, l.unsupported("Feature2D descriptorSize")
}

var _ native.Library = (*Library)(nil)
