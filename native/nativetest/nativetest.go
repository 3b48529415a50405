// Package nativetest provides a recording, in memory native.Library for
// testing code built on the bindings without loading OpenCV models.
//
// Every entry point appends a Call, objects are kept in a handle table so
// tests can assert that nothing leaks, and any entry point can be made to
// fail with FailOn.
package nativetest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/swdee/go-cvdnn/internal/handles"
	"github.com/swdee/go-cvdnn/internal/layout"
	"github.com/swdee/go-cvdnn/native"
	"gocv.io/x/gocv"
)

// Call records one native entry point invocation
type Call struct {
	// Op is the Library method name
	Op string
	// Args are copies of the arguments, byte buffers are copied so later
	// mutation by the caller does not affect the record
	Args []any
}

// Net is the fake network object
type Net struct {
	// Op is the loader that created the network
	Op string
	// Model and Config are the paths or buffers the network was loaded from
	Model  any
	Config any
	// Layers are the names returned by NetLayerNames
	Layers []string
	// Input is the blob handle last set with NetSetInput
	Input native.Handle
}

// Mat is the fake matrix object
type Mat struct {
	Dims []int
	Type gocv.MatType
	Data []byte
	// Sources are the image handles a blob was built from, in call order
	Sources []native.Handle
}

type vector struct {
	kind native.VectorKind
	data []byte
}

type latchPtr struct {
	params native.LATCHParams
	obj    native.Handle
}

type latchObj struct {
	params native.LATCHParams
}

// Library is a fake native.Library.  It is safe for concurrent use.
type Library struct {
	mu       sync.Mutex
	calls    []Call
	objects  *handles.Table
	failures map[string]string
	lastErr  string
	// DefaultLayers are given to every network loaded
	DefaultLayers []string
}

// New returns an empty fake library
func New() *Library {
	return &Library{
		objects:       handles.New(),
		failures:      make(map[string]string),
		DefaultLayers: []string{"data", "conv1", "relu1", "prob"},
	}
}

// FailOn makes op return StatusException with message as its diagnostic
func (l *Library) FailOn(op, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[op] = message
}

// Calls returns a copy of the recorded calls in order
func (l *Library) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Call, len(l.calls))
	copy(out, l.calls)

	return out
}

// Ops returns the names of the recorded calls in order
func (l *Library) Ops() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.calls))

	for i, c := range l.calls {
		out[i] = c.Op
	}

	return out
}

// CallCount returns how many times op was called
func (l *Library) CallCount(op string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0

	for _, c := range l.calls {
		if c.Op == op {
			n++
		}
	}

	return n
}

// Last returns the most recent call to op
func (l *Library) Last(op string) (Call, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(l.calls) - 1; i >= 0; i-- {
		if l.calls[i].Op == op {
			return l.calls[i], true
		}
	}

	return Call{}, false
}

// Live returns the number of objects created and not yet deleted
func (l *Library) Live() int {
	return l.objects.Len()
}

// Reset forgets the recorded calls, objects stay alive
func (l *Library) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

// AddMat registers a matrix as if the native library had created it and
// returns its handle
func (l *Library) AddMat(dims []int, typ gocv.MatType, data []byte) native.Handle {
	return native.Handle(l.objects.Register(&Mat{Dims: dims, Type: typ, Data: data}))
}

// Mat returns the fake matrix behind h
func (l *Library) Mat(h native.Handle) (*Mat, bool) {
	return handles.Lookup[*Mat](l.objects, uintptr(h))
}

// Net returns the fake network behind h
func (l *Library) Net(h native.Handle) (*Net, bool) {
	return handles.Lookup[*Net](l.objects, uintptr(h))
}

// record appends a call and reports whether it has been set up to fail
func (l *Library) record(op string, args ...any) native.Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, a := range args {
		if b, ok := a.([]byte); ok && b != nil {
			args[i] = append([]byte{}, b...)
		}
	}

	l.calls = append(l.calls, Call{Op: op, Args: args})

	if msg, ok := l.failures[op]; ok {
		l.lastErr = msg
		return native.StatusException
	}

	return native.StatusOK
}

// fail sets the diagnostic for an error detected by the fake itself
func (l *Library) fail(format string, args ...any) native.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastErr = fmt.Sprintf(format, args...)
	return native.StatusException
}

// LastError returns the diagnostic of the most recent failure
func (l *Library) LastError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *Library) newNet(op string, model, config any) (native.Handle, native.Status) {

	layers := make([]string, len(l.DefaultLayers))
	copy(layers, l.DefaultLayers)

	h := l.objects.Register(&Net{Op: op, Model: model, Config: config, Layers: layers})
	return native.Handle(h), native.StatusOK
}

func (l *Library) loadPath(op, model, config string) (native.Handle, native.Status) {

	if st := l.record(op, model, config); st != native.StatusOK {
		return 0, st
	}

	return l.newNet(op, model, config)
}

func (l *Library) loadBuffer(op string, model, config []byte) (native.Handle, native.Status) {

	if st := l.record(op, model, config); st != native.StatusOK {
		return 0, st
	}

	if len(model) == 0 {
		return 0, l.fail("%s: empty buffer", op)
	}

	return l.newNet(op, append([]byte{}, model...), append([]byte(nil), config...))
}

func (l *Library) ReadNetFromDarknet(cfgFile, model string) (native.Handle, native.Status) {
	return l.loadPath("ReadNetFromDarknet", cfgFile, model)
}

func (l *Library) ReadNetFromDarknetBuffer(cfg, model []byte) (native.Handle, native.Status) {
	return l.loadBuffer("ReadNetFromDarknetBuffer", cfg, model)
}

func (l *Library) ReadNetFromCaffe(prototxt, model string) (native.Handle, native.Status) {
	return l.loadPath("ReadNetFromCaffe", prototxt, model)
}

func (l *Library) ReadNetFromCaffeBuffer(prototxt, model []byte) (native.Handle, native.Status) {
	return l.loadBuffer("ReadNetFromCaffeBuffer", prototxt, model)
}

func (l *Library) ReadNetFromTensorflow(model, config string) (native.Handle, native.Status) {
	return l.loadPath("ReadNetFromTensorflow", model, config)
}

func (l *Library) ReadNetFromTensorflowBuffer(model, config []byte) (native.Handle, native.Status) {
	return l.loadBuffer("ReadNetFromTensorflowBuffer", model, config)
}

func (l *Library) ReadNetFromTorch(model string, isBinary bool) (native.Handle, native.Status) {

	if st := l.record("ReadNetFromTorch", model, isBinary); st != native.StatusOK {
		return 0, st
	}

	return l.newNet("ReadNetFromTorch", model, nil)
}

func (l *Library) ReadNetFromONNX(path string) (native.Handle, native.Status) {
	return l.loadPath("ReadNetFromONNX", path, "")
}

func (l *Library) ReadNetFromONNXBuffer(data []byte) (native.Handle, native.Status) {
	return l.loadBuffer("ReadNetFromONNXBuffer", data, nil)
}

func (l *Library) ReadNet(model, config, framework string) (native.Handle, native.Status) {

	if st := l.record("ReadNet", model, config, framework); st != native.StatusOK {
		return 0, st
	}

	return l.newNet("ReadNet", model, config)
}

func (l *Library) ReadTorchBlob(file string, isBinary bool) (native.Handle, native.Status) {

	if st := l.record("ReadTorchBlob", file, isBinary); st != native.StatusOK {
		return 0, st
	}

	return l.AddMat([]int{1, 1}, gocv.MatTypeCV32F, make([]byte, 4)), native.StatusOK
}

func (l *Library) ReadTensorFromONNX(path string) (native.Handle, native.Status) {

	if st := l.record("ReadTensorFromONNX", path); st != native.StatusOK {
		return 0, st
	}

	// an empty path component models a file without a tensor
	if path == "empty.pb" {
		return 0, native.StatusOK
	}

	return l.AddMat([]int{1, 1}, gocv.MatTypeCV32F, make([]byte, 4)), native.StatusOK
}

func (l *Library) NetDelete(net native.Handle) native.Status {

	if st := l.record("NetDelete", net); st != native.StatusOK {
		return st
	}

	if _, ok := l.objects.Remove(uintptr(net)); !ok {
		return l.fail("NetDelete: unknown handle %d", net)
	}

	return native.StatusOK
}

func (l *Library) NetEmpty(net native.Handle) (bool, native.Status) {

	if st := l.record("NetEmpty", net); st != native.StatusOK {
		return false, st
	}

	n, ok := l.Net(net)

	if !ok {
		return false, l.fail("NetEmpty: unknown handle %d", net)
	}

	return len(n.Layers) == 0, native.StatusOK
}

func (l *Library) NetLayerNames(net native.Handle) ([]string, native.Status) {

	if st := l.record("NetLayerNames", net); st != native.StatusOK {
		return nil, st
	}

	n, ok := l.Net(net)

	if !ok {
		return nil, l.fail("NetLayerNames: unknown handle %d", net)
	}

	out := make([]string, len(n.Layers))
	copy(out, n.Layers)

	return out, native.StatusOK
}

func (l *Library) NetSetInput(net, blob native.Handle, name string) native.Status {

	if st := l.record("NetSetInput", net, blob, name); st != native.StatusOK {
		return st
	}

	n, ok := l.Net(net)

	if !ok {
		return l.fail("NetSetInput: unknown network %d", net)
	}

	if _, ok := l.Mat(blob); !ok {
		return l.fail("NetSetInput: unknown blob %d", blob)
	}

	l.mu.Lock()
	n.Input = blob
	l.mu.Unlock()

	return native.StatusOK
}

func (l *Library) NetForward(net native.Handle, outputName string) (native.Handle, native.Status) {

	if st := l.record("NetForward", net, outputName); st != native.StatusOK {
		return 0, st
	}

	n, ok := l.Net(net)

	if !ok {
		return 0, l.fail("NetForward: unknown network %d", net)
	}

	if n.Input == 0 {
		return 0, l.fail("NetForward: no input set")
	}

	in, _ := l.Mat(n.Input)

	// the fake network is the identity function
	return l.AddMat(append([]int{}, in.Dims...), in.Type, append([]byte{}, in.Data...)),
		native.StatusOK
}

func (l *Library) MatNew() (native.Handle, native.Status) {

	if st := l.record("MatNew"); st != native.StatusOK {
		return 0, st
	}

	return l.AddMat(nil, gocv.MatTypeCV8U, nil), native.StatusOK
}

func (l *Library) MatImport(m gocv.Mat) (native.Handle, native.Status) {

	if st := l.record("MatImport"); st != native.StatusOK {
		return 0, st
	}

	return l.AddMat(m.Size(), m.Type(), m.ToBytes()), native.StatusOK
}

func (l *Library) MatDelete(mat native.Handle) native.Status {

	if st := l.record("MatDelete", mat); st != native.StatusOK {
		return st
	}

	if _, ok := l.objects.Remove(uintptr(mat)); !ok {
		return l.fail("MatDelete: unknown handle %d", mat)
	}

	return native.StatusOK
}

func (l *Library) MatDims(mat native.Handle) ([]int, native.Status) {

	if st := l.record("MatDims", mat); st != native.StatusOK {
		return nil, st
	}

	m, ok := l.Mat(mat)

	if !ok {
		return nil, l.fail("MatDims: unknown handle %d", mat)
	}

	return append([]int{}, m.Dims...), native.StatusOK
}

func (l *Library) MatType(mat native.Handle) (gocv.MatType, native.Status) {

	if st := l.record("MatType", mat); st != native.StatusOK {
		return 0, st
	}

	m, ok := l.Mat(mat)

	if !ok {
		return 0, l.fail("MatType: unknown handle %d", mat)
	}

	return m.Type, native.StatusOK
}

func (l *Library) MatData(mat native.Handle) ([]byte, native.Status) {

	if st := l.record("MatData", mat); st != native.StatusOK {
		return nil, st
	}

	m, ok := l.Mat(mat)

	if !ok {
		return nil, l.fail("MatData: unknown handle %d", mat)
	}

	return append([]byte{}, m.Data...), native.StatusOK
}

// blob builds the fake output of the blob routines, a zeroed float32 tensor
// of shape (n, channels, height, width)
func (l *Library) blob(op string, imgs []native.Handle, p native.BlobParams) (native.Handle, native.Status) {

	channels, height, width := 3, p.Size.Y, p.Size.X

	for _, img := range imgs {
		m, ok := l.Mat(img)

		if !ok {
			return 0, l.fail("%s: unknown image %d", op, img)
		}

		if p.Size.X == 0 && len(m.Dims) >= 2 {
			height, width = m.Dims[0], m.Dims[1]
		}

		channels = int(m.Type>>3) + 1
	}

	dims := []int{len(imgs), channels, height, width}
	size := 4

	for _, d := range dims {
		size *= d
	}

	depth := p.Depth

	if depth == 0 {
		size /= 4
	}

	h := l.objects.Register(&Mat{
		Dims:    dims,
		Type:    depth,
		Data:    make([]byte, size),
		Sources: append([]native.Handle{}, imgs...),
	})

	return native.Handle(h), native.StatusOK
}

func (l *Library) BlobFromImage(img native.Handle, p native.BlobParams) (native.Handle, native.Status) {

	if st := l.record("BlobFromImage", img, p); st != native.StatusOK {
		return 0, st
	}

	return l.blob("BlobFromImage", []native.Handle{img}, p)
}

func (l *Library) BlobFromImages(imgs []native.Handle, p native.BlobParams) (native.Handle, native.Status) {

	if st := l.record("BlobFromImages", append([]native.Handle{}, imgs...), p); st != native.StatusOK {
		return 0, st
	}

	return l.blob("BlobFromImages", imgs, p)
}

func (l *Library) NMSBoxes(g native.Geometry, bboxes, scores, indices native.Handle, p native.NMSParams) native.Status {

	if st := l.record("NMSBoxes", g, p); st != native.StatusOK {
		return st
	}

	bv, ok1 := handles.Lookup[*vector](l.objects, uintptr(bboxes))
	sv, ok2 := handles.Lookup[*vector](l.objects, uintptr(scores))
	iv, ok3 := handles.Lookup[*vector](l.objects, uintptr(indices))

	if !ok1 || !ok2 || !ok3 {
		return l.fail("NMSBoxes: unknown vector handle")
	}

	var boxes []box

	switch g {
	case native.GeometryRect:
		for _, r := range layout.Slice[native.Rect](bv.data) {
			boxes = append(boxes, box{float64(r.X), float64(r.Y),
				float64(r.X + r.Width), float64(r.Y + r.Height)})
		}

	case native.GeometryRect2d:
		for _, r := range layout.Slice[native.Rect2d](bv.data) {
			boxes = append(boxes, box{r.X, r.Y, r.X + r.Width, r.Y + r.Height})
		}

	case native.GeometryRotatedRect:
		// the fake ignores the angle
		for _, r := range layout.Slice[native.RotatedRect](bv.data) {
			hw, hh := float64(r.Size.Width)/2, float64(r.Size.Height)/2
			cx, cy := float64(r.Center.X), float64(r.Center.Y)
			boxes = append(boxes, box{cx - hw, cy - hh, cx + hw, cy + hh})
		}
	}

	kept := greedyNMS(boxes, layout.Slice[float32](sv.data), p)

	l.mu.Lock()
	iv.data = layout.Bytes(kept)
	l.mu.Unlock()

	return native.StatusOK
}

func (l *Library) ShrinkCaffeModel(src, dst string, layerTypes []string) native.Status {
	return l.record("ShrinkCaffeModel", src, dst, append([]string{}, layerTypes...))
}

func (l *Library) WriteTextGraph(model, output string) native.Status {
	return l.record("WriteTextGraph", model, output)
}

func (l *Library) ResetMyriadDevice() native.Status {
	return l.record("ResetMyriadDevice")
}

func (l *Library) VectorNew(kind native.VectorKind, data []byte) (native.Handle, native.Status) {

	if st := l.record("VectorNew", kind, data); st != native.StatusOK {
		return 0, st
	}

	if size := kind.ElemSize(); size == 0 || len(data)%size != 0 {
		return 0, l.fail("VectorNew: %d bytes is not a whole number of %s elements",
			len(data), kind)
	}

	h := l.objects.Register(&vector{kind: kind, data: append([]byte{}, data...)})
	return native.Handle(h), native.StatusOK
}

func (l *Library) VectorSize(kind native.VectorKind, vec native.Handle) (int, native.Status) {

	if st := l.record("VectorSize", kind, vec); st != native.StatusOK {
		return 0, st
	}

	v, ok := handles.Lookup[*vector](l.objects, uintptr(vec))

	if !ok || v.kind != kind {
		return 0, l.fail("VectorSize: unknown %s %d", kind, vec)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return len(v.data) / kind.ElemSize(), native.StatusOK
}

func (l *Library) VectorCopy(kind native.VectorKind, vec native.Handle, dst []byte) native.Status {

	if st := l.record("VectorCopy", kind, vec); st != native.StatusOK {
		return st
	}

	v, ok := handles.Lookup[*vector](l.objects, uintptr(vec))

	if !ok || v.kind != kind {
		return l.fail("VectorCopy: unknown %s %d", kind, vec)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	copy(dst, v.data)
	return native.StatusOK
}

func (l *Library) VectorDelete(kind native.VectorKind, vec native.Handle) native.Status {

	if st := l.record("VectorDelete", kind, vec); st != native.StatusOK {
		return st
	}

	if _, ok := l.objects.Remove(uintptr(vec)); !ok {
		return l.fail("VectorDelete: unknown handle %d", vec)
	}

	return native.StatusOK
}

func (l *Library) LATCHCreate(p native.LATCHParams) (native.Handle, native.Status) {

	if st := l.record("LATCHCreate", p); st != native.StatusOK {
		return 0, st
	}

	obj := l.objects.Register(&latchObj{params: p})
	ptr := l.objects.Register(&latchPtr{params: p, obj: native.Handle(obj)})

	return native.Handle(ptr), native.StatusOK
}

func (l *Library) PtrLATCHGet(ptr native.Handle) (native.Handle, native.Status) {

	if st := l.record("PtrLATCHGet", ptr); st != native.StatusOK {
		return 0, st
	}

	p, ok := handles.Lookup[*latchPtr](l.objects, uintptr(ptr))

	if !ok {
		return 0, l.fail("PtrLATCHGet: unknown handle %d", ptr)
	}

	return p.obj, native.StatusOK
}

func (l *Library) PtrLATCHDelete(ptr native.Handle) native.Status {

	if st := l.record("PtrLATCHDelete", ptr); st != native.StatusOK {
		return st
	}

	v, ok := l.objects.Remove(uintptr(ptr))

	if !ok {
		return l.fail("PtrLATCHDelete: unknown handle %d", ptr)
	}

	// deleting the smart pointer destroys the object it owns
	l.objects.Remove(uintptr(v.(*latchPtr).obj))

	return native.StatusOK
}

func (l *Library) Feature2DCompute(obj, img, keypoints, descriptors native.Handle) native.Status {

	if st := l.record("Feature2DCompute", obj, img, keypoints, descriptors); st != native.StatusOK {
		return st
	}

	o, ok := handles.Lookup[*latchObj](l.objects, uintptr(obj))

	if !ok {
		return l.fail("Feature2DCompute: unknown object %d", obj)
	}

	kv, ok := handles.Lookup[*vector](l.objects, uintptr(keypoints))

	if !ok {
		return l.fail("Feature2DCompute: unknown keypoints %d", keypoints)
	}

	d, ok := l.Mat(descriptors)

	if !ok {
		return l.fail("Feature2DCompute: unknown descriptors %d", descriptors)
	}

	// keypoints with a negative position have no patch and are dropped
	var kept []native.KeyPoint

	for _, kp := range layout.Slice[native.KeyPoint](kv.data) {
		if kp.Pt.X >= 0 && kp.Pt.Y >= 0 {
			kept = append(kept, kp)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	kv.data = append([]byte{}, layout.Bytes(kept)...)
	d.Dims = []int{len(kept), o.params.Bytes}
	d.Type = gocv.MatTypeCV8U
	d.Data = make([]byte, len(kept)*o.params.Bytes)

	return native.StatusOK
}

func (l *Library) Feature2DDescriptorSize(obj native.Handle) (int, native.Status) {

	if st := l.record("Feature2DDescriptorSize", obj); st != native.StatusOK {
		return 0, st
	}

	o, ok := handles.Lookup[*latchObj](l.objects, uintptr(obj))

	if !ok {
		return 0, l.fail("Feature2DDescriptorSize: unknown object %d", obj)
	}

	return o.params.Bytes, native.StatusOK
}

// box is an axis aligned box given by its corners
type box struct {
	xmin, ymin, xmax, ymax float64
}

// greedyNMS is the reference suppression used by the fake: boxes are taken
// in descending score order and dropped when they overlap a kept box by more
// than the threshold
func greedyNMS(boxes []box, scores []float32, p native.NMSParams) []int32 {

	n := len(boxes)

	if len(scores) < n {
		n = len(scores)
	}

	order := make([]int, 0, n)

	for i := 0; i < n; i++ {
		if scores[i] > p.ScoreThreshold {
			order = append(order, i)
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	threshold := float64(p.NMSThreshold)
	kept := make([]int32, 0, len(order))

	for _, i := range order {

		keep := true

		for _, k := range kept {
			if calculateOverlap(boxes[i], boxes[k]) > threshold {
				keep = false
				break
			}
		}

		if !keep {
			continue
		}

		kept = append(kept, int32(i))

		if p.TopK > 0 && len(kept) >= p.TopK {
			break
		}

		if p.Eta < 1 && threshold > 0.5 {
			threshold *= float64(p.Eta)
		}
	}

	return kept
}

// calculateOverlap works out the Intersection over Union (IoU) of two boxes
func calculateOverlap(a, b box) float64 {

	w := max(0, min(a.xmax, b.xmax)-max(a.xmin, b.xmin))
	h := max(0, min(a.ymax, b.ymax)-max(a.ymin, b.ymin))
	intersection := w * h

	union := (a.xmax-a.xmin)*(a.ymax-a.ymin) + (b.xmax-b.xmin)*(b.ymax-b.ymin) - intersection

	if union <= 0 {
		return 0
	}

	return intersection / union
}
