//go:build cvextern && cgo

package externlib

/*
#cgo LDFLAGS: -lOpenCvSharpExtern
#include <stdint.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>

typedef int ExceptionStatus;
typedef struct { int width; int height; } MyCvSize;
typedef struct { double val[4]; } MyCvScalar;

extern ExceptionStatus dnn_readNetFromDarknet(const char *cfgFile, const char *darknetModel, void **returnValue);
extern ExceptionStatus dnn_readNetFromDarknetFromStream(const char *bufferCfg, size_t lenCfg, const char *bufferModel, size_t lenModel, void **returnValue);
extern ExceptionStatus dnn_readNetFromCaffe(const char *prototxt, const char *caffeModel, void **returnValue);
extern ExceptionStatus dnn_readNetFromCaffeFromStream(const char *bufferProto, size_t lenProto, const char *bufferModel, size_t lenModel, void **returnValue);
extern ExceptionStatus dnn_readNetFromTensorflow(const char *model, const char *config, void **returnValue);
extern ExceptionStatus dnn_readNetFromTensorflowFromStream(const char *bufferModel, size_t lenModel, const char *bufferConfig, size_t lenConfig, void **returnValue);
extern ExceptionStatus dnn_readNetFromTorch(const char *model, int isBinary, void **returnValue);
extern ExceptionStatus dnn_readNetFromONNX(const char *onnxFile, void **returnValue);
extern ExceptionStatus dnn_readNetFromONNXFromStream(const char *buffer, size_t length, void **returnValue);
extern ExceptionStatus dnn_readNet(const char *model, const char *config, const char *framework, void **returnValue);
extern ExceptionStatus dnn_readTorchBlob(const char *filename, int isBinary, void **returnValue);
extern ExceptionStatus dnn_readTensorFromONNX(const char *path, void **returnValue);

extern ExceptionStatus dnn_Net_delete(void *net);
extern ExceptionStatus dnn_Net_empty(void *net, int *returnValue);
extern ExceptionStatus dnn_Net_getLayerNames(void *net, void *outVec);
extern ExceptionStatus dnn_Net_setInput(void *net, void *blob, const char *name);
extern ExceptionStatus dnn_Net_forward1(void *net, const char *outputName, void **returnValue);

extern ExceptionStatus dnn_blobFromImage(void *image, double scalefactor, MyCvSize size, MyCvScalar mean, int swapRB, int crop, void **returnValue);
extern ExceptionStatus dnn_blobFromImages(void **images, int imagesLength, double scalefactor, MyCvSize size, MyCvScalar mean, int swapRB, int crop, void **returnValue);
extern ExceptionStatus dnn_NMSBoxes_Rect(void *bboxes, void *scores, float scoreThreshold, float nmsThreshold, void *indices, float eta, int topK);
extern ExceptionStatus dnn_NMSBoxes_Rect2d(void *bboxes, void *scores, float scoreThreshold, float nmsThreshold, void *indices, float eta, int topK);
extern ExceptionStatus dnn_NMSBoxes_RotatedRect(void *bboxes, void *scores, float scoreThreshold, float nmsThreshold, void *indices, float eta, int topK);
extern ExceptionStatus dnn_shrinkCaffeModel(const char *src, const char *dst, const char **layersTypes, int layersTypesLength);
extern ExceptionStatus dnn_writeTextGraph(const char *model, const char *output);
extern ExceptionStatus dnn_resetMyriadDevice(void);

extern ExceptionStatus core_Mat_new1(void **returnValue);
extern ExceptionStatus core_Mat_delete(void *self);
extern ExceptionStatus core_Mat_dims(void *self, int *returnValue);
extern ExceptionStatus core_Mat_sizeAt(void *self, int i, int *returnValue);
extern ExceptionStatus core_Mat_type(void *self, int *returnValue);
extern ExceptionStatus core_Mat_total(void *self, size_t *returnValue);
extern ExceptionStatus core_Mat_elemSize(void *self, size_t *returnValue);
extern ExceptionStatus core_Mat_isContinuous(void *self, int *returnValue);
extern ExceptionStatus core_Mat_data(void *self, uint8_t **returnValue);

extern void *vector_float_new3(const void *data, size_t dataLength);
extern size_t vector_float_getSize(void *vector);
extern void *vector_float_getPointer(void *vector);
extern void vector_float_delete(void *vector);
extern void *vector_int32_new3(const void *data, size_t dataLength);
extern size_t vector_int32_getSize(void *vector);
extern void *vector_int32_getPointer(void *vector);
extern void vector_int32_delete(void *vector);
extern void *vector_Rect_new3(const void *data, size_t dataLength);
extern size_t vector_Rect_getSize(void *vector);
extern void *vector_Rect_getPointer(void *vector);
extern void vector_Rect_delete(void *vector);
extern void *vector_Rect2d_new3(const void *data, size_t dataLength);
extern size_t vector_Rect2d_getSize(void *vector);
extern void *vector_Rect2d_getPointer(void *vector);
extern void vector_Rect2d_delete(void *vector);
extern void *vector_RotatedRect_new3(const void *data, size_t dataLength);
extern size_t vector_RotatedRect_getSize(void *vector);
extern void *vector_RotatedRect_getPointer(void *vector);
extern void vector_RotatedRect_delete(void *vector);
extern void *vector_KeyPoint_new3(const void *data, size_t dataLength);
extern size_t vector_KeyPoint_getSize(void *vector);
extern void *vector_KeyPoint_getPointer(void *vector);
extern void vector_KeyPoint_delete(void *vector);
extern void *vector_string_new1(void);
extern size_t vector_string_getSize(void *vector);
extern void vector_string_getElements(void *vector, const char **cStringPointers, int32_t *stringLengths);
extern void vector_string_delete(void *vector);

extern ExceptionStatus xfeatures2d_LATCH_create(int bytes, int rotationInvariance, int halfSsdSize, double sigma, void **returnValue);
extern ExceptionStatus xfeatures2d_Ptr_LATCH_get(void *ptr, void **returnValue);
extern ExceptionStatus xfeatures2d_Ptr_LATCH_delete(void *ptr);
extern ExceptionStatus features2d_Feature2D_compute1(void *obj, void *image, void *keypoints, void *descriptors);
extern ExceptionStatus features2d_Feature2D_descriptorSize(void *obj, int *returnValue);

typedef int (*CvErrorCallback)(int status, const char *funcName, const char *errMsg, const char *fileName, int line, void *userdata);
extern ExceptionStatus redirectError(CvErrorCallback errCallback, void *userdata, void **prevUserdata);

static __thread char cvdnn_last_error[1024];

static int cvdnn_error_handler(int status, const char *funcName, const char *errMsg, const char *fileName, int line, void *userdata) {
	snprintf(cvdnn_last_error, sizeof(cvdnn_last_error), "%s (%s at %s:%d)",
		errMsg ? errMsg : "", funcName ? funcName : "", fileName ? fileName : "", line);
	return 0;
}

static void cvdnn_install_error_handler(void) {
	void *prev = NULL;
	redirectError(cvdnn_error_handler, NULL, &prev);
}

static const char *cvdnn_last_error_get(void) { return cvdnn_last_error; }
static void cvdnn_last_error_set(const char *msg) { snprintf(cvdnn_last_error, sizeof(cvdnn_last_error), "%s", msg); }
static void cvdnn_last_error_clear(void) { cvdnn_last_error[0] = 0; }
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/swdee/go-cvdnn/native"
	"gocv.io/x/gocv"
)

var installHandler sync.Once

// Library is the OpenCvSharpExtern backed native library
type Library struct {
	// borrowed counts imports of Mats owned by gocv callers
	borrowed *borrowCount
}

func newLibrary() *Library {

	installHandler.Do(func() {
		C.cvdnn_install_error_handler()
	})

	return &Library{
		borrowed: newBorrowCount(),
	}
}

func ptr(h native.Handle) unsafe.Pointer {
	return unsafe.Pointer(uintptr(h))
}

func handle(p unsafe.Pointer) native.Handle {
	return native.Handle(uintptr(p))
}

// status converts an ExceptionStatus, the diagnostic slot was filled by the
// error handler when it is non zero
func status(s C.ExceptionStatus) native.Status {

	if s == 0 {
		return native.StatusOK
	}

	return native.StatusException
}

// fail sets a diagnostic raised on the Go side of the boundary
func fail(msg string) native.Status {

	cs := C.CString(msg)
	defer C.free(unsafe.Pointer(cs))

	C.cvdnn_last_error_set(cs)
	return native.StatusException
}

// cstring converts s into a C string, an empty string becomes NULL.  The
// returned func releases it.
func cstring(s string) (*C.char, func()) {

	if s == "" {
		return nil, func() {}
	}

	cs := C.CString(s)
	return cs, func() { C.free(unsafe.Pointer(cs)) }
}

// cbytes returns a pointer to the first byte of b and its length.  b holds
// no Go pointers so it may be passed for the duration of the call.
func cbytes(b []byte) (*C.char, C.size_t) {

	if len(b) == 0 {
		return nil, 0
	}

	return (*C.char)(unsafe.Pointer(&b[0])), C.size_t(len(b))
}

func cbool(b bool) C.int {

	if b {
		return 1
	}

	return 0
}

func (l *Library) LastError() string {
	return C.GoString(C.cvdnn_last_error_get())
}

// readPaths calls a loader taking two optional paths
func readPaths(call func(a, b *C.char, out *unsafe.Pointer) C.ExceptionStatus, a, b string) (native.Handle, native.Status) {

	ca, freeA := cstring(a)
	defer freeA()

	cb, freeB := cstring(b)
	defer freeB()

	C.cvdnn_last_error_clear()

	var out unsafe.Pointer
	st := status(call(ca, cb, &out))

	return handle(out), st
}

// readBuffers calls a loader taking two buffers
func readBuffers(call func(a *C.char, la C.size_t, b *C.char, lb C.size_t, out *unsafe.Pointer) C.ExceptionStatus, a, b []byte) (native.Handle, native.Status) {

	pa, la := cbytes(a)
	pb, lb := cbytes(b)

	C.cvdnn_last_error_clear()

	var out unsafe.Pointer
	st := status(call(pa, la, pb, lb, &out))

	return handle(out), st
}

func (l *Library) ReadNetFromDarknet(cfgFile, model string) (native.Handle, native.Status) {
	return readPaths(func(a, b *C.char, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNetFromDarknet(a, b, out)
	}, cfgFile, model)
}

func (l *Library) ReadNetFromDarknetBuffer(cfg, model []byte) (native.Handle, native.Status) {
	return readBuffers(func(a *C.char, la C.size_t, b *C.char, lb C.size_t, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNetFromDarknetFromStream(a, la, b, lb, out)
	}, cfg, model)
}

func (l *Library) ReadNetFromCaffe(prototxt, model string) (native.Handle, native.Status) {
	return readPaths(func(a, b *C.char, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNetFromCaffe(a, b, out)
	}, prototxt, model)
}

func (l *Library) ReadNetFromCaffeBuffer(prototxt, model []byte) (native.Handle, native.Status) {
	return readBuffers(func(a *C.char, la C.size_t, b *C.char, lb C.size_t, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNetFromCaffeFromStream(a, la, b, lb, out)
	}, prototxt, model)
}

func (l *Library) ReadNetFromTensorflow(model, config string) (native.Handle, native.Status) {
	return readPaths(func(a, b *C.char, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNetFromTensorflow(a, b, out)
	}, model, config)
}

func (l *Library) ReadNetFromTensorflowBuffer(model, config []byte) (native.Handle, native.Status) {
	return readBuffers(func(a *C.char, la C.size_t, b *C.char, lb C.size_t, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNetFromTensorflowFromStream(a, la, b, lb, out)
	}, model, config)
}

func (l *Library) ReadNetFromTorch(model string, isBinary bool) (native.Handle, native.Status) {
	return readPaths(func(a, _ *C.char, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNetFromTorch(a, cbool(isBinary), out)
	}, model, "")
}

func (l *Library) ReadNetFromONNX(path string) (native.Handle, native.Status) {
	return readPaths(func(a, _ *C.char, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNetFromONNX(a, out)
	}, path, "")
}

func (l *Library) ReadNetFromONNXBuffer(data []byte) (native.Handle, native.Status) {
	return readBuffers(func(a *C.char, la C.size_t, _ *C.char, _ C.size_t, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNetFromONNXFromStream(a, la, out)
	}, data, nil)
}

func (l *Library) ReadNet(model, config, framework string) (native.Handle, native.Status) {

	cf, freeF := cstring(framework)
	defer freeF()

	return readPaths(func(a, b *C.char, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readNet(a, b, cf, out)
	}, model, config)
}

func (l *Library) ReadTorchBlob(file string, isBinary bool) (native.Handle, native.Status) {
	return readPaths(func(a, _ *C.char, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readTorchBlob(a, cbool(isBinary), out)
	}, file, "")
}

func (l *Library) ReadTensorFromONNX(path string) (native.Handle, native.Status) {
	return readPaths(func(a, _ *C.char, out *unsafe.Pointer) C.ExceptionStatus {
		return C.dnn_readTensorFromONNX(a, out)
	}, path, "")
}

func (l *Library) NetDelete(net native.Handle) native.Status {
	C.cvdnn_last_error_clear()
	return status(C.dnn_Net_delete(ptr(net)))
}

func (l *Library) NetEmpty(net native.Handle) (bool, native.Status) {

	C.cvdnn_last_error_clear()

	var out C.int
	st := status(C.dnn_Net_empty(ptr(net), &out))

	return out != 0, st
}

func (l *Library) NetLayerNames(net native.Handle) ([]string, native.Status) {

	C.cvdnn_last_error_clear()

	vec := C.vector_string_new1()
	defer C.vector_string_delete(vec)

	if st := status(C.dnn_Net_getLayerNames(ptr(net), vec)); st != native.StatusOK {
		return nil, st
	}

	n := int(C.vector_string_getSize(vec))

	if n == 0 {
		return []string{}, native.StatusOK
	}

	ptrs := (**C.char)(C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(uintptr(0)))))
	defer C.free(unsafe.Pointer(ptrs))

	lens := (*C.int32_t)(C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(C.int32_t(0)))))
	defer C.free(unsafe.Pointer(lens))

	C.vector_string_getElements(vec, ptrs, lens)

	ps := unsafe.Slice(ptrs, n)
	ls := unsafe.Slice(lens, n)
	names := make([]string, n)

	for i := range names {
		names[i] = C.GoStringN(ps[i], C.int(ls[i]))
	}

	return names, native.StatusOK
}

func (l *Library) NetSetInput(net, blob native.Handle, name string) native.Status {

	cn, free := cstring(name)
	defer free()

	C.cvdnn_last_error_clear()
	return status(C.dnn_Net_setInput(ptr(net), ptr(blob), cn))
}

func (l *Library) NetForward(net native.Handle, outputName string) (native.Handle, native.Status) {

	cn, free := cstring(outputName)
	defer free()

	C.cvdnn_last_error_clear()

	var out unsafe.Pointer
	st := status(C.dnn_Net_forward1(ptr(net), cn, &out))

	return handle(out), st
}

func (l *Library) MatNew() (native.Handle, native.Status) {

	C.cvdnn_last_error_clear()

	var out unsafe.Pointer
	st := status(C.core_Mat_new1(&out))

	return handle(out), st
}

func (l *Library) MatImport(m gocv.Mat) (native.Handle, native.Status) {

	h := handle(unsafe.Pointer(m.Ptr()))

	if h == 0 {
		return 0, fail("gocv Mat has no native matrix")
	}

	l.borrowed.add(h)

	return h, native.StatusOK
}

func (l *Library) MatDelete(mat native.Handle) native.Status {

	if l.borrowed.release(mat) {
		return native.StatusOK
	}

	C.cvdnn_last_error_clear()
	return status(C.core_Mat_delete(ptr(mat)))
}

func (l *Library) MatDims(mat native.Handle) ([]int, native.Status) {

	C.cvdnn_last_error_clear()

	var n C.int

	if st := status(C.core_Mat_dims(ptr(mat), &n)); st != native.StatusOK {
		return nil, st
	}

	dims := make([]int, int(n))

	for i := range dims {
		var v C.int

		if st := status(C.core_Mat_sizeAt(ptr(mat), C.int(i), &v)); st != native.StatusOK {
			return nil, st
		}

		dims[i] = int(v)
	}

	return dims, native.StatusOK
}

func (l *Library) MatType(mat native.Handle) (gocv.MatType, native.Status) {

	C.cvdnn_last_error_clear()

	var t C.int
	st := status(C.core_Mat_type(ptr(mat), &t))

	return gocv.MatType(t), st
}

func (l *Library) MatData(mat native.Handle) ([]byte, native.Status) {

	C.cvdnn_last_error_clear()

	var (
		total, elem C.size_t
		cont        C.int
		data        *C.uint8_t
	)

	if st := status(C.core_Mat_isContinuous(ptr(mat), &cont)); st != native.StatusOK {
		return nil, st
	}

	if cont == 0 {
		return nil, fail("Mat data is not continuous")
	}

	if st := status(C.core_Mat_total(ptr(mat), &total)); st != native.StatusOK {
		return nil, st
	}

	if st := status(C.core_Mat_elemSize(ptr(mat), &elem)); st != native.StatusOK {
		return nil, st
	}

	if st := status(C.core_Mat_data(ptr(mat), &data)); st != native.StatusOK {
		return nil, st
	}

	size := int(total) * int(elem)

	if size == 0 || data == nil {
		return []byte{}, native.StatusOK
	}

	return C.GoBytes(unsafe.Pointer(data), C.int(size)), native.StatusOK
}

func blobArgs(p native.BlobParams) (C.MyCvSize, C.MyCvScalar) {

	size := C.MyCvSize{width: C.int(p.Size.X), height: C.int(p.Size.Y)}

	var mean C.MyCvScalar
	mean.val[0] = C.double(p.Mean.Val1)
	mean.val[1] = C.double(p.Mean.Val2)
	mean.val[2] = C.double(p.Mean.Val3)
	mean.val[3] = C.double(p.Mean.Val4)

	return size, mean
}

func (l *Library) BlobFromImage(img native.Handle, p native.BlobParams) (native.Handle, native.Status) {

	if p.Depth != gocv.MatTypeCV32F {
		return 0, fail("blobFromImage supports only CV_32F output")
	}

	size, mean := blobArgs(p)

	C.cvdnn_last_error_clear()

	var out unsafe.Pointer
	st := status(C.dnn_blobFromImage(ptr(img), C.double(p.ScaleFactor), size, mean,
		cbool(p.SwapRB), cbool(p.Crop), &out))

	return handle(out), st
}

func (l *Library) BlobFromImages(imgs []native.Handle, p native.BlobParams) (native.Handle, native.Status) {

	if p.Depth != gocv.MatTypeCV32F {
		return 0, fail("blobFromImages supports only CV_32F output")
	}

	size, mean := blobArgs(p)

	var arr *unsafe.Pointer

	if len(imgs) > 0 {
		arr = (*unsafe.Pointer)(C.malloc(C.size_t(len(imgs)) * C.size_t(unsafe.Sizeof(uintptr(0)))))
		defer C.free(unsafe.Pointer(arr))

		items := unsafe.Slice(arr, len(imgs))

		for i, h := range imgs {
			items[i] = ptr(h)
		}
	}

	C.cvdnn_last_error_clear()

	var out unsafe.Pointer
	st := status(C.dnn_blobFromImages(arr, C.int(len(imgs)), C.double(p.ScaleFactor), size,
		mean, cbool(p.SwapRB), cbool(p.Crop), &out))

	return handle(out), st
}

func (l *Library) NMSBoxes(g native.Geometry, bboxes, scores, indices native.Handle, p native.NMSParams) native.Status {

	C.cvdnn_last_error_clear()

	score, nms, eta, topK := C.float(p.ScoreThreshold), C.float(p.NMSThreshold), C.float(p.Eta), C.int(p.TopK)

	switch g {
	case native.GeometryRect:
		return status(C.dnn_NMSBoxes_Rect(ptr(bboxes), ptr(scores), score, nms, ptr(indices), eta, topK))
	case native.GeometryRect2d:
		return status(C.dnn_NMSBoxes_Rect2d(ptr(bboxes), ptr(scores), score, nms, ptr(indices), eta, topK))
	case native.GeometryRotatedRect:
		return status(C.dnn_NMSBoxes_RotatedRect(ptr(bboxes), ptr(scores), score, nms, ptr(indices), eta, topK))
	default:
		return fail("unknown box geometry " + g.String())
	}
}

func (l *Library) ShrinkCaffeModel(src, dst string, layerTypes []string) native.Status {

	cs, freeS := cstring(src)
	defer freeS()

	cd, freeD := cstring(dst)
	defer freeD()

	var arr **C.char

	if len(layerTypes) > 0 {
		arr = (**C.char)(C.malloc(C.size_t(len(layerTypes)) * C.size_t(unsafe.Sizeof(uintptr(0)))))
		defer C.free(unsafe.Pointer(arr))

		items := unsafe.Slice(arr, len(layerTypes))

		for i, t := range layerTypes {
			items[i] = C.CString(t)
			defer C.free(unsafe.Pointer(items[i]))
		}
	}

	C.cvdnn_last_error_clear()
	return status(C.dnn_shrinkCaffeModel(cs, cd, arr, C.int(len(layerTypes))))
}

func (l *Library) WriteTextGraph(model, output string) native.Status {

	cm, freeM := cstring(model)
	defer freeM()

	co, freeO := cstring(output)
	defer freeO()

	C.cvdnn_last_error_clear()
	return status(C.dnn_writeTextGraph(cm, co))
}

func (l *Library) ResetMyriadDevice() native.Status {
	C.cvdnn_last_error_clear()
	return status(C.dnn_resetMyriadDevice())
}

func (l *Library) VectorNew(kind native.VectorKind, data []byte) (native.Handle, native.Status) {

	size := kind.ElemSize()

	if size == 0 || len(data)%size != 0 {
		return 0, fail("vector data is not a whole number of " + kind.String() + " elements")
	}

	var p unsafe.Pointer

	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}

	n := C.size_t(len(data) / size)

	var v unsafe.Pointer

	switch kind {
	case native.VectorFloat32:
		v = C.vector_float_new3(p, n)
	case native.VectorInt32:
		v = C.vector_int32_new3(p, n)
	case native.VectorRect:
		v = C.vector_Rect_new3(p, n)
	case native.VectorRect2d:
		v = C.vector_Rect2d_new3(p, n)
	case native.VectorRotatedRect:
		v = C.vector_RotatedRect_new3(p, n)
	case native.VectorKeyPoint:
		v = C.vector_KeyPoint_new3(p, n)
	}

	if v == nil {
		return 0, fail("failed to allocate " + kind.String())
	}

	return handle(v), native.StatusOK
}

func (l *Library) VectorSize(kind native.VectorKind, vec native.Handle) (int, native.Status) {

	v := ptr(vec)

	switch kind {
	case native.VectorFloat32:
		return int(C.vector_float_getSize(v)), native.StatusOK
	case native.VectorInt32:
		return int(C.vector_int32_getSize(v)), native.StatusOK
	case native.VectorRect:
		return int(C.vector_Rect_getSize(v)), native.StatusOK
	case native.VectorRect2d:
		return int(C.vector_Rect2d_getSize(v)), native.StatusOK
	case native.VectorRotatedRect:
		return int(C.vector_RotatedRect_getSize(v)), native.StatusOK
	case native.VectorKeyPoint:
		return int(C.vector_KeyPoint_getSize(v)), native.StatusOK
	default:
		return 0, fail("unknown vector kind " + kind.String())
	}
}

func (l *Library) VectorCopy(kind native.VectorKind, vec native.Handle, dst []byte) native.Status {

	if len(dst) == 0 {
		return native.StatusOK
	}

	v := ptr(vec)

	var src unsafe.Pointer

	switch kind {
	case native.VectorFloat32:
		src = C.vector_float_getPointer(v)
	case native.VectorInt32:
		src = C.vector_int32_getPointer(v)
	case native.VectorRect:
		src = C.vector_Rect_getPointer(v)
	case native.VectorRect2d:
		src = C.vector_Rect2d_getPointer(v)
	case native.VectorRotatedRect:
		src = C.vector_RotatedRect_getPointer(v)
	case native.VectorKeyPoint:
		src = C.vector_KeyPoint_getPointer(v)
	default:
		return fail("unknown vector kind " + kind.String())
	}

	copy(dst, unsafe.Slice((*byte)(src), len(dst)))
	return native.StatusOK
}

func (l *Library) VectorDelete(kind native.VectorKind, vec native.Handle) native.Status {

	v := ptr(vec)

	switch kind {
	case native.VectorFloat32:
		C.vector_float_delete(v)
	case native.VectorInt32:
		C.vector_int32_delete(v)
	case native.VectorRect:
		C.vector_Rect_delete(v)
	case native.VectorRect2d:
		C.vector_Rect2d_delete(v)
	case native.VectorRotatedRect:
		C.vector_RotatedRect_delete(v)
	case native.VectorKeyPoint:
		C.vector_KeyPoint_delete(v)
	default:
		return fail("unknown vector kind " + kind.String())
	}

	return native.StatusOK
}

func (l *Library) LATCHCreate(p native.LATCHParams) (native.Handle, native.Status) {

	C.cvdnn_last_error_clear()

	var out unsafe.Pointer
	st := status(C.xfeatures2d_LATCH_create(C.int(p.Bytes), cbool(p.RotationInvariance),
		C.int(p.HalfSSDSize), C.double(p.Sigma), &out))

	return handle(out), st
}

func (l *Library) PtrLATCHGet(p native.Handle) (native.Handle, native.Status) {

	C.cvdnn_last_error_clear()

	var out unsafe.Pointer
	st := status(C.xfeatures2d_Ptr_LATCH_get(ptr(p), &out))

	return handle(out), st
}

func (l *Library) PtrLATCHDelete(p native.Handle) native.Status {
	C.cvdnn_last_error_clear()
	return status(C.xfeatures2d_Ptr_LATCH_delete(ptr(p)))
}

func (l *Library) Feature2DCompute(obj, img, keypoints, descriptors native.Handle) native.Status {
	C.cvdnn_last_error_clear()
	return status(C.features2d_Feature2D_compute1(ptr(obj), ptr(img), ptr(keypoints), ptr(descriptors)))
}

func (l *Library) Feature2DDescriptorSize(obj native.Handle) (int, native.Status) {

	C.cvdnn_last_error_clear()

	var out C.int
	st := status(C.features2d_Feature2D_descriptorSize(ptr(obj), &out))

	return int(out), st
}
