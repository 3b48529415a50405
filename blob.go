package cvdnn

import (
	"fmt"
	"runtime"

	"github.com/swdee/go-cvdnn/native"
	"gocv.io/x/gocv"
)

// BlobParams defines how images are converted into a 4D blob
type BlobParams = native.BlobParams

// DefaultBlobParams returns the defaults of the native library: scale factor
// 1.0, the image's own size, zero mean, swapped red and blue channels,
// center cropping and float32 output
func DefaultBlobParams() BlobParams {
	return BlobParams{
		ScaleFactor: 1.0,
		Mean:        gocv.NewScalar(0, 0, 0, 0),
		SwapRB:      true,
		Crop:        true,
		Depth:       gocv.MatTypeCV32F,
	}
}

// BlobFromImage creates a 4D blob of shape (1, channels, height, width) from
// an image, resizing, cropping, subtracting the mean, scaling and swapping
// channels as set in p
func (d *DNN) BlobFromImage(img *Mat, p BlobParams) (*Mat, error) {

	if img == nil {
		return nil, nilArg("image")
	}

	ih, err := img.handle()

	if err != nil {
		return nil, &ArgumentError{Name: "image", Reason: "is closed", Err: err}
	}

	var h native.Handle

	err = d.invoke("dnn_blobFromImage", func() native.Status {
		var st native.Status
		h, st = d.lib.BlobFromImage(ih, p)
		return st
	})

	runtime.KeepAlive(img)

	if err != nil {
		return nil, err
	}

	return d.wrapMat("dnn_blobFromImage", h)
}

// BlobFromImages creates a 4D blob of shape (len(imgs), channels, height,
// width) with the images in input order.  A nil slice is a missing argument,
// an empty slice is passed to the native library as is.
func (d *DNN) BlobFromImages(imgs []*Mat, p BlobParams) (*Mat, error) {

	if imgs == nil {
		return nil, nilArg("images")
	}

	handles := make([]native.Handle, len(imgs))

	for i, img := range imgs {

		if img == nil {
			return nil, nilArg(fmt.Sprintf("images[%d]", i))
		}

		ih, err := img.handle()

		if err != nil {
			return nil, &ArgumentError{Name: fmt.Sprintf("images[%d]", i),
				Reason: "is closed", Err: err}
		}

		handles[i] = ih
	}

	var h native.Handle

	err := d.invoke("dnn_blobFromImages", func() native.Status {
		var st native.Status
		h, st = d.lib.BlobFromImages(handles, p)
		return st
	})

	runtime.KeepAlive(imgs)

	if err != nil {
		return nil, err
	}

	return d.wrapMat("dnn_blobFromImages", h)
}

// BlobFromImage creates a blob from an image using the default DNN
func BlobFromImage(img *Mat, p BlobParams) (*Mat, error) {
	return std.BlobFromImage(img, p)
}

// BlobFromImages creates a blob from a batch of images using the default DNN
func BlobFromImages(imgs []*Mat, p BlobParams) (*Mat, error) {
	return std.BlobFromImages(imgs, p)
}
