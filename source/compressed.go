package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	cvdnn "github.com/swdee/go-cvdnn"
)

// decompressor is a Source that decodes a compressed stream when Bytes is
// called
type decompressor struct {
	name   string
	r      io.Reader
	decode func(io.Reader) (io.Reader, func(), error)
}

// Zstd returns a Source that decompresses a zstd stream read from r.  A nil
// reader gives the same Source as cvdnn.Stream(nil).
func Zstd(r io.Reader) cvdnn.Source {

	if r == nil {
		return cvdnn.Stream(nil)
	}

	return &decompressor{name: "zstd stream", r: r, decode: func(r io.Reader) (io.Reader, func(), error) {

		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))

		if err != nil {
			return nil, nil, err
		}

		return dec, dec.Close, nil
	}}
}

// LZ4 returns a Source that decompresses an lz4 frame stream read from r.  A
// nil reader gives the same Source as cvdnn.Stream(nil).
func LZ4(r io.Reader) cvdnn.Source {

	if r == nil {
		return cvdnn.Stream(nil)
	}

	return &decompressor{name: "lz4 stream", r: r, decode: func(r io.Reader) (io.Reader, func(), error) {
		return lz4.NewReader(r), func() {}, nil
	}}
}

// Bytes decodes the whole stream.  A corrupt stream is reported as an
// unreadable stream argument.
func (d *decompressor) Bytes() ([]byte, error) {

	r, done, err := d.decode(d.r)

	if err != nil {
		return nil, &cvdnn.ArgumentError{Name: d.name, Reason: "unreadable stream", Err: err}
	}

	defer done()

	return cvdnn.Stream(r).Bytes()
}

// File is a model file opened by Open.  It must be closed after the network
// has been loaded.
type File struct {
	cvdnn.Source
	closer io.Closer
}

// Close releases the file
func (f *File) Close() error {
	return f.closer.Close()
}

// Open returns a Source for the file at path chosen by its extension.  Files
// ending in .zst or .zstd are zstd decompressed, .lz4 files lz4
// decompressed, anything else is memory mapped.
func Open(path string) (*File, error) {

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd", ".lz4":

		f, err := os.Open(path)

		if err != nil {
			return nil, err
		}

		if strings.EqualFold(filepath.Ext(path), ".lz4") {
			return &File{Source: LZ4(f), closer: f}, nil
		}

		return &File{Source: Zstd(f), closer: f}, nil

	default:
		m, err := Map(path)

		if err != nil {
			return nil, err
		}

		return &File{Source: m, closer: m}, nil
	}
}
