package cvdnn

import (
	"bytes"
	"io"
	"reflect"
)

// Source is anything that can be converted into a contiguous byte buffer
// before crossing the native boundary, such as a model's weights or its
// configuration text
type Source interface {
	// Bytes returns the full contents of the source
	Bytes() ([]byte, error)
}

// Buffer is a Source over an in memory byte slice.  A nil Buffer is treated
// as a missing argument.
type Buffer []byte

// Bytes returns the buffer itself
func (b Buffer) Bytes() ([]byte, error) {

	if b == nil {
		return nil, nilArg("buffer")
	}

	return b, nil
}

// Stream returns a Source that drains r into a buffer.  A nil reader, or a
// reader that fails before reaching io.EOF, is reported as an invalid
// argument.
func Stream(r io.Reader) Source {
	return &stream{r: r}
}

type stream struct {
	r io.Reader
}

// Bytes reads the stream to the end
func (s *stream) Bytes() ([]byte, error) {

	if s.r == nil {
		return nil, nilArg("stream")
	}

	var buf bytes.Buffer

	// size the buffer up front when the reader knows its length
	if l, ok := s.r.(interface{ Len() int }); ok {
		buf.Grow(l.Len())
	}

	if _, err := io.Copy(&buf, s.r); err != nil {
		return nil, &ArgumentError{Name: "stream", Reason: "unreadable stream", Err: err}
	}

	// an empty stream is forwarded like an empty Buffer
	if buf.Len() == 0 {
		return []byte{}, nil
	}

	return buf.Bytes(), nil
}

// readSource resolves a required source into its bytes
func readSource(name string, src Source) ([]byte, error) {

	if isNilSource(src) {
		return nil, nilArg(name)
	}

	data, err := src.Bytes()

	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nilArg(name)
	}

	return data, nil
}

// readOptionalSource resolves a source that may be absent, returning nil
// bytes in that case
func readOptionalSource(name string, src Source) ([]byte, error) {

	if isNilSource(src) {
		return nil, nil
	}

	return readSource(name, src)
}

// isNilSource reports a nil interface, a nil Buffer, a Stream over a nil
// reader or any other Source holding a typed nil value
func isNilSource(src Source) bool {

	if src == nil {
		return true
	}

	switch s := src.(type) {
	case Buffer:
		return s == nil
	case *stream:
		return s == nil || s.r == nil
	}

	// a nil pointer in a caller's Source type would panic in Bytes
	v := reflect.ValueOf(src)

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}

	return false
}
