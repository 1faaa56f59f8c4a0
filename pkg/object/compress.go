package object

import (
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compression levels accepted by the store, matching zlib's range.
const (
	DefaultCompression = zlib.DefaultCompression
	NoCompression      = zlib.NoCompression
	BestCompression    = zlib.BestCompression
)

// newDeflater wraps w with a zlib writer. The caller must Close it before
// the bytes in w form a complete object.
func newDeflater(w io.Writer, level int) (*zlib.Writer, error) {
	zw, err := zlib.NewWriterLevel(w, level)
	if err != nil {
		return nil, newError(KindStorageIO, "deflate init", "", err)
	}
	return zw, nil
}

// inflater reports every failure of the underlying zlib stream as a
// KindDecompression error. A clean end of stream stays io.EOF.
type inflater struct {
	zr   io.ReadCloser
	path string
}

func newInflater(r io.Reader, path string) (*inflater, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, inflateError(path, err)
	}
	return &inflater{zr: zr, path: path}, nil
}

func (f *inflater) Read(p []byte) (int, error) {
	n, err := f.zr.Read(p)
	if err != nil && err != io.EOF {
		err = inflateError(f.path, err)
	}
	return n, err
}

func (f *inflater) Close() error {
	return f.zr.Close()
}

func inflateError(path string, err error) error {
	var oe *Error
	if errors.As(err, &oe) {
		return err
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return newError(KindDecompression, "inflate", path, err)
}
