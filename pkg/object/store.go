package object

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// copyBufferSize bounds how much payload is held in memory while streaming.
const copyBufferSize = 32 << 10

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
type Store struct {
	root   string
	level  int
	fsync  bool
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompressionLevel sets the zlib level used for new objects.
func WithCompressionLevel(level int) StoreOption {
	return func(s *Store) { s.level = level }
}

// WithFsync makes Write sync each object file before it is renamed into
// place.
func WithFsync(enabled bool) StoreOption {
	return func(s *Store) { s.fsync = enabled }
}

// WithLogger routes store debug logging to logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a Store rooted at the given directory. The objects/
// subdirectory is created lazily on first write.
func NewStore(root string, opts ...StoreOption) *Store {
	s := &Store{
		root:   root,
		level:  DefaultCompression,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the directory the store was opened on.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.root, "objects")
}

// ObjectPath returns the filesystem path for a given hash.
func (s *Store) ObjectPath(h Hash) string {
	hex := h.String()
	return filepath.Join(s.objectsDir(), hex[:2], hex[2:])
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	_, err := os.Stat(s.ObjectPath(h))
	return err == nil
}

// encodeObject writes the header for (objType, size) followed by exactly
// size bytes of content to w.
func encodeObject(w io.Writer, objType ObjectType, size int64, content io.Reader) error {
	if size < 0 {
		return newError(KindInvalidSize, "encode", "", fmt.Errorf("negative size %d", size))
	}
	if _, err := w.Write(EncodeHeader(objType, size)); err != nil {
		return newError(KindStorageIO, "encode header", "", err)
	}
	buf := make([]byte, copyBufferSize)
	n, err := io.CopyBuffer(w, io.LimitReader(content, size), buf)
	if err != nil {
		return sourceError(err)
	}
	if n != size {
		return newError(KindSizeMismatch, "encode payload", "", fmt.Errorf("declared %d bytes, content ended after %d", size, n))
	}
	var probe [1]byte
	for {
		m, err := content.Read(probe[:])
		if m > 0 {
			return newError(KindSizeMismatch, "encode payload", "", fmt.Errorf("content longer than declared %d bytes", size))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return sourceError(err)
		}
	}
}

// sourceError classifies a failure reading caller content that is not
// already an *Error as KindStorageIO.
func sourceError(err error) error {
	if KindOf(err) != 0 {
		return fmt.Errorf("encode payload: %w", err)
	}
	return newError(KindStorageIO, "encode payload", "", err)
}

// Write streams an object into the store and returns its content hash. The
// encoded form "type size\0content" is hashed and zlib-compressed in one
// pass into a temp file under objects/, which is then renamed to its
// fan-out path. A failed write leaves nothing behind.
func (s *Store) Write(objType ObjectType, size int64, content io.Reader) (Hash, error) {
	if err := os.MkdirAll(s.objectsDir(), 0o755); err != nil {
		return ZeroHash, newError(KindStorageIO, "write mkdir", s.objectsDir(), err)
	}
	tmp, err := os.CreateTemp(s.objectsDir(), "tmp_obj_*")
	if err != nil {
		return ZeroHash, newError(KindStorageIO, "write tmpfile", s.objectsDir(), err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	zw, err := newDeflater(tmp, s.level)
	if err != nil {
		return ZeroHash, err
	}
	d := NewDigester()
	if err := encodeObject(io.MultiWriter(d, zw), objType, size, content); err != nil {
		return ZeroHash, fmt.Errorf("object write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return ZeroHash, newError(KindStorageIO, "write deflate", tmpName, err)
	}
	if s.fsync {
		if err := tmp.Sync(); err != nil {
			return ZeroHash, newError(KindStorageIO, "write sync", tmpName, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return ZeroHash, newError(KindStorageIO, "write close", tmpName, err)
	}

	h := d.Sum()
	dest := s.ObjectPath(h)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return ZeroHash, newError(KindStorageIO, "write mkdir", filepath.Dir(dest), err)
	}
	existed := s.Has(h)
	if err := os.Rename(tmpName, dest); err != nil {
		// Same digest, same bytes: an object that is already in place is
		// as good as ours.
		if !s.Has(h) {
			return ZeroHash, newError(KindStorageIO, "write rename", dest, err)
		}
		os.Remove(tmpName)
	}
	committed = true

	s.logger.Debug("object written",
		"digest", h.String(),
		"type", string(objType),
		"size", size,
		"existed", existed,
	)
	return h, nil
}

// WriteBytes stores an object whose payload is already in memory.
func (s *Store) WriteBytes(objType ObjectType, data []byte) (Hash, error) {
	return s.Write(objType, int64(len(data)), bytes.NewReader(data))
}

// Read opens an object by hash. Only the header is consumed; the payload is
// inflated on demand as Content is read. The caller must Close the object.
func (s *Store) Read(h Hash) (*Object, error) {
	path := s.ObjectPath(h)
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError("object read", h.String(), err)
	}
	zr, err := newInflater(f, h.String())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	br := bufio.NewReader(zr)
	objType, size, err := DecodeHeader(br)
	if err != nil {
		zr.Close()
		f.Close()
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}

	s.logger.Debug("object opened", "digest", h.String(), "type", string(objType), "size", size)
	return &Object{
		Type:    objType,
		Size:    size,
		Content: newPayload(br, size, h.String()),
		closer:  multiCloser{zr, f},
	}, nil
}

// ReadHex parses a hex digest and opens the object it names.
func (s *Store) ReadHex(hex string) (*Object, error) {
	h, err := ParseHash(hex)
	if err != nil {
		return nil, err
	}
	return s.Read(h)
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var errs []error
	for _, c := range m {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
