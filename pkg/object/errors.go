package object

import (
	"errors"
	"io/fs"
)

// ErrorKind classifies object store failures.
type ErrorKind int

const (
	KindStorageIO ErrorKind = iota + 1
	KindNotFound
	KindDecompression
	KindMalformedHeader
	KindInvalidSize
	KindSizeMismatch
	KindMalformedTreeEntry
	KindTruncatedTreeEntry
	KindUnsupportedKind
	KindInvalidDigest
)

// Sentinels for errors.Is. Any *Error matches the sentinel of its Kind.
var (
	ErrStorageIO          = errors.New("storage i/o error")
	ErrObjectNotFound     = errors.New("object not found")
	ErrDecompression      = errors.New("decompression error")
	ErrMalformedHeader    = errors.New("malformed object header")
	ErrInvalidSize        = errors.New("invalid object size")
	ErrSizeMismatch       = errors.New("object size mismatch")
	ErrMalformedTreeEntry = errors.New("malformed tree entry")
	ErrTruncatedTreeEntry = errors.New("truncated tree entry")
	ErrUnsupportedKind    = errors.New("unsupported object kind")
	ErrInvalidDigest      = errors.New("invalid object digest")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindStorageIO:
		return ErrStorageIO
	case KindNotFound:
		return ErrObjectNotFound
	case KindDecompression:
		return ErrDecompression
	case KindMalformedHeader:
		return ErrMalformedHeader
	case KindInvalidSize:
		return ErrInvalidSize
	case KindSizeMismatch:
		return ErrSizeMismatch
	case KindMalformedTreeEntry:
		return ErrMalformedTreeEntry
	case KindTruncatedTreeEntry:
		return ErrTruncatedTreeEntry
	case KindUnsupportedKind:
		return ErrUnsupportedKind
	case KindInvalidDigest:
		return ErrInvalidDigest
	default:
		return nil
	}
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown error"
}

// Error is a classified object store failure. Op names the stage that
// failed (e.g. "write rename", "read header") and Path the file or digest
// involved.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	return target == e.Kind.sentinel()
}

func newError(kind ErrorKind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// ioError classifies a filesystem error as KindNotFound or KindStorageIO.
func ioError(op, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return newError(KindNotFound, op, path, err)
	}
	return newError(KindStorageIO, op, path, err)
}

// KindOf returns the kind of the first *Error in err's chain, or 0 if there
// is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
