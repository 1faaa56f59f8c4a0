package object

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"io"
)

// HashSize is the length of a raw digest in bytes.
const HashSize = sha1.Size

// Hash is the SHA-1 digest of an object's encoded bytes (header + payload).
// Its String form, 40 lowercase hex characters, is the object's identifier.
type Hash [HashSize]byte

// ZeroHash is the all-zero digest.
var ZeroHash Hash

// ParseHash decodes a 40-character hex digest.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*HashSize {
		return h, newError(KindInvalidDigest, "parse hash", s, nil)
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, newError(KindInvalidDigest, "parse hash", s, err)
	}
	return h, nil
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Digester accumulates a digest over consecutive writes.
type Digester struct {
	h hash.Hash
	n int64
}

// NewDigester returns an empty Digester.
func NewDigester() *Digester {
	return &Digester{h: sha1.New()}
}

// Write never returns an error.
func (d *Digester) Write(p []byte) (int, error) {
	d.h.Write(p)
	d.n += int64(len(p))
	return len(p), nil
}

// Len returns the number of bytes fed so far.
func (d *Digester) Len() int64 {
	return d.n
}

// Sum returns the digest of everything written so far.
func (d *Digester) Sum() Hash {
	var out Hash
	d.h.Sum(out[:0])
	return out
}

// HashBytes computes the raw SHA-1 of data.
func HashBytes(data []byte) Hash {
	return Hash(sha1.Sum(data))
}

// HashObject computes the digest of the envelope "type size\0content"
// without storing anything. It fails with KindSizeMismatch when content
// does not yield exactly size bytes.
func HashObject(objType ObjectType, size int64, content io.Reader) (Hash, error) {
	d := NewDigester()
	if err := encodeObject(d, objType, size, content); err != nil {
		return ZeroHash, err
	}
	return d.Sum(), nil
}
