package object

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Stream is the lazily-read payload of a stored object.
type Stream interface {
	io.Reader
	io.ByteReader
	// ReadBytes reads through the first occurrence of delim, like
	// bufio.Reader.ReadBytes.
	ReadBytes(delim byte) ([]byte, error)
	// Offset is the number of payload bytes consumed so far.
	Offset() int64
}

// Object is an object opened from the store. Content is bound to the live
// decompression stream and must be released with Close.
type Object struct {
	Type    ObjectType
	Size    int64
	Content Stream

	closer io.Closer
}

// Close releases the underlying file and decompressor.
func (o *Object) Close() error {
	if o == nil || o.closer == nil {
		return nil
	}
	err := o.closer.Close()
	o.closer = nil
	return err
}

// Verify drains whatever remains of the payload and checks that exactly
// Size bytes were produced with nothing trailing.
func (o *Object) Verify() error {
	if _, err := io.Copy(io.Discard, o.Content); err != nil {
		return err
	}
	if o.Content.Offset() != o.Size {
		return newError(KindSizeMismatch, "verify", "", fmt.Errorf("header=%d, actual=%d", o.Size, o.Content.Offset()))
	}
	return nil
}

// payload counts the bytes handed out from the buffered inflater and
// refuses to run past or stop short of the declared size.
type payload struct {
	br   *bufio.Reader
	size int64
	off  int64
	path string
}

func newPayload(br *bufio.Reader, size int64, path string) *payload {
	return &payload{br: br, size: size, path: path}
}

func (p *payload) Offset() int64 { return p.off }

func (p *payload) Read(b []byte) (int, error) {
	if p.off >= p.size {
		return 0, p.checkEnd()
	}
	if rem := p.size - p.off; int64(len(b)) > rem {
		b = b[:rem]
	}
	n, err := p.br.Read(b)
	p.off += int64(n)
	if err == io.EOF && p.off < p.size {
		err = p.short()
	}
	return n, err
}

func (p *payload) ReadByte() (byte, error) {
	if p.off >= p.size {
		return 0, p.checkEnd()
	}
	c, err := p.br.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, p.short()
		}
		return 0, err
	}
	p.off++
	return c, nil
}

func (p *payload) ReadBytes(delim byte) ([]byte, error) {
	var out []byte
	for {
		c, err := p.ReadByte()
		if err != nil {
			return out, err
		}
		out = append(out, c)
		if c == delim {
			return out, nil
		}
	}
}

// checkEnd is reached once size bytes have been consumed; the inflated
// stream must end there.
func (p *payload) checkEnd() error {
	if _, err := p.br.ReadByte(); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return err
	}
	return newError(KindSizeMismatch, "read payload", p.path, errors.New("trailing bytes after declared size"))
}

func (p *payload) short() error {
	return newError(KindSizeMismatch, "read payload", p.path, fmt.Errorf("stream ended after %d of %d bytes", p.off, p.size))
}
