package object

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"unicode/utf8"
)

// MaxHeaderLen bounds the scan for the NUL that ends an object header.
// "commit 9223372036854775807\x00" is 27 bytes.
const MaxHeaderLen = 32

// AppendHeader appends the "type size\0" prefix to dst.
func AppendHeader(dst []byte, objType ObjectType, size int64) []byte {
	dst = append(dst, string(objType)...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, size, 10)
	return append(dst, 0)
}

// EncodeHeader returns the "type size\0" prefix for an object.
func EncodeHeader(objType ObjectType, size int64) []byte {
	return AppendHeader(make([]byte, 0, MaxHeaderLen), objType, size)
}

// DecodeHeader consumes an object header from r, leaving r positioned at
// the first payload byte.
func DecodeHeader(r io.ByteReader) (ObjectType, int64, error) {
	buf := make([]byte, 0, MaxHeaderLen)
	for {
		if len(buf) == MaxHeaderLen {
			return "", 0, newError(KindMalformedHeader, "decode header", "", errors.New("no NUL terminator within header window"))
		}
		c, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return "", 0, newError(KindMalformedHeader, "decode header", "", io.ErrUnexpectedEOF)
			}
			return "", 0, err
		}
		if c == 0 {
			break
		}
		buf = append(buf, c)
	}
	return parseHeader(buf)
}

func parseHeader(buf []byte) (ObjectType, int64, error) {
	if !utf8.Valid(buf) {
		return "", 0, newError(KindMalformedHeader, "decode header", "", errors.New("header is not valid UTF-8"))
	}
	kindTok, sizeTok, ok := bytes.Cut(buf, []byte{' '})
	if !ok {
		return "", 0, newError(KindMalformedHeader, "decode header", "", errors.New("missing space separator in "+strconv.Quote(string(buf))))
	}
	objType, err := ParseObjectType(string(kindTok))
	if err != nil {
		return "", 0, newError(KindMalformedHeader, "decode header", "", err)
	}
	size, err := strconv.ParseUint(string(sizeTok), 10, 63)
	if err != nil {
		return "", 0, newError(KindInvalidSize, "decode header", "", err)
	}
	return objType, int64(size), nil
}
