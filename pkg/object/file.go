package object

import (
	"fmt"
	"os"
)

// HashFile computes the digest path's content would have as an object of
// objType, without storing it.
//
// The size is taken from a stat before the content is streamed. If the file
// changes in between, the result is a KindSizeMismatch error rather than a
// digest of either version.
func HashFile(path string, objType ObjectType) (Hash, error) {
	f, size, err := openSized(path)
	if err != nil {
		return ZeroHash, err
	}
	defer f.Close()
	h, err := HashObject(objType, size, f)
	if err != nil {
		return ZeroHash, fmt.Errorf("hash %s: %w", path, err)
	}
	return h, nil
}

// WriteFile streams path's content into the store as an object of objType.
// It has the same stat-then-stream caveat as HashFile.
func (s *Store) WriteFile(path string, objType ObjectType) (Hash, error) {
	f, size, err := openSized(path)
	if err != nil {
		return ZeroHash, err
	}
	defer f.Close()
	h, err := s.Write(objType, size, f)
	if err != nil {
		return ZeroHash, fmt.Errorf("write %s: %w", path, err)
	}
	return h, nil
}

func openSized(path string) (*os.File, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, newError(KindStorageIO, "stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, 0, newError(KindStorageIO, "stat", path, fmt.Errorf("not a regular file (%s)", info.Mode().Type()))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, newError(KindStorageIO, "open", path, err)
	}
	return f, info.Size(), nil
}
