package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"
)

// FormatMode renders a stored tree mode the way ls-tree shows it,
// zero-padded to six characters.
func FormatMode(mode string) string {
	if len(mode) >= 6 {
		return mode
	}
	return strings.Repeat("0", 6-len(mode)) + mode
}

func validateTreeEntry(e TreeEntry) error {
	if e.Mode == "" {
		return newError(KindMalformedTreeEntry, "encode tree", "", errors.New("empty mode"))
	}
	for i := 0; i < len(e.Mode); i++ {
		if e.Mode[i] < '0' || e.Mode[i] > '7' {
			return newError(KindMalformedTreeEntry, "encode tree", string(e.Name), fmt.Errorf("mode %q is not octal", e.Mode))
		}
	}
	if len(e.Name) == 0 {
		return newError(KindMalformedTreeEntry, "encode tree", "", errors.New("empty name"))
	}
	if bytes.IndexByte(e.Name, 0) >= 0 || bytes.IndexByte(e.Name, '/') >= 0 {
		return newError(KindMalformedTreeEntry, "encode tree", fmt.Sprintf("%q", e.Name), errors.New("name contains NUL or '/'"))
	}
	return nil
}

// EncodeTree writes entries to w as a tree payload, in the order given:
//
//	<mode> <name>\0<20-byte hash>
//
// with nothing between records.
func EncodeTree(w io.Writer, entries []TreeEntry) error {
	var rec []byte
	for _, e := range entries {
		if err := validateTreeEntry(e); err != nil {
			return err
		}
		rec = append(rec[:0], e.Mode...)
		rec = append(rec, ' ')
		rec = append(rec, e.Name...)
		rec = append(rec, 0)
		rec = append(rec, e.Hash[:]...)
		if _, err := w.Write(rec); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
	}
	return nil
}

// MarshalTree returns the tree payload for entries.
func MarshalTree(entries []TreeEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTree(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SortTreeEntries sorts entries into git's canonical order: byte-wise by
// name, with subtrees compared as if their name ended in '/'.
func SortTreeEntries(entries []TreeEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return compareTreeNames(entries[i], entries[j]) < 0
	})
}

func compareTreeNames(a, b TreeEntry) int {
	n := min(len(a.Name), len(b.Name))
	if c := bytes.Compare(a.Name[:n], b.Name[:n]); c != 0 {
		return c
	}
	ca, cb := treeNameTail(a, n), treeNameTail(b, n)
	switch {
	case ca < cb:
		return -1
	case ca > cb:
		return 1
	}
	return 0
}

// treeNameTail is the byte following the shared prefix of length n, where
// a directory name is implicitly terminated by '/'.
func treeNameTail(e TreeEntry, n int) int {
	if n < len(e.Name) {
		return int(e.Name[n])
	}
	if e.IsDir() {
		return '/'
	}
	return 0
}

// entrySource is what TreeReader consumes: the Content of a tree object,
// or any *bufio.Reader.
type entrySource interface {
	io.Reader
	ReadBytes(delim byte) ([]byte, error)
}

// TreeReader decodes tree entries one at a time from a payload stream. It
// is single-pass: entries are consumed from the underlying stream.
type TreeReader struct {
	src entrySource
	err error
}

// NewTreeReader returns a reader for the tree payload in src.
func NewTreeReader(src entrySource) *TreeReader {
	return &TreeReader{src: src}
}

// Next returns the next entry, or io.EOF once the payload is exhausted.
func (t *TreeReader) Next() (TreeEntry, error) {
	if t.err != nil {
		return TreeEntry{}, t.err
	}
	e, err := t.next()
	if err != nil {
		t.err = err
	}
	return e, err
}

func (t *TreeReader) next() (TreeEntry, error) {
	rec, err := t.src.ReadBytes(0)
	if err != nil {
		if err == io.EOF {
			if len(rec) == 0 {
				return TreeEntry{}, io.EOF
			}
			return TreeEntry{}, newError(KindMalformedTreeEntry, "decode tree", fmt.Sprintf("%q", rec), errors.New("missing NUL after name"))
		}
		return TreeEntry{}, err
	}
	rec = rec[:len(rec)-1]
	mode, name, ok := bytes.Cut(rec, []byte{' '})
	if !ok {
		return TreeEntry{}, newError(KindMalformedTreeEntry, "decode tree", fmt.Sprintf("%q", rec), errors.New("no space between mode and name"))
	}
	if len(mode) == 0 || len(name) == 0 {
		return TreeEntry{}, newError(KindMalformedTreeEntry, "decode tree", fmt.Sprintf("%q", rec), errors.New("empty mode or name"))
	}

	e := TreeEntry{Mode: string(mode), Name: bytes.Clone(name)}
	if n, err := io.ReadFull(t.src, e.Hash[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return TreeEntry{}, newError(KindTruncatedTreeEntry, "decode tree", string(name), fmt.Errorf("got %d of %d hash bytes", n, HashSize))
		}
		return TreeEntry{}, err
	}
	return e, nil
}

// All yields the remaining entries in on-disk order. Iteration stops after
// the first error, which is yielded with a zero entry.
func (t *TreeReader) All() iter.Seq2[TreeEntry, error] {
	return func(yield func(TreeEntry, error) bool) {
		for {
			e, err := t.Next()
			if err == io.EOF {
				return
			}
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// ReadTree decodes every entry of a tree payload held in memory.
func ReadTree(data []byte) ([]TreeEntry, error) {
	tr := NewTreeReader(bytesSource{bytes.NewReader(data)})
	var entries []TreeEntry
	for e, err := range tr.All() {
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// bytesSource adds ReadBytes to a bytes.Reader without buffering past the
// requested delimiter.
type bytesSource struct {
	*bytes.Reader
}

func (b bytesSource) ReadBytes(delim byte) ([]byte, error) {
	var out []byte
	for {
		c, err := b.ReadByte()
		if err != nil {
			return out, err
		}
		out = append(out, c)
		if c == delim {
			return out, nil
		}
	}
}
