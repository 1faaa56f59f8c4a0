package object

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const helloBlobHex = "ce013625030ba8dba906f756967f9e9ca394464a"

func TestHashObjectHelloBlob(t *testing.T) {
	h, err := HashObject(TypeBlob, 6, strings.NewReader("hello\n"))
	if err != nil {
		t.Fatalf("HashObject: %v", err)
	}
	if h.String() != helloBlobHex {
		t.Fatalf("HashObject(hello) = %s, want %s", h, helloBlobHex)
	}
	if raw := HashBytes([]byte("blob 6\x00hello\n")); raw != h {
		t.Fatalf("HashObject differs from hash of encoded bytes: %s vs %s", h, raw)
	}
}

func TestHashObjectKnownDigests(t *testing.T) {
	tests := []struct {
		name    string
		objType ObjectType
		data    string
		want    string
	}{
		{name: "empty blob", objType: TypeBlob, data: "", want: "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
		{name: "empty tree", objType: TypeTree, data: "", want: "4b825dc642cb6eb9a060e54bf8d69288fbee4904"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, err := HashObject(tc.objType, int64(len(tc.data)), strings.NewReader(tc.data))
			if err != nil {
				t.Fatalf("HashObject: %v", err)
			}
			if h.String() != tc.want {
				t.Fatalf("got %s, want %s", h, tc.want)
			}
		})
	}
}

func TestHashObjectBitFlipChangesDigest(t *testing.T) {
	data := []byte("some payload bytes")
	base, err := HashObject(TypeBlob, int64(len(data)), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("HashObject: %v", err)
	}
	flipped := bytes.Clone(data)
	flipped[3] ^= 0x01
	h, err := HashObject(TypeBlob, int64(len(flipped)), bytes.NewReader(flipped))
	if err != nil {
		t.Fatalf("HashObject: %v", err)
	}
	if h == base {
		t.Fatal("payload bit flip did not change digest")
	}
	h, err = HashObject(TypeCommit, int64(len(data)), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("HashObject: %v", err)
	}
	if h == base {
		t.Fatal("header change did not change digest")
	}
}

func TestHashObjectSizeMismatch(t *testing.T) {
	tests := []struct {
		name string
		size int64
	}{
		{name: "declared too large", size: 10},
		{name: "declared too small", size: 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := HashObject(TypeBlob, tc.size, strings.NewReader("hello\n"))
			if !errors.Is(err, ErrSizeMismatch) {
				t.Fatalf("err = %v, want ErrSizeMismatch", err)
			}
		})
	}
}

func TestDigesterIncremental(t *testing.T) {
	d := NewDigester()
	d.Write([]byte("blob 6\x00"))
	d.Write([]byte("hel"))
	d.Write([]byte("lo\n"))
	if d.Len() != 13 {
		t.Errorf("Len = %d, want 13", d.Len())
	}
	if got := d.Sum().String(); got != helloBlobHex {
		t.Errorf("Sum = %s, want %s", got, helloBlobHex)
	}
}

func TestParseHash(t *testing.T) {
	h, err := ParseHash(helloBlobHex)
	if err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	if h.String() != helloBlobHex {
		t.Errorf("round trip: %s", h)
	}
	upper, err := ParseHash(strings.ToUpper(helloBlobHex))
	if err != nil {
		t.Fatalf("ParseHash(upper): %v", err)
	}
	if upper != h {
		t.Errorf("upper-case parse differs")
	}

	for _, bad := range []string{"", "ce01", helloBlobHex + "00", "zz013625030ba8dba906f756967f9e9ca394464a"} {
		if _, err := ParseHash(bad); !errors.Is(err, ErrInvalidDigest) {
			t.Errorf("ParseHash(%q) err = %v, want ErrInvalidDigest", bad, err)
		}
	}
}
