package repo

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/odvcencio/grit/pkg/object"
)

// TreeFileEntry represents a single non-tree entry in a flattened tree.
type TreeFileEntry struct {
	Path string
	Mode string
	Hash object.Hash
}

// WriteTree snapshots the working directory into tree objects, writing
// every file as a blob along the way, and returns the root tree hash.
//
// .git directories are skipped. Directories with nothing to record are
// left out of their parent, as git does; an empty working tree still
// yields the (empty) root tree.
func (r *Repo) WriteTree() (object.Hash, error) {
	h, _, err := r.writeTreeDir(r.RootDir)
	return h, err
}

// writeTreeDir writes the tree for dir and reports whether it has entries.
func (r *Repo) writeTreeDir(dir string) (object.Hash, bool, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return object.ZeroHash, false, fmt.Errorf("write tree: read dir %s: %w", dir, err)
	}

	entries := make([]object.TreeEntry, 0, len(dirents))
	for _, d := range dirents {
		name := d.Name()
		if name == GitDirName {
			continue
		}
		full := filepath.Join(dir, name)
		info, err := d.Info()
		if err != nil {
			return object.ZeroHash, false, fmt.Errorf("write tree: stat %s: %w", full, err)
		}

		mode := modeFromFileInfo(info)
		var h object.Hash
		switch mode {
		case "":
			continue
		case object.TreeModeDir:
			sub, nonEmpty, err := r.writeTreeDir(full)
			if err != nil {
				return object.ZeroHash, false, err
			}
			if !nonEmpty {
				continue
			}
			h = sub
		case object.TreeModeSymlink:
			target, err := os.Readlink(full)
			if err != nil {
				return object.ZeroHash, false, fmt.Errorf("write tree: readlink %s: %w", full, err)
			}
			h, err = r.Store.WriteBytes(object.TypeBlob, []byte(filepath.ToSlash(target)))
			if err != nil {
				return object.ZeroHash, false, fmt.Errorf("write tree: %s: %w", full, err)
			}
		default:
			h, err = r.Store.WriteFile(full, object.TypeBlob)
			if err != nil {
				return object.ZeroHash, false, fmt.Errorf("write tree: %w", err)
			}
		}
		entries = append(entries, object.TreeEntry{Mode: mode, Name: []byte(name), Hash: h})
	}

	object.SortTreeEntries(entries)
	payload, err := object.MarshalTree(entries)
	if err != nil {
		return object.ZeroHash, false, fmt.Errorf("write tree %s: %w", dir, err)
	}
	h, err := r.Store.WriteBytes(object.TypeTree, payload)
	if err != nil {
		return object.ZeroHash, false, fmt.Errorf("write tree %s: %w", dir, err)
	}
	return h, len(entries) > 0, nil
}

// FlattenTree walks a tree object recursively, returning all non-tree
// entries with their full paths (using forward slashes), in tree order.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "")
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFileEntry, error) {
	entries, err := r.readTreeEntries(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: %w", err)
	}

	var result []TreeFileEntry
	for _, entry := range entries {
		fullPath := string(entry.Name)
		if prefix != "" {
			fullPath = path.Join(prefix, fullPath)
		}

		if entry.IsDir() {
			sub, err := r.flattenTreeRec(entry.Hash, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		} else {
			result = append(result, TreeFileEntry{
				Path: fullPath,
				Mode: entry.Mode,
				Hash: entry.Hash,
			})
		}
	}
	return result, nil
}

// readTreeEntries fully decodes the tree h. Entries are collected before
// recursing so that only one object file is open at a time.
func (r *Repo) readTreeEntries(h object.Hash) ([]object.TreeEntry, error) {
	obj, err := r.Store.Read(h)
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	if obj.Type != object.TypeTree {
		return nil, &object.Error{
			Kind: object.KindUnsupportedKind,
			Op:   "read tree",
			Path: h.String(),
			Err:  fmt.Errorf("object is a %s", obj.Type),
		}
	}

	var entries []object.TreeEntry
	tr := object.NewTreeReader(obj.Content)
	for {
		e, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tree %s: %w", h, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
