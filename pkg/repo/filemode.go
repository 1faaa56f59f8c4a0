package repo

import (
	"io/fs"

	"github.com/odvcencio/grit/pkg/object"
)

// modeFromFileInfo returns the tree mode for a directory entry, or "" for
// kinds a tree cannot hold (sockets, devices, pipes).
func modeFromFileInfo(info fs.FileInfo) string {
	m := info.Mode()
	switch {
	case m.IsDir():
		return object.TreeModeDir
	case m&fs.ModeSymlink != 0:
		return object.TreeModeSymlink
	case !m.IsRegular():
		return ""
	case m&0o111 != 0:
		return object.TreeModeExecutable
	default:
		return object.TreeModeFile
	}
}
