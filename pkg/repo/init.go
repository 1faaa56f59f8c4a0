package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/grit/pkg/object"
)

// DefaultBranch is the branch HEAD points at in a new repository.
const DefaultBranch = "main"

// Init creates a new repository at path. It creates the .git/ directory
// structure: HEAD, objects/, refs/heads/, refs/tags/ and grit.toml.
// Returns an error if a .git/ directory already exists.
func Init(path string, opts ...object.StoreOption) (*Repo, error) {
	gitDir := filepath.Join(path, GitDirName)

	if _, err := os.Stat(gitDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gitDir)
	}

	dirs := []string{
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(gitDir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/"+DefaultBranch+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	cfg := DefaultConfig()
	if err := WriteConfig(gitDir, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	return newRepo(path, gitDir, cfg, opts), nil
}

// Open searches upward from path for a .git/ directory and opens the
// repository. Returns an error if no .git/ directory is found.
func Open(path string, opts ...object.StoreOption) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, GitDirName)
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			return openAt(cur, gitDir, opts)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a git repository (or any parent up to %s)", cur)
		}
		cur = parent
	}
}

// OpenGitDir opens the repository whose metadata lives at gitDir, without
// any discovery. The working tree is gitDir's parent.
func OpenGitDir(gitDir string, opts ...object.StoreOption) (*Repo, error) {
	abs, err := filepath.Abs(gitDir)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}
	info, err := os.Stat(filepath.Join(abs, "objects"))
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("open: %s is not a git directory (no objects/)", abs)
	}
	return openAt(filepath.Dir(abs), abs, opts)
}

func openAt(rootDir, gitDir string, opts []object.StoreOption) (*Repo, error) {
	cfg, err := ReadConfig(gitDir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", gitDir, err)
	}
	return newRepo(rootDir, gitDir, cfg, opts), nil
}

// Head reads .git/HEAD. If the content starts with "ref: ", it returns the
// ref path (e.g., "refs/heads/main"). Otherwise it returns the raw content
// as a detached hash string.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), nil
	}
	return content, nil
}
