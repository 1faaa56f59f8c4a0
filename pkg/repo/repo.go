package repo

import (
	"github.com/odvcencio/grit/pkg/object"
)

// GitDirName is the repository metadata directory inside a working tree.
const GitDirName = ".git"

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working directory root
	GitDir  string        // .git/ directory
	Store   *object.Store // content-addressed object store
	Config  *Config
}

func newRepo(rootDir, gitDir string, cfg *Config, opts []object.StoreOption) *Repo {
	all := append(cfg.StoreOptions(), opts...)
	return &Repo{
		RootDir: rootDir,
		GitDir:  gitDir,
		Store:   object.NewStore(gitDir, all...),
		Config:  cfg,
	}
}
