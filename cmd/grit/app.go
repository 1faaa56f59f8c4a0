package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
)

// app carries the persistent flags shared by every subcommand.
type app struct {
	gitDir  string
	verbose bool
}

func (a *app) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&a.gitDir, "git-dir", "", "path to the repository's .git directory (default: search upward from the working directory)")
	fs.BoolVarP(&a.verbose, "verbose", "v", false, "log object store activity to stderr")
}

// newLogger writes text records to the command's stderr. The level starts
// at warn, or debug with --verbose; callers may adjust it through the
// returned LevelVar once a repository config is known.
func (a *app) newLogger(cmd *cobra.Command) (*slog.Logger, *slog.LevelVar) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	if a.verbose {
		level.Set(slog.LevelDebug)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})), level
}

// openRepo opens the repository selected by --git-dir, or the one
// enclosing the working directory. Logging goes to the command's stderr at
// the level from grit.toml, or debug with --verbose.
func (a *app) openRepo(cmd *cobra.Command) (*repo.Repo, error) {
	logger, level := a.newLogger(cmd)
	opt := object.WithLogger(logger)

	var (
		r   *repo.Repo
		err error
	)
	if a.gitDir != "" {
		r, err = repo.OpenGitDir(a.gitDir, opt)
	} else {
		r, err = repo.Open(".", opt)
	}
	if err != nil {
		return nil, err
	}

	if a.verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(r.Config.LogLevel())
	}
	logger.Debug("opened repository", "git_dir", r.GitDir)
	return r, nil
}
