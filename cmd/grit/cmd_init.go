package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
)

func newInitCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}
			abs, err := filepath.Abs(target)
			if err != nil {
				return fmt.Errorf("init: resolve %s: %w", target, err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("init: %w", err)
			}

			logger, _ := a.newLogger(cmd)
			r, err := repo.Init(abs, object.WithLogger(logger))
			if err != nil {
				return err
			}
			logger.Debug("initialized repository", "git_dir", r.GitDir, "head", repo.DefaultBranch)

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty Git repository in %s%c\n", r.GitDir, filepath.Separator)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print errors")
	return cmd
}
