package main

import (
	"fmt"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/spf13/cobra"
)

func newHashObjectCmd(a *app) *cobra.Command {
	var (
		write   bool
		objType string
	)
	cmd := &cobra.Command{
		Use:   "hash-object [-w] [-t type] <path>",
		Short: "Compute an object digest for a file, optionally storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := object.ParseObjectType(objType)
			if err != nil {
				return fmt.Errorf("hash-object: %w", err)
			}

			var h object.Hash
			if write {
				r, err := a.openRepo(cmd)
				if err != nil {
					return err
				}
				h, err = r.Store.WriteFile(args[0], t)
				if err != nil {
					return fmt.Errorf("hash-object: %w", err)
				}
			} else {
				h, err = object.HashFile(args[0], t)
				if err != nil {
					return fmt.Errorf("hash-object: %w", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object into the object store")
	cmd.Flags().StringVarP(&objType, "type", "t", string(object.TypeBlob), "object type (blob, tree, commit)")
	return cmd
}
