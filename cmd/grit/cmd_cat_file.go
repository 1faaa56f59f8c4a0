package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/spf13/cobra"
)

func newCatFileCmd(a *app) *cobra.Command {
	var pretty, showType, showSize bool
	cmd := &cobra.Command{
		Use:   "cat-file (-p | -t | -s) <digest>",
		Short: "Print the content, type or size of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo(cmd)
			if err != nil {
				return err
			}
			obj, err := r.Store.ReadHex(args[0])
			if err != nil {
				return fmt.Errorf("cat-file: %w", err)
			}
			defer obj.Close()

			out := cmd.OutOrStdout()
			switch {
			case showType:
				fmt.Fprintln(out, obj.Type)
				return nil
			case showSize:
				fmt.Fprintln(out, obj.Size)
				return nil
			}

			if obj.Type != object.TypeBlob {
				return &object.Error{
					Kind: object.KindUnsupportedKind,
					Op:   "cat-file -p",
					Path: args[0],
					Err:  fmt.Errorf("cannot print a %s", obj.Type),
				}
			}
			n, err := io.Copy(out, obj.Content)
			if err != nil {
				return fmt.Errorf("cat-file: copy %s: %w", args[0], err)
			}
			if n != obj.Size {
				return fmt.Errorf("cat-file: %s: %w: expected %d bytes, wrote %d", args[0], object.ErrSizeMismatch, obj.Size, n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "print the object's content")
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object's type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the object's size")
	cmd.MarkFlagsOneRequired("pretty", "type", "size")
	cmd.MarkFlagsMutuallyExclusive("pretty", "type", "size")
	return cmd
}
