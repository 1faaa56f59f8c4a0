package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/odvcencio/grit/pkg/object"
	"github.com/odvcencio/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd(a *app) *cobra.Command {
	var nameOnly, recursive bool
	cmd := &cobra.Command{
		Use:   "ls-tree [--name-only] [-r] <digest>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openRepo(cmd)
			if err != nil {
				return err
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			if recursive {
				err = lsTreeRecursive(out, r, args[0], nameOnly)
			} else {
				err = lsTree(out, r, args[0], nameOnly)
			}
			if err != nil {
				return err
			}
			return out.Flush()
		},
	}
	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "list only entry names")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subtrees")
	return cmd
}

func lsTree(out io.Writer, r *repo.Repo, digest string, nameOnly bool) error {
	obj, err := r.Store.ReadHex(digest)
	if err != nil {
		return fmt.Errorf("ls-tree: %w", err)
	}
	defer obj.Close()
	if obj.Type != object.TypeTree {
		return notATree(digest, obj.Type)
	}

	tr := object.NewTreeReader(obj.Content)
	for {
		e, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("ls-tree %s: %w", digest, err)
		}
		if err := printEntry(out, r.Store, e.Mode, e.Hash, e.Name, nameOnly); err != nil {
			return err
		}
	}
}

func lsTreeRecursive(out io.Writer, r *repo.Repo, digest string, nameOnly bool) error {
	h, err := object.ParseHash(digest)
	if err != nil {
		return fmt.Errorf("ls-tree: %w", err)
	}
	files, err := r.FlattenTree(h)
	if err != nil {
		return fmt.Errorf("ls-tree: %w", err)
	}
	for _, f := range files {
		if err := printEntry(out, r.Store, f.Mode, f.Hash, []byte(f.Path), nameOnly); err != nil {
			return err
		}
	}
	return nil
}

// printEntry writes one ls-tree line. The child's type comes from opening
// the child object itself.
func printEntry(out io.Writer, store *object.Store, mode string, h object.Hash, name []byte, nameOnly bool) error {
	if !nameOnly {
		child, err := store.Read(h)
		if err != nil {
			return fmt.Errorf("ls-tree: entry %q: %w", name, err)
		}
		childType := child.Type
		child.Close()
		fmt.Fprintf(out, "%s %s %s\t", object.FormatMode(mode), childType, h)
	}
	if _, err := out.Write(name); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}

func notATree(digest string, t object.ObjectType) error {
	return &object.Error{
		Kind: object.KindUnsupportedKind,
		Op:   "ls-tree",
		Path: digest,
		Err:  fmt.Errorf("object is a %s, not a tree", t),
	}
}
