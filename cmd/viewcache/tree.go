package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-view-cache/hierarchy"
	"github.com/goliatone/go-view-cache/pkg/di"
)

type treeOptions struct {
	root      string
	depth     int
	flattened bool
}

func newTreeCmd(a *app) *cobra.Command {
	o := &treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the rows of a type with their related rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.tree(cmd.OutOrStdout(), cmd, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.root, "root", "", "entity type of the roots")
	f.IntVar(&o.depth, "depth", 3, "maximum depth printed")
	f.BoolVar(&o.flattened, "flattened", false, "list related rows without link nodes")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

func (a *app) tree(w io.Writer, cmd *cobra.Command, o *treeOptions) error {
	ctx := cmd.Context()
	opts := []hierarchy.Option[row]{
		hierarchy.WithRootsOnly[row](func(r row) bool { return r.ParentID == "" }),
	}
	if o.flattened {
		opts = append(opts, hierarchy.WithFlattened[row]())
	}
	tree := di.NewTree[row](a.container, a.fixture.loader(), nil, opts...)
	if err := tree.Prepare(ctx, o.root); err != nil {
		return err
	}
	if err := tree.Roots().LoadQuery(ctx, "kind="+o.root, ""); err != nil {
		return err
	}

	var walk func(parent *hierarchy.Node[row], depth int) error
	walk = func(parent *hierarchy.Node[row], depth int) error {
		if depth > o.depth {
			return nil
		}
		n, err := tree.ChildCount(ctx, parent, 0, a.container.Config().DefaultPageSize)
		if err != nil {
			return err
		}
		children, err := tree.FetchChildren(ctx, parent, 0, n)
		if err != nil {
			return err
		}
		for _, child := range children {
			fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label(child))
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(nil, 0)
}

func label(n *hierarchy.Node[row]) string {
	if n.Kind() == hierarchy.LinkNode {
		return "[" + n.Link().Name + "]"
	}
	return n.Item().Name
}
