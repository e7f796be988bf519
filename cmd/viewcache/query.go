package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-view-cache/pkg/di"
	"github.com/goliatone/go-view-cache/viewcache"
)

type queryOptions struct {
	offset    int
	limit     int
	sorts     []string
	condition string
	orderBy   string
	match     string
	add       []string
}

func newQueryCmd(a *app) *cobra.Command {
	o := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the count and rows of one window",
		Example: `  viewcache query --fixture rows.json --sort name:desc --match "app" --offset 0 --limit 10
  viewcache query --fixture rows.json --where "status=1" --add "Draft row"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.query(cmd.OutOrStdout(), cmd, o)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.offset, "offset", 0, "window offset")
	f.IntVar(&o.limit, "limit", 0, "window limit, 0 for the default page size")
	f.StringSliceVar(&o.sorts, "sort", nil, "sort key, optionally suffixed with :desc (name, status, kind)")
	f.StringVar(&o.condition, "where", "", `load condition such as "status=1 AND kind=order"`)
	f.StringVar(&o.orderBy, "order", "", "backing order such as \"name DESC\"")
	f.StringVar(&o.match, "match", "", "quick-match text")
	f.StringSliceVar(&o.add, "add", nil, "names of rows added locally before querying")
	return cmd
}

func (a *app) query(w io.Writer, cmd *cobra.Command, o *queryOptions) error {
	ctx := cmd.Context()
	provider := di.NewProvider[row](a.container, a.fixture.loader())
	provider.RegisterSort("name", func(x, y row) int { return strings.Compare(x.Name, y.Name) })
	provider.RegisterSort("status", func(x, y row) int { return x.Status - y.Status })
	provider.RegisterSort("kind", func(x, y row) int { return strings.Compare(x.Kind, y.Kind) })

	if err := provider.Cache().LoadQuery(ctx, o.condition, o.orderBy); err != nil {
		return err
	}
	for _, name := range o.add {
		provider.Added(newRow(name))
	}

	q := viewcache.Query{Offset: o.offset, Limit: o.limit, Text: o.match}
	for _, s := range o.sorts {
		key, dir, _ := strings.Cut(s, ":")
		q.Sort = append(q.Sort, viewcache.SortSpec{Key: key, Desc: strings.EqualFold(dir, "desc")})
	}

	n, err := provider.Count(ctx, q)
	if err != nil {
		return err
	}
	rows, err := provider.Fetch(ctx, q)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "count: %d visible: %d\n", n, provider.Cache().Size())
	for i, r := range rows {
		fmt.Fprintf(w, "%4d  %-24s %-10s status=%d\n", o.offset+i, r.Name, r.Kind, r.Status)
	}
	return nil
}
