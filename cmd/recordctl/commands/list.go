package commands

import (
	"encoding/json"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/spf13/cobra"

	paging "github.com/nrfta/records-paging"
	"github.com/nrfta/records-paging/resource"
	"github.com/nrfta/records-paging/sqlboiler"
)

type listOptions struct {
	page      int
	pageSize  int
	cursor    string
	direction string
	search    string
	sortBy    string
	sortOrder string
	filters   []string
}

func newListCommand(a *app) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Args:  cobra.ExactArgs(1),
		Short: "Print one page of a resource as JSON",
		Long: `Print one page of a resource as JSON.

Without --cursor the page is served by page number. Pass the next_cursor or
prev_cursor of a previous page with --cursor to continue in keyset mode.`,
		Example: `  recordctl list reagents --sort-by total_quantity --filter status=available
  recordctl list reagents --sort-by total_quantity --cursor 3130302e357c6162 --direction next`,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookupResource(args[0])
			if err != nil {
				return err
			}

			q, err := opts.query(cmd)
			if err != nil {
				return err
			}

			db, err := a.open()
			if err != nil {
				return err
			}
			defer db.Close()

			fetcher := sqlboiler.NewRecordFetcher(db, sqlboiler.WithPlaceholder(a.config.Database.Placeholder()))
			p := paging.New[resource.Record](def, fetcher,
				paging.WithPageConfig(a.config.PageConfig()),
				paging.WithLogger(a.log),
				paging.WithDialect(a.config.Database.Dialect()),
			)

			page, err := p.Paginate(cmd.Context(), q)
			if err != nil {
				return err
			}
			a.log.WithField("strategy", page.Metadata.Strategy).
				WithField("query_time_ms", page.Metadata.QueryTimeMs).
				Debug("listed")

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(page)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.page, "page", 1, "page number (offset mode)")
	flags.IntVar(&opts.pageSize, "page-size", 0, "rows per page (default from config)")
	flags.StringVar(&opts.cursor, "cursor", "", "cursor from a previous page (keyset mode)")
	flags.StringVar(&opts.direction, "direction", "next", "keyset direction: next or prev")
	flags.StringVar(&opts.search, "search", "", "text matched against the resource's search columns")
	flags.StringVar(&opts.sortBy, "sort-by", "", "sort key, see recordctl fields")
	flags.StringVar(&opts.sortOrder, "sort-order", "DESC", "ASC or DESC")
	flags.StringArrayVar(&opts.filters, "filter", nil, "filter as name=value, repeatable")

	return cmd
}

// query converts the flags into a request. Page and page size are only set
// when given, so the configured defaults apply otherwise.
func (o *listOptions) query(cmd *cobra.Command) (paging.PaginationQuery, error) {
	q := paging.PaginationQuery{
		Cursor:    o.cursor,
		Direction: o.direction,
		Search:    o.search,
		SortBy:    o.sortBy,
		SortOrder: o.sortOrder,
	}
	if cmd.Flags().Changed("page") {
		q.Page = &o.page
	}
	if cmd.Flags().Changed("page-size") {
		q.PageSize = &o.pageSize
	}

	if len(o.filters) > 0 {
		q.Filters = make(map[string]string, len(o.filters))
		for _, f := range o.filters {
			name, value, ok := strings.Cut(f, "=")
			if !ok || name == "" {
				return q, errors.Errorf("filter %q: want name=value", f)
			}
			q.Filters[name] = value
		}
	}
	return q, nil
}
