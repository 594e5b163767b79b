package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/readingroom/bookclub/internal/di/providers"
	"github.com/readingroom/bookclub/internal/search"
	"github.com/readingroom/bookclub/internal/store"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		params   search.Params
		subjects []string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the club's books",
		Long: `Full-text search over titles, authors, subjects, and descriptions of
the books in books.json. Without a query every book matches, which is useful
together with --subject and the year filters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := do.MustInvoke[*store.Store](a.injector)
			index := do.MustInvoke[*providers.SearchIndexHandle](a.injector)

			books, err := st.LoadBooks()
			if err != nil {
				return err
			}
			if err := index.IndexBooks(books); err != nil {
				return err
			}

			params.Query = strings.Join(args, " ")
			params.Subjects = subjects
			result, err := index.SearchWith(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Hits) == 0 {
				fmt.Fprintln(out, "no matches")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, hit := range result.Hits {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\n", hit.Key, hit.Title, hit.Authors, hit.Score)
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.IntVar(&params.Limit, "limit", search.DefaultLimit, "maximum number of results")
	f.StringSliceVar(&subjects, "subject", nil, "only books with one of these subjects")
	f.IntVar(&params.MinYear, "min-year", 0, "earliest first publication year")
	f.IntVar(&params.MaxYear, "max-year", 0, "latest first publication year")
	return cmd
}
