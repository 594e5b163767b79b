package main

import (
	"fmt"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/readingroom/bookclub/internal/loader"
	"github.com/readingroom/bookclub/internal/render"
)

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render index.html from the club data",
		Long: `Loads the club descriptor, the book list, and the ratings popup
fragment, then writes index.html to the output directory. Any load failure
aborts without touching the previous page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := a.logger()
			l := do.MustInvoke[*loader.Loader](a.injector)
			sources := do.MustInvoke[loader.Sources](a.injector)
			r, err := do.Invoke[*render.Renderer](a.injector)
			if err != nil {
				return err
			}

			snap, err := l.Load(cmd.Context(), sources)
			if err != nil {
				log.Error("failed to load club data", "error", err)
				return errReported
			}

			path, err := r.WriteFile(a.config().Data.OutDir, snap, time.Now())
			if err != nil {
				log.Error("failed to write page", "error", err)
				return errReported
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
