// Package main provides the bookclub command: it renders the club page, serves
// a live preview, and runs the issue-driven add-book and add-review workflows.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/readingroom/bookclub/internal/config"
	"github.com/readingroom/bookclub/internal/di"
	"github.com/readingroom/bookclub/internal/logger"
)

// errReported marks failures that were already explained to the user, so
// main only sets the exit code.
var errReported = errors.New("failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// app carries the container shared by the subcommands of one invocation.
type app struct {
	flags    config.Flags
	injector *do.RootScope
}

func (a *app) config() *config.Config {
	return do.MustInvoke[*config.Config](a.injector)
}

func (a *app) logger() *logger.Logger {
	return do.MustInvoke[*logger.Logger](a.injector)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bookclub",
		Short: "Render and maintain a book club's reading page",
		Long: `bookclub renders a static page from club.json and books.json.

Books and reviews are added from GitHub issue forms: the add-book and
add-review commands read the triggering issue event, update books.json,
and reply on the issue with what they did.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.injector = di.NewContainer(a.flags)
			// Surface configuration errors before any command work.
			if _, err := do.Invoke[*config.Config](a.injector); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.injector != nil {
				a.injector.Shutdown()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.Env, "env", "", "environment: development, staging, or production")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level: debug, info, warn, or error")
	pf.StringVar(&a.flags.LogFormat, "log-format", "", "log format: json, pretty, or actions")
	pf.StringVar(&a.flags.DataDir, "data", "", "directory holding club.json and books.json")
	pf.StringVar(&a.flags.OutDir, "out", "", "directory the page is written to")
	pf.StringVar(&a.flags.CoversDir, "covers", "", "directory for downloaded cover images")
	pf.StringVar(&a.flags.EnvFile, "env-file", "", "dotenv file to load (default .env)")

	root.AddCommand(
		newRenderCmd(a),
		newServeCmd(a),
		newAddBookCmd(a),
		newAddReviewCmd(a),
		newSearchCmd(a),
	)
	return root
}
