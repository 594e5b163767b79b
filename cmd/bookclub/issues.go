package main

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/readingroom/bookclub/internal/issue"
	"github.com/readingroom/bookclub/internal/service"
)

func newAddBookCmd(a *app) *cobra.Command {
	var eventPath string

	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Add the book proposed in an issue to books.json",
		Long: `Reads the issue event, looks the book up on OpenLibrary by ISBN (or by
the issue title when no ISBN is given), downloads its cover, and appends it
to books.json. A summary is posted back to the issue. Exits non-zero when no
book was added.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ev, err := a.loadEvent(eventPath)
			if err != nil {
				return err
			}
			svc, err := do.Invoke[*service.BookService](a.injector)
			if err != nil {
				return err
			}

			res, runErr := svc.AddBook(cmd.Context(), service.AddBookRequestFromIssue(ev.Issue))
			return a.reply(cmd, ev, res.Summary(), runErr)
		},
	}

	cmd.Flags().StringVar(&eventPath, "event", "", "issue event payload (default $GITHUB_EVENT_PATH)")
	return cmd
}

func newAddReviewCmd(a *app) *cobra.Command {
	var eventPath string

	cmd := &cobra.Command{
		Use:   "add-review",
		Short: "Store the grade and review from an issue in books.json",
		Long: `Reads the issue event and records the reviewer's grade (1 to 15) and
optional review text on the book. The reviewer must be a participant of the
book. A summary is posted back to the issue. Exits non-zero when nothing was
stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ev, err := a.loadEvent(eventPath)
			if err != nil {
				return err
			}
			svc, err := do.Invoke[*service.ReviewService](a.injector)
			if err != nil {
				return err
			}

			res, runErr := svc.AddReview(cmd.Context(), service.AddReviewRequestFromIssue(ev.Issue))
			return a.reply(cmd, ev, res.Summary(), runErr)
		},
	}

	cmd.Flags().StringVar(&eventPath, "event", "", "issue event payload (default $GITHUB_EVENT_PATH)")
	return cmd
}

func (a *app) loadEvent(path string) (*issue.Event, error) {
	if path == "" {
		path = a.config().GitHub.EventPath
	}
	return issue.LoadEvent(path)
}

// reply prints the summary, posts it on the issue, and turns a workflow
// failure into a non-zero exit.
func (a *app) reply(cmd *cobra.Command, ev *issue.Event, summary string, runErr error) error {
	log := a.logger()
	fmt.Fprintln(cmd.OutOrStdout(), summary)

	commenter, err := do.Invoke[*issue.Commenter](a.injector)
	if err != nil {
		return err
	}
	// The comment still goes out when the command was cancelled.
	if err := commenter.Post(context.WithoutCancel(cmd.Context()), ev.Issue.Number, summary); err != nil {
		log.Error("failed to comment on issue", "issue", ev.Issue.Number, "error", err)
		if runErr == nil {
			return errReported
		}
	}

	if runErr != nil {
		log.Error("workflow failed", "command", cmd.Name(), "issue", ev.Issue.Number, "error", runErr)
		return errReported
	}
	return nil
}
