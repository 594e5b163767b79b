package providers

import (
	"github.com/samber/do/v2"

	"github.com/readingroom/bookclub/internal/config"
	"github.com/readingroom/bookclub/internal/issue"
	"github.com/readingroom/bookclub/internal/logger"
	"github.com/readingroom/bookclub/internal/media/covers"
	"github.com/readingroom/bookclub/internal/metadata/openlibrary"
	"github.com/readingroom/bookclub/internal/service"
	"github.com/readingroom/bookclub/internal/store"
)

// ProvideBookService provides the add-book workflow.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	st := do.MustInvoke[*store.Store](i)
	client := do.MustInvoke[*openlibrary.Client](i)
	downloader := do.MustInvoke[*covers.Downloader](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(st, client, downloader, log.Logger), nil
}

// ProvideReviewService provides the add-review workflow.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	st := do.MustInvoke[*store.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(st, log.Logger), nil
}

// ProvideCommenter provides the GitHub issue commenter.
func ProvideCommenter(i do.Injector) (*issue.Commenter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return issue.NewCommenter(issue.CommenterConfig{
		Token:      cfg.GitHub.Token,
		Repository: cfg.GitHub.Repository,
		APIURL:     cfg.GitHub.APIURL,
	}, log.Logger), nil
}
