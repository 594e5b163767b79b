package providers

import (
	"github.com/samber/do/v2"

	"github.com/readingroom/bookclub/internal/config"
	"github.com/readingroom/bookclub/internal/logger"
	"github.com/readingroom/bookclub/internal/metadata/openlibrary"
)

// ProvideOpenLibraryClient provides the rate-limited OpenLibrary client.
func ProvideOpenLibraryClient(i do.Injector) (*openlibrary.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return openlibrary.NewClient(openlibrary.Config{
		BaseURL:           cfg.OpenLibrary.BaseURL,
		CoversURL:         cfg.OpenLibrary.CoversURL,
		UserAgent:         cfg.OpenLibrary.UserAgent,
		RequestsPerSecond: cfg.OpenLibrary.RequestsPerSecond,
		Limit:             cfg.OpenLibrary.SearchLimit,
	}, log.Logger), nil
}
