package providers

import (
	"github.com/samber/do/v2"

	"github.com/readingroom/bookclub/internal/config"
	"github.com/readingroom/bookclub/internal/logger"
	"github.com/readingroom/bookclub/internal/media/covers"
	"github.com/readingroom/bookclub/internal/media/images"
	"github.com/readingroom/bookclub/internal/store"
)

// coversURLBase is where the covers directory is published next to the page.
const coversURLBase = "covers"

// ProvideStore provides the JSON file store. Saved book lists are pushed to
// the search index.
func ProvideStore(i do.Injector) (*store.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	index := do.MustInvoke[*SearchIndexHandle](i)

	return store.New(cfg.Data.ClubFile, cfg.Data.BooksFile, index.Index, log.Logger), nil
}

// ProvideCoverStorage provides the cover image directory.
func ProvideCoverStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return images.NewStorage(cfg.Data.CoversDir, coversURLBase)
}

// ProvideCoverDownloader provides the cover downloader.
func ProvideCoverDownloader(i do.Injector) (*covers.Downloader, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)
	return covers.NewDownloader(nil, storage, log.Logger), nil
}
