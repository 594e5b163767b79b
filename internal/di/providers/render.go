package providers

import (
	"github.com/samber/do/v2"

	"github.com/readingroom/bookclub/internal/api"
	"github.com/readingroom/bookclub/internal/config"
	"github.com/readingroom/bookclub/internal/loader"
	"github.com/readingroom/bookclub/internal/logger"
	"github.com/readingroom/bookclub/internal/render"
)

// ProvideLoader provides the snapshot loader.
func ProvideLoader(i do.Injector) (*loader.Loader, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return loader.New(loader.NewFetcher(nil, log.Logger), log.Logger), nil
}

// ProvideRenderer provides the page renderer.
func ProvideRenderer(i do.Injector) (*render.Renderer, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return render.New(log.Logger)
}

// ProvideSources provides the configured data locations.
func ProvideSources(i do.Injector) (loader.Sources, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return loader.Sources{Club: cfg.Data.ClubFile, Books: cfg.Data.BooksFile}, nil
}

// ProvidePreview provides the live preview used by the serve command.
func ProvidePreview(i do.Injector) (*api.Preview, error) {
	l := do.MustInvoke[*loader.Loader](i)
	r := do.MustInvoke[*render.Renderer](i)
	sources := do.MustInvoke[loader.Sources](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return api.NewPreview(l, r, sources, index.Index, log.Logger), nil
}
