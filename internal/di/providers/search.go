package providers

import (
	"github.com/samber/do/v2"

	"github.com/readingroom/bookclub/internal/logger"
	"github.com/readingroom/bookclub/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index. It starts empty and
// is filled by the first render or store write.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.New(log.Logger)
	if err != nil {
		return nil, err
	}
	return &SearchIndexHandle{Index: index}, nil
}
