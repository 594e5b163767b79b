package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/readingroom/bookclub/internal/api"
	"github.com/readingroom/bookclub/internal/config"
	"github.com/readingroom/bookclub/internal/logger"
	"github.com/readingroom/bookclub/internal/media/images"
)

const limiterSweepInterval = time.Minute

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	stopSweep context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	h.stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the preview HTTP server. It is not started;
// the serve command owns the listener.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	preview := do.MustInvoke[*api.Preview](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	covers := do.MustInvoke[*images.Storage](i)

	handler := api.NewServer(preview, index.Index, covers, api.Options{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		RequestsPerSecond: cfg.Server.RateLimit,
		Burst:             cfg.Server.RateBurst,
	}, log.Logger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	if limiter := handler.Limiter(); limiter != nil {
		go limiter.Run(sweepCtx, limiterSweepInterval)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return &HTTPServerHandle{Server: srv, stopSweep: stopSweep}, nil
}
