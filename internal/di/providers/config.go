// Package providers contains dependency injection providers for the bookclub
// commands.
package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/readingroom/bookclub/internal/config"
	"github.com/readingroom/bookclub/internal/logger"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// ProvideConfig loads the configuration using the command-line flags
// registered in the container.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	flags := do.MustInvoke[config.Flags](i)
	return config.Load(flags)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"club", cfg.Data.ClubFile,
		"books", cfg.Data.BooksFile,
		"out_dir", cfg.Data.OutDir,
	)

	return log, nil
}
