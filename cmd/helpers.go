package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/realjck/scorm-iframe-packager/internal/assets"
	"github.com/realjck/scorm-iframe-packager/internal/config"
	"github.com/realjck/scorm-iframe-packager/internal/db"
	"github.com/realjck/scorm-iframe-packager/internal/history"
	"github.com/realjck/scorm-iframe-packager/internal/logging"
	"github.com/realjck/scorm-iframe-packager/internal/packager"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `scormpack init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger() *log.Logger {
	return logging.New(verbose)
}

// newFetcher picks the support-file source: a local directory first, then a
// remote base URL. Without either every support file is a placeholder.
func newFetcher(cfg *config.Config) assets.Fetcher {
	switch {
	case cfg.Assets.Dir != "":
		return assets.NewDirFetcher(cfg.Assets.Dir)
	case cfg.Assets.BaseURL != "":
		return assets.NewHTTPFetcher(cfg.Assets.BaseURL, cfg.Assets.Timeout)
	default:
		return assets.NoSource{}
	}
}

// openHistory opens the generation history when it is enabled. The returned
// store is nil otherwise; close is always safe to call.
func openHistory(cfg *config.Config) (store *history.Store, closeFn func(), err error) {
	if !cfg.History.Enabled {
		return nil, func() {}, nil
	}
	database, err := db.Open(cfg.HistoryPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	return history.NewStore(database), func() { database.Close() }, nil
}

// newService wires the assembler and, when store is set, the history recorder.
func newService(cfg *config.Config, store *history.Store, logger *log.Logger) *packager.Service {
	a := packager.NewAssembler(newFetcher(cfg), logger)
	if cfg.Assets.Concurrency > 0 {
		a.Concurrency = cfg.Assets.Concurrency
	}
	var rec packager.Recorder
	if store != nil {
		rec = store
	}
	return packager.NewService(a, rec, logger)
}
