package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/x7ian/jstopia/internal/catalog"
	"github.com/x7ian/jstopia/internal/config"
	"github.com/x7ian/jstopia/internal/engine"
	"github.com/x7ian/jstopia/internal/logging"
	"github.com/x7ian/jstopia/internal/store"
)

// deps is everything a command needs to run engine operations.
type deps struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
	eng   *engine.Engine
}

func (d *deps) Close() {
	d.store.Close()
	_ = d.log.Sync()
}

// loadConfig reads the environment and applies flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	override("db", &cfg.Database.DSN)
	override("driver", &cfg.Database.Driver)
	override("catalog", &cfg.CatalogPath)
	override("log-level", &cfg.Log.Level)
	override("log-format", &cfg.Log.Format)
	return cfg, nil
}

// resolveDSN returns the DSN to open. SQLite paths get their directory
// created; an empty SQLite DSN means the default XDG path.
func resolveDSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case store.DriverPostgres:
		if cfg.DSN == "" {
			return "", fmt.Errorf("postgres requires a DSN (--db or %s)", config.EnvDB)
		}
		return cfg.DSN, nil
	default:
		if cfg.DSN == "" {
			return store.DefaultDBPath()
		}
		return cfg.DSN, store.EnsureDir(cfg.DSN)
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// buildDeps wires config, logger, catalog, store and engine. Extra engine
// options are appended after the configured ones.
func buildDeps(cmd *cobra.Command, opts ...engine.Option) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	dsn, err := resolveDSN(cfg.Database)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	engOpts := []engine.Option{engine.WithLogger(log)}
	if cfg.RequiredCorrect > 0 {
		engOpts = append(engOpts, engine.WithRequiredCorrect(cfg.RequiredCorrect))
	}
	engOpts = append(engOpts, opts...)

	log.Debug("engine ready",
		zap.String("driver", st.Driver()),
		zap.Int("books", len(cat.Books())),
		zap.Int("ranks", cat.Ladder().Len()),
	)
	return &deps{
		cfg:   cfg,
		log:   log,
		store: st,
		eng:   engine.New(st, cat, engOpts...),
	}, nil
}
