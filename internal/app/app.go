// Package app wires the catalogue, storage and state managers together.
// The App value is the single owner of all session state; whatever needs
// state gets it from here.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/idilsaglam/declutter/internal/bags"
	"github.com/idilsaglam/declutter/internal/catalog"
	"github.com/idilsaglam/declutter/internal/config"
	"github.com/idilsaglam/declutter/internal/decisions"
	"github.com/idilsaglam/declutter/internal/logging"
	"github.com/idilsaglam/declutter/internal/progress"
	"github.com/idilsaglam/declutter/internal/store"
)

type App struct {
	Config    *config.Config
	Log       *slog.Logger
	Catalog   *catalog.Catalog
	Store     store.Store
	Decisions *decisions.Manager
	Checklist *decisions.Checklist
	Bags      *bags.Manager

	logCloser io.Closer
}

// Open builds everything the configuration describes.
func Open(cfg *config.Config) (*App, error) {
	log, lc, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		log.Warn("config", "warning", w)
	}

	cat := catalog.Default()
	if cfg.Catalog != "" {
		if cat, err = catalog.LoadFile(cfg.Catalog); err != nil {
			_ = lc.Close()
			return nil, err
		}
	}

	kv, err := store.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		_ = lc.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "backend", cfg.Backend, "dir", cfg.DataDir)

	return New(cfg, log, cat, kv, lc), nil
}

// New assembles an App from parts that are already open.
func New(cfg *config.Config, log *slog.Logger, cat *catalog.Catalog, kv store.Store, logCloser io.Closer) *App {
	return &App{
		Config:    cfg,
		Log:       log,
		Catalog:   cat,
		Store:     kv,
		Decisions: decisions.Open(kv, decisions.WithLogger(log)),
		Checklist: decisions.OpenChecklist(kv, decisions.WithLogger(log)),
		Bags:      bags.Open(kv, bags.WithLogger(log)),
		logCloser: logCloser,
	}
}

// Ready reports whether stored state has been read.
func (a *App) Ready() bool { return a.Decisions.Ready() }

// LoadErr joins the read errors met while opening stored state. Values that
// could not be read are not written back for the rest of the session.
func (a *App) LoadErr() error {
	return errors.Join(a.Decisions.LoadErr(), a.Checklist.LoadErr(), a.Bags.LoadErr())
}

func (a *App) Stats() progress.Stats {
	return progress.Collect(a.Catalog, a.Decisions, a.Bags, a.Config.RecentLimit)
}

func (a *App) Close() error {
	var errs []error
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log: %w", err))
		}
	}
	return errors.Join(errs...)
}
