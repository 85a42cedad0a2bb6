// Package app wires the Etherial backend together: storage, capability
// providers, the analyzer and the HTTP server.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ayusman/etherial/internal/analysis"
	"github.com/ayusman/etherial/internal/config"
	"github.com/ayusman/etherial/internal/detector"
	"github.com/ayusman/etherial/internal/server"
	"github.com/ayusman/etherial/internal/store"
)

// App is the assembled backend.
type App struct {
	config   config.Config
	log      zerolog.Logger
	store    *store.Store
	sidecar  *detector.Sidecar
	analyzer *analysis.Analyzer
	server   *server.Server
}

// New builds the application from its configuration. A missing detection
// sidecar is not fatal: the server runs with every modality unavailable and
// reports that through its capability flags.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{config: cfg, log: log}

	dbPath := cfg.DBPath
	if dbPath == "" {
		var err error
		dbPath, err = config.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	st, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	a.store = st

	var providers analysis.Providers
	sidecar, err := detector.NewSidecar(detector.Config{
		MaxHands:        cfg.MaxHands,
		MinConfidence:   cfg.MinConfidence,
		MinTrackingConf: cfg.MinConfidence,
		PythonBin:       cfg.PythonBin,
		ScriptPath:      cfg.ScriptPath,
	})
	if err != nil {
		log.Warn().Err(err).Msg("detection sidecar unavailable, all modalities disabled")
	} else {
		a.sidecar = sidecar
		providers = analysis.Providers{
			Pose:     sidecar,
			FaceMesh: sidecar,
			Hands:    sidecar,
			Emotion:  sidecar,
			Beats:    sidecar,
		}
	}

	a.analyzer = analysis.NewAnalyzer(providers, log)
	a.server = server.New(server.Config{
		StaticDir:    cfg.StaticDir,
		Store:        a.store,
		Analyzer:     a.analyzer,
		DefaultTempo: cfg.DefaultTempo,
		Log:          log,
	})

	return a, nil
}

// Server returns the HTTP server.
func (a *App) Server() *server.Server {
	return a.server
}

// Run starts serving on the configured address and blocks.
func (a *App) Run() error {
	a.log.Info().Str("addr", a.config.Addr).Msg("starting server")
	return a.server.ListenAndServe(a.config.Addr)
}

// Close releases the application's resources.
func (a *App) Close() {
	if a.sidecar != nil {
		if err := a.sidecar.Close(); err != nil {
			a.log.Warn().Err(err).Msg("error closing detection sidecar")
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("error closing store")
		}
	}
}
