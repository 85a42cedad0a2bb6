package main

import (
	"flag"

	"github.com/ayusman/etherial/internal/app"
	"github.com/ayusman/etherial/internal/config"
	"github.com/ayusman/etherial/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	log := observability.InitLogger("etherial")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
