//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"khaos-map/internal/app"
	"khaos-map/internal/world"
)

func main() {
	opts := app.NewConfig()
	opts.Bind(flag.CommandLine)
	flag.Parse()

	logger := opts.Logger()
	cfg, err := opts.MapConfig()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	wd, err := world.Generate(cfg, logger)
	if err != nil {
		logger.Error("generate world", "err", err)
		os.Exit(1)
	}

	game := app.New(wd, opts, logger)

	ebiten.SetWindowTitle("khaos-map")
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	ebiten.SetWindowSize(opts.Size*opts.Scale+app.PanelWidth, opts.Size*opts.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
