// Command khaos-sim generates a map and runs its simulation without a window,
// logging a summary at every season boundary.
package main

import (
	"flag"
	"os"
	"time"

	"khaos-map/internal/app"
	"khaos-map/internal/core"
	"khaos-map/internal/world"
)

func main() {
	opts := app.NewConfig()
	opts.TPS = 0
	opts.Bind(flag.CommandLine)
	ticks := flag.Int("ticks", 480, "world ticks to simulate")
	riverFlow := flag.Float64("river-flow", 5, "flow rate that counts a vertex as river")
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
	logger.Info("initial state", wd.Summarize(*riverFlow).Args()...)

	var pacer *core.FixedStep
	if opts.TPS > 0 {
		pacer = core.NewFixedStep(opts.TPS)
	}
	start := time.Now()
	season := wd.Season()
	for wd.Ticks() < *ticks {
		if pacer != nil && !pacer.ShouldStep() {
			time.Sleep(pacer.Interval() / 4)
			continue
		}
		wd.Tick()
		if s := wd.Season(); s != season {
			season = s
			logger.Info("season", wd.Summarize(*riverFlow).Args()...)
		}
	}
	logger.Info("done",
		"ticks", wd.Ticks(),
		"elapsed", time.Since(start).Round(time.Millisecond))
}
