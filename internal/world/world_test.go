package world

import (
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"

	"khaos-map/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Mesh.TotalCells = 150
	cfg.Mesh.RelaxPasses = 1
	cfg.Season.TicksPerYear = 4
	return cfg
}

func mustGenerate(t *testing.T, cfg config.Config) *World {
	t.Helper()
	w, err := Generate(cfg, quietLogger())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return w
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Water.FlowTicksToAve = 0
	if _, err := Generate(cfg, quietLogger()); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDefaultConfigGeneratesForManySeeds(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size worlds")
	}
	for _, altitude := range []string{config.AltitudeRidges, config.AltitudeTectonic} {
		for seed := int64(0); seed < 5; seed++ {
			cfg := config.Default()
			cfg.Seed = seed
			cfg.Altitude = altitude
			w, err := Generate(cfg, quietLogger())
			if err != nil {
				t.Fatalf("%s seed %d: %v", altitude, seed, err)
			}
			if got := len(w.Mesh().Cells); got != cfg.Mesh.TotalCells {
				t.Fatalf("%s seed %d: %d cells, want %d", altitude, seed, got, cfg.Mesh.TotalCells)
			}
			w.Tick()
			for ci, temp := range w.Atmosphere().Temperature {
				if math.IsNaN(temp) {
					t.Fatalf("%s seed %d: cell %d temperature is NaN", altitude, seed, ci)
				}
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := mustGenerate(t, smallConfig())
	b := mustGenerate(t, smallConfig())
	if !slices.Equal(a.Terrain().VertexAltitude, b.Terrain().VertexAltitude) {
		t.Fatal("vertex altitudes differ for identical seeds")
	}
	if !slices.Equal(a.Terrain().CellAltitude, b.Terrain().CellAltitude) {
		t.Fatal("cell altitudes differ for identical seeds")
	}
	for i := 0; i < 3; i++ {
		a.Tick()
		b.Tick()
	}
	if !slices.Equal(a.Atmosphere().Temperature, b.Atmosphere().Temperature) {
		t.Fatal("temperature traces differ for identical seeds")
	}
	if !slices.Equal(a.Hydrology().Water, b.Hydrology().Water) {
		t.Fatal("water traces differ for identical seeds")
	}
}

func TestAltitudeStrategiesStayInBounds(t *testing.T) {
	for _, name := range []string{config.AltitudeRidges, config.AltitudeTectonic} {
		t.Run(name, func(t *testing.T) {
			cfg := smallConfig()
			cfg.Altitude = name
			cfg.Deform.Width, cfg.Deform.Height = 32, 32
			w := mustGenerate(t, cfg)
			for v, a := range w.Terrain().VertexAltitude {
				if a < 0 || a > 1 {
					t.Fatalf("vertex %d altitude %v outside [0,1]", v, a)
				}
			}
			before := slices.Clone(w.Terrain().VertexAltitude)
			w.Tick()
			if !slices.Equal(before, w.Terrain().VertexAltitude) {
				t.Fatal("altitude changed while the simulation ran")
			}
		})
	}
}

func TestStepCompletesTickAfterBothPasses(t *testing.T) {
	w := mustGenerate(t, smallConfig())
	steps := 0
	for !w.Step() {
		steps++
	}
	want := 2*len(w.Mesh().Cells) + len(w.Mesh().Vertices) - 1
	if steps != want {
		t.Fatalf("tick took %d incomplete steps, want %d", steps, want)
	}
	if w.Ticks() != 1 || w.Strategy().Ticks() != 1 || w.Hydrology().Ticks() != 1 {
		t.Fatalf("unexpected tick counters %d/%d/%d", w.Ticks(), w.Strategy().Ticks(), w.Hydrology().Ticks())
	}
	if w.Walk(0) {
		t.Fatal("zero budget must not complete a tick")
	}
}

func TestSeasonsAndBiomeInputs(t *testing.T) {
	cfg := smallConfig()
	w := mustGenerate(t, cfg)
	for i := 0; i < 3; i++ {
		w.Tick()
		if _, ok := w.BiomeInputs(0); ok {
			t.Fatalf("biome inputs available after %d ticks", i+1)
		}
	}
	if w.Season() != Winter {
		t.Fatalf("season %v after three ticks, want winter", w.Season())
	}
	w.Tick()

	for ci := range w.Mesh().Cells {
		if w.Atmosphere().RainfallThisYear[ci] != 0 {
			t.Fatalf("cell %d rainfall not reset at year end", ci)
		}
		in, ok := w.BiomeInputs(ci)
		if !ok {
			t.Fatal("biome inputs missing after a full year")
		}
		if in.PeakTemperature < in.LowTemperature {
			t.Fatalf("cell %d peak %v below low %v", ci, in.PeakTemperature, in.LowTemperature)
		}
		if in.PeakFlowRate < in.LowFlowRate {
			t.Fatalf("cell %d flow peak %v below low %v", ci, in.PeakFlowRate, in.LowFlowRate)
		}
		if in.AnnualRainfall != w.Atmosphere().RainfallLastYear[ci] {
			t.Fatalf("cell %d annual rainfall %v, last year %v", ci, in.AnnualRainfall, w.Atmosphere().RainfallLastYear[ci])
		}
	}
}

func TestSeasonEnding(t *testing.T) {
	tests := []struct {
		tick int
		want Season
		ok   bool
	}{
		{30, Spring, true},
		{60, Summer, true},
		{90, Autumn, true},
		{0, Winter, true},
		{45, 0, false},
		{119, 0, false},
	}
	for _, tt := range tests {
		got, ok := seasonEnding(tt.tick, 120)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("seasonEnding(%d) = %v, %v; want %v, %v", tt.tick, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLatitudeShiftFollowsSeason(t *testing.T) {
	cfg := smallConfig()
	w := mustGenerate(t, cfg)
	w.Tick()
	if got := w.Atmosphere().LatitudeShift; math.Abs(got-cfg.Season.Incline) > 1e-12 {
		t.Fatalf("shift after a quarter year %v, want %v", got, cfg.Season.Incline)
	}
}

func TestDirectStrategyWorld(t *testing.T) {
	cfg := smallConfig()
	cfg.Atmosphere.Strategy = config.StrategyDirect
	cfg.Atmosphere.Presim = 2
	w := mustGenerate(t, cfg)
	if w.Strategy().Name() != config.StrategyDirect {
		t.Fatalf("strategy %q", w.Strategy().Name())
	}
	if w.Strategy().Ticks() != 2 {
		t.Fatalf("presim ran %d ticks, want 2", w.Strategy().Ticks())
	}
	w.Tick()
	for ci, h := range w.Atmosphere().Humidity {
		if h < 0 || h > 1 {
			t.Fatalf("cell %d humidity %v", ci, h)
		}
	}
}

func TestParametersUseConfigKeys(t *testing.T) {
	w := mustGenerate(t, smallConfig())
	cfg := w.Config()
	keys := cfg.Keys()
	for _, g := range w.Parameters().Groups {
		for _, p := range g.Params {
			if !slices.Contains(keys, p.Key) {
				t.Fatalf("parameter %q is not an override key", p.Key)
			}
		}
	}
	p, ok := w.Parameters().Lookup("seed")
	if !ok || p.Value != "42" {
		t.Fatalf("seed parameter %+v, %v", p, ok)
	}
}

func TestDescribeAndCellAt(t *testing.T) {
	w := mustGenerate(t, smallConfig())
	pos := w.Mesh().Cells[7].Pos
	if got := w.CellAt(pos); got != 7 {
		t.Fatalf("CellAt(%v) = %d, want 7", pos, got)
	}
	text := w.Describe(7)
	if !strings.HasPrefix(text, "Cell 7 at") || !strings.Contains(text, "Watertable") {
		t.Fatalf("unexpected readout:\n%s", text)
	}
	if w.Describe(-1) != "" {
		t.Fatal("out of range cell should describe as empty")
	}
}

func TestSummarize(t *testing.T) {
	cfg := smallConfig()
	w := mustGenerate(t, cfg)
	w.Tick()
	s := w.Summarize(1)
	if s.Tick != 1 {
		t.Fatalf("summary tick %d", s.Tick)
	}
	if s.LandFraction < 0 || s.LandFraction > 1 {
		t.Fatalf("land fraction %v", s.LandFraction)
	}
	if s.MaxWind < s.MeanWind || s.MaxWind > cfg.LogCommit.HardCap+1e-9 {
		t.Fatalf("wind mean %v max %v", s.MeanWind, s.MaxWind)
	}
	if math.Abs(s.TotalWater-w.Hydrology().TotalWater()) > 1e-9 {
		t.Fatalf("water %v, hydrology reports %v", s.TotalWater, w.Hydrology().TotalWater())
	}
	if args := s.Args(); len(args)%2 != 0 {
		t.Fatalf("odd number of log args: %d", len(args))
	}
}
