package app

import (
	"flag"
	"io"
	"testing"
	"time"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)
	err := fs.Parse([]string{"-size", "200", "-set", "seed=7", "-set", "sea_level=0.4", "-budget", "20ms", "-v"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Size != 200 || cfg.Budget != 20*time.Millisecond || !cfg.Verbose {
		t.Fatalf("unexpected config %+v", cfg)
	}
	m := cfg.Overrides.Map()
	if m["seed"] != "7" || m["sea_level"] != "0.4" {
		t.Fatalf("unexpected overrides %v", m)
	}
}

func TestSetRejectsMissingEquals(t *testing.T) {
	var kv KeyValues
	if err := kv.Set("seed"); err == nil {
		t.Fatal("expected error for override without '='")
	}
}

func TestMapConfigAppliesOverrides(t *testing.T) {
	cfg := NewConfig()
	cfg.Overrides = KeyValues{"seed=9", "strategy=direct"}
	mc, err := cfg.MapConfig()
	if err != nil {
		t.Fatalf("map config: %v", err)
	}
	if mc.Seed != 9 || mc.Atmosphere.Strategy != "direct" {
		t.Fatalf("overrides not applied: seed %d strategy %q", mc.Seed, mc.Atmosphere.Strategy)
	}

	cfg.Overrides = KeyValues{"strategy=bogus"}
	if _, err := cfg.MapConfig(); err == nil {
		t.Fatal("expected validation error for unknown strategy")
	}
}
