package atmosphere

import (
	"fmt"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/mesh"
)

// Strategy is an atmosphere update crawler. One pass over every cell is one
// atmosphere tick.
type Strategy interface {
	core.Crawler
	Name() string
	// Tick finishes the current pass.
	Tick()
	// Ticks returns the number of completed passes.
	Ticks() int
}

// Env bundles the read-only inputs and the shared State a strategy updates.
type Env struct {
	Mesh    *mesh.Mesh
	Terrain *mesh.Terrain
	State   *State
	Config  config.Config
}

// Factory constructs a Strategy over env.
type Factory func(env Env) Strategy

var strategies = core.NewRegistry[Factory]()

// Register adds a strategy factory under the provided name.
func Register(name string, f Factory) {
	if f == nil {
		return
	}
	strategies.Register(name, f)
}

// Strategies lists the registered strategy names.
func Strategies() []string { return strategies.Names() }

// New constructs the strategy registered under name.
func New(name string, env Env) (Strategy, error) {
	f, ok := strategies.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("atmosphere: unknown strategy %q (have %v)", name, strategies.Names())
	}
	return f(env), nil
}

// tickAll finishes a pass for any crawler.
func tickAll(c core.Crawler) {
	for !c.Step() {
	}
}
