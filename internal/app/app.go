//go:build ebiten

package app

import (
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"khaos-map/internal/config"
	"khaos-map/internal/mesh"
	"khaos-map/internal/render"
	"khaos-map/internal/ui"
	"khaos-map/internal/world"
)

// PanelWidth is the width of the HUD to the right of the map.
const PanelWidth = 300

// Game adapts a world to the ebiten.Game interface.
type Game struct {
	world   *world.World
	mapCfg  config.Config
	logger  *slog.Logger
	painter *render.MapPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	colors  []color.RGBA
	layer   render.Layer

	size     int
	scale    int
	budget   time.Duration
	paused   bool
	tickOnce bool
}

// New constructs a Game for the provided world.
func New(wd *world.World, opts *Config, logger *slog.Logger) *Game {
	g := &Game{
		world:   wd,
		mapCfg:  wd.Config(),
		logger:  logger,
		overlay: ui.NewOverlay(wd, opts.Size, opts.Size, opts.Scale),
		hud:     ui.NewHUD(wd, PanelWidth, opts.Size*opts.Scale),
		size:    opts.Size,
		scale:   opts.Scale,
		budget:  opts.Budget,
	}
	g.rebuildPainter()
	return g
}

func (g *Game) rebuildPainter() {
	index := render.CellIndex(mesh.NewLocator(g.world.Mesh()), g.size, g.size)
	g.painter = render.NewMapPainter(index, g.size, g.size)
}

// Reset regenerates the world with the provided seed. The current world is
// kept when generation fails.
func (g *Game) Reset(seed int64) {
	cfg := g.mapCfg
	cfg.Seed = seed
	wd, err := world.Generate(cfg, g.logger)
	if err != nil {
		g.logger.Error("regenerate world", "seed", seed, "err", err)
		return
	}
	g.world = wd
	g.mapCfg = cfg
	g.overlay.SetWorld(wd)
	g.hud.SetWorld(wd)
	g.rebuildPainter()
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.mapCfg.Seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.layer = g.layer.Next()
		g.logger.Debug("layer", "name", g.layer.String())
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pickFocus()
	}

	g.overlay.Update()

	if !g.paused {
		g.world.Walk(g.budget)
	} else if g.tickOnce {
		g.world.Tick()
		g.tickOnce = false
	}
	g.hud.Update()
	return nil
}

func (g *Game) pickFocus() {
	mx, my := ebiten.CursorPosition()
	extent := g.size * g.scale
	if mx < 0 || my < 0 || mx >= extent || my >= extent {
		return
	}
	ci := g.world.CellAt(render.ToWorld(mx/g.scale, my/g.scale, g.size, g.size))
	g.overlay.SetFocus(ci)
	g.hud.SetFocus(ci)
}

// Draw renders the current world state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.colors = render.CellColors(g.world, g.layer, g.colors)
	g.painter.Blit(screen, g.colors, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.size*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size*g.scale + PanelWidth, g.size * g.scale
}
