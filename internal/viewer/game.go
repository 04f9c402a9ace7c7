// Package viewer renders a flock with ebiten and forwards user input to the world actor.
package viewer

import (
	"cmp"
	"context"
	"fmt"
	"image/color"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/internal/actors"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"go.uber.org/zap"
)

const (
	ScreenWidth  = 1200
	ScreenHeight = 800
	panelWidth   = 260
	predatorSize = boidSize * 3
)

var (
	whiteImage = ebiten.NewImage(3, 3)

	backgroundColor = color.RGBA{R: 13, G: 13, B: 38, A: 255}
	boundsColor     = color.RGBA{R: 90, G: 90, B: 120, A: 255}
	obstacleColor   = color.RGBA{R: 110, G: 80, B: 70, A: 255}
	goalColor       = color.RGBA{R: 255, G: 217, B: 0, A: 255}
	predatorColor   = color.RGBA{R: 230, G: 25, B: 25, A: 255}
)

// behaviorKeys maps the number keys to the behavior they toggle.
var behaviorKeys = []struct {
	key      ebiten.Key
	behavior simulation.Behavior
}{
	{ebiten.Key1, simulation.Separation},
	{ebiten.Key2, simulation.Alignment},
	{ebiten.Key3, simulation.Cohesion},
	{ebiten.Key4, simulation.ObstacleAvoidance},
	{ebiten.Key5, simulation.PredatorEvasion},
	{ebiten.Key6, simulation.GoalSeeking},
}

type Game struct {
	ctx        context.Context
	worldPID   *actor.PID
	snapshotCh <-chan *simulation.Snapshot
	lastState  *simulation.Snapshot
	logger     *zap.Logger

	camera Camera
	frames uint64
	goal   marker

	panel         *ui.UIPanel
	widgetEnabled map[simulation.Behavior]*ui.Checkbox
	widgetWeight  map[simulation.Behavior]*ui.Slider
	widgetTrails  *ui.Checkbox
	widgetBanking *ui.Checkbox

	// Timing instrumentation
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	updateAvg          float64 // Rolling average in ms
	drawAvg            float64 // Rolling average in ms
}

// NewGame builds the viewer of the world hosted by worldPID.
// snapshotCh is the channel the WorldActor pushes its snapshots to.
func NewGame(ctx context.Context, cfg *simulation.Config, worldPID *actor.PID, snapshotCh <-chan *simulation.Snapshot, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		ctx:           ctx,
		worldPID:      worldPID,
		snapshotCh:    snapshotCh,
		lastState:     &simulation.Snapshot{HalfExtent: cfg.WorldHalfExtent},
		logger:        logger,
		camera:        NewCamera(ScreenWidth, ScreenHeight),
		widgetEnabled: make(map[simulation.Behavior]*ui.Checkbox),
		widgetWeight:  make(map[simulation.Behavior]*ui.Slider),
	}

	panel := ui.NewUIPanel(10, 10, panelWidth, ScreenHeight-20)
	panel.Title = "Flock"

	panel.AddSection("Behaviors")
	for _, b := range simulation.Behaviors {
		if b == simulation.BoundaryContainment {
			continue
		}
		cb := panel.AddCheckbox(behaviorLabel(b), cfg.Enabled.Of(b))
		cb.OnChange = func(v bool) {
			g.send(simulation.Command{Op: simulation.OpSetEnabled, Behavior: b, Enabled: v})
		}
		g.widgetEnabled[b] = cb
	}
	panel.EndSection()

	panel.AddSection("Weights")
	for _, b := range simulation.Behaviors {
		s := panel.AddSlider(behaviorLabel(b), 0, 5, cfg.Weights.Of(b))
		s.OnChange = func(v float64) {
			g.send(simulation.Command{Op: simulation.OpSetWeight, Behavior: b, Weight: v})
		}
		g.widgetWeight[b] = s
	}
	panel.EndSection()

	panel.AddSection("Display")
	g.widgetTrails = panel.AddCheckbox("Trails", cfg.ShowTrails)
	g.widgetTrails.OnChange = func(v bool) {
		g.send(simulation.Command{Op: simulation.OpShowTrails, Enabled: v})
	}
	g.widgetBanking = panel.AddCheckbox("Banking", cfg.ShowBanking)
	g.widgetBanking.OnChange = func(v bool) {
		g.send(simulation.Command{Op: simulation.OpShowBanking, Enabled: v})
	}
	panel.EndSection()

	panel.AddSection("Actions")
	panel.AddButton("Pause / Resume", func() { g.send(simulation.Command{Op: simulation.OpTogglePause}) })
	panel.AddButton(fmt.Sprintf("Add %d boids", cfg.GrowthBatch), func() { g.send(simulation.Command{Op: simulation.OpAddBoids}) })
	panel.AddButton("Move goal", func() { g.send(simulation.Command{Op: simulation.OpRelocateGoal}) })
	panel.AddButton("Reset", func() { g.send(simulation.Command{Op: simulation.OpReset}) })
	panel.EndSection()

	g.panel = panel
	return g
}

func behaviorLabel(b simulation.Behavior) string {
	switch b {
	case simulation.ObstacleAvoidance:
		return "Obstacle avoidance"
	case simulation.PredatorEvasion:
		return "Predator evasion"
	case simulation.GoalSeeking:
		return "Goal seeking"
	case simulation.BoundaryContainment:
		return "Boundary"
	}
	s := string(b)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (g *Game) send(cmd simulation.Command) {
	if err := actors.Send(g.ctx, g.worldPID, cmd); err != nil {
		g.logger.Warn("command not sent", zap.String("op", string(cmd.Op)), zap.Error(err))
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDuration = time.Since(start)
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDuration.Microseconds())/1000.0*0.05
	}()
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleKeys()
	g.panel.Update()

	// keep only the most recent snapshot
	for drained := false; !drained; {
		select {
		case snap := <-g.snapshotCh:
			g.lastState = snap
			g.syncWidgets()
		default:
			drained = true
		}
	}
	g.goal.follow(g.lastState.Goal, g.lastState.RunID)

	if err := actors.Tick(g.ctx, g.worldPID, time.Second/time.Duration(ebiten.TPS())); err != nil {
		g.logger.Warn("tick not sent", zap.Error(err))
	}
	return nil
}

func (g *Game) handleKeys() {
	state := g.lastState
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.send(simulation.Command{Op: simulation.OpTogglePause})
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.send(simulation.Command{Op: simulation.OpReset})
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.send(simulation.Command{Op: simulation.OpShowTrails, Enabled: !state.ShowTrails})
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.send(simulation.Command{Op: simulation.OpShowBanking, Enabled: !state.ShowBanking})
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.send(simulation.Command{Op: simulation.OpAddBoids})
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.send(simulation.Command{Op: simulation.OpRelocateGoal})
	}
	for _, bk := range behaviorKeys {
		if inpututil.IsKeyJustPressed(bk.key) {
			g.send(simulation.Command{
				Op:       simulation.OpSetEnabled,
				Behavior: bk.behavior,
				Enabled:  !state.Setting(bk.behavior).Enabled,
			})
		}
	}

	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		g.camera.Orbit(1, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		g.camera.Orbit(-1, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		g.camera.Orbit(0, -1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		g.camera.Orbit(0, 1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyKPAdd) {
		g.camera.Zoom(-2)
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyKPSubtract) {
		g.camera.Zoom(2)
	}
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && !g.panel.Contains(mx, my) {
		g.camera.Zoom(-dy * 5)
	}
}

// syncWidgets mirrors the world settings, which keyboard shortcuts and remote viewers also change.
func (g *Game) syncWidgets() {
	dragging := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	for _, bs := range g.lastState.Behaviors {
		if cb, ok := g.widgetEnabled[bs.Behavior]; ok {
			cb.Value = bs.Enabled
		}
		if s, ok := g.widgetWeight[bs.Behavior]; ok && !dragging {
			s.SetValue(bs.Weight)
		}
	}
	g.widgetTrails.Value = g.lastState.ShowTrails
	g.widgetBanking.Value = g.lastState.ShowBanking
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDuration = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDuration.Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)
	v := g.camera.view()
	s := g.lastState

	for _, e := range cubeEdges(s.HalfExtent) {
		drawLine(screen, v, e[0], e[1], boundsColor)
	}

	if s.ShowTrails {
		for _, b := range s.Boids {
			drawTrail(screen, v, b.Trail, b.Color)
		}
		if s.Predator.Enabled {
			drawTrail(screen, v, s.Predator.Trail, simulation.Color{R: 0.9, G: 0.1, B: 0.1})
		}
	}

	if s.Setting(simulation.ObstacleAvoidance).Enabled {
		obstacles := slices.Clone(s.Obstacles)
		slices.SortFunc(obstacles, func(a, b behavior.Obstacle) int {
			return cmp.Compare(b.Position.DistanceTo(v.eye), a.Position.DistanceTo(v.eye))
		})
		for _, o := range obstacles {
			drawSphere(screen, v, o.Position, o.Radius, obstacleColor)
		}
	}
	if s.Setting(simulation.GoalSeeking).Enabled {
		pulse := 0.5 + 0.5*math.Sin(float64(g.frames)/float64(ebiten.TPS())*5)
		drawSphere(screen, v, g.goal.pos, 2+pulse, goalColor)
	}
	if s.Predator.Enabled {
		drawSphere(screen, v, s.Predator.Position, predatorSize, predatorColor)
	}

	g.drawBoids(screen, v)
	g.panel.Draw(screen)
	g.drawStatus(screen)
}

// drawBoids draws the flock far to near as one batch of triangles.
func (g *Game) drawBoids(screen *ebiten.Image, v view) {
	boids := g.lastState.Boids
	order := make([]int, len(boids))
	depth := make([]float64, len(boids))
	for i, b := range boids {
		order[i] = i
		depth[i] = b.Position.Sub(v.eye).Dot(v.forward)
	}
	slices.SortFunc(order, func(a, b int) int { return cmp.Compare(depth[b], depth[a]) })

	vertices := make([]ebiten.Vertex, 0, len(boids)*3)
	indices := make([]uint16, 0, len(boids)*3)
	for _, i := range order {
		b := boids[i]
		shape := boidShape(b.Position, b.Velocity, b.BankAngle, g.lastState.ShowBanking)
		var tri [3]ebiten.Vertex
		visible := true
		for k, p := range shape {
			x, y, _, ok := v.project(p)
			if !ok {
				visible = false
				break
			}
			tri[k] = ebiten.Vertex{
				DstX: float32(x), DstY: float32(y),
				SrcX: 1, SrcY: 1,
				ColorR: float32(b.Color.R), ColorG: float32(b.Color.G), ColorB: float32(b.Color.B), ColorA: 1,
			}
		}
		// uint16 indices limit one batch to 65535 vertices
		if !visible || len(vertices)+3 > math.MaxUint16 {
			continue
		}
		base := uint16(len(vertices))
		vertices = append(vertices, tri[:]...)
		indices = append(indices, base, base+1, base+2)
	}
	screen.DrawTriangles(vertices, indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}

func drawLine(screen *ebiten.Image, v view, a, b geometry.Vector3D, clr color.Color) {
	x0, y0, _, ok0 := v.project(a)
	x1, y1, _, ok1 := v.project(b)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
}

func drawTrail(screen *ebiten.Image, v view, trail []geometry.Vector3D, c simulation.Color) {
	for i := 0; i+1 < len(trail); i++ {
		alpha := trailAlpha(i, len(trail))
		clr := color.NRGBA{
			R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255),
			A: uint8(alpha * 255),
		}
		drawLine(screen, v, trail[i], trail[i+1], clr)
	}
}

func drawSphere(screen *ebiten.Image, v view, center geometry.Vector3D, radius float64, clr color.RGBA) {
	x, y, depth, ok := v.project(center)
	if !ok {
		return
	}
	r := float32(radius * v.scale(depth))
	vector.FillCircle(screen, float32(x), float32(y), r, clr, true)
	vector.StrokeCircle(screen, float32(x), float32(y), r, 1, color.RGBA{R: 200, G: 200, B: 200, A: 120}, true)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	s := g.lastState
	state := "running"
	if s.Paused {
		state = "PAUSED"
	}
	msg := fmt.Sprintf("Boids: %d\nTick:  %d\n%s\n\nFPS: %.2f\nTPS: %.2f\nUpdate: %.2fms\nDraw:   %.2fms",
		len(s.Boids), s.Tick, state,
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		g.updateAvg, g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, ScreenWidth-150, 10)
	ebitenutil.DebugPrintAt(screen,
		"P pause  R reset  T trails  B banking  SPACE add  1-6 behaviors  G goal  arrows/+- camera  ESC quit",
		panelWidth+30, ScreenHeight-20)
}

func (g *Game) Layout(w, h int) (int, int) { return ScreenWidth, ScreenHeight }

func init() {
	whiteImage.Fill(color.White)
}
