package snake

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/snakeboard/internal/core"
)

// BoardWidth and BoardHeight are the rendered board dimensions, border included.
const (
	BoardWidth  = GridSize + 2
	BoardHeight = GridSize + 2
)

// Game owns a State and the seeded random source that drives it.
// It is the stateful handle used by the terminal platform; the rules live in
// Step and SetDirection.
type Game struct {
	state State
	rng   *rand.Rand
	seed  int64
	ticks uint64
}

// New creates a game seeded with seed.
func New(seed int64) *Game {
	g := &Game{}
	g.Reset(seed)
	return g
}

// Reset discards the current state and starts a fresh game.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
	g.ticks = 0
	g.state = NewState(g.rng)
}

// Seed returns the seed of the current game.
func (g *Game) Seed() int64 {
	return g.seed
}

// Ticks returns the number of steps taken since the last reset.
func (g *Game) Ticks() uint64 {
	return g.ticks
}

// State returns the current state.
func (g *Game) State() State {
	return g.state
}

// Tick advances the simulation by one step.
func (g *Game) Tick() State {
	g.ticks++
	g.state = Step(g.state, g.rng)
	return g.state
}

// Turn requests a direction change for the next tick.
func (g *Game) Turn(d Direction) {
	g.state = SetDirection(g.state, d)
}

// TogglePause pauses or resumes the game.
func (g *Game) TogglePause() {
	g.state = TogglePause(g.state)
}

var actionDirections = map[core.Action]Direction{
	core.ActionUp:    Up,
	core.ActionDown:  Down,
	core.ActionLeft:  Left,
	core.ActionRight: Right,
}

// Apply handles a direction or pause action. Other actions are ignored.
func (g *Game) Apply(a core.Action) {
	switch {
	case a.IsDirection():
		g.Turn(actionDirections[a])
	case a == core.ActionPause:
		g.TogglePause()
	}
}

// Status returns the status line text: "Game Over", "Paused" or empty.
func (g *Game) Status() string {
	switch {
	case !g.state.Alive:
		return "Game Over"
	case g.state.Paused:
		return "Paused"
	default:
		return ""
	}
}

// Render draws the bordered board into dst at its top-left corner.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawBox(core.NewRect(0, 0, BoardWidth, BoardHeight), core.ColorGray)

	if g.state.HasFood {
		dst.SetColor(g.state.Food.X+1, g.state.Food.Y+1, '*', core.ColorRed)
	}

	for i, seg := range g.state.Snake {
		if i == 0 {
			dst.SetColor(seg.X+1, seg.Y+1, 'O', core.ColorBrightGreen)
		} else {
			dst.SetColor(seg.X+1, seg.Y+1, 'o', core.ColorGreen)
		}
	}

	if status := g.Status(); status != "" {
		g.renderOverlay(dst, status)
	}
}

// renderOverlay draws a one-line banner across the middle of the board.
func (g *Game) renderOverlay(dst *core.Screen, text string) {
	dst.DrawTextCentered(BoardHeight/2, fmt.Sprintf(" %s ", text), core.ColorYellow)
}
