// Package snake implements the grid simulation for the Snake game.
//
// The simulation is a set of pure functions over State values: Step and
// SetDirection never mutate their input and return a fresh State. Randomness
// only enters through food placement, via an injected Rand.
package snake

import (
	"fmt"

	"github.com/vovakirdan/snakeboard/internal/core"
)

// GridSize is the width and height of the square board, in cells.
const GridSize = 20

// Position is a board cell. Valid positions satisfy 0 <= X, Y < GridSize.
type Position struct {
	X, Y int
}

// Add returns the position one step away in direction d.
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// InBounds reports whether p lies on the board.
func (p Position) InBounds() bool {
	return board.Contains(p.X, p.Y)
}

var board = core.NewRect(0, 0, GridSize, GridSize)

// Direction is a unit orthogonal movement vector. The zero value is None.
type Direction struct {
	DX, DY int
}

// Movement directions.
var (
	None  = Direction{}
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// Valid reports whether d is one of Up, Down, Left or Right.
func (d Direction) Valid() bool {
	return d == Up || d == Down || d == Left || d == Right
}

// Opposite reports whether d and o point in exactly opposite directions.
func (d Direction) Opposite(o Direction) bool {
	return d.DX+o.DX == 0 && d.DY+o.DY == 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case None:
		return "none"
	default:
		return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
	}
}

// ParseDirection maps "up", "down", "left" and "right" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return None, false
}

// State is a complete snapshot of one game.
type State struct {
	Snake            []Position // Head at index 0
	Direction        Direction  // Direction applied on the last step
	PendingDirection Direction  // Direction applied on the next step
	Food             Position   // Meaningful only when HasFood is true
	HasFood          bool       // False once the snake fills the board
	Score            int
	Alive            bool
	Paused           bool
}

// NewState returns a fresh game: a 3-segment snake heading right and an
// initial food placement drawn from rng.
func NewState(rng Rand) State {
	snake := []Position{
		{X: 8, Y: 10}, // Head
		{X: 7, Y: 10},
		{X: 6, Y: 10},
	}
	food, ok := PlaceFood(snake, rng)
	return State{
		Snake:            snake,
		Direction:        Right,
		PendingDirection: Right,
		Food:             food,
		HasFood:          ok,
		Alive:            true,
	}
}

// Head returns the snake's head position.
func (s State) Head() Position {
	return s.Snake[0]
}

// Occupies reports whether any snake segment is at p.
func (s State) Occupies(p Position) bool {
	return occupies(s.Snake, p)
}

func occupies(segments []Position, p Position) bool {
	for _, seg := range segments {
		if seg == p {
			return true
		}
	}
	return false
}

// SetDirection queues a direction change for the next step.
// Requests that are absent, invalid or exactly opposite to the current
// direction are ignored.
func SetDirection(s State, requested Direction) State {
	if !requested.Valid() || requested.Opposite(s.Direction) {
		return s
	}
	s.PendingDirection = requested
	return s
}

// TogglePause flips the paused flag. It applies in any state.
func TogglePause(s State) State {
	s.Paused = !s.Paused
	return s
}

// Step advances the game by one tick.
//
// Paused or finished games are returned unchanged. Otherwise the pending
// direction is applied; leaving the board or running into the body ends the
// game without moving the snake. The body checked for collisions excludes the
// tail unless the snake is eating, since the tail vacates its cell this tick.
func Step(s State, rng Rand) State {
	if !s.Alive || s.Paused {
		return s
	}

	direction := s.PendingDirection
	next := s.Head().Add(direction)
	ate := s.HasFood && next == s.Food

	if !next.InBounds() {
		s.Alive = false
		s.Direction = direction
		return s
	}

	body := s.Snake
	if !ate {
		body = s.Snake[:len(s.Snake)-1]
	}
	if occupies(body, next) {
		s.Alive = false
		s.Direction = direction
		return s
	}

	keep := len(s.Snake)
	if !ate {
		keep--
	}
	snake := make([]Position, 0, keep+1)
	snake = append(snake, next)
	snake = append(snake, s.Snake[:keep]...)

	s.Snake = snake
	s.Direction = direction
	if ate {
		s.Score++
		s.Food, s.HasFood = PlaceFood(snake, rng)
	}
	return s
}
