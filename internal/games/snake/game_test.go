package snake

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/snakeboard/internal/core"
)

// fixedRand returns the queued values in order (modulo n) and records each n.
type fixedRand struct {
	vals  []int
	calls []int
}

func (r *fixedRand) Intn(n int) int {
	r.calls = append(r.calls, n)
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[0]
	r.vals = r.vals[1:]
	return v % n
}

// serpentine returns every board cell in a single orthogonally connected path.
func serpentine() []Position {
	path := make([]Position, 0, GridSize*GridSize)
	for y := 0; y < GridSize; y++ {
		for i := 0; i < GridSize; i++ {
			x := i
			if y%2 == 1 {
				x = GridSize - 1 - i
			}
			path = append(path, Position{X: x, Y: y})
		}
	}
	return path
}

func TestNewState(t *testing.T) {
	s := NewState(rand.New(rand.NewSource(1)))

	expected := []Position{{X: 8, Y: 10}, {X: 7, Y: 10}, {X: 6, Y: 10}}
	if !reflect.DeepEqual(s.Snake, expected) {
		t.Errorf("Initial snake = %v, expected %v", s.Snake, expected)
	}
	if s.Direction != Right || s.PendingDirection != Right {
		t.Errorf("Expected initial direction right, got %v / %v", s.Direction, s.PendingDirection)
	}
	if !s.Alive || s.Paused || s.Score != 0 {
		t.Errorf("Unexpected initial flags: alive=%v paused=%v score=%d", s.Alive, s.Paused, s.Score)
	}
	if !s.HasFood {
		t.Fatal("Initial state should have food")
	}
	if s.Occupies(s.Food) {
		t.Errorf("Food placed on snake at %v", s.Food)
	}
}

func TestDeterminism(t *testing.T) {
	g1 := New(12345)
	g2 := New(12345)

	turns := map[int]Direction{5: Down, 9: Left, 14: Up, 20: Right}
	for i := 0; i < 60; i++ {
		if d, ok := turns[i]; ok {
			g1.Turn(d)
			g2.Turn(d)
		}
		g1.Tick()
		g2.Tick()
	}

	if !reflect.DeepEqual(g1.State(), g2.State()) {
		t.Errorf("Same seed and inputs diverged:\n%+v\n%+v", g1.State(), g2.State())
	}
}

func TestNoImmediateReversal(t *testing.T) {
	s := NewState(&fixedRand{})

	s = SetDirection(s, Left)
	if s.PendingDirection != Right {
		t.Errorf("Should not allow reversal from right to left, pending = %v", s.PendingDirection)
	}

	s = SetDirection(s, None)
	if s.PendingDirection != Right {
		t.Errorf("Absent direction should be ignored, pending = %v", s.PendingDirection)
	}

	s = SetDirection(s, Direction{DX: 2, DY: 0})
	if s.PendingDirection != Right {
		t.Errorf("Non-unit direction should be ignored, pending = %v", s.PendingDirection)
	}

	s = SetDirection(s, Down)
	if s.PendingDirection != Down {
		t.Errorf("Expected pending direction down, got %v", s.PendingDirection)
	}

	// Opposite is judged against the applied direction, not the pending one.
	s = SetDirection(s, Up)
	if s.PendingDirection != Up {
		t.Errorf("Up is a 90 degree turn from right, expected pending up, got %v", s.PendingDirection)
	}
}

func TestStepNoOpWhenPausedOrDead(t *testing.T) {
	base := NewState(rand.New(rand.NewSource(7)))

	paused := TogglePause(base)
	if got := Step(paused, &fixedRand{}); !reflect.DeepEqual(got, paused) {
		t.Errorf("Paused step changed state:\n%+v\n%+v", got, paused)
	}

	dead := base
	dead.Alive = false
	if got := Step(dead, &fixedRand{}); !reflect.DeepEqual(got, dead) {
		t.Errorf("Dead step changed state:\n%+v\n%+v", got, dead)
	}

	// Input still applies while paused.
	paused = SetDirection(paused, Up)
	if paused.PendingDirection != Up {
		t.Error("Direction changes should apply while paused")
	}
	if TogglePause(paused).Paused {
		t.Error("Pause toggle should apply while paused")
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	s := State{
		Snake:            []Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}},
		Direction:        Right,
		PendingDirection: Right,
		Food:             Position{X: 6, Y: 5},
		HasFood:          true,
		Alive:            true,
	}
	before := append([]Position(nil), s.Snake...)

	Step(s, &fixedRand{})

	if !reflect.DeepEqual(s.Snake, before) {
		t.Errorf("Step mutated input snake: %v, expected %v", s.Snake, before)
	}
}

func TestWallCollisionAtTopLeft(t *testing.T) {
	s := State{
		Snake:            []Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		Direction:        Left,
		PendingDirection: Up,
		Food:             Position{X: 10, Y: 10},
		HasFood:          true,
		Score:            3,
		Alive:            true,
	}

	next := Step(s, &fixedRand{})

	if next.Alive {
		t.Fatal("Game should be over after leaving the board")
	}
	if !reflect.DeepEqual(next.Snake, s.Snake) {
		t.Errorf("Snake should be unchanged, got %v", next.Snake)
	}
	if next.Food != s.Food || next.Score != s.Score {
		t.Errorf("Food/score should be unchanged, got %v / %d", next.Food, next.Score)
	}
	if next.Direction != Up {
		t.Errorf("Direction should be the applied direction, got %v", next.Direction)
	}
}

func TestWallCollisionEachEdge(t *testing.T) {
	tests := []struct {
		name string
		head Position
		tail Position
		dir  Direction
	}{
		{"left edge", Position{X: 0, Y: 5}, Position{X: 1, Y: 5}, Left},
		{"right edge", Position{X: GridSize - 1, Y: 5}, Position{X: GridSize - 2, Y: 5}, Right},
		{"top edge", Position{X: 5, Y: 0}, Position{X: 5, Y: 1}, Up},
		{"bottom edge", Position{X: 5, Y: GridSize - 1}, Position{X: 5, Y: GridSize - 2}, Down},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := State{
				Snake:            []Position{tc.head, tc.tail},
				Direction:        tc.dir,
				PendingDirection: tc.dir,
				Alive:            true,
			}
			if Step(s, &fixedRand{}).Alive {
				t.Errorf("Moving %v from %v should end the game", tc.dir, tc.head)
			}
		})
	}
}

func TestMovingPreservesLengthAndScore(t *testing.T) {
	s := NewState(rand.New(rand.NewSource(3)))
	s.Food = Position{X: 0, Y: 0}

	next := Step(s, &fixedRand{})

	if len(next.Snake) != len(s.Snake) {
		t.Errorf("Length changed without eating: %d vs %d", len(next.Snake), len(s.Snake))
	}
	if next.Score != s.Score {
		t.Errorf("Score changed without eating: %d", next.Score)
	}
	expected := []Position{{X: 9, Y: 10}, {X: 8, Y: 10}, {X: 7, Y: 10}}
	if !reflect.DeepEqual(next.Snake, expected) {
		t.Errorf("Snake after move = %v, expected %v", next.Snake, expected)
	}
	if next.Food != s.Food {
		t.Errorf("Food should stay in place, got %v", next.Food)
	}
}

func TestEatingGrowsAndScores(t *testing.T) {
	s := NewState(rand.New(rand.NewSource(4)))
	s.Food = Position{X: 9, Y: 10}
	s.HasFood = true

	rng := &fixedRand{vals: []int{0}}
	next := Step(s, rng)

	if len(next.Snake) != len(s.Snake)+1 {
		t.Errorf("Snake should grow by 1 after eating, got %d vs %d", len(next.Snake), len(s.Snake)+1)
	}
	if next.Score != s.Score+1 {
		t.Errorf("Score should increase by 1, got %d", next.Score)
	}
	if next.Head() != (Position{X: 9, Y: 10}) {
		t.Errorf("Head should be on the eaten food, got %v", next.Head())
	}
	if len(rng.calls) != 1 || rng.calls[0] != GridSize*GridSize-len(next.Snake) {
		t.Errorf("New food should be drawn over the free cells of the grown snake, calls = %v", rng.calls)
	}
	if !next.HasFood || next.Occupies(next.Food) {
		t.Errorf("New food %v should be on a free cell", next.Food)
	}
}

func TestTailCellIsVacatedWhenNotEating(t *testing.T) {
	// A 2x2 loop whose head moves into the tail's cell.
	s := State{
		Snake:            []Position{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}},
		Direction:        Up,
		PendingDirection: Right,
		Food:             Position{X: 0, Y: 0},
		HasFood:          true,
		Alive:            true,
	}

	next := Step(s, &fixedRand{})
	if !next.Alive {
		t.Fatal("Moving into the cell the tail vacates should be legal")
	}
	expected := []Position{{X: 6, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}}
	if !reflect.DeepEqual(next.Snake, expected) {
		t.Errorf("Snake = %v, expected %v", next.Snake, expected)
	}
}

func TestTailCellCollidesWhenEating(t *testing.T) {
	s := State{
		Snake:            []Position{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}},
		Direction:        Up,
		PendingDirection: Right,
		Food:             Position{X: 6, Y: 5},
		HasFood:          true,
		Alive:            true,
	}

	next := Step(s, &fixedRand{})
	if next.Alive {
		t.Fatal("Tail stays put while eating, so moving into it should be fatal")
	}
	if !reflect.DeepEqual(next.Snake, s.Snake) || next.Score != 0 {
		t.Errorf("Snake/score should be unchanged on collision, got %v / %d", next.Snake, next.Score)
	}
}

func TestSelfCollision(t *testing.T) {
	s := State{
		Snake: []Position{
			{X: 5, Y: 5}, // Head
			{X: 5, Y: 6},
			{X: 6, Y: 6},
			{X: 6, Y: 5},
			{X: 6, Y: 4},
		},
		Direction:        Up,
		PendingDirection: Right,
		Alive:            true,
	}

	// Moving right puts the head on (6, 5), which is not the tail.
	if Step(s, &fixedRand{}).Alive {
		t.Error("Game should be over after self collision")
	}
}

func TestPlaceFoodNeverOnSnake(t *testing.T) {
	snake := []Position{{X: 8, Y: 10}, {X: 7, Y: 10}, {X: 6, Y: 10}}
	for seed := int64(0); seed < 200; seed++ {
		p, ok := PlaceFood(snake, rand.New(rand.NewSource(seed)))
		if !ok {
			t.Fatal("PlaceFood reported a full board")
		}
		if occupies(snake, p) {
			t.Errorf("Food placed on snake at %v (seed %d)", p, seed)
		}
		if !p.InBounds() {
			t.Errorf("Food placed out of bounds at %v (seed %d)", p, seed)
		}
	}
}

func TestPlaceFoodUsesRowMajorFreeCells(t *testing.T) {
	snake := []Position{{X: 0, Y: 0}, {X: 1, Y: 0}}

	p, ok := PlaceFood(snake, &fixedRand{vals: []int{0}})
	if !ok || p != (Position{X: 2, Y: 0}) {
		t.Errorf("Index 0 should be the first free cell (2,0), got %v", p)
	}

	p, _ = PlaceFood(snake, &fixedRand{vals: []int{GridSize}})
	if p != (Position{X: 2, Y: 1}) {
		t.Errorf("Index %d should be (2,1), got %v", GridSize, p)
	}
}

func TestPlaceFoodFullBoard(t *testing.T) {
	path := serpentine()

	if _, ok := PlaceFood(path, &fixedRand{}); ok {
		t.Error("PlaceFood should report absent when the snake fills the board")
	}

	p, ok := PlaceFood(path[1:], &fixedRand{})
	if !ok || p != path[0] {
		t.Errorf("Only free cell is %v, got %v (ok=%v)", path[0], p, ok)
	}
}

func TestFoodAbsentOnceBoardFills(t *testing.T) {
	path := serpentine()
	s := State{
		Snake:            append([]Position(nil), path[1:]...),
		Direction:        Left,
		PendingDirection: Left,
		Food:             path[0],
		HasFood:          true,
		Score:            396,
		Alive:            true,
	}

	next := Step(s, &fixedRand{})

	if !next.Alive {
		t.Fatal("Eating the last free cell should not end the game")
	}
	if next.HasFood {
		t.Errorf("No free cell remains, food should be absent, got %v", next.Food)
	}
	if len(next.Snake) != GridSize*GridSize || next.Score != 397 {
		t.Errorf("Expected full-board snake and score 397, got %d / %d", len(next.Snake), next.Score)
	}
}

func TestRandomPlayInvariants(t *testing.T) {
	dirs := []Direction{Up, Down, Left, Right, None}
	for seed := int64(1); seed <= 20; seed++ {
		input := rand.New(rand.NewSource(seed * 31))
		g := New(seed)

		for i := 0; i < 2000 && g.State().Alive; i++ {
			prev := g.State()
			g.Turn(dirs[input.Intn(len(dirs))])
			if g.State().PendingDirection.Opposite(prev.Direction) {
				t.Fatalf("seed %d: pending %v is opposite of %v", seed, g.State().PendingDirection, prev.Direction)
			}

			s := g.Tick()
			if !s.Alive {
				break
			}
			checkSnake(t, s)
			if s.HasFood && s.Occupies(s.Food) {
				t.Fatalf("seed %d: food %v on snake", seed, s.Food)
			}
		}
	}
}

func checkSnake(t *testing.T, s State) {
	t.Helper()
	seen := make(map[Position]bool, len(s.Snake))
	for i, seg := range s.Snake {
		if seen[seg] {
			t.Fatalf("Snake self-intersects at %v: %v", seg, s.Snake)
		}
		seen[seg] = true
		if !seg.InBounds() {
			t.Fatalf("Segment %v out of bounds", seg)
		}
		if i > 0 {
			prev := s.Snake[i-1]
			dx, dy := seg.X-prev.X, seg.Y-prev.Y
			if dx*dx+dy*dy != 1 {
				t.Fatalf("Segments %v and %v are not adjacent", prev, seg)
			}
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, name := range []string{"up", "down", "left", "right"} {
		d, ok := ParseDirection(name)
		if !ok || d.String() != name {
			t.Errorf("ParseDirection(%q) = %v, %v", name, d, ok)
		}
	}
	if _, ok := ParseDirection("diagonal"); ok {
		t.Error("ParseDirection should reject unknown names")
	}
}

func TestGameApplyAndStatus(t *testing.T) {
	g := New(42)

	g.Apply(core.ActionPause)
	if !g.State().Paused || g.Status() != "Paused" {
		t.Errorf("Expected paused status, got %q", g.Status())
	}
	g.Tick()
	if g.Ticks() != 1 || g.State().Head() != (Position{X: 8, Y: 10}) {
		t.Error("Paused game should not move")
	}

	g.Apply(core.ActionPause)
	g.Apply(core.ActionDown)
	g.Tick()
	if g.State().Head() != (Position{X: 8, Y: 11}) {
		t.Errorf("Expected head at (8,11), got %v", g.State().Head())
	}

	for g.State().Alive {
		g.Tick()
	}
	if g.Status() != "Game Over" {
		t.Errorf("Expected game over status, got %q", g.Status())
	}

	before := g.State()
	g.Apply(core.ActionRestart)
	g.Apply(core.ActionSubmit)
	if after := g.State(); after.Paused != before.Paused || after.PendingDirection != before.PendingDirection {
		t.Error("Non-game actions should be ignored by Apply")
	}

	g.Reset(43)
	if !g.State().Alive || g.Ticks() != 0 || g.Seed() != 43 {
		t.Error("Reset should start a fresh game")
	}
}

func TestRender(t *testing.T) {
	g := New(444)
	screen := core.NewScreen(BoardWidth, BoardHeight)
	g.Render(screen)

	if screen.Get(0, 0) != '┌' || screen.Get(BoardWidth-1, BoardHeight-1) != '┘' {
		t.Error("Board should be framed")
	}
	if cell := screen.GetCell(9, 11); cell.Rune != 'O' || cell.Color != core.ColorBrightGreen {
		t.Errorf("Head should render at (9,11), got %+v", cell)
	}
	if screen.Get(8, 11) != 'o' || screen.Get(7, 11) != 'o' {
		t.Error("Body segments should render as 'o'")
	}
	food := g.State().Food
	if screen.Get(food.X+1, food.Y+1) != '*' {
		t.Error("Food should render as '*'")
	}

	g.TogglePause()
	g.Render(screen)
	if !strings.Contains(screen.String(), "Paused") {
		t.Error("Paused overlay should be drawn")
	}
	// " Paused " is centered on the middle row.
	if cell := screen.GetCell(8, BoardHeight/2); cell.Rune != 'P' || cell.Color != core.ColorYellow {
		t.Errorf("Overlay should start at (8,%d) in yellow, got %+v", BoardHeight/2, cell)
	}
}
