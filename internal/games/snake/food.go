package snake

// Rand is the random source used for food placement.
// *math/rand.Rand satisfies it; tests can supply a fixed sequence.
type Rand interface {
	Intn(n int) int
}

// PlaceFood picks a uniformly random free cell. It reports false when the
// snake covers the whole board.
func PlaceFood(snake []Position, rng Rand) (Position, bool) {
	occupied := make(map[Position]bool, len(snake))
	for _, seg := range snake {
		occupied[seg] = true
	}

	free := make([]Position, 0, max(0, GridSize*GridSize-len(occupied)))
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			p := Position{X: x, Y: y}
			if !occupied[p] {
				free = append(free, p)
			}
		}
	}

	if len(free) == 0 {
		return Position{}, false
	}
	return free[rng.Intn(len(free))], true
}
