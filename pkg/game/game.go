package game

import (
	"errors"

	"github.com/golang/glog"
)

// ErrNoRoom is returned by New when the grid has no playable interior
var ErrNoRoom = errors.New("game: grid has no playable interior")

// Rand is the randomness food placement draws from
type Rand interface {
	Intn(n int) int
}

// Bounds is the playable interior, inclusive on both ends
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

// InteriorOf returns the interior of a width x height grid: one frame column
// on each side, the status row plus the top frame row, and the bottom frame row.
func InteriorOf(width, height int) Bounds {
	return Bounds{MinX: 1, MaxX: width - 2, MinY: 2, MaxY: height - 2}
}

// Contains reports whether p lies inside the bounds
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Cells returns the number of interior cells
func (b Bounds) Cells() int {
	if b.MaxX < b.MinX || b.MaxY < b.MinY {
		return 0
	}
	return (b.MaxX - b.MinX + 1) * (b.MaxY - b.MinY + 1)
}

// Game holds the state of one session
type Game struct {
	PlayerName string
	Score      int
	Highscore  int // read once when the session starts
	Direction  Direction
	Body       *Body
	Food       Point
	Width      int
	Height     int
	State      State
	CrashPoint Point // attempted head of the fatal step
	Steps      int

	interior Bounds
	rng      Rand
}

// New creates a session with a single segment at the grid centre and places
// the first food.
func New(width, height int, player string, highscore int, rng Rand) (*Game, error) {
	interior := InteriorOf(width, height)
	start := Point{X: width / 2, Y: height / 2}
	if interior.Cells() < 2 || !interior.Contains(start) {
		return nil, ErrNoRoom
	}
	g := &Game{
		PlayerName: player,
		Score:      1,
		Highscore:  highscore,
		Direction:  Up,
		Body:       NewBody(start),
		Width:      width,
		Height:     height,
		State:      Running,
		interior:   interior,
		rng:        rng,
	}
	if !g.placeFood() {
		return nil, ErrNoRoom
	}
	glog.V(1).Infof("New game for %q on %dx%d grid, head=%v food=%v", player, width, height, start, g.Food)
	return g, nil
}

// IsOutOfBounds reports whether p lies outside the playable interior
func (g *Game) IsOutOfBounds(p Point) bool {
	return !g.interior.Contains(p)
}

// IsOccupied reports whether p is a body segment, optionally ignoring the head
func (g *Game) IsOccupied(p Point, excludeHead bool) bool {
	return g.Body.Contains(p, excludeHead)
}

// IsGameOver reports whether moving the head to newHead ends the game. It is
// evaluated before the move, so the current tail still counts as occupied.
func (g *Game) IsGameOver(newHead Point) bool {
	return g.IsOutOfBounds(newHead) || g.IsOccupied(newHead, false)
}

// SetDirection changes the heading unless it would reverse the snake in place.
// Returns whether the direction changed.
func (g *Game) SetDirection(d Direction) bool {
	if d == g.Direction || d == g.Direction.Opposite() {
		return false
	}
	g.Direction = d
	return true
}

// NextHead returns where the head moves on the next step
func (g *Game) NextHead() Point {
	return g.Body.Head().Add(g.Direction.Delta())
}

// Step advances the game by one tick. Once the game is over it is a no-op
// that keeps reporting the collision.
func (g *Game) Step() Outcome {
	if g.State == Over {
		return OutcomeCollision
	}
	g.Steps++

	newHead := g.NextHead()
	if g.IsGameOver(newHead) {
		g.State = Over
		g.CrashPoint = newHead
		glog.V(1).Infof("Collision at %v after %d steps, score %d", newHead, g.Steps, g.Score)
		return OutcomeCollision
	}

	g.Body.PushHead(newHead)
	if newHead != g.Food {
		g.Body.PopTail()
		return OutcomeShift
	}

	g.Score++
	if !g.placeFood() {
		g.State = Over
		g.Food = NoFood
		glog.V(1).Infof("Board full after %d steps, score %d", g.Steps, g.Score)
		return OutcomeBoardFull
	}
	glog.V(2).Infof("Ate food at %v, score %d, next food %v", newHead, g.Score, g.Food)
	return OutcomeGrowth
}
