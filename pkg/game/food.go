package game

import "github.com/trytobebee/snek/pkg/config"

// NoFood marks that no food is on the board, after the snake filled it
var NoFood = Point{X: -1, Y: -1}

// placeFood moves the food to a random free interior cell. It returns false
// when the snake covers the whole interior.
func (g *Game) placeFood() bool {
	pos, ok := PlaceFood(g.Body, g.interior, g.rng)
	if !ok {
		return false
	}
	g.Food = pos
	return true
}

// PlaceFood picks a cell of the interior not covered by body, uniformly at
// random. Rejection sampling is tried first; once it keeps missing, the free
// cells are enumerated and one is drawn from them.
func PlaceFood(body *Body, interior Bounds, rng Rand) (Point, bool) {
	cells := interior.Cells()
	if cells == 0 || body.Len() >= cells {
		return Point{}, false
	}

	w := interior.MaxX - interior.MinX + 1
	h := interior.MaxY - interior.MinY + 1
	for attempts := 0; attempts < config.FoodPlacementAttempts; attempts++ {
		pos := Point{
			X: interior.MinX + rng.Intn(w),
			Y: interior.MinY + rng.Intn(h),
		}
		if !body.Contains(pos, false) {
			return pos, true
		}
	}

	free := make([]Point, 0, cells-body.Len())
	for y := interior.MinY; y <= interior.MaxY; y++ {
		for x := interior.MinX; x <= interior.MaxX; x++ {
			pos := Point{X: x, Y: y}
			if !body.Contains(pos, false) {
				free = append(free, pos)
			}
		}
	}
	if len(free) == 0 {
		return Point{}, false
	}
	return free[rng.Intn(len(free))], true
}
