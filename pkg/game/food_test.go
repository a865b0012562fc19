package game

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestPlaceFoodAvoidsBody(t *testing.T) {
	interior := InteriorOf(12, 10)
	body := NewBody(Point{X: 5, Y: 5}, Point{X: 5, Y: 6}, Point{X: 5, Y: 7})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		p, ok := PlaceFood(body, interior, rng)
		if !ok {
			t.Fatal("PlaceFood should find a cell on a mostly empty board")
		}
		if !interior.Contains(p) {
			t.Fatalf("Food %v outside interior %+v", p, interior)
		}
		if body.Contains(p, false) {
			t.Fatalf("Food %v placed on the snake", p)
		}
	}
}

func TestPlaceFoodLastFreeCell(t *testing.T) {
	// 3x3 interior with 8 cells covered: only (3,4) is left
	interior := InteriorOf(5, 6)
	var cells []Point
	for y := interior.MinY; y <= interior.MaxY; y++ {
		for x := interior.MinX; x <= interior.MaxX; x++ {
			if (Point{X: x, Y: y}) != (Point{X: 3, Y: 4}) {
				cells = append(cells, Point{X: x, Y: y})
			}
		}
	}
	body := NewBody(cells...)

	p, ok := PlaceFood(body, interior, rand.New(rand.NewSource(11)))
	if !ok || p != (Point{X: 3, Y: 4}) {
		t.Errorf("Expected the last free cell (3,4), got %v (ok=%v)", p, ok)
	}
}

func TestPlaceFoodFullBoard(t *testing.T) {
	interior := InteriorOf(4, 5) // 2x2
	body := NewBody(Point{X: 1, Y: 2}, Point{X: 2, Y: 2}, Point{X: 2, Y: 3}, Point{X: 1, Y: 3})
	if _, ok := PlaceFood(body, interior, rand.New(rand.NewSource(1))); ok {
		t.Error("PlaceFood should fail when the snake covers the interior")
	}
}

// alwaysZero makes every rejection sample land on the interior origin
type alwaysZero struct{ calls int }

func (r *alwaysZero) Intn(n int) int {
	r.calls++
	return 0
}

func TestPlaceFoodFallsBackToScan(t *testing.T) {
	interior := InteriorOf(6, 6)
	body := NewBody(Point{X: interior.MinX, Y: interior.MinY})
	rng := &alwaysZero{}

	p, ok := PlaceFood(body, interior, rng)
	if !ok {
		t.Fatal("PlaceFood should fall back to the free cell scan")
	}
	if body.Contains(p, false) {
		t.Errorf("Fallback picked an occupied cell %v", p)
	}
	if rng.calls <= 2*100 {
		t.Errorf("Expected the rejection attempts to run out first, got %d draws", rng.calls)
	}
}

func TestPlaceFoodIsUniform(t *testing.T) {
	interior := InteriorOf(4, 5) // cells (1,2) (2,2) (1,3) (2,3)
	body := NewBody(Point{X: 1, Y: 2})
	rng := rand.New(rand.NewSource(99))

	counts := map[Point]int{}
	const draws = 3000
	for i := 0; i < draws; i++ {
		p, _ := PlaceFood(body, interior, rng)
		counts[p]++
	}

	if len(counts) != 3 {
		t.Fatalf("Expected 3 distinct free cells, got %v", counts)
	}
	for p, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("Cell %v drawn %d times out of %d, expected about 1000", p, n, draws)
		}
	}
}
