package game

import "iter"

const initialBodyCapacity = 16

// Body is the snake, head first. It is a ring buffer so that adding a head
// and dropping the tail never shift the other segments.
type Body struct {
	cells []Point
	head  int // slot of the head segment
	n     int
}

// NewBody creates a body holding the given segments, head first
func NewBody(segments ...Point) *Body {
	size := initialBodyCapacity
	for size < len(segments) {
		size *= 2
	}
	b := &Body{cells: make([]Point, size)}
	for i := len(segments) - 1; i >= 0; i-- {
		b.PushHead(segments[i])
	}
	return b
}

// Len returns the number of segments
func (b *Body) Len() int {
	return b.n
}

// slot maps a logical index (0 = head) to a slot in cells
func (b *Body) slot(i int) int {
	return (b.head + i) % len(b.cells)
}

// PushHead makes p the new head
func (b *Body) PushHead(p Point) {
	if b.n == len(b.cells) {
		b.grow()
	}
	b.head = (b.head - 1 + len(b.cells)) % len(b.cells)
	b.cells[b.head] = p
	b.n++
}

// PopTail removes and returns the last segment. ok is false on an empty body.
func (b *Body) PopTail() (p Point, ok bool) {
	if b.n == 0 {
		return Point{}, false
	}
	p = b.cells[b.slot(b.n-1)]
	b.n--
	return p, true
}

func (b *Body) grow() {
	size := len(b.cells) * 2
	if size == 0 {
		size = initialBodyCapacity
	}
	cells := make([]Point, size)
	for i := 0; i < b.n; i++ {
		cells[i] = b.cells[b.slot(i)]
	}
	b.cells = cells
	b.head = 0
}

// At returns the i-th segment counting from the head
func (b *Body) At(i int) Point {
	if i < 0 || i >= b.n {
		panic("game: body index out of range")
	}
	return b.cells[b.slot(i)]
}

// Head returns the leading segment
func (b *Body) Head() Point {
	return b.At(0)
}

// Tail returns the trailing segment
func (b *Body) Tail() Point {
	return b.At(b.n - 1)
}

// All yields the segments from head to tail. Each call starts a fresh walk.
func (b *Body) All() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for i := 0; i < b.n; i++ {
			if !yield(b.cells[b.slot(i)]) {
				return
			}
		}
	}
}

// Contains reports whether p is one of the segments. The head is skipped
// when excludeHead is set.
func (b *Body) Contains(p Point, excludeHead bool) bool {
	start := 0
	if excludeHead {
		start = 1
	}
	for i := start; i < b.n; i++ {
		if b.cells[b.slot(i)] == p {
			return true
		}
	}
	return false
}

// Points copies the segments into a new slice, head first
func (b *Body) Points() []Point {
	out := make([]Point, 0, b.n)
	for p := range b.All() {
		out = append(out, p)
	}
	return out
}
