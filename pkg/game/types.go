package game

// Point represents a cell on the game grid
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the point moved by d
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Direction is the heading of the snake
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Delta returns the one-cell offset for the direction.
// Y grows downwards, matching terminal rows.
func (d Direction) Delta() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	case Right:
		return Point{X: 1, Y: 0}
	}
	return Point{}
}

// Opposite returns the reversed direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
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
	}
	return "unknown"
}

// State is the session state machine: Running until the first failed step
type State int

const (
	Running State = iota
	Over
)

func (s State) String() string {
	if s == Over {
		return "over"
	}
	return "running"
}

// Outcome describes what a single step did
type Outcome int

const (
	OutcomeShift     Outcome = iota // moved without growing
	OutcomeGrowth                   // ate the food
	OutcomeCollision                // hit the frame or itself
	OutcomeBoardFull                // ate the food but no free cell is left for the next one
)

func (o Outcome) String() string {
	switch o {
	case OutcomeShift:
		return "shift"
	case OutcomeGrowth:
		return "growth"
	case OutcomeCollision:
		return "collision"
	case OutcomeBoardFull:
		return "board_full"
	}
	return "unknown"
}

// KeyKind classifies a key read by the input loop
type KeyKind int

const (
	KeyNone      KeyKind = iota // poll timed out
	KeyDirection                // one of the steering keys
	KeyOther                    // anything else; does not advance the tick
	KeyInterrupt                // Ctrl-C while the terminal is in raw mode
)

// Key is a classified keypress. Dir is only meaningful for KeyDirection.
type Key struct {
	Kind KeyKind
	Dir  Direction
}
