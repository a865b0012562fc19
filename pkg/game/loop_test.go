package game

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// poll is one scripted answer of ReadKey and how long it kept the caller waiting
type poll struct {
	key  Key
	took time.Duration
	err  error
}

// fakeDisplay logs draws and polls. Once the script runs out every poll
// times out after the full timeout.
type fakeDisplay struct {
	clock  *fakeClock
	script []poll
	events []string
	shows  int
	snake  []Point
}

func (d *fakeDisplay) DrawFrame(score, highscore int, player string) {}
func (d *fakeDisplay) DrawFood(p Point)                              {}

func (d *fakeDisplay) DrawSnake(body iter.Seq[Point]) {
	d.snake = slices.Collect(body)
}

func (d *fakeDisplay) Show() error {
	d.shows++
	d.events = append(d.events, "draw")
	return nil
}

func (d *fakeDisplay) ReadKey(timeout time.Duration) (Key, error) {
	d.events = append(d.events, "poll "+timeout.String())
	if len(d.script) == 0 {
		d.clock.now = d.clock.now.Add(timeout)
		return Key{Kind: KeyNone}, nil
	}
	p := d.script[0]
	d.script = d.script[1:]
	d.clock.now = d.clock.now.Add(p.took)
	return p.key, p.err
}

type countingRecorder struct {
	outcomes []Outcome
}

func (r *countingRecorder) RecordStep(g *Game, o Outcome) {
	r.outcomes = append(r.outcomes, o)
}

// newLoopGame heads up from (5,5) on a 10x10 grid: four steps until the frame
func newLoopGame(script ...poll) (*Loop, *fakeDisplay) {
	g := newTestGame(10, 10, Up, Point{X: 8, Y: 8}, Point{X: 5, Y: 5})
	clock := &fakeClock{now: time.Unix(1000, 0)}
	d := &fakeDisplay{clock: clock, script: script}
	l := NewLoop(g, d)
	l.Clock = clock
	return l, d
}

func TestLoopNoiseKeysShrinkBudget(t *testing.T) {
	noise := poll{key: Key{Kind: KeyOther}, took: 100 * time.Millisecond}
	l, d := newLoopGame(noise, noise, noise)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expected := []string{"draw", "poll 750ms", "poll 650ms", "poll 550ms", "poll 450ms", "draw", "poll 750ms"}
	if !slices.Equal(d.events[:len(expected)], expected) {
		t.Errorf("Expected events to start with %v, got %v", expected, d.events)
	}
	if d.shows != 4 {
		t.Errorf("Expected one redraw per step (4), got %d", d.shows)
	}
	if l.Game.State != Over {
		t.Errorf("Expected the game to end at the frame, got %v", l.Game.State)
	}
}

func TestLoopNoiseExhaustsBudget(t *testing.T) {
	var script []poll
	for i := 0; i < 8; i++ {
		script = append(script, poll{key: Key{Kind: KeyOther}, took: 100 * time.Millisecond})
	}
	l, d := newLoopGame(script...)

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expected := []string{"draw",
		"poll 750ms", "poll 650ms", "poll 550ms", "poll 450ms",
		"poll 350ms", "poll 250ms", "poll 150ms", "poll 50ms",
		"draw"}
	if !slices.Equal(d.events[:len(expected)], expected) {
		t.Errorf("Expected events %v, got %v", expected, d.events)
	}
	if l.Game.Steps != 4 {
		t.Errorf("Expected 4 steps, got %d", l.Game.Steps)
	}
}

func TestLoopDirectionKeyStepsImmediately(t *testing.T) {
	l, d := newLoopGame(poll{key: Key{Kind: KeyDirection, Dir: Left}, took: 10 * time.Millisecond})
	rec := &countingRecorder{}
	l.Recorder = rec

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if d.events[2] != "draw" {
		t.Errorf("Expected a redraw right after the direction key, got %v", d.events)
	}
	// (5,5) -> left until x=0: steps to 4,3,2,1 then the frame
	if l.Game.CrashPoint != (Point{X: 0, Y: 5}) {
		t.Errorf("Expected crash at (0,5), got %v", l.Game.CrashPoint)
	}
	if len(rec.outcomes) != l.Game.Steps || rec.outcomes[len(rec.outcomes)-1] != OutcomeCollision {
		t.Errorf("Expected every step recorded ending in a collision, got %v", rec.outcomes)
	}
}

func TestLoopIgnoresReversal(t *testing.T) {
	l, _ := newLoopGame(poll{key: Key{Kind: KeyDirection, Dir: Down}, took: 5 * time.Millisecond})

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if l.Game.Direction != Up {
		t.Errorf("Reversal should be ignored, heading is %v", l.Game.Direction)
	}
	if l.Game.CrashPoint != (Point{X: 5, Y: 1}) {
		t.Errorf("Expected crash into the top frame at (5,1), got %v", l.Game.CrashPoint)
	}
}

func TestLoopInterrupt(t *testing.T) {
	l, _ := newLoopGame(poll{key: Key{Kind: KeyInterrupt}})
	if err := l.Run(context.Background()); !errors.Is(err, ErrInterrupted) {
		t.Errorf("Expected ErrInterrupted, got %v", err)
	}
	if l.Game.Steps != 0 {
		t.Errorf("Interrupt must not step, got %d steps", l.Game.Steps)
	}
}

func TestLoopDisplayError(t *testing.T) {
	l, _ := newLoopGame(poll{err: ErrScreenInvalidated})
	if err := l.Run(context.Background()); !errors.Is(err, ErrScreenInvalidated) {
		t.Errorf("Expected ErrScreenInvalidated, got %v", err)
	}
}

func TestLoopCancelled(t *testing.T) {
	l, d := newLoopGame()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(d.events) != 0 {
		t.Errorf("Expected nothing drawn, got %v", d.events)
	}
}

func TestLoopDrawsCurrentBody(t *testing.T) {
	l, d := newLoopGame(poll{key: Key{Kind: KeyInterrupt}})
	l.Run(context.Background())
	if !slices.Equal(d.snake, []Point{{X: 5, Y: 5}}) {
		t.Errorf("Expected the initial body to be drawn, got %v", d.snake)
	}
}
