package game

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/golang/glog"
	"github.com/trytobebee/snek/pkg/config"
)

var (
	// ErrInterrupted is returned by Run when the player pressed Ctrl-C
	ErrInterrupted = errors.New("game: interrupted by player")
	// ErrScreenInvalidated is returned by displays when the terminal changed
	// under the running game and the field can no longer be drawn
	ErrScreenInvalidated = errors.New("game: screen invalidated by terminal resize")
)

// Display is what the loop needs from the rendering side
type Display interface {
	DrawFrame(score, highscore int, player string)
	DrawSnake(body iter.Seq[Point])
	DrawFood(p Point)
	Show() error
	// ReadKey waits up to timeout for a key. A timeout yields KeyNone.
	ReadKey(timeout time.Duration) (Key, error)
}

// Clock is the wall clock sampled around every poll
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// StepRecorder receives every step taken by the loop
type StepRecorder interface {
	RecordStep(g *Game, o Outcome)
}

// Loop drives a Game from keyboard input at a fixed cadence
type Loop struct {
	Game     *Game
	Display  Display
	Clock    Clock
	Budget   time.Duration // time between steps
	Recorder StepRecorder  // optional
}

// NewLoop creates a loop with the default tick budget and the wall clock
func NewLoop(g *Game, d Display) *Loop {
	return &Loop{
		Game:    g,
		Display: d,
		Clock:   SystemClock{},
		Budget:  config.TickBudget,
	}
}

// Run plays until the game is over. It returns nil on a normal game over,
// ErrInterrupted on Ctrl-C, the context error when ctx is done, or the
// display error (typically ErrScreenInvalidated).
func (l *Loop) Run(ctx context.Context) error {
	for l.Game.State == Running {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.redraw(); err != nil {
			return err
		}

		key, err := l.waitForKey()
		if err != nil {
			return err
		}
		if key.Kind == KeyDirection && !l.Game.SetDirection(key.Dir) && key.Dir != l.Game.Direction {
			glog.V(2).Infof("Ignored direction %v while heading %v", key.Dir, l.Game.Direction)
		}

		outcome := l.Game.Step()
		if l.Recorder != nil {
			l.Recorder.RecordStep(l.Game, outcome)
		}
	}
	return nil
}

func (l *Loop) redraw() error {
	g := l.Game
	l.Display.DrawFrame(g.Score, g.Highscore, g.PlayerName)
	l.Display.DrawFood(g.Food)
	l.Display.DrawSnake(g.Body.All())
	return l.Display.Show()
}

// waitForKey polls until the tick budget is spent or a key that matters
// arrives. Other keys only shrink the remaining budget, so the step cadence
// stays constant however many of them are pressed.
func (l *Loop) waitForKey() (Key, error) {
	remaining := l.Budget
	for {
		start := l.Clock.Now()
		key, err := l.Display.ReadKey(remaining)
		if err != nil {
			return Key{}, err
		}
		switch key.Kind {
		case KeyNone, KeyDirection:
			return key, nil
		case KeyInterrupt:
			return key, ErrInterrupted
		}

		remaining -= l.Clock.Now().Sub(start)
		if remaining <= 0 {
			return Key{Kind: KeyNone}, nil
		}
	}
}
