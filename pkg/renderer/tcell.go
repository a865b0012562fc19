package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/trytobebee/snek/pkg/game"
	"github.com/trytobebee/snek/pkg/input"
)

// tcellCanvas draws through a tcell screen
type tcellCanvas struct {
	s             tcell.Screen
	width, height int
	events        chan tcell.Event
	quit          chan struct{}
	invalid       bool
	closed        bool
}

func newTcellCanvas() (*tcellCanvas, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("problem creating screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init problem: %w", err)
	}
	return tcellCanvasOn(s), nil
}

// tcellCanvasOn wraps an initialized screen and starts forwarding its events
func tcellCanvasOn(s tcell.Screen) *tcellCanvas {
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()

	w, h := s.Size()
	c := &tcellCanvas{
		s:      s,
		width:  w,
		height: h,
		events: make(chan tcell.Event, 100),
		quit:   make(chan struct{}),
	}
	go s.ChannelEvents(c.events, c.quit)
	return c
}

func (c *tcellCanvas) Size() (int, int) {
	return c.width, c.height
}

func (c *tcellCanvas) Clear() {
	c.s.Clear()
}

func tcellStyle(st Style) tcell.Style {
	style := tcell.StyleDefault.Background(tcell.ColorBlack)
	switch st.Color {
	case ColorRed:
		style = style.Foreground(tcell.ColorRed)
	case ColorGreen:
		style = style.Foreground(tcell.ColorGreen)
	case ColorDark:
		style = style.Foreground(tcell.ColorDarkGray)
	default:
		style = style.Foreground(tcell.ColorWhite)
	}
	return style.Bold(st.Bold).Reverse(st.Inverse)
}

func (c *tcellCanvas) SetString(x, y int, s string, st Style) {
	style := tcellStyle(st)
	for _, r := range s {
		c.s.SetContent(x, y, r, nil, style)
		x++
	}
}

func (c *tcellCanvas) Show() error {
	c.s.Show()
	return nil
}

// resized reports whether a resize event changed the size the game started with.
// tcell sends one resize right after Init, which matches and is ignored.
func (c *tcellCanvas) resized(ev *tcell.EventResize) bool {
	w, h := ev.Size()
	return w != c.width || h != c.height
}

func (c *tcellCanvas) PollKey(ctx context.Context, timeout time.Duration) (input.KeyInput, bool, error) {
	if c.invalid {
		return input.KeyInput{}, false, game.ErrScreenInvalidated
	}
	var expired <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case ev, ok := <-c.events:
			if !ok {
				return input.KeyInput{}, false, ErrKeyboardClosed
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				c.flush()
				return input.FromTcell(ev), true, nil
			case *tcell.EventResize:
				if c.resized(ev) {
					c.invalid = true
					return input.KeyInput{}, false, game.ErrScreenInvalidated
				}
			}
		case <-expired:
			return input.KeyInput{}, false, nil
		case <-ctx.Done():
			return input.KeyInput{}, false, ctx.Err()
		}
	}
}

// flush drops queued key events, remembering a resize found among them
func (c *tcellCanvas) flush() {
	for {
		select {
		case ev := <-c.events:
			if rs, ok := ev.(*tcell.EventResize); ok && c.resized(rs) {
				c.invalid = true
			}
		default:
			return
		}
	}
}

func (c *tcellCanvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.quit)
	c.s.Fini()
	return nil
}
