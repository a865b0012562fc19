package renderer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/trytobebee/snek/pkg/game"
	"github.com/trytobebee/snek/pkg/input"
)

func newSimCanvas(t *testing.T) (*tcellCanvas, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	sim.SetSize(40, 12)
	c := tcellCanvasOn(sim)
	t.Cleanup(func() { c.Close() })
	return c, sim
}

func TestTcellCanvasDraw(t *testing.T) {
	c, sim := newSimCanvas(t)
	if w, h := c.Size(); w != 40 || h != 12 {
		t.Fatalf("Expected 40x12, got %dx%d", w, h)
	}

	c.SetString(3, 2, "go", Style{Color: ColorGreen})
	c.Show()

	cells, w, _ := sim.GetContents()
	got := cells[2*w+3]
	if len(got.Runes) == 0 || got.Runes[0] != 'g' {
		t.Fatalf("Expected 'g' at (3,2), got %v", got.Runes)
	}
	fg, _, _ := got.Style.Decompose()
	if fg != tcell.ColorGreen {
		t.Errorf("Expected a green foreground, got %v", fg)
	}
}

func TestTcellStyle(t *testing.T) {
	fg, bg, attrs := tcellStyle(Style{Color: ColorDark, Bold: true, Inverse: true}).Decompose()
	if fg != tcell.ColorDarkGray || bg != tcell.ColorBlack {
		t.Errorf("Expected dark gray on black, got %v on %v", fg, bg)
	}
	if attrs&tcell.AttrBold == 0 || attrs&tcell.AttrReverse == 0 {
		t.Errorf("Expected bold and reverse, got %v", attrs)
	}
}

func TestTcellCanvasPollKey(t *testing.T) {
	c, sim := newSimCanvas(t)

	if _, ok, err := c.PollKey(context.Background(), 20*time.Millisecond); ok || err != nil {
		t.Fatalf("Expected a timeout with no keys, got ok=%v err=%v", ok, err)
	}

	sim.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	in, ok, err := c.PollKey(context.Background(), time.Second)
	if err != nil || !ok {
		t.Fatalf("Expected a key, got ok=%v err=%v", ok, err)
	}
	if in != (input.KeyInput{Char: 'w'}) {
		t.Errorf("Expected 'w', got %+v", in)
	}

	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	in, _, err = c.PollKey(context.Background(), time.Second)
	if err != nil || !input.IsInterrupt(in) {
		t.Errorf("Expected Ctrl-C, got %+v (%v)", in, err)
	}
}

func TestTcellCanvasResize(t *testing.T) {
	c, sim := newSimCanvas(t)

	sim.PostEvent(tcell.NewEventResize(40, 12))
	if _, ok, err := c.PollKey(context.Background(), 50*time.Millisecond); ok || err != nil {
		t.Fatalf("A resize to the starting size should be ignored, got ok=%v err=%v", ok, err)
	}

	sim.PostEvent(tcell.NewEventResize(60, 20))
	if _, _, err := c.PollKey(context.Background(), time.Second); !errors.Is(err, game.ErrScreenInvalidated) {
		t.Fatalf("Expected ErrScreenInvalidated, got %v", err)
	}
	// once invalid the canvas stays invalid
	if _, _, err := c.PollKey(context.Background(), 0); !errors.Is(err, game.ErrScreenInvalidated) {
		t.Errorf("Expected ErrScreenInvalidated again, got %v", err)
	}
}
