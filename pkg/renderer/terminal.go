package renderer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/trytobebee/snek/pkg/game"
	"github.com/trytobebee/snek/pkg/input"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrKeyboardClosed is returned once the key reader has stopped, usually
// because the terminal went away
var ErrKeyboardClosed = errors.New("keyboard closed")

// cell is one character position of the board
type cell struct {
	glyph string
	style Style
}

// TerminalRenderer draws with ANSI escape codes and reads keys through
// eiannone/keyboard
type TerminalRenderer struct {
	board  [][]cell
	buffer strings.Builder
	out    io.Writer
	width  int
	height int

	keys    <-chan input.KeyInput
	stopKey func()
	resize  chan os.Signal
	getSize func() (int, int, error)
	closed  bool
}

func newANSICanvas() (*TerminalRenderer, error) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdout is not a terminal")
	}
	getSize := func() (int, int, error) { return term.GetSize(fd) }
	w, h, err := getSize()
	if err != nil {
		return nil, fmt.Errorf("failed to read terminal size: %w", err)
	}

	handler := input.NewKeyboardHandler()
	if err := handler.Start(); err != nil {
		return nil, fmt.Errorf("error opening keyboard: %w", err)
	}

	r := NewTerminalRenderer(os.Stdout, w, h)
	r.keys = handler.GetInputChan()
	r.stopKey = handler.Stop
	r.getSize = getSize
	r.resize = make(chan os.Signal, 1)
	signal.Notify(r.resize, unix.SIGWINCH)
	r.HideCursor()
	return r, nil
}

// NewTerminalRenderer creates a renderer writing to out. Keys and resize
// detection are only attached by the ANSI backend.
func NewTerminalRenderer(out io.Writer, width, height int) *TerminalRenderer {
	// Pre-allocate board to reduce GC pressure
	board := make([][]cell, height)
	for i := range board {
		board[i] = make([]cell, width)
	}

	return &TerminalRenderer{
		board:  board,
		out:    out,
		width:  width,
		height: height,
	}
}

// Size returns the board size
func (r *TerminalRenderer) Size() (int, int) {
	return r.width, r.height
}

// clearScreen clears the terminal using ANSI escape codes
func (r *TerminalRenderer) clearScreen() {
	fmt.Fprint(r.out, "\033[H\033[2J\033[3J")
}

// ShowCursor shows the cursor (call on exit)
func (r *TerminalRenderer) ShowCursor() {
	fmt.Fprint(r.out, "\033[?25h")
}

// HideCursor hides the cursor (call on start)
func (r *TerminalRenderer) HideCursor() {
	fmt.Fprint(r.out, "\033[?25l")
}

// Clear resets every cell to blank
func (r *TerminalRenderer) Clear() {
	for y := range r.board {
		for x := range r.board[y] {
			r.board[y][x] = cell{}
		}
	}
}

// SetString puts one rune per cell starting at x, y. Cells off the board are dropped.
func (r *TerminalRenderer) SetString(x, y int, s string, st Style) {
	if y < 0 || y >= r.height {
		return
	}
	for _, ch := range s {
		if x >= 0 && x < r.width {
			r.board[y][x] = cell{glyph: string(ch), style: st}
		}
		x++
	}
}

// sgr returns the escape sequence selecting st
func sgr(st Style) string {
	var b strings.Builder
	b.WriteString("\033[0")
	if st.Bold || st.Color == ColorDark {
		b.WriteString(";1")
	}
	if st.Inverse {
		b.WriteString(";7")
	}
	switch st.Color {
	case ColorRed:
		b.WriteString(";31")
	case ColorGreen:
		b.WriteString(";32")
	case ColorDark:
		b.WriteString(";30")
	default:
		b.WriteString(";37")
	}
	b.WriteString(";40m")
	return b.String()
}

// Show writes the whole board in one write
func (r *TerminalRenderer) Show() error {
	r.buffer.Reset()
	r.buffer.WriteString("\033[H")

	var current Style
	r.buffer.WriteString(sgr(current))
	for y, row := range r.board {
		if y > 0 {
			// raw mode: newline does not return the carriage
			r.buffer.WriteString("\r\n")
		}
		for _, c := range row {
			if c.style != current {
				current = c.style
				r.buffer.WriteString(sgr(current))
			}
			if c.glyph == "" {
				r.buffer.WriteByte(' ')
			} else {
				r.buffer.WriteString(c.glyph)
			}
		}
	}
	r.buffer.WriteString("\033[0m")

	_, err := io.WriteString(r.out, r.buffer.String())
	return err
}

// PollKey waits for a key, a resize, the timeout or ctx. Keys still queued
// after the one returned are discarded.
func (r *TerminalRenderer) PollKey(ctx context.Context, timeout time.Duration) (input.KeyInput, bool, error) {
	var expired <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case in, ok := <-r.keys:
			if !ok {
				return input.KeyInput{}, false, ErrKeyboardClosed
			}
			r.flushKeys()
			return in, true, nil
		case <-r.resize:
			if r.sizeChanged() {
				return input.KeyInput{}, false, game.ErrScreenInvalidated
			}
		case <-expired:
			return input.KeyInput{}, false, nil
		case <-ctx.Done():
			return input.KeyInput{}, false, ctx.Err()
		}
	}
}

func (r *TerminalRenderer) flushKeys() {
	for {
		select {
		case <-r.keys:
		default:
			return
		}
	}
}

func (r *TerminalRenderer) sizeChanged() bool {
	w, h, err := r.getSize()
	if err != nil {
		glog.Warningf("Failed to read terminal size after resize: %v", err)
		return true
	}
	return w != r.width || h != r.height
}

// Close restores the terminal: stops raw input, shows the cursor and clears
func (r *TerminalRenderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.resize != nil {
		signal.Stop(r.resize)
	}
	if r.stopKey != nil {
		r.stopKey()
	}
	fmt.Fprint(r.out, "\033[0m")
	r.clearScreen()
	r.ShowCursor()
	return nil
}
