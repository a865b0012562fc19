package renderer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/trytobebee/snek/pkg/config"
	"github.com/trytobebee/snek/pkg/game"
	"github.com/trytobebee/snek/pkg/input"
	"github.com/trytobebee/snek/pkg/score"
)

// ErrTerminalTooSmall is returned when the terminal cannot hold the minimum field
var ErrTerminalTooSmall = errors.New("terminal size too small")

// Color is one of the few colors the game uses
type Color int

const (
	ColorWhite Color = iota
	ColorRed
	ColorGreen
	ColorDark // dark gray: black on black, bold
)

// Style describes how a run of cells is drawn
type Style struct {
	Color   Color
	Bold    bool
	Inverse bool
}

// canvas is a character-cell surface plus its keyboard
type canvas interface {
	Size() (width, height int)
	Clear()
	SetString(x, y int, s string, st Style)
	Show() error
	// PollKey waits up to timeout for a key; a negative timeout waits
	// until a key arrives or ctx is done. ok is false when the timeout elapsed.
	PollKey(ctx context.Context, timeout time.Duration) (in input.KeyInput, ok bool, err error)
	Close() error
}

// Screen draws the game on a terminal and reads its keys. It implements
// game.Display.
type Screen struct {
	c             canvas
	width, height int
	blinks        int
	blinkInterval time.Duration
	sleep         func(time.Duration)
}

// Open creates a screen on the named backend
func Open(backend string) (*Screen, error) {
	var (
		c   canvas
		err error
	)
	switch backend {
	case config.BackendANSI:
		c, err = newANSICanvas()
	case config.BackendTcell:
		c, err = newTcellCanvas()
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return newScreen(c)
}

func newScreen(c canvas) (*Screen, error) {
	w, h := c.Size()
	if w < config.MinTerminalWidth || h < config.MinTerminalHeight {
		c.Close()
		return nil, fmt.Errorf("%w: %dx%d, need %dx%d", ErrTerminalTooSmall,
			w, h, config.MinTerminalWidth, config.MinTerminalHeight)
	}
	glog.V(1).Infof("Screen opened at %dx%d", w, h)
	return &Screen{
		c:             c,
		width:         w,
		height:        h,
		blinks:        config.GameOverBlinks,
		blinkInterval: config.BlinkInterval,
		sleep:         time.Sleep,
	}, nil
}

// Size returns the grid the game is played on
func (s *Screen) Size() (width, height int) {
	return s.width, s.height
}

// Close restores the terminal
func (s *Screen) Close() error {
	return s.c.Close()
}

var (
	styleText  = Style{Color: ColorWhite}
	styleFood  = Style{Color: ColorRed}
	styleSnake = Style{Color: ColorGreen}
)

// DrawFrame clears the screen and draws the status line and the border
func (s *Screen) DrawFrame(scoreValue, highscore int, player string) {
	s.c.Clear()
	status := fmt.Sprintf("SCORE%6d        HIGHSCORE%6d", scoreValue, highscore)
	s.c.SetString(0, 0, player, styleText)
	s.c.SetString(s.width/2-len(status)/2, 0, status, styleText)

	row := strings.Repeat(config.CharFrame, s.width)
	s.c.SetString(0, 1, row, styleText)
	s.c.SetString(0, s.height-1, row, styleText)
	for y := 2; y < s.height-1; y++ {
		s.c.SetString(0, y, config.CharFrame, styleText)
		s.c.SetString(s.width-1, y, config.CharFrame, styleText)
	}
}

// DrawSnake draws every segment of the body
func (s *Screen) DrawSnake(body iter.Seq[game.Point]) {
	s.drawSnake(body, config.CharSnake)
}

func (s *Screen) drawSnake(body iter.Seq[game.Point], glyph string) {
	for p := range body {
		s.c.SetString(p.X, p.Y, glyph, styleSnake)
	}
}

// DrawFood draws the food
func (s *Screen) DrawFood(p game.Point) {
	s.c.SetString(p.X, p.Y, config.CharFood, styleFood)
}

// Show flushes the drawing to the terminal
func (s *Screen) Show() error {
	return s.c.Show()
}

// ReadKey waits up to timeout for a key and classifies it for the game loop
func (s *Screen) ReadKey(timeout time.Duration) (game.Key, error) {
	in, ok, err := s.c.PollKey(context.Background(), timeout)
	if err != nil {
		return game.Key{}, err
	}
	if !ok {
		return game.Key{Kind: game.KeyNone}, nil
	}
	return input.Classify(in), nil
}

// ReadInput waits up to timeout for a raw key
func (s *Screen) ReadInput(ctx context.Context, timeout time.Duration) (input.KeyInput, bool, error) {
	return s.c.PollKey(ctx, timeout)
}

// WaitAnyKey blocks until a key is pressed or ctx is done. Ctrl-C yields
// game.ErrInterrupted.
func (s *Screen) WaitAnyKey(ctx context.Context) error {
	in, _, err := s.c.PollKey(ctx, -1)
	if err != nil {
		return err
	}
	if input.IsInterrupt(in) {
		return game.ErrInterrupted
	}
	return nil
}

// DrawGameOver blinks the snake and the GAME OVER banner, then asks for a key
// on the bottom row.
func (s *Screen) DrawGameOver(body iter.Seq[game.Point]) error {
	x := s.width/2 - len(config.TextGameOver)/2
	y := s.height / 2
	for i := 0; i < s.blinks; i++ {
		even := i%2 == 0
		glyph := config.CharSnake
		banner := Style{Color: ColorRed, Bold: true}
		if even {
			glyph = config.CharGhost
			banner.Color = ColorDark
		}
		s.drawSnake(body, glyph)
		s.c.SetString(x, y, config.TextGameOver, banner)
		if err := s.c.Show(); err != nil {
			return err
		}
		s.sleep(s.blinkInterval)
	}
	s.c.SetString(0, s.height-1, config.TextContinue, styleText)
	return s.c.Show()
}

// DrawToplist shows the best scores
func (s *Screen) DrawToplist(entries []score.Entry, size int) error {
	s.c.Clear()
	x := s.width/2 - config.ToplistWidth/2
	y := s.height/2 - size/2

	s.c.SetString(x, y-2, fmt.Sprintf("TOP %d", size), styleText)
	s.c.SetString(x, y-1, strings.Repeat(config.CharRule, config.ToplistWidth), styleText)
	for i, e := range entries {
		if i >= size {
			break
		}
		st := styleText
		st.Bold = i < 3
		s.c.SetString(x, y, toplistLine(e), st)
		y++
	}
	s.c.SetString(0, s.height-1, config.TextQuit, styleText)
	return s.c.Show()
}

// toplistLine pads the score so that name and score span the toplist width.
// Long names keep at least one space before the score.
func toplistLine(e score.Entry) string {
	n := strconv.Itoa(e.Score)
	pad := config.ToplistWidth - utf8.RuneCountInString(e.Name) - len(n)
	if pad < 1 {
		pad = 1
	}
	return e.Name + strings.Repeat(" ", pad) + n
}

// Ask shows a two-option dialog. Up and Down move the highlight, Enter
// confirms. Returns true when the first option was chosen.
func (s *Screen) Ask(ctx context.Context, question, yes, no string) (bool, error) {
	cx := s.width / 2
	cy := s.height/2 - 2
	selected := 0
	for {
		s.c.Clear()
		s.c.SetString(cx-utf8.RuneCountInString(question)/2, cy, question, Style{Color: ColorWhite, Bold: true})
		for i, opt := range []string{yes, no} {
			st := styleText
			st.Inverse = i == selected
			s.c.SetString(cx-utf8.RuneCountInString(opt)/2, cy+2+i, opt, st)
		}
		if err := s.c.Show(); err != nil {
			return false, err
		}

		in, _, err := s.c.PollKey(ctx, -1)
		if err != nil {
			return false, err
		}
		switch {
		case input.IsInterrupt(in):
			return false, game.ErrInterrupted
		case input.IsConfirm(in):
			return selected == 0, nil
		case in.Code == input.CodeUp || in.Code == input.CodeDown:
			selected = 1 - selected
		}
	}
}

// PromptNickname asks for the player's name. Empty input gives the default nick.
func (s *Screen) PromptNickname(ctx context.Context) (string, error) {
	offset := s.width / 4
	if s.width > 30 {
		offset = 8
	}
	x := s.width/2 - offset
	y := s.height / 2

	var name []rune
	for {
		s.c.Clear()
		s.c.SetString(x, y, config.TextNickname+string(name)+"_", styleText)
		if err := s.c.Show(); err != nil {
			return "", err
		}

		in, _, err := s.c.PollKey(ctx, -1)
		if err != nil {
			return "", err
		}
		switch {
		case input.IsInterrupt(in):
			return "", game.ErrInterrupted
		case input.IsConfirm(in):
			nick := strings.TrimSpace(string(name))
			if nick == "" {
				nick = config.DefaultNick
			}
			return nick, nil
		case input.IsErase(in):
			if len(name) > 0 {
				name = name[:len(name)-1]
			}
		case input.IsPrintable(in):
			if len(name) < config.NickMaxLength {
				name = append(name, in.Char)
			}
		}
	}
}
