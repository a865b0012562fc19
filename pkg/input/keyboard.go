package input

import (
	"github.com/eiannone/keyboard"
	"github.com/trytobebee/snek/pkg/game"
)

// Code identifies the non-printable keys the game cares about
type Code int

const (
	CodeRune Code = iota // printable key, see KeyInput.Char
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
	CodeEnter
	CodeBackspace
	CodeEscape
	CodeCtrlC
	CodeOther
)

// KeyInput represents a keyboard input event, independent of the backend
type KeyInput struct {
	Char rune
	Code Code
}

// KeyboardHandler reads raw keys with github.com/eiannone/keyboard
type KeyboardHandler struct {
	inputChan chan KeyInput
	done      chan struct{}
}

// NewKeyboardHandler creates a new keyboard input handler
func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		inputChan: make(chan KeyInput, 16),
		done:      make(chan struct{}),
	}
}

// Start puts the terminal in raw mode and begins listening for keys
func (h *KeyboardHandler) Start() error {
	if err := keyboard.Open(); err != nil {
		return err
	}

	go h.read(keyboard.GetKey)
	return nil
}

// read forwards keys until getKey fails or Stop is called, then closes the
// input channel so readers see the end of input
func (h *KeyboardHandler) read(getKey func() (rune, keyboard.Key, error)) {
	defer close(h.inputChan)
	for {
		char, key, err := getKey()
		if err != nil {
			return
		}
		select {
		case h.inputChan <- FromKeyboard(char, key):
		case <-h.done:
			return
		}
	}
}

// Stop restores the terminal
func (h *KeyboardHandler) Stop() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}
	keyboard.Close()
}

// GetInputChan returns the input channel
func (h *KeyboardHandler) GetInputChan() <-chan KeyInput {
	return h.inputChan
}

// FromKeyboard converts an eiannone/keyboard event
func FromKeyboard(char rune, key keyboard.Key) KeyInput {
	switch key {
	case keyboard.KeyArrowUp:
		return KeyInput{Code: CodeUp}
	case keyboard.KeyArrowDown:
		return KeyInput{Code: CodeDown}
	case keyboard.KeyArrowLeft:
		return KeyInput{Code: CodeLeft}
	case keyboard.KeyArrowRight:
		return KeyInput{Code: CodeRight}
	case keyboard.KeyEnter:
		return KeyInput{Code: CodeEnter}
	case keyboard.KeyBackspace, keyboard.KeyBackspace2:
		return KeyInput{Code: CodeBackspace}
	case keyboard.KeyEsc:
		return KeyInput{Code: CodeEscape}
	case keyboard.KeyCtrlC:
		return KeyInput{Code: CodeCtrlC}
	case keyboard.KeySpace:
		return KeyInput{Char: ' '}
	}
	if char != 0 {
		return KeyInput{Char: char}
	}
	return KeyInput{Code: CodeOther}
}

// ParseDirection parses a key input into a direction
func ParseDirection(in KeyInput) (dir game.Direction, isValid bool) {
	// Handle arrow keys
	switch in.Code {
	case CodeUp:
		return game.Up, true
	case CodeDown:
		return game.Down, true
	case CodeLeft:
		return game.Left, true
	case CodeRight:
		return game.Right, true
	case CodeRune:
	default:
		return 0, false
	}

	// Handle WASD keys
	switch in.Char {
	case 'w', 'W':
		return game.Up, true
	case 's', 'S':
		return game.Down, true
	case 'a', 'A':
		return game.Left, true
	case 'd', 'D':
		return game.Right, true
	}

	return 0, false
}

// IsInterrupt checks if the input is Ctrl-C
func IsInterrupt(in KeyInput) bool {
	return in.Code == CodeCtrlC
}

// IsQuit checks if the input is a quit command
func IsQuit(in KeyInput) bool {
	return IsInterrupt(in) || (in.Code == CodeRune && (in.Char == 'q' || in.Char == 'Q'))
}

// IsConfirm checks if the input is Enter
func IsConfirm(in KeyInput) bool {
	return in.Code == CodeEnter
}

// IsErase checks if the input is Backspace
func IsErase(in KeyInput) bool {
	return in.Code == CodeBackspace
}

// IsPrintable checks if the input carries a character that can go into a nickname
func IsPrintable(in KeyInput) bool {
	return in.Code == CodeRune && in.Char >= ' ' && in.Char != 0x7f
}

// Classify maps a key to what the game loop does with it
func Classify(in KeyInput) game.Key {
	if IsInterrupt(in) {
		return game.Key{Kind: game.KeyInterrupt}
	}
	if dir, ok := ParseDirection(in); ok {
		return game.Key{Kind: game.KeyDirection, Dir: dir}
	}
	return game.Key{Kind: game.KeyOther}
}
