package input

import "github.com/gdamore/tcell/v2"

// FromTcell converts a tcell key event
func FromTcell(ev *tcell.EventKey) KeyInput {
	switch ev.Key() {
	case tcell.KeyUp:
		return KeyInput{Code: CodeUp}
	case tcell.KeyDown:
		return KeyInput{Code: CodeDown}
	case tcell.KeyLeft:
		return KeyInput{Code: CodeLeft}
	case tcell.KeyRight:
		return KeyInput{Code: CodeRight}
	case tcell.KeyEnter:
		return KeyInput{Code: CodeEnter}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyInput{Code: CodeBackspace}
	case tcell.KeyEscape:
		return KeyInput{Code: CodeEscape}
	case tcell.KeyCtrlC:
		return KeyInput{Code: CodeCtrlC}
	case tcell.KeyRune:
		return KeyInput{Char: ev.Rune()}
	}
	return KeyInput{Code: CodeOther}
}
