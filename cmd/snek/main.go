package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"iter"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/trytobebee/snek/pkg/config"
	"github.com/trytobebee/snek/pkg/game"
	"github.com/trytobebee/snek/pkg/renderer"
	"github.com/trytobebee/snek/pkg/score"
	"golang.org/x/exp/rand"
)

const (
	exitOK          = 0
	exitSetup       = 1
	exitInterrupted = 130
	exitFatal       = 255
)

// sessionScreen is what a session draws on; *renderer.Screen in the binary
type sessionScreen interface {
	game.Display
	Size() (width, height int)
	PromptNickname(ctx context.Context) (string, error)
	DrawGameOver(body iter.Seq[game.Point]) error
	DrawToplist(entries []score.Entry, size int) error
	WaitAnyKey(ctx context.Context) error
	Ask(ctx context.Context, question, yes, no string) (bool, error)
}

var _ sessionScreen = (*renderer.Screen)(nil)

func main() {
	os.Exit(run())
}

func run() int {
	defer glog.Flush()

	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitSetup
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening score store:", err)
		return exitSetup
	}
	defer store.Close()

	scr, err := renderer.Open(cfg.Backend)
	if err != nil {
		glog.Errorf("Failed to open screen: %v", err)
		if errors.Is(err, renderer.ErrTerminalTooSmall) {
			fmt.Println("Terminal size too small, aborting")
			return exitFatal
		}
		fmt.Println("Error opening terminal:", err)
		return exitSetup
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	err = play(ctx, cfg, scr, store, rng)
	scr.Close()

	code := exitCode(err)
	switch {
	case code == exitOK:
		fmt.Println("Thanks for playing!")
	case code == exitInterrupted:
		glog.Infof("Session interrupted: %v", err)
	case errors.Is(err, game.ErrScreenInvalidated):
		glog.Errorf("Session aborted: %v", err)
		fmt.Println("Game aborted due to terminal resize")
	default:
		glog.Errorf("Session failed: %v", err)
		fmt.Println("Fatal error:", err)
	}
	return code
}

// exitCode maps the result of play to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, game.ErrInterrupted), errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitFatal
	}
}

func openStore(cfg config.Config) (score.Store, error) {
	if cfg.Store == config.StoreSQLite {
		return score.OpenSQLite(cfg.DBPath)
	}
	fs := score.NewFileStore(cfg.ScoresFile)
	glog.V(1).Infof("Using scores file %s", fs.Path())
	return fs, nil
}

// play runs sessions until the player declines another round. A panic inside
// a session is turned into an error so the terminal is still restored.
func play(ctx context.Context, cfg config.Config, screen sessionScreen, store score.Store, rng game.Rand) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	for {
		if err := session(ctx, cfg, screen, store, rng); err != nil {
			return err
		}
		again, err := screen.Ask(ctx, config.TextPlayAgain, "Yes", "No")
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// session is one game: nickname, play, save, game over, toplist
func session(ctx context.Context, cfg config.Config, screen sessionScreen, store score.Store, rng game.Rand) error {
	sessionID := uuid.New().String()
	if s, ok := store.(*score.SQLiteStore); ok {
		s.SetSession(sessionID)
	}

	name, err := screen.PromptNickname(ctx)
	if err != nil {
		return err
	}
	highscore := score.Highscore(store, name)
	glog.V(1).Infof("Session %s: player %q, highscore %d", sessionID, name, highscore)

	w, h := screen.Size()
	g, err := game.New(w, h, name, highscore, rng)
	if err != nil {
		return err
	}

	loop := game.NewLoop(g, screen)
	loop.Budget = cfg.TickBudget
	if cfg.RecordDir != "" {
		rec, err := game.NewRecorder(cfg.RecordDir, sessionID)
		if err != nil {
			glog.Warningf("Recording disabled: %v", err)
		} else {
			defer func() {
				if err := rec.Close(); err != nil {
					glog.Warningf("Failed to close recording %s: %v", rec.Path(), err)
				}
			}()
			loop.Recorder = rec
		}
	}

	if err := loop.Run(ctx); err != nil {
		return err
	}
	glog.Infof("Session %s: %q finished with score %d after %d steps", sessionID, name, g.Score, g.Steps)
	score.Save(store, name, g.Score)

	if err := screen.DrawGameOver(g.Body.All()); err != nil {
		return err
	}
	if err := screen.WaitAnyKey(ctx); err != nil {
		return err
	}
	if err := screen.DrawToplist(score.Top(store, cfg.ToplistSize), cfg.ToplistSize); err != nil {
		return err
	}
	return screen.WaitAnyKey(ctx)
}
