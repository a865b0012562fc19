package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/trytobebee/snek/pkg/config"
	"github.com/trytobebee/snek/pkg/game"
	"github.com/trytobebee/snek/pkg/input"
	"github.com/trytobebee/snek/pkg/renderer"
)

func main() {
	file := flag.String("file", "", "recording to play back (game_*.jsonl)")
	backend := flag.String("backend", config.BackendANSI, "terminal backend: ansi or tcell")
	tick := flag.Duration("tick", config.ReplayTick, "time between replayed steps")
	flag.Parse()
	defer glog.Flush()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: snek-replay -file records/game_<session>_<time>.jsonl")
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open record:", err)
		os.Exit(1)
	}
	records, skipped, err := game.ReadRecording(f)
	f.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if skipped > 0 {
		glog.Warningf("Skipped %d unreadable lines in %s", skipped, *file)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No steps in", *file)
		os.Exit(1)
	}

	screen, err := renderer.Open(*backend)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening terminal:", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	err = replay(ctx, screen, records, *tick)
	stop()
	screen.Close()

	switch {
	case err == nil:
		last := records[len(records)-1]
		fmt.Printf("Replayed %d steps of %s, final score %d\n", len(records), last.Player, last.Score)
	case errors.Is(err, game.ErrScreenInvalidated):
		fmt.Println("Replay aborted due to terminal resize")
		os.Exit(255)
	case errors.Is(err, game.ErrInterrupted), errors.Is(err, context.Canceled):
		os.Exit(130)
	default:
		fmt.Println("Replay failed:", err)
		os.Exit(1)
	}
}

// replay draws one record per tick. q or Ctrl-C stops, other keys are ignored.
func replay(ctx context.Context, screen *renderer.Screen, records []game.StepRecord, tick time.Duration) error {
	w, h := screen.Size()
	for _, rec := range records {
		if rec.Width > w || rec.Height > h {
			return fmt.Errorf("recording needs a %dx%d terminal, have %dx%d", rec.Width, rec.Height, w, h)
		}

		screen.DrawFrame(rec.Score, rec.Highscore, rec.Player)
		screen.DrawFood(rec.Food)
		screen.DrawSnake(slices.Values(rec.Body))
		if err := screen.Show(); err != nil {
			return err
		}

		deadline := time.Now().Add(tick)
		for remaining := tick; remaining > 0; remaining = time.Until(deadline) {
			in, ok, err := screen.ReadInput(ctx, remaining)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if input.IsQuit(in) {
				return game.ErrInterrupted
			}
		}
	}

	last := records[len(records)-1]
	if err := screen.DrawGameOver(slices.Values(last.Body)); err != nil {
		return err
	}
	return screen.WaitAnyKey(ctx)
}
