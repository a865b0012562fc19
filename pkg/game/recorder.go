package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
)

// StepRecord is one line of a recording
type StepRecord struct {
	Step      int     `json:"step"`
	Outcome   string  `json:"outcome"`
	Direction string  `json:"direction"`
	Player    string  `json:"player"`
	Score     int     `json:"score"`
	Highscore int     `json:"highscore"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Food      Point   `json:"food"`
	Body      []Point `json:"body"`
	UnixMilli int64   `json:"t"`
}

// GameRecorder writes one JSON line per step. The loop is single-threaded,
// so records go straight into a buffered writer that is flushed on Close.
type GameRecorder struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	path    string
	failed  bool
}

// NewRecorder creates dir if needed and opens game_{sessionID}_{timestamp}.jsonl in it
func NewRecorder(dir, sessionID string) (*GameRecorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create records dir: %w", err)
	}

	filename := fmt.Sprintf("game_%s_%d.jsonl", sessionID, time.Now().Unix())
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create record file: %w", err)
	}

	w := bufio.NewWriter(f)
	return &GameRecorder{
		file:    f,
		writer:  w,
		encoder: json.NewEncoder(w),
		path:    path,
	}, nil
}

// Path returns the file the recorder writes to
func (r *GameRecorder) Path() string {
	return r.path
}

// RecordStep appends the state after a step. A write failure disables the
// recorder for the rest of the session instead of interrupting play.
func (r *GameRecorder) RecordStep(g *Game, o Outcome) {
	if r.failed {
		return
	}
	rec := StepRecord{
		Step:      g.Steps,
		Outcome:   o.String(),
		Direction: g.Direction.String(),
		Player:    g.PlayerName,
		Score:     g.Score,
		Highscore: g.Highscore,
		Width:     g.Width,
		Height:    g.Height,
		Food:      g.Food,
		Body:      g.Body.Points(),
		UnixMilli: time.Now().UnixMilli(),
	}
	if err := r.encoder.Encode(rec); err != nil {
		glog.Warningf("Error recording step %d to %s: %v", rec.Step, r.path, err)
		r.failed = true
	}
}

// Close flushes the buffer and closes the file
func (r *GameRecorder) Close() error {
	flushErr := r.writer.Flush()
	closeErr := r.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush record file: %w", flushErr)
	}
	return closeErr
}

// ReadRecording parses a recording. Lines that are not valid records are
// skipped and counted.
func ReadRecording(r io.Reader) (records []StepRecord, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec StepRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, skipped, fmt.Errorf("failed to read recording: %w", err)
	}
	return records, skipped, nil
}
