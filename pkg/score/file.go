package score

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/trytobebee/snek/pkg/config"
)

// FileStore keeps one "name,score" line per finished game
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path. The file is created on the
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the scores file
func (s *FileStore) Path() string {
	return s.path
}

// SaveScore appends a line to the scores file
func (s *FileStore) SaveScore(name string, score int) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open scores file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s,%d\n", storedName(name), score); err != nil {
		f.Close()
		return fmt.Errorf("failed to write score: %w", err)
	}
	return f.Close()
}

// storedName truncates long names and strips characters that would break the line format
func storedName(name string) string {
	name = strings.NewReplacer("\n", " ", "\r", " ").Replace(name)
	if len(name) > config.MaxStoredNameLength {
		cut := config.MaxStoredNameLength
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return name
}

// LoadHighscore returns the highest score saved under exactly name. A missing
// file reads as no scores.
func (s *FileStore) LoadHighscore(name string) (int, error) {
	best := 0
	err := s.each(func(e Entry) {
		if e.Name == name && e.Score > best {
			best = e.Score
		}
	})
	return best, err
}

// Toplist returns the n best lines of the file
func (s *FileStore) Toplist(n int) ([]Entry, error) {
	var entries []Entry
	if err := s.each(func(e Entry) { entries = append(entries, e) }); err != nil {
		return nil, err
	}
	return rank(entries, n), nil
}

// Close is a no-op; the file is only open during a call
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) each(fn func(Entry)) error {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open scores file: %w", err)
	}
	defer f.Close()
	return ReadEntries(f, fn)
}

// ReadEntries parses "name,score" lines from r. The name is everything before
// the last comma. Blank lines are skipped; a line with no comma or a
// non-numeric score stops the scan with ErrMalformedRecord.
func ReadEntries(r io.Reader, fn func(Entry)) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		e, err := ParseLine(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		fn(e)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read scores: %w", err)
	}
	return nil
}

// ParseLine parses a single "name,score" record
func ParseLine(text string) (Entry, error) {
	sep := strings.LastIndexByte(text, ',')
	if sep < 0 {
		return Entry{}, ErrMalformedRecord
	}
	n, err := strconv.Atoi(strings.TrimSpace(text[sep+1:]))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad score %q", ErrMalformedRecord, text[sep+1:])
	}
	return Entry{Name: text[:sep], Score: n}, nil
}
