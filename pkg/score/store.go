// Package score persists finished games and answers highscore and toplist
// queries. Two stores are provided: a flat file of "name,score" lines and a
// SQLite database.
package score

import (
	"errors"
	"sort"

	"github.com/golang/glog"
)

// ErrMalformedRecord is returned when a stored line cannot be parsed
var ErrMalformedRecord = errors.New("score: malformed record")

// Entry is a nickname-score pair
type Entry struct {
	Name  string
	Score int
}

// Store is a persistent collection of scores
type Store interface {
	// LoadHighscore returns the best score saved for name, or 0
	LoadHighscore(name string) (int, error)
	// SaveScore appends a finished game
	SaveScore(name string, score int) error
	// Toplist returns up to n entries, best first
	Toplist(n int) ([]Entry, error)
	Close() error
}

// Highscore asks the store for the player's best score. Errors are logged and
// read as 0, so a broken store never stops a game from starting.
func Highscore(s Store, name string) int {
	hs, err := s.LoadHighscore(name)
	if err != nil {
		glog.Warningf("Failed to load highscore for %q: %v", name, err)
		return 0
	}
	if hs < 0 {
		return 0
	}
	return hs
}

// Save stores a finished game. A failure is logged and otherwise ignored.
func Save(s Store, name string, score int) bool {
	if err := s.SaveScore(name, score); err != nil {
		glog.Warningf("Failed to save score %d for %q: %v", score, name, err)
		return false
	}
	glog.V(1).Infof("Saved score %d for %q", score, name)
	return true
}

// Top returns the toplist, or nil when the store cannot be read
func Top(s Store, n int) []Entry {
	entries, err := s.Toplist(n)
	if err != nil {
		glog.Warningf("Failed to read toplist: %v", err)
		return nil
	}
	return entries
}

// rank sorts entries best first, keeping insertion order on ties, and cuts to n
func rank(entries []Entry, n int) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
