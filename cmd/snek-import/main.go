package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/trytobebee/snek/pkg/score"
)

func main() {
	from := flag.String("from", "scores.txt", "flat scores file to import")
	dbPath := flag.String("db", "data/snek.db", "SQLite database to import into")
	flag.Parse()
	defer glog.Flush()

	// 1. Check if the scores file exists
	f, err := os.Open(*from)
	if errors.Is(err, os.ErrNotExist) {
		glog.Exitf("%s not found. Pass the scores file with -from.", *from)
	}
	if err != nil {
		glog.Exitf("Failed to open scores file: %v", err)
	}
	defer f.Close()

	// 2. Parse lines, skipping the ones that are not records
	var entries []score.Entry
	skipped := 0
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		e, err := score.ParseLine(text)
		if err != nil {
			glog.Warningf("Skipping line %d: %v", line, err)
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		glog.Exitf("Failed to read scores file: %v", err)
	}

	// 3. Open SQLite DB
	store, err := score.OpenSQLite(*dbPath)
	if err != nil {
		glog.Exitf("Failed to open DB: %v", err)
	}
	defer store.Close()

	// 4. Import
	glog.Infof("Found %d records to import from %s", len(entries), *from)
	count, err := store.Import(entries, "import:"+*from)
	if err != nil {
		glog.Exitf("Import failed: %v", err)
	}

	fmt.Printf("Import complete! Imported %d records into %s, skipped %d lines\n", count, *dbPath, skipped)
}
