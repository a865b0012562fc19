package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Timing
const (
	TickBudget     = 750 * time.Millisecond // time between two steps
	GameOverBlinks = 10
	BlinkInterval  = 400 * time.Millisecond
	ReplayTick     = 150 * time.Millisecond
)

// Terminal requirements
const (
	MinTerminalWidth  = 35
	MinTerminalHeight = 8
)

// Player and score settings
const (
	NickMaxLength         = 15
	DefaultNick           = "anonymous"
	MaxStoredNameLength   = 80
	ToplistSize           = 10
	ToplistWidth          = 20
	FoodPlacementAttempts = 100
)

// Characters for rendering
const (
	CharFrame     = "▒"
	CharSnake     = "▓"
	CharGhost     = "░"
	CharFood      = "●"
	CharRule      = "─"
	TextGameOver  = "GAME OVER"
	TextContinue  = "Press any key to continue"
	TextQuit      = "Press any key to quit"
	TextNickname  = "Nickname?  "
	TextPlayAgain = "Play again?"
)

// Backends and stores
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
	StoreFile    = "file"
	StoreSQLite  = "sqlite"
)

// Config holds the runtime settings of the game binary
type Config struct {
	Backend     string
	Store       string
	ScoresFile  string
	DBPath      string
	RecordDir   string // empty disables recording
	TickBudget  time.Duration
	ToplistSize int
	EnvFile     string
}

// Default returns the settings used when nothing is overridden
func Default() Config {
	return Config{
		Backend:     BackendANSI,
		Store:       StoreFile,
		ScoresFile:  "scores.txt",
		DBPath:      "data/snek.db",
		TickBudget:  TickBudget,
		ToplistSize: ToplistSize,
		EnvFile:     ".env",
	}
}

// Load builds the configuration: defaults, then the .env file, then SNEK_*
// environment variables, then flags registered on fs and parsed from args.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()

	envFile := cfg.EnvFile
	if v, ok := os.LookupEnv("SNEK_ENV_FILE"); ok {
		envFile = v
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	cfg.EnvFile = envFile

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "terminal backend: ansi or tcell")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "score store: file or sqlite")
	fs.StringVar(&cfg.ScoresFile, "scores", cfg.ScoresFile, "flat scores file (file store)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "database path (sqlite store)")
	fs.StringVar(&cfg.RecordDir, "record", cfg.RecordDir, "directory for step recordings, empty to disable")
	fs.DurationVar(&cfg.TickBudget, "tick", cfg.TickBudget, "time between steps")
	fs.IntVar(&cfg.ToplistSize, "top", cfg.ToplistSize, "number of entries on the toplist")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"SNEK_BACKEND":    &c.Backend,
		"SNEK_STORE":      &c.Store,
		"SNEK_SCORES":     &c.ScoresFile,
		"SNEK_DB":         &c.DBPath,
		"SNEK_RECORD_DIR": &c.RecordDir,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("SNEK_TICK"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SNEK_TICK %q: %w", v, err)
		}
		c.TickBudget = d
	}
	if v, ok := os.LookupEnv("SNEK_TOP"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SNEK_TOP %q: %w", v, err)
		}
		c.ToplistSize = n
	}
	return nil
}

// Validate checks the settings for values the game cannot run with
func (c Config) Validate() error {
	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Store {
	case StoreFile:
		if c.ScoresFile == "" {
			return errors.New("scores file must not be empty")
		}
	case StoreSQLite:
		if c.DBPath == "" {
			return errors.New("database path must not be empty")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.TickBudget <= 0 {
		return fmt.Errorf("tick budget must be positive, got %v", c.TickBudget)
	}
	if c.ToplistSize <= 0 {
		return fmt.Errorf("toplist size must be positive, got %d", c.ToplistSize)
	}
	return nil
}
