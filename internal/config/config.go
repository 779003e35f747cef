package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	CacheDir string `toml:"cache_dir"`
}

// Kindle contains ebook-derived-data settings.
type Kindle struct {
	// WordsPerPage converts ebook word counts into page equivalents when
	// the source carries no page count.
	WordsPerPage float64 `toml:"words_per_page"`
}

// Merge contains volume-merge settings.
type Merge struct {
	Volumes bool `toml:"volumes"`
	Dedup   bool `toml:"dedup"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Plan is one configured recurring reading intent: read the named author or
// series at a fixed cadence. Exactly one of Author and Series is set.
type Plan struct {
	Author string `toml:"author"`
	Series string `toml:"series"`
	// PerYear is the cadence; windows are 12/per_year months long.
	PerYear int `toml:"per_year"`
	// Offset is the month within the year the first window opens on.
	Offset int `toml:"offset"`
	// Start overrides the first window's year; zero means the current year.
	Start int `toml:"start"`
	// Force disables the six-month re-read suppression for windows landing
	// in exactly this year.
	Force int `toml:"force"`
	// Skip discards this many leading windows.
	Skip int `toml:"skip"`
}

// Name returns the plan's selector for display.
func (p Plan) Name() string {
	if p.Author != "" {
		return p.Author
	}
	return p.Series
}

// Config encapsulates all configuration values for bookstack.
type Config struct {
	Paths     Paths   `toml:"paths"`
	Kindle    Kindle  `toml:"kindle"`
	Merge     Merge   `toml:"merge"`
	Logging   Logging `toml:"logging"`
	Scheduled []Plan  `toml:"scheduled"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bookstack/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bookstack.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories commands rely on.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.CacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Source-file locations inside the data directory.

func (c *Config) GoodreadsPath() string  { return filepath.Join(c.Paths.DataDir, "goodreads.csv") }
func (c *Config) EbooksPath() string     { return filepath.Join(c.Paths.DataDir, "ebooks.csv") }
func (c *Config) FixesPath() string      { return filepath.Join(c.Paths.DataDir, "fixes.json") }
func (c *Config) AuthorsPath() string    { return filepath.Join(c.Paths.DataDir, "authors.csv") }
func (c *Config) ScrapedPath() string    { return filepath.Join(c.Paths.DataDir, "scraped.csv") }
func (c *Config) CollectionPath() string { return filepath.Join(c.Paths.DataDir, "collection.csv") }

// LookupCachePath locates the author/series lookup cache database.
func (c *Config) LookupCachePath() string {
	return filepath.Join(c.Paths.CacheDir, "lookup.db")
}

// LockPath locates the data-dir lock taken around update runs.
func (c *Config) LockPath() string { return filepath.Join(c.Paths.DataDir, ".bookstack.lock") }

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
