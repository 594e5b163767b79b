// Package config loads bookclub configuration from command-line flags,
// environment variables, and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Data        DataConfig
	Server      ServerConfig
	OpenLibrary OpenLibraryConfig
	GitHub      GitHubConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // Optional: json, pretty, actions. Auto-detected when empty.
}

// DataConfig locates the club data files and render output.
type DataConfig struct {
	Dir       string // Directory holding club.json and books.json
	ClubFile  string // Club descriptor; path or http(s) URL
	BooksFile string // Book list; path or http(s) URL
	OutDir    string // Where index.html is written
	CoversDir string // Downloaded cover images
}

// ServerConfig holds preview server configuration.
type ServerConfig struct {
	Listen         string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	// Per-client request budget; a rate of zero turns limiting off.
	RateLimit float64
	RateBurst int
}

// OpenLibraryConfig holds OpenLibrary API configuration.
type OpenLibraryConfig struct {
	BaseURL           string
	CoversURL         string
	UserAgent         string
	RequestsPerSecond int
	SearchLimit       int
}

// GitHubConfig holds the workflow context used to comment on issues.
type GitHubConfig struct {
	Token      string
	Repository string
	EventPath  string
	APIURL     string
}

// Flags carries command-line overrides. Empty values fall through to the
// environment and then to defaults.
type Flags struct {
	Env       string
	LogLevel  string
	LogFormat string
	DataDir   string
	OutDir    string
	CoversDir string
	Listen    string
	EnvFile   string
}

// Load builds the configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(flags Flags) (*Config, error) {
	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %q: %w", envFile, err)
	}

	dataDir := getConfigValue(flags.DataDir, "BOOKCLUB_DATA_DIR", "data")

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(flags.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(flags.LogLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(flags.LogFormat, "LOG_FORMAT", ""),
		},
		Data: DataConfig{
			Dir:       dataDir,
			ClubFile:  getConfigValue("", "BOOKCLUB_CLUB_FILE", ""),
			BooksFile: getConfigValue("", "BOOKCLUB_BOOKS_FILE", ""),
			OutDir:    getConfigValue(flags.OutDir, "BOOKCLUB_OUT_DIR", "public"),
			CoversDir: getConfigValue(flags.CoversDir, "BOOKCLUB_COVERS_DIR", "covers"),
		},
		Server: ServerConfig{
			Listen:         getConfigValue(flags.Listen, "BOOKCLUB_LISTEN", "127.0.0.1:8080"),
			AllowedOrigins: splitList(getConfigValue("", "BOOKCLUB_ALLOWED_ORIGINS", "*")),
			RateBurst:      getIntConfigValue("", "BOOKCLUB_RATE_BURST", 40),
		},
		OpenLibrary: OpenLibraryConfig{
			BaseURL:           getConfigValue("", "OPENLIBRARY_URL", "https://openlibrary.org"),
			CoversURL:         getConfigValue("", "OPENLIBRARY_COVERS_URL", "https://covers.openlibrary.org"),
			UserAgent:         getConfigValue("", "OPENLIBRARY_USER_AGENT", "bookclub/1.0"),
			RequestsPerSecond: getIntConfigValue("", "OPENLIBRARY_RPS", 1),
			SearchLimit:       getIntConfigValue("", "OPENLIBRARY_SEARCH_LIMIT", 10),
		},
		GitHub: GitHubConfig{
			Token:      getConfigValue("", "GITHUB_TOKEN", ""),
			Repository: getConfigValue("", "GITHUB_REPOSITORY", ""),
			EventPath:  getConfigValue("", "GITHUB_EVENT_PATH", ""),
			APIURL:     getConfigValue("", "GITHUB_API_URL", "https://api.github.com"),
		},
	}

	readTimeout, err := getDurationConfigValue("BOOKCLUB_READ_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.Server.ReadTimeout = readTimeout

	writeTimeout, err := getDurationConfigValue("BOOKCLUB_WRITE_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.Server.WriteTimeout = writeTimeout

	rateLimit, err := strconv.ParseFloat(getConfigValue("", "BOOKCLUB_RATE_LIMIT", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKCLUB_RATE_LIMIT: %w", err)
	}
	cfg.Server.RateLimit = rateLimit

	if cfg.Data.ClubFile == "" {
		cfg.Data.ClubFile = filepath.Join(cfg.Data.Dir, "club.json")
	}
	if cfg.Data.BooksFile == "" {
		cfg.Data.BooksFile = filepath.Join(cfg.Data.Dir, "books.json")
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Logger.Format {
	case "", "json", "pretty", "actions":
	default:
		return fmt.Errorf("invalid log format: %s (must be json, pretty, or actions)", c.Logger.Format)
	}

	if c.Data.Dir == "" {
		return errors.New("data directory cannot be empty")
	}
	if c.Data.OutDir == "" {
		return errors.New("output directory cannot be empty")
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %g (must not be negative)", c.Server.RateLimit)
	}

	if c.OpenLibrary.RequestsPerSecond < 1 {
		return fmt.Errorf("invalid OpenLibrary rate: %d (must be at least 1)", c.OpenLibrary.RequestsPerSecond)
	}
	if c.OpenLibrary.SearchLimit < 1 {
		return fmt.Errorf("invalid OpenLibrary search limit: %d (must be at least 1)", c.OpenLibrary.SearchLimit)
	}

	return nil
}

// IsRemote reports whether a data source is an http(s) URL rather than a path.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Data.Dir, &c.Data.OutDir, &c.Data.CoversDir} {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	for _, p := range []*string{&c.Data.ClubFile, &c.Data.BooksFile} {
		if IsRemote(*p) {
			continue
		}
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

func getDurationConfigValue(envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue("", envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
