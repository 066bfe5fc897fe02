package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"auctioneer/internal/api"

	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	envPrefix      = "auctioneer"
)

// Config holds the application configuration.
type Config struct {
	APIURL         string        `yaml:"api_url" envconfig:"API_URL"`
	DBPath         string        `yaml:"db_path" envconfig:"DB_PATH"`
	StoragePrefix  string        `yaml:"storage_prefix" envconfig:"STORAGE_PREFIX"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	RateLimit      float64       `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	RateBurst      int           `yaml:"rate_burst" envconfig:"RATE_BURST"`
	CategoriesTTL  time.Duration `yaml:"categories_ttl" envconfig:"CATEGORIES_TTL"`
	LogPath        string        `yaml:"log_path" envconfig:"LOG_PATH"`
	LogLevel       string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
	PageSize       int           `yaml:"page_size" envconfig:"PAGE_SIZE"`
	Photos         bool          `yaml:"photos" envconfig:"PHOTOS"`

	// ConfigDir is where config.yaml, the database and the log live.
	ConfigDir string `yaml:"-" ignored:"true"`
}

// DefaultConfig returns the built-in defaults rooted at configDir.
func DefaultConfig(configDir string) *Config {
	return &Config{
		APIURL:         api.DefaultBaseURL,
		DBPath:         filepath.Join(configDir, "auctioneer.db"),
		StoragePrefix:  "auctioneer.",
		RequestTimeout: 5 * time.Second,
		RateLimit:      10,
		RateBurst:      5,
		CategoriesTTL:  5 * time.Minute,
		LogPath:        filepath.Join(configDir, "auctioneer.log"),
		LogLevel:       "info",
		PageSize:       10,
		Photos:         true,
		ConfigDir:      configDir,
	}
}

// DefaultConfigDir is ~/.auctioneer.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".auctioneer"), nil
}

func configPath(configDir string) string {
	return filepath.Join(configDir, configFileName)
}

// LoadConfig layers the defaults, config.yaml in configDir, .env files and
// AUCTIONEER_* environment variables, later layers winning.
func LoadConfig(configDir string) (*Config, error) {
	cfg := DefaultConfig(configDir)

	if err := readConfigFile(configPath(configDir), cfg); err != nil {
		return nil, err
	}

	// .env values never override the real environment.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.ConfigDir = configDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// SaveConfig writes cfg to config.yaml, readable by the owner only.
func SaveConfig(cfg *Config) error {
	if err := os.MkdirAll(cfg.ConfigDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configPath(cfg.ConfigDir), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if err := validateAPIURL(c.APIURL); err != nil {
		return err
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1, got %d", c.PageSize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", c.RateLimit)
	}
	return nil
}

// ClientOptions maps the configuration onto the API client.
func (c *Config) ClientOptions() api.Options {
	return api.Options{
		BaseURL:       c.APIURL,
		Timeout:       c.RequestTimeout,
		RateLimit:     c.RateLimit,
		Burst:         c.RateBurst,
		CategoriesTTL: c.CategoriesTTL,
	}
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		value = strings.Trim(value, `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// Actions are the commands the application can run with a loaded config.
type Actions struct {
	Run    func(cfg *Config) error
	Logout func(cfg *Config) error
	WhoAmI func(cfg *Config) error
}

// NewApp builds the command line: the default action starts the TUI.
func NewApp(version string, actions Actions) *cli.App {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "config-dir", Usage: "directory holding config.yaml, the database and the log (default: ~/.auctioneer)"},
		&cli.StringFlag{Name: "api-url", Usage: "marketplace API root", EnvVars: []string{"AUCTIONEER_API_URL"}},
		&cli.StringFlag{Name: "db", Usage: "path to the SQLite database file"},
		&cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error)"},
		&cli.IntFlag{Name: "page-size", Usage: "auctions per page"},
		&cli.BoolFlag{Name: "no-photos", Usage: "do not render photos"},
		&cli.BoolFlag{Name: "skip-setup", Usage: "do not run first-time setup"},
	}

	with := func(fn func(*Config) error, interactive bool) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := configFromContext(c, interactive)
			if err != nil {
				return err
			}
			return fn(cfg)
		}
	}

	return &cli.App{
		Name:    "auctioneer",
		Usage:   "browse, bid on and sell auctions from the terminal",
		Version: version,
		Flags:   flags,
		Action:  with(actions.Run, true),
		Commands: []*cli.Command{
			{
				Name:   "logout",
				Usage:  "end the stored session",
				Action: with(actions.Logout, false),
			},
			{
				Name:   "whoami",
				Usage:  "print the stored session and its profile",
				Action: with(actions.WhoAmI, false),
			},
		},
	}
}

func configFromContext(c *cli.Context, interactive bool) (*Config, error) {
	configDir := c.String("config-dir")
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if interactive && !c.Bool("skip-setup") && !c.IsSet("api-url") && shouldRunOnboarding(configDir) {
		if err := runOnboarding(configDir); err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
	}

	cfg, err := LoadConfig(configDir)
	if err != nil {
		return nil, err
	}

	if c.IsSet("api-url") {
		cfg.APIURL = c.String("api-url")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("page-size") {
		cfg.PageSize = c.Int("page-size")
	}
	if c.Bool("no-photos") {
		cfg.Photos = false
	}
	return cfg, cfg.Validate()
}
