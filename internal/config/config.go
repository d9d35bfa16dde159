package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Site    Site    `yaml:"site"`
	Server  Server  `yaml:"server"`
	Store   Store   `yaml:"store"`
	Feeds   []Feed  `yaml:"feeds"`
	Output  Output  `yaml:"output"`
	Logging Logging `yaml:"logging"`
}

type Site struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type Server struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type Store struct {
	Path   string `yaml:"path"`
	URLEnv string `yaml:"url_env"`
	KeyEnv string `yaml:"key_env"`
}

// Feed is a YouTube channel whose uploads are synced into the videos table.
type Feed struct {
	ChannelID string `yaml:"channel_id"`
	URL       string `yaml:"url"`
	Name      string `yaml:"name"`
	Game      string `yaml:"game"` // game slug the videos belong to
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Credentials are the store endpoint and access key read from the environment.
type Credentials struct {
	URL string
	Key string
}

// Complete reports whether both values are present.
func (c Credentials) Complete() bool {
	return c.URL != "" && c.Key != ""
}

// ConfigDir returns the XDG config directory for gamestudy.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "gamestudy")
}

// DataDir returns the XDG data directory for gamestudy.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "gamestudy")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/gamestudy/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'gamestudy init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Site: Site{
			Name:     "ゲーム攻略アカデミー",
			Language: "ja",
		},
		Server: Server{Port: 8000},
		Store: Store{
			URLEnv: "GAMESTUDY_STORE_URL",
			KeyEnv: "GAMESTUDY_STORE_KEY",
		},
		Logging: Logging{Level: "info"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	for i, f := range cfg.Feeds {
		if f.URL == "" && f.ChannelID != "" {
			cfg.Feeds[i].URL = "https://www.youtube.com/feeds/videos.xml?channel_id=" + f.ChannelID
		}
	}

	return cfg, nil
}

// LoadEnv loads a .env file into the process environment if one exists.
// Variables already set win over the file.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Credentials reads the store endpoint and key from the environment.
func (c *Config) Credentials() Credentials {
	return Credentials{
		URL: os.Getenv(c.Store.URLEnv),
		Key: os.Getenv(c.Store.KeyEnv),
	}
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// DBPath returns the SQLite file the site reads from.
func (c *Config) DBPath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(c.GetDataDir(), "gamestudy.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
