// Package settings reads and writes the player's TOML configuration.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gigurra/jukebox/cmd/common"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
)

const (
	DefaultTickMillis = 250
	DefaultListen     = "127.0.0.1:7788"
)

type Config struct {
	Playback      PlaybackConfig      `toml:"playback"`
	Library       LibraryConfig       `toml:"library"`
	Remote        RemoteConfig        `toml:"remote"`
	Notifications NotificationsConfig `toml:"notifications"`
}

type PlaybackConfig struct {
	Volume      float64 `toml:"volume"`
	AutoAdvance bool    `toml:"auto_advance"`
	TickMillis  int     `toml:"tick_millis"`
}

type LibraryConfig struct {
	// WatchDir is a drop directory; audio files appearing there are queued.
	WatchDir string `toml:"watch_dir"`
}

type RemoteConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

type NotificationsConfig struct {
	Enabled bool `toml:"enabled"`
}

func DefaultConfig() *Config {
	return &Config{
		Playback: PlaybackConfig{
			Volume:      1.0,
			AutoAdvance: false,
			TickMillis:  DefaultTickMillis,
		},
		Remote: RemoteConfig{
			Enabled: false,
			Listen:  DefaultListen,
		},
	}
}

// Path is where Load and Save keep the config file.
func Path() string {
	return filepath.Join(common.ConfigDir(), "config.toml")
}

// Load reads the config file, falling back to defaults when it does not exist.
func Load() (*Config, error) {
	c, err := ReadConfigFile(Path())
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return c, err
}

func (c *Config) Save() error {
	return c.WriteConfigFile(Path())
}

// ReadConfigFile decodes path over the defaults, so fields missing from the
// file keep their default values.
func ReadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := DefaultConfig()
	if err := toml.NewDecoder(f).Decode(c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	c.normalize()
	return c, nil
}

func (c *Config) WriteConfigFile(path string) error {
	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// TickInterval is how often the speaker reports its clock.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Playback.TickMillis) * time.Millisecond
}

func (c *Config) normalize() {
	if math.IsNaN(c.Playback.Volume) {
		c.Playback.Volume = 0
	}
	c.Playback.Volume = lo.Clamp(c.Playback.Volume, 0, 1)
	if c.Playback.TickMillis <= 0 {
		c.Playback.TickMillis = DefaultTickMillis
	}
	if c.Remote.Listen == "" {
		c.Remote.Listen = DefaultListen
	}
}
