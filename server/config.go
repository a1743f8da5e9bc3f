package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Settings struct {
	Port    string
	Board   BoardSettings
	Session SessionSettings
}

type BoardSettings struct {
	Width  int
	Height int
	Name   string
	// Layout is a text map file; when set it decides width and height.
	Layout string
}

type SessionSettings struct {
	MaxConnections int           `mapstructure:"max_connections"`
	Queue          int           `mapstructure:"queue"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// LoadSettings reads defaults, an optional config file named by
// ROBOGRID_CONFIG and ROBOGRID_* environment overrides.
func LoadSettings() (Settings, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("board.width", 8)
	v.SetDefault("board.height", 8)
	v.SetDefault("board.name", "")
	v.SetDefault("board.layout", "")
	v.SetDefault("session.max_connections", 6)
	v.SetDefault("session.queue", 10)
	v.SetDefault("session.timeout", 200*time.Millisecond)

	if cfgPath := os.Getenv("ROBOGRID_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("ROBOGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most hosting platforms set.
	_ = v.BindEnv("port", "ROBOGRID_PORT", "PORT")

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if s.Board.Width <= 0 || s.Board.Height <= 0 {
		return Settings{}, fmt.Errorf("board size %dx%d", s.Board.Width, s.Board.Height)
	}
	if s.Session.MaxConnections <= 0 {
		return Settings{}, fmt.Errorf("session.max_connections must be positive")
	}
	return s, nil
}

// LoadLayout returns the configured layout, or an open board of the
// configured size when no layout file is set.
func (s Settings) LoadLayout() (*Layout, error) {
	if s.Board.Layout == "" {
		return OpenLayout(s.Board.Width, s.Board.Height), nil
	}
	return LoadLayout(s.Board.Layout)
}
