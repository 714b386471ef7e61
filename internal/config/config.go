package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrInvalidSocketPath  = errors.New("backend socket path must be set")
	ErrInvalidDialTimeout = errors.New("backend dial timeout must be positive")
)

// Config holds all application configuration
type Config struct {
	Backend BackendConfig `json:"backend"`
	Compile CompileConfig `json:"compile"`
}

// BackendConfig locates the moss backend process.
type BackendConfig struct {
	SocketPath  string        `json:"socket_path"`
	DialTimeout time.Duration `json:"dial_timeout"`
}

// CompileConfig holds the optional host-injected compile defaults. It is
// read once at startup and never mutated afterwards; FolderPath stays empty
// unless the hosting environment provides one.
type CompileConfig struct {
	FolderPath string `json:"folder_path"`
	AutoServe  bool   `json:"auto_serve"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			SocketPath:  defaultSocketPath(),
			DialTimeout: 5 * time.Second,
		},
		Compile: CompileConfig{
			AutoServe: true,
		},
	}
}

// defaultSocketPath points at the socket the backend opens next to its
// support files. Falls back to /tmp when no home directory is known.
func defaultSocketPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "moss-backend.sock")
	}
	return filepath.Join(home, "Library", "Application Support", "moss", "backend.sock")
}

// LoadFromViper applies host-provided overrides on top of the defaults.
// Keys that were never set leave the defaults untouched, so the compile
// injection point stays optional.
func (c *Config) LoadFromViper(v *viper.Viper) {
	if v.IsSet("backend.socket_path") {
		c.Backend.SocketPath = v.GetString("backend.socket_path")
	}
	if v.IsSet("backend.dial_timeout") {
		c.Backend.DialTimeout = v.GetDuration("backend.dial_timeout")
	}
	if v.IsSet("folder_path") {
		c.Compile.FolderPath = v.GetString("folder_path")
	}
	if v.IsSet("auto_serve") {
		c.Compile.AutoServe = v.GetBool("auto_serve")
	}
}

// Validate ensures the configuration is valid
func (c *Config) Validate() error {
	if c.Backend.SocketPath == "" {
		return ErrInvalidSocketPath
	}
	if c.Backend.DialTimeout <= 0 {
		return ErrInvalidDialTimeout
	}
	return nil
}
