package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/disposition/pkg/pipeline"
)

// Config is the persistent CLI configuration, read from
// $XDG_CONFIG_HOME/disposition/config.toml.
type Config struct {
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// RenderConfig holds defaults for the render and watch flags.
type RenderConfig struct {
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	LOD           string  `toml:"lod"`
	EdgeAnimation string  `toml:"edge_animation"`
	NoCache       bool    `toml:"no_cache"`
	NoFont        bool    `toml:"no_font"`
	Tooltips      bool    `toml:"tooltips"`
}

// ServeConfig holds the HTTP server settings.
type ServeConfig struct {
	Addr     string  `toml:"addr"`
	Rate     float64 `toml:"rate"`
	Burst    int     `toml:"burst"`
	RedisURL string  `toml:"redis_url"`
	MaxBytes int     `toml:"max_bytes"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			LOD:           pipeline.DefaultLOD,
			EdgeAnimation: pipeline.DefaultEdgeAnimation,
		},
		Serve: ServeConfig{
			Addr:     ":8080",
			Rate:     10,
			Burst:    20,
			MaxBytes: pipeline.DefaultMaxBytes,
		},
	}
}

// configPath returns the default config file location.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads path, or the default location when path is empty, over
// the defaults. A missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// applyEnv loads .env files when present and lets DISPOSITION_* variables
// override the serve settings.
func (c *ServeConfig) applyEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	if v := os.Getenv("DISPOSITION_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("DISPOSITION_REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("DISPOSITION_RATE"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DISPOSITION_RATE: %w", err)
		}
		c.Rate = r
	}
	return nil
}

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(c.Config); err != nil {
				return err
			}
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	})
	return cmd
}
