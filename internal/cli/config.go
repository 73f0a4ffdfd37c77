package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/logomosaic/internal/server"
	"github.com/matzehuels/logomosaic/pkg/cache"
	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

// Config is the optional config file:
//
//	session_dir = "/var/lib/logomosaic/sessions"
//
//	[render]
//	canvas_width = 4096
//	canvas_height = 4096
//	columns = 80
//	rows = 80
//	layout = "scatter"
//	tint_percent = 20
//	tint_color = "#1a73e8"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	url = "redis://localhost:6379/0"
//
//	[server]
//	addr = "127.0.0.1:8420"
type Config struct {
	SessionDir string        `toml:"session_dir"`
	Render     mosaic.Params `toml:"render"`
	Cache      cache.Config  `toml:"cache"`
	Server     ServerConfig  `toml:"server"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

func defaultConfig() *Config {
	return &Config{
		Render: mosaic.DefaultParams(),
		Server: ServerConfig{Addr: server.DefaultAddr},
	}
}

// loadConfig reads the config file at path. An empty path tries the default
// location, which may be absent; an explicit path must exist.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return defaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return defaultConfig(), nil
	}
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read config %s", path)
	}
	return parseConfig(data)
}

// parseConfig decodes a config document over the defaults. Unknown keys
// are rejected so typos do not pass silently.
func parseConfig(data []byte) (*Config, error) {
	cfg := defaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	cfg.Render.Normalize()
	if err := cfg.Render.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
