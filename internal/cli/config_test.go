package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/logomosaic/internal/server"
	"github.com/matzehuels/logomosaic/pkg/cache"
	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]byte(`
session_dir = "/tmp/sessions"

[render]
columns = 80
layout = "scatter"
tint_color = "#1a73e8"

[cache]
backend = "redis"
[cache.redis]
url = "redis://localhost:6379/1"

[server]
addr = ":9000"
`))
	if err != nil {
		t.Fatalf("parseConfig() error = %v", err)
	}

	if cfg.Render.Columns != 80 || cfg.Render.Layout != mosaic.LayoutScatter {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Render.Rows != mosaic.DefaultCells || cfg.Render.CanvasWidth != mosaic.DefaultCanvas {
		t.Errorf("unset render keys should keep defaults: %+v", cfg.Render)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.Redis.URL != "redis://localhost:6379/1" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" || cfg.SessionDir != "/tmp/sessions" {
		t.Errorf("server = %+v, session dir = %q", cfg.Server, cfg.SessionDir)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errs.Code
	}{
		{"syntax", `[render`, errs.ErrCodeInvalidFormat},
		{"unknown key", "[render]\ncolumnz = 3", errs.ErrCodeInvalidFormat},
		{"bad layout", "[render]\nlayout = \"spiral\"", errs.ErrCodeInvalidParams},
		{"bad color", "[render]\ntint_color = \"blue\"", errs.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig([]byte(tt.doc))
			if !errs.Is(err, tt.code) {
				t.Errorf("parseConfig() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("missing default config should be fine: %v", err)
	}
	if cfg.Server.Addr != server.DefaultAddr {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "none.toml")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("explicit missing config error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nrows = 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.Rows != 12 {
		t.Errorf("rows = %d, want 12", cfg.Render.Rows)
	}
}
