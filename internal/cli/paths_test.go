package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/logomosaic/pkg/cache"
)

func TestXDGDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name   string
		env    string
		value  string
		dir    func() (string, error)
		expect string
	}{
		{"cache default", "XDG_CACHE_HOME", "", cacheDir, filepath.Join(home, ".cache", "logomosaic")},
		{"cache xdg", "XDG_CACHE_HOME", "/tmp/xdg-cache", cacheDir, filepath.Join("/tmp/xdg-cache", "logomosaic")},
		{"config default", "XDG_CONFIG_HOME", "", configDir, filepath.Join(home, ".config", "logomosaic")},
		{"config xdg", "XDG_CONFIG_HOME", "/tmp/xdg-config", configDir, filepath.Join("/tmp/xdg-config", "logomosaic")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			dir, err := tt.dir()
			if err != nil {
				t.Fatal(err)
			}
			if dir != tt.expect {
				t.Errorf("dir = %q, want %q", dir, tt.expect)
			}
		})
	}
}

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	c := &CLI{config: defaultConfig()}
	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-cache", "logomosaic"); dir != want {
		t.Errorf("fileCacheDir() = %q, want %q", dir, want)
	}

	c.config.Cache.Dir = "/srv/mosaic-cache"
	if dir, _ := c.fileCacheDir(); dir != "/srv/mosaic-cache" {
		t.Errorf("configured dir ignored: %q", dir)
	}

	c.config.Cache.Backend = cache.BackendRedis
	if _, err := c.fileCacheDir(); err == nil {
		t.Error("redis backend should not resolve a cache directory")
	}
}
