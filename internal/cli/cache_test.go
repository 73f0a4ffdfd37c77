package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/logomosaic/pkg/cache"
)

func TestCacheClearByKind(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := &CLI{config: defaultConfig()}
	c.config.Cache.Dir = dir

	store, _ := cache.NewFileCache(dir)
	k := cache.NewDefaultKeyer()
	tile := k.TileKey("photo", cache.TileKeyOpts{Quality: 92})
	artifact := k.ArtifactKey("doc", cache.ArtifactKeyOpts{Format: "png"})
	_ = store.Set(ctx, tile, []byte("jpeg"), cache.TTLTile)
	_ = store.Set(ctx, artifact, []byte("png"), cache.TTLArtifact)

	cmd := c.cacheCommand()
	cmd.SetArgs([]string{"clear", "--kind", "artifact"})
	captureStdout(t, func() {
		if err := cmd.ExecuteContext(ctx); err != nil {
			t.Fatal(err)
		}
	})

	if _, hit, _ := store.Get(ctx, artifact); hit {
		t.Error("artifact should be cleared")
	}
	if _, hit, _ := store.Get(ctx, tile); !hit {
		t.Error("tile snapshot should survive an artifact clear")
	}

	cmd = c.cacheCommand()
	cmd.SetArgs([]string{"clear", "--kind", "thumbnail"})
	cmd.SetErr(new(strings.Builder))
	if err := cmd.ExecuteContext(ctx); err == nil {
		t.Error("unknown kind should fail")
	}
}

func TestCacheStatsTable(t *testing.T) {
	out := renderCacheUsage(map[string]cache.KindUsage{
		cache.KindTile:     {Entries: 240, Bytes: 3 << 20},
		cache.KindArtifact: {Entries: 2, Bytes: 1536},
	})
	for _, want := range []string{"tile", "240", "3.0 MB", "logo", "artifact", "1.5 KB", "total", "242"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestCachePruneCommand(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := &CLI{config: defaultConfig()}
	c.config.Cache.Dir = dir

	store, _ := cache.NewFileCache(dir)
	logo := cache.NewDefaultKeyer().LogoKey("svg", cache.LogoKeyOpts{Width: 64, Height: 64})
	_ = store.Set(ctx, logo, []byte("raster"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	cmd := c.cacheCommand()
	cmd.SetArgs([]string{"prune"})
	out := captureStdout(t, func() {
		if err := cmd.ExecuteContext(ctx); err != nil {
			t.Fatal(err)
		}
	})
	if !strings.Contains(out, "Pruned 1 expired entries") {
		t.Errorf("prune output = %q", out)
	}
}
