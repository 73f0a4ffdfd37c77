package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, name, want string
	}{
		{"", "brand.svg", "brand-mosaic"},
		{"", "/abs/dir/brand.png", "brand-mosaic"},
		{"", "", appName + "-mosaic"},
		{"poster.png", "brand.svg", "poster"},
		{"out/poster.JPG", "brand.svg", "out/poster"},
		{"poster.v2", "brand.svg", "poster.v2"},
		{"poster", "brand.svg", "poster"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.name); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.name, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths([]string{"png"}, "my.image", "logo.svg")
	if want := map[string]string{"png": "my.image"}; !reflect.DeepEqual(got, want) {
		t.Errorf("single format = %v, want %v", got, want)
	}

	got = outputPaths([]string{"png", "jpeg", "svg", "json"}, "", "logo.svg")
	want := map[string]string{
		"png":  "logo-mosaic.png",
		"jpeg": "logo-mosaic.jpg",
		"svg":  "logo-mosaic.svg",
		"json": "logo-mosaic.json",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("multi format = %v, want %v", got, want)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, filepath.Join(dir, "nested", "out"), "logo.png")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "nested", "out.svg"), filepath.Join(dir, "nested", "out.json")}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("svg content = %q", data)
	}

	_, err = writeArtifacts(artifacts, []string{"svg"}, dir+"/", "logo.png")
	if !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("directory output err = %v, want INVALID_PATH", err)
	}
}
