package cli

import (
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/pipeline"
)

// basePath derives the base output path. An empty output falls back to
// "<name>-mosaic" in the working directory; a known format extension on
// output is stripped.
func basePath(output, name string) string {
	if output == "" {
		stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		if stem == "" || stem == "." || stem == "/" {
			stem = appName
		}
		return stem + "-mosaic"
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[pipeline.NormalizeFormat(ext)] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single
// format with an explicit output uses that path verbatim.
func outputPaths(formats []string, output, name string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, name)
	for _, f := range formats {
		paths[f] = base + pipeline.FormatExt[f]
	}
	return paths
}

// writeArtifacts writes every artifact and returns the paths in format
// order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, name string) ([]string, error) {
	paths := outputPaths(formats, output, name)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if err := errs.ValidateOutputPath(path); err != nil {
			return written, err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return written, errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0644); err != nil {
			return written, errs.Wrap(errs.ErrCodeExport, err, "write %s", path)
		}
		written = append(written, path)
	}
	return written, nil
}
