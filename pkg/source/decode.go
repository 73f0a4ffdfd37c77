package source

import (
	"bytes"
	"errors"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
)

// rasterExts are the file extensions treated as raster images.
var rasterExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// unsupportedExts are recognised image formats without a decoder.
var unsupportedExts = map[string]bool{
	".heic": true,
	".heif": true,
	".avif": true,
}

// IsImage reports whether path has a decodable raster extension.
func IsImage(path string) bool {
	return rasterExts[strings.ToLower(filepath.Ext(path))]
}

// IsSVG reports whether path has an SVG extension.
func IsSVG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".svg")
}

// checkSupported rejects formats that are known but cannot be decoded.
func checkSupported(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if unsupportedExts[ext] {
		return errs.New(errs.ErrCodeUnsupportedFormat, "%s: %s images are not supported", name, strings.TrimPrefix(ext, "."))
	}
	return nil
}

// decodeImage decodes raster bytes, applying EXIF orientation.
func decodeImage(name string, data []byte) (image.Image, error) {
	if err := checkSupported(name); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, errs.Wrap(errs.ErrCodeUnsupportedFormat, err, "%s: unknown image format", name)
		}
		return nil, errs.Wrap(errs.ErrCodeDecode, err, "decode %s", name)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, errs.New(errs.ErrCodeDecode, "%s: empty image", name)
	}
	return img, nil
}

// encodeJPEG snapshots img as JPEG.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodePNG snapshots img as PNG.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
