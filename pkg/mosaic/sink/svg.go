package sink

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/disintegration/imaging"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

// Fixed identifiers referenced by the content group.
const (
	ClipID = "logoClip"
	MaskID = "logoMask"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	tileHref func(*mosaic.Tile) string
}

// WithLinkedTiles references tiles by URL (base + tile ID) instead of
// embedding their snapshots. The preview server uses this to keep documents
// small.
func WithLinkedTiles(base string) SVGOption {
	return func(r *svgRenderer) {
		r.tileHref = func(t *mosaic.Tile) string { return base + t.ID }
	}
}

// RenderSVG builds the vector document for rec. p must be the parameters
// rec was rendered with; only the tint and logo fields are read beyond the
// canvas size.
func RenderSVG(p mosaic.Params, logo *mosaic.Logo, rec *mosaic.PlacementRecord, opts ...SVGOption) ([]byte, error) {
	if logo == nil || logo.Raster == nil {
		return nil, errs.New(errs.ErrCodeNotReady, "no logo loaded")
	}
	if rec.Len() == 0 {
		return nil, errs.New(errs.ErrCodeNotReady, "nothing rendered yet")
	}

	r := svgRenderer{tileHref: (*mosaic.Tile).DataURI}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := p.CanvasWidth, p.CanvasHeight
	box := logo.Fit(w, h)
	overlay := p.LogoMode == mosaic.LogoOverlay

	var logoPNG string
	if logo.Vector == nil {
		uri, err := pngDataURI(logo)
		if err != nil {
			return nil, err
		}
		logoPNG = uri
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", w, h, w, h)

	buf.WriteString("  <defs>")
	if !overlay {
		if logo.Vector != nil {
			renderClipPath(&buf, logo.Vector, box)
		} else {
			renderLuminanceMask(&buf, logoPNG, box, w, h)
		}
	}
	buf.WriteString("\n  </defs>\n")

	switch {
	case overlay:
		buf.WriteString("  <g>\n")
	case logo.Vector != nil:
		fmt.Fprintf(&buf, `  <g clip-path="url(#%s)">`+"\n", ClipID)
	default:
		fmt.Fprintf(&buf, `  <g mask="url(#%s)">`+"\n", MaskID)
	}

	scatter := rec.Mode == mosaic.LayoutScatter
	for _, pt := range rec.Tiles {
		renderTile(&buf, pt, r.tileHref(pt.Tile), scatter)
	}

	if p.TintPercent > 0 {
		fmt.Fprintf(&buf, `    <rect x="0" y="0" width="%d" height="%d" fill="%s" opacity="%.3f" style="mix-blend-mode:multiply" />`+"\n",
			w, h, p.TintColor, float64(p.TintPercent)/100)
	}

	if overlay {
		opacity := float64(p.OverlayAlpha) / 100
		if logo.Vector != nil {
			fmt.Fprintf(&buf, `    <g opacity="%.3f" transform="%s">`+"\n      %s\n    </g>\n", opacity, logoTransform(logo.Vector, box), logo.Vector.Markup)
		} else {
			fmt.Fprintf(&buf, `    <image x="%s" y="%s" width="%s" height="%s" href="%s" opacity="%.3f" preserveAspectRatio="xMidYMid meet" />`+"\n",
				num(box.X), num(box.Y), num(box.W), num(box.H), logoPNG, opacity)
		}
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes(), nil
}

func renderClipPath(buf *bytes.Buffer, v *mosaic.VectorLogo, box mosaic.Rect) {
	fmt.Fprintf(buf, "\n"+`  <clipPath id="%s" clipPathUnits="userSpaceOnUse">`+"\n", ClipID)
	fmt.Fprintf(buf, `    <g transform="%s">`+"\n      %s\n    </g>\n", logoTransform(v, box), v.Markup)
	buf.WriteString("  </clipPath>")
}

func renderLuminanceMask(buf *bytes.Buffer, href string, box mosaic.Rect, w, h int) {
	fmt.Fprintf(buf, "\n"+`  <mask id="%s" maskUnits="userSpaceOnUse" maskContentUnits="userSpaceOnUse" mask-type="luminance" x="0" y="0" width="%d" height="%d">`+"\n", MaskID, w, h)
	fmt.Fprintf(buf, `    <rect x="0" y="0" width="%d" height="%d" fill="black"/>`+"\n", w, h)
	fmt.Fprintf(buf, `    <image x="%s" y="%s" width="%s" height="%s" href="%s" preserveAspectRatio="xMidYMid meet" />`+"\n",
		num(box.X), num(box.Y), num(box.W), num(box.H), href)
	buf.WriteString("  </mask>")
}

func renderTile(buf *bytes.Buffer, pt mosaic.PlacedTile, href string, scatter bool) {
	f := num
	if scatter {
		f = fixed2
	}
	fmt.Fprintf(buf, `    <image x="%s" y="%s" width="%s" height="%s" href="%s" preserveAspectRatio="xMidYMid slice" />`+"\n",
		f(pt.X), f(pt.Y), f(pt.W), f(pt.H), href)
}

// logoTransform maps the vector logo's own coordinate space onto box.
func logoTransform(v *mosaic.VectorLogo, box mosaic.Rect) string {
	sx, sy := box.W/v.Width, box.H/v.Height
	t := fmt.Sprintf("translate(%s,%s) scale(%s,%s)", num(box.X), num(box.Y), num(sx), num(sy))
	if v.MinX != 0 || v.MinY != 0 {
		t += fmt.Sprintf(" translate(%s,%s)", num(-v.MinX), num(-v.MinY))
	}
	return t
}

func pngDataURI(logo *mosaic.Logo) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, logo.Raster, imaging.PNG); err != nil {
		return "", errs.Wrap(errs.ErrCodeExport, err, "encode logo")
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// num formats v in its shortest exact decimal form.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
