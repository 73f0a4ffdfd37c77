package source

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"strings"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

var (
	scriptElem   = regexp.MustCompile(`(?is)<script\b.*?</script\s*>|<script\b[^>]*/>`)
	foreignElem  = regexp.MustCompile(`(?is)<foreignObject\b.*?</foreignObject\s*>|<foreignObject\b[^>]*/>`)
	eventAttr    = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s"'>]*[^\s"'>/])`)
	jsHref       = regexp.MustCompile(`(?i)((?:xlink:)?href\s*=\s*["'])\s*javascript:[^"']*`)
	jsHrefBare   = regexp.MustCompile(`(?i)((?:xlink:)?href\s*=\s*)javascript:[^\s"'>]*[^\s"'>/]`)
	closeSVG     = regexp.MustCompile(`(?i)</svg\s*>`)
	viewBoxSplit = regexp.MustCompile(`[\s,]+`)
)

// LooksLikeSVG sniffs data for an <svg> root element.
func LooksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

// ParseSVG extracts the sanitized inner markup and the intrinsic box of an
// SVG document. The box comes from the viewBox when present, otherwise from
// the width and height attributes.
func ParseSVG(data []byte) (*mosaic.VectorLogo, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity

	var root xml.StartElement
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "no <svg> element")
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse svg")
		}
		if se, ok := tok.(xml.StartElement); ok {
			if !strings.EqualFold(se.Name.Local, "svg") {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "root element is <%s>, not <svg>", se.Name.Local)
			}
			root = se
			break
		}
	}
	bodyStart := int(d.InputOffset())

	v := &mosaic.VectorLogo{}
	var width, height float64
	var viewBox string
	for _, a := range root.Attr {
		switch a.Name.Local {
		case "width":
			width = parseLength(a.Value)
		case "height":
			height = parseLength(a.Value)
		case "viewBox", "viewbox":
			viewBox = a.Value
		}
	}

	if vb, ok := parseViewBox(viewBox); ok {
		v.MinX, v.MinY, v.Width, v.Height = vb[0], vb[1], vb[2], vb[3]
	} else {
		v.Width, v.Height = width, height
	}
	if v.Width <= 0 || v.Height <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "svg has no usable viewBox or width/height")
	}

	body := data[bodyStart:]
	if locs := closeSVG.FindAllIndex(body, -1); len(locs) > 0 {
		body = body[:locs[len(locs)-1][0]]
	} else {
		body = nil
	}
	v.Markup = strings.TrimSpace(Sanitize(string(body)))
	return v, nil
}

// Sanitize strips scripts, foreignObject content, event handler attributes
// and javascript: links from SVG markup. Attribute values may be quoted or
// bare.
func Sanitize(markup string) string {
	markup = scriptElem.ReplaceAllString(markup, "")
	markup = foreignElem.ReplaceAllString(markup, "")
	markup = eventAttr.ReplaceAllString(markup, "")
	markup = jsHref.ReplaceAllString(markup, "${1}#")
	return jsHrefBare.ReplaceAllString(markup, "${1}#")
}

func parseViewBox(s string) ([4]float64, bool) {
	var vb [4]float64
	fields := viewBoxSplit.Split(strings.TrimSpace(s), -1)
	if len(fields) != 4 {
		return vb, false
	}
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return vb, false
		}
		vb[i] = n
	}
	return vb, vb[2] > 0 && vb[3] > 0
}

// parseLength reads an absolute length in user units. Relative units
// (%, em) yield zero.
func parseLength(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
