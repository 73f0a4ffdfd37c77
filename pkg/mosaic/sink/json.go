package sink

import (
	"encoding/json"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	warnings []mosaic.Warning
	logoName string
}

// WithJSONWarnings records the quality warnings of the render.
func WithJSONWarnings(ws []mosaic.Warning) JSONOption {
	return func(r *jsonRenderer) { r.warnings = ws }
}

// WithJSONLogo records the logo's name.
func WithJSONLogo(name string) JSONOption {
	return func(r *jsonRenderer) { r.logoName = name }
}

// Placement is the JSON form of a placement record.
type Placement struct {
	Params    mosaic.Params    `json:"params"`
	Signature mosaic.Signature `json:"signature"`
	TileSize  [2]int           `json:"tile_size"`
	Logo      string           `json:"logo,omitempty"`
	LogoBox   *mosaic.Rect     `json:"logo_box,omitempty"`
	Tiles     []PlacedTile     `json:"tiles"`
	Warnings  []mosaic.Warning `json:"warnings,omitempty"`
}

// PlacedTile is one entry of [Placement.Tiles].
type PlacedTile struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	mosaic.Rect
}

// NewPlacement builds the JSON form of rec. logoBox may be empty when no
// logo is known.
func NewPlacement(p mosaic.Params, rec *mosaic.PlacementRecord, logoBox mosaic.Rect, opts ...JSONOption) *Placement {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	tw, th := rec.Signature.TileSize()
	out := &Placement{
		Params:    p,
		Signature: rec.Signature,
		TileSize:  [2]int{tw, th},
		Logo:      r.logoName,
		Tiles:     make([]PlacedTile, len(rec.Tiles)),
		Warnings:  r.warnings,
	}
	if !logoBox.Empty() {
		out.LogoBox = &logoBox
	}
	for i, pt := range rec.Tiles {
		out.Tiles[i] = PlacedTile{ID: pt.Tile.ID, Name: pt.Tile.Name, Rect: pt.Rect}
	}
	return out
}

// RenderJSON exports rec with the parameters it was rendered with as a
// pretty-printed JSON document.
func RenderJSON(p mosaic.Params, rec *mosaic.PlacementRecord, logoBox mosaic.Rect, opts ...JSONOption) ([]byte, error) {
	if rec == nil {
		return nil, errs.New(errs.ErrCodeNotReady, "nothing rendered yet")
	}
	data, err := json.MarshalIndent(NewPlacement(p, rec, logoBox, opts...), "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeExport, err, "encode placement")
	}
	return data, nil
}

// ParseJSON reads a document written by [RenderJSON].
func ParseJSON(data []byte) (*Placement, error) {
	var p Placement
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse placement")
	}
	p.Params.Normalize()
	return &p, nil
}

// Order returns the tile IDs in paint order.
func (p *Placement) Order() []string {
	ids := make([]string, len(p.Tiles))
	for i, t := range p.Tiles {
		ids[i] = t.ID
	}
	return ids
}

// Scatter returns the recorded scatter geometry, or nil for grid layouts.
func (p *Placement) Scatter() []mosaic.Rect {
	if p.Params.Layout != mosaic.LayoutScatter {
		return nil
	}
	rects := make([]mosaic.Rect, len(p.Tiles))
	for i, t := range p.Tiles {
		rects[i] = t.Rect
	}
	return rects
}
