package cache

// Keyer builds cache keys. Implementations must be deterministic: equal
// inputs always yield equal keys.
type Keyer interface {
	// TileKey identifies the encoded snapshot of a tile source.
	TileKey(contentHash string, opts TileKeyOpts) string

	// LogoKey identifies a rasterized vector logo.
	LogoKey(contentHash string, opts LogoKeyOpts) string

	// ArtifactKey identifies a rendered output for a placement.
	ArtifactKey(placementHash string, opts ArtifactKeyOpts) string
}

// TileKeyOpts are the encoding options that change a tile's snapshot.
type TileKeyOpts struct {
	Quality int `json:"quality"`
	MaxSide int `json:"max_side,omitempty"`
}

// LogoKeyOpts are the raster dimensions of a rasterized logo.
type LogoKeyOpts struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ArtifactKeyOpts are the export options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Quality int    `json:"quality,omitempty"`
	MaxSide int    `json:"max_side,omitempty"`
	Linked  bool   `json:"linked,omitempty"`
}

// DefaultKeyer hashes the content hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) TileKey(contentHash string, opts TileKeyOpts) string {
	return hashKey("tile", contentHash, opts)
}

func (DefaultKeyer) LogoKey(contentHash string, opts LogoKeyOpts) string {
	return hashKey("logo", contentHash, opts)
}

func (DefaultKeyer) ArtifactKey(placementHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", placementHash, opts)
}

var _ Keyer = DefaultKeyer{}
