package session

import (
	"context"
	"time"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic/sink"
)

// DefaultTTL is how long saved sessions are kept.
const DefaultTTL = 30 * 24 * time.Hour

// Saved is a persisted render: where its sources came from and the exact
// placement that was painted.
type Saved struct {
	ID    string   `json:"id"`
	Logo  string   `json:"logo"`
	Tiles []string `json:"tiles"`

	// TileMaxSide and TileQuality are the loader settings the tiles were
	// decoded and encoded with. Restoring with the same values reproduces
	// the painted pixels and embedded snapshots.
	TileMaxSide int `json:"tile_max_side"`
	TileQuality int `json:"tile_quality,omitempty"`

	Placement *sink.Placement `json:"placement"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// IsExpired returns true if the saved session has outlived its TTL.
func (s *Saved) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Store is the interface for saved-session backends.
type Store interface {
	// Get retrieves a saved session by ID.
	// Returns nil, nil if it doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Saved, error)

	// Set stores a saved session.
	Set(ctx context.Context, saved *Saved) error

	// Delete removes a saved session.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// Save captures the session's last render as a [Saved] record. logoPath and
// tilePaths are the sources it was loaded from. An empty id generates one.
func (s *Session) Save(id, logoPath string, tilePaths []string, ttl time.Duration) (*Saved, error) {
	snap := s.Snapshot()
	if snap == nil {
		return nil, errs.New(errs.ErrCodeNotReady, "nothing rendered yet")
	}
	if id == "" {
		var err error
		if id, err = GenerateID(); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "generate session id")
		}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	var opts []sink.JSONOption
	if logo := s.Logo(); logo != nil {
		opts = append(opts, sink.WithJSONLogo(logo.Name))
	}
	now := time.Now()
	return &Saved{
		ID:        id,
		Logo:      logoPath,
		Tiles:     tilePaths,
		Placement: sink.NewPlacement(snap.Params, snap.Record, snap.LogoBox, opts...),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}
