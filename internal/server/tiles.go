package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic/sink"
	"github.com/matzehuels/logomosaic/pkg/source"
)

// maxThumbSide bounds ?size= on tile requests.
const maxThumbSide = 1024

type tileInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

type tilesResponse struct {
	Total int        `json:"total"`
	Tiles []tileInfo `json:"tiles"`
}

func (s *Server) handleTiles(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"), DefaultTileLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	set := s.sess.Tiles()
	resp := tilesResponse{Total: set.Len(), Tiles: make([]tileInfo, 0, min(limit, set.Len()))}
	for i := 0; i < set.Len() && i < limit; i++ {
		t := set.At(i)
		tw, th := t.Size()
		resp.Tiles = append(resp.Tiles, tileInfo{ID: t.ID, Name: t.Name, Width: tw, Height: th, URL: tilesRoute + t.ID})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, ok := s.sess.Tiles().ByID(id)
	if !ok {
		writeError(w, errs.New(errs.ErrCodeNotFound, "tile %s", id))
		return
	}

	size, err := intParam(r.URL.Query().Get("size"), 0)
	if err != nil {
		writeError(w, err)
		return
	}

	data, mime := t.Encoded, t.EncodedMIME
	if size > 0 {
		thumb := source.Preview(t.Image, min(size, maxThumbSide))
		if data, err = sink.RenderJPEG(thumb); err != nil {
			writeError(w, errs.Wrap(errs.ErrCodeExport, err, "thumbnail %s", id))
			return
		}
		mime = "image/jpeg"
	}
	if mime == "" {
		mime = "image/jpeg"
	}

	// IDs derive from content, so a tile URL never changes meaning.
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
