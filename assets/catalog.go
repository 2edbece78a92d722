// Package assets resolves symbolic asset keys (symbol images, card back,
// sounds) to URLs the presentation layer can fetch. Loading and decoding the
// files is left to the client; a missing key is normal and never an error.
package assets

import (
	"path"
	"strings"
)

// Well-known keys besides the per-symbol image keys.
const (
	KeyBackground = "background"
	KeyCardBack   = "card_back"
	KeyFlip       = "flip"
	KeyMatch      = "match"
	KeyWin        = "win"
	KeyMusic      = "background_music"
)

// Catalog maps asset keys to files under a base URL.
type Catalog struct {
	baseURL string
	files   map[string]string
}

// NewCatalog builds a catalog. Keys are case-insensitive; entries with an
// empty file name are dropped.
func NewCatalog(baseURL string, files map[string]string) *Catalog {
	c := &Catalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		files:   make(map[string]string, len(files)),
	}
	for k, f := range files {
		if f == "" {
			continue
		}
		c.files[strings.ToLower(k)] = f
	}
	return c
}

// Lookup returns the URL for key, or false if the catalog has no such asset.
// A nil catalog has no assets.
func (c *Catalog) Lookup(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	f, ok := c.files[strings.ToLower(key)]
	if !ok {
		return "", false
	}
	if c.baseURL == "" {
		return f, true
	}
	// path.Join would collapse the scheme's double slash in absolute URLs.
	return c.baseURL + "/" + strings.TrimLeft(path.Clean("/"+f), "/"), true
}

// DefaultFiles returns the conventional file names for a symbol set: one
// <symbol>.png per symbol plus the shared images and sounds.
func DefaultFiles(symbols []string) map[string]string {
	files := map[string]string{
		KeyBackground: "images/background.png",
		KeyCardBack:   "images/card_back.png",
		KeyFlip:       "sounds/flip.wav",
		KeyMatch:      "sounds/match.wav",
		KeyWin:        "sounds/win.wav",
		KeyMusic:      "sounds/background_music.mp3",
	}
	for _, s := range symbols {
		key := strings.ToLower(s)
		files[key] = "images/" + key + ".png"
	}
	return files
}
