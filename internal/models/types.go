package models

// ItemKind represents the kind of catalog item returned by the media server
type ItemKind string

const (
	ItemKindMovie  ItemKind = "movie"
	ItemKindShow   ItemKind = "show"
	ItemKindSeason ItemKind = "season"
	ItemKindArtist ItemKind = "artist"
	ItemKindAlbum  ItemKind = "album"
)

// ArtworkKind represents which artwork image to fetch for an item
type ArtworkKind string

const (
	ArtworkPoster ArtworkKind = "poster"
	ArtworkFanart ArtworkKind = "fanart"
	ArtworkCover  ArtworkKind = "cover" // album covers only
)

// Filename returns the on-disk filename for this artwork kind
func (k ArtworkKind) Filename() string {
	return string(k) + ".jpg"
}

// WriteMode represents the conflict policy applied when a target file exists
type WriteMode string

const (
	WriteModeSkip      WriteMode = "skip"      // leave existing files alone
	WriteModeOverwrite WriteMode = "overwrite" // replace existing files
	WriteModeAdd       WriteMode = "add"       // write numbered siblings (poster-1.jpg, ...)
)

// ParseWriteMode validates a mode string from the command line
func ParseWriteMode(s string) (WriteMode, bool) {
	switch WriteMode(s) {
	case WriteModeSkip, WriteModeOverwrite, WriteModeAdd:
		return WriteMode(s), true
	}
	return "", false
}

// Library identifies one library section on the media server
type Library struct {
	ID    int
	Title string
	Kind  ItemKind
}

// CatalogItem is one media entity (movie, show, season, artist, album) as
// normalized from an API response. Immutable for the duration of a run.
type CatalogItem struct {
	RatingKey string
	Title     string
	Kind      ItemKind
	ParentKey string // empty for top-level items

	// File is the absolute path of the item's first media file as the
	// server reports it. Empty for hierarchical kinds until resolved.
	File string

	// Thumb and Art are server-relative artwork references ("" when the
	// server has none).
	Thumb string
	Art   string
}

// ArtworkRef returns the server-relative artwork reference for the given kind.
// Album covers use the thumb image, same as posters.
func (i CatalogItem) ArtworkRef(kind ArtworkKind) string {
	if kind == ArtworkFanart {
		return i.Art
	}
	return i.Thumb
}
