package controllers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/postarr/internal/models"
	"github.com/amaumene/postarr/internal/paths"
	"github.com/amaumene/postarr/internal/services/plex"
)

// processArtist handles one music artist: artist-level poster/fanart, then
// one cover per album folder.
func (c *SyncController) processArtist(ctx context.Context, item models.CatalogItem, summary *models.Summary) error {
	trackDir, err := c.client.ArtistPath(ctx, item.RatingKey)
	if err != nil {
		if plex.IsFatal(err) {
			return err
		}
		c.failAll(summary, item.Title, "no media path reported")
		return nil
	}

	// The artist folder is one level above the first album's directory.
	artistDir := filepath.Dir(paths.Resolve(trackDir, c.mapping))
	if !c.dirExists(artistDir) {
		c.failAll(summary, item.Title, fmt.Sprintf("directory %s does not exist", artistDir))
		return nil
	}

	for _, kind := range c.enabledKinds() {
		if err := c.downloadArtwork(ctx, summary, item, item.Title, artistDir, kind); err != nil {
			return err
		}
	}

	// Album covers ride on the poster flag, like season posters do.
	if !c.opts.Poster {
		return nil
	}
	return c.processAlbums(ctx, summary, item, artistDir)
}

// processAlbums downloads a cover.jpg into each matched album subfolder
func (c *SyncController) processAlbums(ctx context.Context, summary *models.Summary, artist models.CatalogItem, artistDir string) error {
	albums, err := c.client.ListChildren(ctx, artist.RatingKey, models.ItemKindAlbum)
	if err != nil {
		if plex.IsFatal(err) {
			return err
		}
		c.logger.WithError(err).WithField("artist", artist.Title).Warn("Failed to list albums")
		return nil
	}

	for _, album := range albums {
		title := artist.Title + " / " + album.Title

		albumDir, ok := c.resolveAlbumDir(summary, album.Title, title, artistDir)
		if !ok {
			continue
		}
		if err := c.downloadArtwork(ctx, summary, album, title, albumDir, models.ArtworkCover); err != nil {
			return err
		}
	}
	return nil
}

// resolveAlbumDir locates the folder of one album under the artist folder.
// Exact (case-insensitive) title match first; folders whose name drifted
// from the catalog title fall back to fuzzy matching and are optionally
// renamed to the catalog title.
func (c *SyncController) resolveAlbumDir(summary *models.Summary, albumTitle, label, artistDir string) (string, bool) {
	exact := filepath.Join(artistDir, albumTitle)
	if c.dirExists(exact) {
		return exact, true
	}

	folders, err := paths.ListSubfolders(c.fs, artistDir)
	if err != nil {
		c.record(summary, models.Outcome{
			Title:  label,
			Kind:   models.ArtworkCover,
			Tag:    models.OutcomeFailed,
			Reason: err.Error(),
		})
		return "", false
	}

	if folder, ok := paths.MatchFolder(folders, []string{albumTitle}); ok {
		return filepath.Join(artistDir, folder), true
	}

	folder, ok := paths.BestMatch(albumTitle, folders)
	if !ok {
		c.record(summary, models.Outcome{
			Title:  label,
			Kind:   models.ArtworkCover,
			Tag:    models.OutcomeSkippedBadFolder,
			Reason: fmt.Sprintf("no matching album folder in %s", artistDir),
		})
		return "", false
	}

	if c.opts.RenameAlbums && folder != albumTitle {
		prompt := fmt.Sprintf("Rename %q to %q", folder, albumTitle)
		if c.opts.ForceRename || c.confirm(prompt) {
			if err := c.fs.Rename(filepath.Join(artistDir, folder), exact); err != nil {
				c.logger.WithError(err).WithField("album", albumTitle).Warn("Failed to rename album folder")
			} else {
				c.logger.WithFields(logrus.Fields{
					"from": folder,
					"to":   albumTitle,
				}).Info("Renamed album folder")
				return exact, true
			}
		}
	}

	return filepath.Join(artistDir, folder), true
}
