package controllers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/amaumene/postarr/internal/models"
	"github.com/amaumene/postarr/internal/paths"
	"github.com/amaumene/postarr/internal/services/plex"
)

// processShow handles one TV show: show-level poster/fanart, then one
// poster per season folder that matches a standard name.
func (c *SyncController) processShow(ctx context.Context, item models.CatalogItem, summary *models.Summary) error {
	// The section listing carries stale artwork refs for shows; refetch.
	meta, err := c.client.ItemMetadata(ctx, item.RatingKey, models.ItemKindShow)
	if err != nil {
		if plex.IsFatal(err) {
			return err
		}
		c.failAll(summary, item.Title, err.Error())
		return nil
	}

	episodeDir, err := c.client.ShowPath(ctx, item.RatingKey)
	if err != nil {
		if plex.IsFatal(err) {
			return err
		}
		c.failAll(summary, item.Title, "no media path reported")
		return nil
	}

	// The show folder is one level above the first episode's directory.
	showDir := filepath.Dir(paths.Resolve(episodeDir, c.mapping))
	if !c.dirExists(showDir) {
		c.failAll(summary, item.Title, fmt.Sprintf("directory %s does not exist", showDir))
		return nil
	}

	for _, kind := range c.enabledKinds() {
		if err := c.downloadArtwork(ctx, summary, meta, item.Title, showDir, kind); err != nil {
			return err
		}
	}

	if !c.opts.Poster {
		return nil
	}
	return c.processSeasons(ctx, summary, item, showDir)
}

// processSeasons downloads a poster into each matched season subfolder
func (c *SyncController) processSeasons(ctx context.Context, summary *models.Summary, show models.CatalogItem, showDir string) error {
	seasons, err := c.client.ListChildren(ctx, show.RatingKey, models.ItemKindSeason)
	if err != nil {
		if plex.IsFatal(err) {
			return err
		}
		c.logger.WithError(err).WithField("show", show.Title).Warn("Failed to list seasons")
		return nil
	}

	folders, err := paths.ListSubfolders(c.fs, showDir)
	if err != nil {
		c.logger.WithError(err).WithField("show", show.Title).Warn("Failed to list season folders")
		return nil
	}

	for _, season := range seasons {
		if paths.IsAllEpisodes(season.Title) {
			continue
		}
		title := show.Title + " / " + season.Title

		names, ok := paths.SeasonFolderNames(season.Title)
		if !ok {
			c.record(summary, models.Outcome{
				Title:  title,
				Kind:   models.ArtworkPoster,
				Tag:    models.OutcomeSkippedBadFolder,
				Reason: "non-standard season title",
			})
			continue
		}

		folder, ok := paths.MatchFolder(folders, names)
		if !ok {
			c.record(summary, models.Outcome{
				Title:  title,
				Kind:   models.ArtworkPoster,
				Tag:    models.OutcomeSkippedBadFolder,
				Reason: fmt.Sprintf("no matching season folder in %s", showDir),
			})
			continue
		}

		seasonDir := filepath.Join(showDir, folder)
		if err := c.downloadArtwork(ctx, summary, season, title, seasonDir, models.ArtworkPoster); err != nil {
			return err
		}
	}
	return nil
}
