package controllers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/amaumene/postarr/internal/models"
	"github.com/amaumene/postarr/internal/paths"
)

// processMovie handles one movie: its folder is the directory of its media
// file, remapped to the local filesystem view.
func (c *SyncController) processMovie(ctx context.Context, item models.CatalogItem, summary *models.Summary) error {
	if item.File == "" {
		c.failAll(summary, item.Title, "no media path reported")
		return nil
	}

	dir := paths.Resolve(filepath.Dir(item.File), c.mapping)
	if !c.dirExists(dir) {
		c.failAll(summary, item.Title, fmt.Sprintf("directory %s does not exist", dir))
		return nil
	}

	for _, kind := range c.enabledKinds() {
		if err := c.downloadArtwork(ctx, summary, item, item.Title, dir, kind); err != nil {
			return err
		}
	}
	return nil
}
