package controllers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/amaumene/postarr/internal/models"
	"github.com/amaumene/postarr/internal/paths"
	"github.com/amaumene/postarr/internal/services/plex"
)

// Options selects what a sync run does
type Options struct {
	LibraryID int
	Mode      models.WriteMode
	Poster    bool
	Fanart    bool

	// Workers bounds the parallel fan-out across items. 1 means fully
	// sequential processing.
	Workers int

	// RenameAlbums renames fuzzily matched album folders to the catalog
	// title; ForceRename skips the confirmation prompt.
	RenameAlbums bool
	ForceRename  bool

	// Confirm answers rename prompts. Defaults to reading stdin.
	Confirm func(prompt string) bool
}

// SyncController walks one library and writes artwork into each item's
// folder. Every item is an independent unit of work; a failing item is
// recorded and the run continues. Only an auth failure aborts the run.
type SyncController struct {
	client  *plex.Client
	fs      afero.Fs
	mapping paths.Mapping
	opts    Options
	logger  *logrus.Logger
	confirm func(prompt string) bool

	lib      models.Library
	dirLocks sync.Map // directory -> *sync.Mutex
}

// NewSyncController creates a new sync controller
func NewSyncController(client *plex.Client, fs afero.Fs, mapping paths.Mapping, opts Options, logger *logrus.Logger) *SyncController {
	confirm := opts.Confirm
	if confirm == nil {
		reader := bufio.NewReader(os.Stdin)
		confirm = func(prompt string) bool {
			fmt.Printf("%s [y/N]: ", prompt)
			line, _ := reader.ReadString('\n')
			return strings.EqualFold(strings.TrimSpace(line), "y")
		}
	}

	return &SyncController{
		client:  client,
		fs:      fs,
		mapping: mapping,
		opts:    opts,
		logger:  logger,
		confirm: confirm,
	}
}

// Sync runs one full pass over the configured library
func (c *SyncController) Sync(ctx context.Context) (*models.Summary, error) {
	lib, err := c.client.Library(ctx, c.opts.LibraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve library %d: %w", c.opts.LibraryID, err)
	}
	c.lib = lib

	c.logger.WithFields(logrus.Fields{
		"library": lib.Title,
		"type":    lib.Kind,
		"mode":    c.opts.Mode,
	}).Info("Starting artwork sync")

	items, err := c.client.ListItems(ctx, lib)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve items: %w", err)
	}

	var process func(context.Context, models.CatalogItem, *models.Summary) error
	switch lib.Kind {
	case models.ItemKindMovie:
		process = c.processMovie
	case models.ItemKindShow:
		process = c.processShow
	case models.ItemKindArtist:
		process = c.processArtist
	default:
		return nil, fmt.Errorf("unsupported library type %q", lib.Kind)
	}

	workers := c.opts.Workers
	if workers < 1 {
		workers = 1
	}

	summary := &models.Summary{}
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithFirstError().WithCancelOnError()
	for _, item := range items {
		item := item
		p.Go(func(ctx context.Context) error {
			return process(ctx, item, summary)
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	c.logger.WithField("items", len(items)).Info("Artwork sync finished")
	return summary, nil
}

// Library returns the library section of the last Sync call
func (c *SyncController) Library() models.Library {
	return c.lib
}

// enabledKinds returns the artwork kinds selected for top-level items
func (c *SyncController) enabledKinds() []models.ArtworkKind {
	var kinds []models.ArtworkKind
	if c.opts.Poster {
		kinds = append(kinds, models.ArtworkPoster)
	}
	if c.opts.Fanart {
		kinds = append(kinds, models.ArtworkFanart)
	}
	return kinds
}

// lockDir serializes filename allocation and writing per directory, so
// poster and fanart for the same item can never race for a slot.
func (c *SyncController) lockDir(dir string) func() {
	v, _ := c.dirLocks.LoadOrStore(dir, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// record stores an outcome and logs it at the appropriate level
func (c *SyncController) record(summary *models.Summary, o models.Outcome) {
	summary.Record(o)

	log := c.logger.WithFields(logrus.Fields{
		"title":   o.Title,
		"artwork": o.Kind,
	})
	switch o.Tag {
	case models.OutcomeWritten:
		log.WithField("path", o.Path).Info("Artwork written")
	case models.OutcomeFailed:
		log.WithField("reason", o.Reason).Warn("Artwork failed")
	case models.OutcomeSkippedBadFolder:
		log.WithField("reason", o.Reason).Warn("Folder not matched, skipping")
	default:
		log.WithField("outcome", o.Tag).Debug("Artwork skipped")
	}
}

// failAll records a failed outcome for every enabled artwork kind of one
// item, used when the whole item cannot be processed.
func (c *SyncController) failAll(summary *models.Summary, title, reason string) {
	for _, kind := range c.enabledKinds() {
		c.record(summary, models.Outcome{
			Title:  title,
			Kind:   kind,
			Tag:    models.OutcomeFailed,
			Reason: reason,
		})
	}
}

// downloadArtwork is the per-unit state machine: allocate a filename under
// the write mode, resolve the artwork URL, download, and write atomically.
// The skip decision is made before any bytes are fetched. Returns an error
// only when the run must abort.
func (c *SyncController) downloadArtwork(ctx context.Context, summary *models.Summary, item models.CatalogItem, title, dir string, kind models.ArtworkKind) error {
	unlock := c.lockDir(dir)
	defer unlock()

	dest, err := paths.Allocate(c.fs, dir, kind.Filename(), c.opts.Mode)
	if errors.Is(err, paths.ErrExists) {
		c.record(summary, models.Outcome{Title: title, Kind: kind, Tag: models.OutcomeSkippedExists})
		return nil
	}
	if err != nil {
		c.record(summary, models.Outcome{Title: title, Kind: kind, Tag: models.OutcomeFailed, Reason: err.Error()})
		return nil
	}

	imageURL, err := c.client.ArtworkURL(item, kind)
	if errors.Is(err, plex.ErrNoArtwork) {
		c.record(summary, models.Outcome{Title: title, Kind: kind, Tag: models.OutcomeSkippedNoArtwork})
		return nil
	}
	if err != nil {
		c.record(summary, models.Outcome{Title: title, Kind: kind, Tag: models.OutcomeFailed, Reason: err.Error()})
		return nil
	}

	data, err := c.client.FetchImage(ctx, imageURL)
	if err != nil {
		if plex.IsFatal(err) {
			return err
		}
		c.record(summary, models.Outcome{Title: title, Kind: kind, Tag: models.OutcomeFailed, Reason: err.Error()})
		return nil
	}

	if err := c.writeAtomic(dest, data); err != nil {
		c.record(summary, models.Outcome{Title: title, Kind: kind, Tag: models.OutcomeFailed, Reason: err.Error()})
		return nil
	}

	c.record(summary, models.Outcome{Title: title, Kind: kind, Tag: models.OutcomeWritten, Path: dest})
	return nil
}

// writeAtomic writes data into a temporary file next to dest and renames it
// into place, so an interrupted download never leaves a corrupt image.
func (c *SyncController) writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := afero.TempFile(c.fs, dir, "."+filepath.Base(dest)+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		c.fs.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		c.fs.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := c.fs.Rename(tmpName, dest); err != nil {
		c.fs.Remove(tmpName)
		return fmt.Errorf("failed to rename %s to %s: %w", tmpName, dest, err)
	}
	return nil
}

// dirExists checks that a resolved item directory is actually on disk
func (c *SyncController) dirExists(dir string) bool {
	ok, err := afero.DirExists(c.fs, dir)
	return err == nil && ok
}
