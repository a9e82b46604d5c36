// Package plex is a thin client for the Plex media server catalog API. It
// normalizes the server's XML into models.CatalogItem values so the rest of
// the program never touches raw responses.
package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/postarr/internal/config"
	"github.com/amaumene/postarr/internal/models"
)

// maxRetries bounds the retry loop for transient network failures.
// Auth failures and not-found responses are never retried.
const maxRetries = 2

// Client handles communication with the Plex API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Plex API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    cfg.PlexURL,
		token:      cfg.PlexToken,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}
}

// url builds a full request URL with the token attached
func (c *Client) url(path string) string {
	params := url.Values{}
	params.Set("X-Plex-Token", c.token)
	return c.baseURL + path + "?" + params.Encode()
}

// get performs a GET request with bounded retry on transient failures
func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.WithError(err).Debug("Plex request failed, may retry")
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return backoff.Permanent(ErrUnauthorized)
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("plex: unexpected status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return body, nil
}

// getContainer fetches and decodes one MediaContainer response
func (c *Client) getContainer(ctx context.Context, path string) (*mediaContainer, error) {
	c.logger.WithField("path", path).Debug("Making Plex API request")

	body, err := c.get(ctx, c.url(path))
	if err != nil {
		return nil, err
	}

	var container mediaContainer
	if err := xml.Unmarshal(body, &container); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &container, nil
}

// ListLibraries returns all library sections, sorted by id
func (c *Client) ListLibraries(ctx context.Context) ([]models.Library, error) {
	container, err := c.getContainer(ctx, "/library/sections")
	if err != nil {
		return nil, fmt.Errorf("failed to list libraries: %w", err)
	}

	var libraries []models.Library
	for _, d := range container.Directories {
		id, err := strconv.Atoi(d.Key)
		if err != nil {
			continue
		}
		libraries = append(libraries, models.Library{
			ID:    id,
			Title: d.Title,
			Kind:  models.ItemKind(d.Type),
		})
	}
	sort.Slice(libraries, func(i, j int) bool { return libraries[i].ID < libraries[j].ID })

	return libraries, nil
}

// Library returns the library section with the given id
func (c *Client) Library(ctx context.Context, id int) (models.Library, error) {
	libraries, err := c.ListLibraries(ctx)
	if err != nil {
		return models.Library{}, err
	}
	for _, lib := range libraries {
		if lib.ID == id {
			return lib, nil
		}
	}
	return models.Library{}, fmt.Errorf("library %d: %w", id, ErrNotFound)
}

// ListItems returns the top-level items of a library section. Movies carry
// their media file path; shows and artists resolve theirs lazily via
// ShowPath and ArtistPath.
func (c *Client) ListItems(ctx context.Context, lib models.Library) ([]models.CatalogItem, error) {
	container, err := c.getContainer(ctx, fmt.Sprintf("/library/sections/%d/all", lib.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to list items of library %d: %w", lib.ID, err)
	}

	var items []models.CatalogItem
	for _, v := range container.Videos {
		items = append(items, models.CatalogItem{
			RatingKey: v.RatingKey,
			Title:     v.Title,
			Kind:      models.ItemKindMovie,
			File:      v.file(),
			Thumb:     v.Thumb,
			Art:       v.Art,
		})
	}
	for _, d := range container.Directories {
		items = append(items, models.CatalogItem{
			RatingKey: d.RatingKey,
			Title:     d.Title,
			Kind:      lib.Kind,
			Thumb:     d.Thumb,
			Art:       d.Art,
		})
	}
	return items, nil
}

// ListChildren returns the child items of a show (seasons) or artist
// (albums). The childKind tags the returned items.
func (c *Client) ListChildren(ctx context.Context, ratingKey string, childKind models.ItemKind) ([]models.CatalogItem, error) {
	container, err := c.getContainer(ctx, "/library/metadata/"+ratingKey+"/children")
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", ratingKey, err)
	}

	var items []models.CatalogItem
	for _, d := range container.Directories {
		items = append(items, models.CatalogItem{
			RatingKey: d.RatingKey,
			Title:     d.Title,
			Kind:      childKind,
			ParentKey: ratingKey,
			Thumb:     d.Thumb,
			Art:       d.Art,
		})
	}
	return items, nil
}

// ItemMetadata returns the refreshed metadata of one item
func (c *Client) ItemMetadata(ctx context.Context, ratingKey string, kind models.ItemKind) (models.CatalogItem, error) {
	container, err := c.getContainer(ctx, "/library/metadata/"+ratingKey)
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("failed to get metadata of %s: %w", ratingKey, err)
	}
	if len(container.Directories) == 0 {
		return models.CatalogItem{}, fmt.Errorf("item %s: %w", ratingKey, ErrNotFound)
	}

	d := container.Directories[0]
	return models.CatalogItem{
		RatingKey: d.RatingKey,
		Title:     d.Title,
		Kind:      kind,
		Thumb:     d.Thumb,
		Art:       d.Art,
	}, nil
}

// ShowPath returns the directory of a show's first episode's media file.
// The show folder itself is one level above it.
func (c *Client) ShowPath(ctx context.Context, showKey string) (string, error) {
	seasons, err := c.getContainer(ctx, "/library/metadata/"+showKey+"/children")
	if err != nil {
		return "", err
	}

	for _, season := range seasons.Directories {
		if season.RatingKey == "" {
			continue
		}
		episodes, err := c.getContainer(ctx, "/library/metadata/"+season.RatingKey+"/children")
		if err != nil {
			if IsFatal(err) {
				return "", err
			}
			continue
		}
		for _, ep := range episodes.Videos {
			if file := ep.file(); file != "" {
				return filepath.Dir(file), nil
			}
		}
	}
	return "", fmt.Errorf("show %s has no episode file: %w", showKey, ErrNotFound)
}

// ArtistPath returns the directory of the first track of an artist's first
// album. The artist folder itself is one level above it.
func (c *Client) ArtistPath(ctx context.Context, artistKey string) (string, error) {
	albums, err := c.getContainer(ctx, "/library/metadata/"+artistKey+"/children")
	if err != nil {
		return "", err
	}

	for _, album := range albums.Directories {
		if album.RatingKey == "" {
			continue
		}
		tracks, err := c.getContainer(ctx, "/library/metadata/"+album.RatingKey+"/children")
		if err != nil {
			if IsFatal(err) {
				return "", err
			}
			continue
		}
		for _, t := range tracks.Tracks {
			if file := t.file(); file != "" {
				return filepath.Dir(file), nil
			}
		}
	}
	return "", fmt.Errorf("artist %s has no track file: %w", artistKey, ErrNotFound)
}

// ArtworkURL returns the full download URL for an item's artwork of the
// given kind, or ErrNoArtwork when the server reports none.
func (c *Client) ArtworkURL(item models.CatalogItem, kind models.ArtworkKind) (string, error) {
	ref := item.ArtworkRef(kind)
	if ref == "" || ref == "None" {
		return "", fmt.Errorf("%s %q: %w", kind, item.Title, ErrNoArtwork)
	}
	return c.url(ref), nil
}

// FetchImage downloads artwork bytes from a URL previously returned by
// ArtworkURL.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	data, err := c.get(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	return data, nil
}
