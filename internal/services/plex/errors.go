package plex

import (
	"context"
	"errors"
)

var (
	// ErrUnauthorized means the token was rejected. Fatal to the whole run.
	ErrUnauthorized = errors.New("plex: invalid or expired token")

	// ErrNotFound means the requested library or item does not exist
	ErrNotFound = errors.New("plex: not found")

	// ErrNoArtwork means the server has no artwork of the requested kind
	ErrNoArtwork = errors.New("plex: no artwork available")
)

// IsFatal reports whether an error must abort the whole run rather than be
// recorded against a single item.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
