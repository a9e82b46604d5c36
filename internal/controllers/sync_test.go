package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/postarr/internal/config"
	"github.com/amaumene/postarr/internal/models"
	"github.com/amaumene/postarr/internal/paths"
	"github.com/amaumene/postarr/internal/services/plex"
)

const posterBytes = "JPEG-POSTER-DATA"

// movieFixture serves a one-movie library and counts artwork downloads
type movieFixture struct {
	mux            *http.ServeMux
	posterRequests int
}

func newMovieFixture() *movieFixture {
	f := &movieFixture{mux: http.NewServeMux()}

	f.mux.HandleFunc("/library/sections", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Directory key="1" title="Movies" type="movie" />
</MediaContainer>`))
	})
	f.mux.HandleFunc("/library/sections/1/all", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Video ratingKey="101" title="X" type="movie" thumb="/image/poster101">
    <Media><Part file="/data/media/Movies/X (2020)/X.mkv" /></Media>
  </Video>
</MediaContainer>`))
	})
	f.mux.HandleFunc("/image/poster101", func(w http.ResponseWriter, r *http.Request) {
		f.posterRequests++
		w.Write([]byte(posterBytes))
	})

	return f
}

func newTestController(t *testing.T, handler http.Handler, fs afero.Fs, opts Options) *SyncController {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client := plex.NewClient(&config.Config{
		PlexURL:     srv.URL,
		PlexToken:   "test-token",
		HTTPTimeout: 5 * time.Second,
	}, logger)

	mapping := paths.Mapping{
		ContainerPrefix: "/data/media",
		HostPrefix:      "/volume1/data/media",
	}
	return NewSyncController(client, fs, mapping, opts, logger)
}

const movieDir = "/volume1/data/media/Movies/X (2020)"

func TestSyncMovieWritesPoster(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(movieDir, 0o755))

	fixture := newMovieFixture()
	ctrl := newTestController(t, fixture.mux, fs, Options{
		LibraryID: 1,
		Mode:      models.WriteModeSkip,
		Poster:    true,
	})

	summary, err := ctrl.Sync(context.Background())
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, movieDir+"/poster.jpg")
	require.NoError(t, err)
	assert.Equal(t, posterBytes, string(data))

	assert.Equal(t, 1, summary.Count(models.ArtworkPoster, models.OutcomeWritten))
	assert.Equal(t, 0, summary.Count(models.ArtworkPoster, models.OutcomeFailed))
	assert.Equal(t, models.ItemKindMovie, ctrl.Library().Kind)
}

func TestSyncMovieSkipExistingFetchesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(movieDir, 0o755))
	require.NoError(t, afero.WriteFile(fs, movieDir+"/poster.jpg", []byte("original"), 0o644))

	fixture := newMovieFixture()
	ctrl := newTestController(t, fixture.mux, fs, Options{
		LibraryID: 1,
		Mode:      models.WriteModeSkip,
		Poster:    true,
	})

	summary, err := ctrl.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Count(models.ArtworkPoster, models.OutcomeSkippedExists))
	assert.Equal(t, 0, fixture.posterRequests, "skip must not download bytes")

	data, err := afero.ReadFile(fs, movieDir+"/poster.jpg")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data), "existing file must stay byte-identical")
}

func TestSyncMovieAddModeTwice(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(movieDir, 0o755))

	fixture := newMovieFixture()
	opts := Options{LibraryID: 1, Mode: models.WriteModeAdd, Poster: true}

	for i := 0; i < 2; i++ {
		ctrl := newTestController(t, fixture.mux, fs, opts)
		_, err := ctrl.Sync(context.Background())
		require.NoError(t, err)
	}

	for _, name := range []string{"poster.jpg", "poster-1.jpg"} {
		exists, err := afero.Exists(fs, movieDir+"/"+name)
		require.NoError(t, err)
		assert.True(t, exists, "%s should exist after two add runs", name)
	}
	exists, err := afero.Exists(fs, movieDir+"/poster-2.jpg")
	require.NoError(t, err)
	assert.False(t, exists, "only two files should exist after two add runs")
}

func TestSyncMovieMissingDirectoryFailsItemOnly(t *testing.T) {
	fs := afero.NewMemMapFs() // movie directory never created

	fixture := newMovieFixture()
	ctrl := newTestController(t, fixture.mux, fs, Options{
		LibraryID: 1,
		Mode:      models.WriteModeSkip,
		Poster:    true,
	})

	summary, err := ctrl.Sync(context.Background())
	require.NoError(t, err, "a bad item must not abort the run")

	assert.Equal(t, 1, summary.Count(models.ArtworkPoster, models.OutcomeFailed))
	require.Len(t, summary.Failures(), 1)
	assert.Contains(t, summary.Failures()[0].Reason, "does not exist")
}

func TestSyncAbortsOnAuthFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	ctrl := newTestController(t, handler, afero.NewMemMapFs(), Options{
		LibraryID: 1,
		Mode:      models.WriteModeSkip,
		Poster:    true,
	})

	_, err := ctrl.Sync(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, plex.ErrUnauthorized))
}

func TestSyncShowSeasons(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/library/sections", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Directory key="2" title="TV Shows" type="show" />
</MediaContainer>`))
	})
	mux.HandleFunc("/library/sections/2/all", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Directory ratingKey="201" title="Show" type="show" />
</MediaContainer>`))
	})
	mux.HandleFunc("/library/metadata/201", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Directory ratingKey="201" title="Show" type="show" thumb="/image/show" art="/image/showart" />
</MediaContainer>`))
	})
	mux.HandleFunc("/library/metadata/201/children", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="3">
  <Directory ratingKey="300" title="All episodes" type="season" />
  <Directory ratingKey="301" title="Season 1" type="season" thumb="/image/s1" />
  <Directory ratingKey="302" title="Season 2" type="season" thumb="/image/s2" />
</MediaContainer>`))
	})
	mux.HandleFunc("/library/metadata/301/children", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Video ratingKey="401" title="Pilot" type="episode">
    <Media><Part file="/data/media/TV/Show/Season 01/e01.mkv" /></Media>
  </Video>
</MediaContainer>`))
	})
	for _, image := range []string{"/image/show", "/image/showart", "/image/s1", "/image/s2"} {
		image := image
		mux.HandleFunc(image, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(posterBytes))
		})
	}

	fs := afero.NewMemMapFs()
	showDir := "/volume1/data/media/TV/Show"
	require.NoError(t, fs.MkdirAll(showDir+"/Season 01", 0o755))
	// No folder for season 2.

	ctrl := newTestController(t, mux, fs, Options{
		LibraryID: 2,
		Mode:      models.WriteModeSkip,
		Poster:    true,
		Fanart:    true,
	})

	summary, err := ctrl.Sync(context.Background())
	require.NoError(t, err)

	for _, path := range []string{
		showDir + "/poster.jpg",
		showDir + "/fanart.jpg",
		showDir + "/Season 01/poster.jpg",
	} {
		exists, err := afero.Exists(fs, path)
		require.NoError(t, err)
		assert.True(t, exists, "%s should have been written", path)
	}

	// Show poster + fanart, season 1 poster, season 2 unmatched folder.
	assert.Equal(t, 2, summary.Count(models.ArtworkPoster, models.OutcomeWritten))
	assert.Equal(t, 1, summary.Count(models.ArtworkFanart, models.OutcomeWritten))
	assert.Equal(t, 1, summary.Count(models.ArtworkPoster, models.OutcomeSkippedBadFolder))
}

func TestSyncMusicAlbumCoverWithRename(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/library/sections", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Directory key="3" title="Music" type="artist" />
</MediaContainer>`))
	})
	mux.HandleFunc("/library/sections/3/all", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Directory ratingKey="501" title="Artist" type="artist" thumb="/image/artist" />
</MediaContainer>`))
	})
	mux.HandleFunc("/library/metadata/501/children", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Directory ratingKey="601" title="Album One" type="album" thumb="/image/album" />
</MediaContainer>`))
	})
	mux.HandleFunc("/library/metadata/601/children", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<MediaContainer size="1">
  <Track ratingKey="701" title="Track">
    <Media><Part file="/data/media/Music/Artist/Album One./t.mp3" /></Media>
  </Track>
</MediaContainer>`))
	})
	for _, image := range []string{"/image/artist", "/image/album"} {
		image := image
		mux.HandleFunc(image, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(posterBytes))
		})
	}

	fs := afero.NewMemMapFs()
	artistDir := "/volume1/data/media/Music/Artist"
	// The on-disk folder drifted from the catalog title (trailing dot).
	require.NoError(t, fs.MkdirAll(artistDir+"/Album One.", 0o755))

	ctrl := newTestController(t, mux, fs, Options{
		LibraryID:    3,
		Mode:         models.WriteModeSkip,
		Poster:       true,
		RenameAlbums: true,
		ForceRename:  true,
	})

	summary, err := ctrl.Sync(context.Background())
	require.NoError(t, err)

	exists, err := afero.Exists(fs, artistDir+"/poster.jpg")
	require.NoError(t, err)
	assert.True(t, exists, "artist poster should have been written")

	exists, err = afero.DirExists(fs, artistDir+"/Album One")
	require.NoError(t, err)
	assert.True(t, exists, "album folder should have been renamed to the catalog title")

	exists, err = afero.Exists(fs, artistDir+"/Album One/cover.jpg")
	require.NoError(t, err)
	assert.True(t, exists, "album cover should have been written into the renamed folder")

	assert.Equal(t, 1, summary.Count(models.ArtworkCover, models.OutcomeWritten))
}
