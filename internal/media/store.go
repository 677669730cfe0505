// Package media stores uploaded product and category images and hands back
// the public URL they will be served from.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Store persists an uploaded image and returns its public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// localStore implements Store on the local file system. Files land under dir
// and are served by the API itself under /media/.
type localStore struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalStore creates a file-system backed media store rooted at dir.
func NewLocalStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory %s: %w", dir, err)
	}

	return &localStore{
		dir:    dir,
		logger: logger.With().Str("component", "local-media-store").Logger(),
	}, nil
}

// Put writes the image to disk and returns its /media/ URL path.
func (s *localStore) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(key))

	f, err := os.Create(path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to create media file")
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write media file")
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	s.logger.Debug().Str("path", path).Msg("media file stored")

	return "/media/" + filepath.Base(key), nil
}
