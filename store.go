package sitemirror

import "context"

// Store persists fetched content into the mirror tree.
type Store interface {
	// Save writes content for rawURL below the store's root directory and
	// returns the path of the written file.
	// Directory or write failures return EFILESYSTEM.
	Save(ctx context.Context, rawURL string, content []byte) (string, error)
}
