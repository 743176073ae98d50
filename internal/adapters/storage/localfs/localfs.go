package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/boscoapparel/shop/internal/domain"
)

// Store keeps catalog images on the local disk and serves them under
// /uploads/. It satisfies domain.ImageStore so a CDN-backed store can be
// swapped in without touching the catalog code.
type Store struct{ dir string }

func New(dir string) *Store { return &Store{dir: dir} }

func (s *Store) Save(ctx context.Context, filename string, data []byte, alt string) (domain.ImageRef, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return domain.ImageRef{}, fmt.Errorf("unsupported image type %q", ext)
	}
	publicID := uuid.New().String() + ext
	path := filepath.Join(s.dir, publicID)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return domain.ImageRef{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.ImageRef{}, err
	}
	return domain.ImageRef{
		URL:      "/uploads/" + publicID,
		Alt:      alt,
		PublicID: publicID,
	}, nil
}

func (s *Store) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	// publicID is always a bare generated filename; refuse anything else
	if strings.ContainsAny(publicID, "/\\") {
		return fmt.Errorf("invalid public id %q", publicID)
	}
	err := os.Remove(filepath.Join(s.dir, publicID))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
