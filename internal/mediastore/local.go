package mediastore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LocalURLPrefix is the route under which local media files are served
const LocalURLPrefix = "/media/"

// localStore implements Gateway using local filesystem
type localStore struct {
	inspector
	basePath string
	baseURL  string
}

// NewLocalStore creates a gateway copying files under basePath and serving them at baseURL + LocalURLPrefix
func NewLocalStore(basePath, baseURL string, prober DurationProber, logger *zap.Logger) *localStore {
	return &localStore{
		inspector: inspector{prober: prober, logger: logger},
		basePath:  basePath,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// generatePath generates the full file path based on kind and file name
func (s *localStore) generatePath(kind, name string) string {
	return filepath.Join(s.basePath, kind, name)
}

// Upload copies the file into the store
func (s *localStore) Upload(ctx context.Context, localPath string) (*Asset, error) {
	info, err := s.inspect(ctx, localPath)
	if err != nil {
		return nil, err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	name := GenerateFileName(info.extension)
	path := s.generatePath(info.kind, name)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	// Count bytes while copying
	written := &sizeWriter{}
	if _, err := io.Copy(dst, io.TeeReader(src, written)); err != nil {
		dst.Close()
		// Cleanup: delete the partial file if copy fails
		os.Remove(path)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return &Asset{
		URL:         s.baseURL + LocalURLPrefix + info.kind + "/" + name,
		ContentType: info.contentType,
		Size:        written.Size(),
		Duration:    info.duration,
	}, nil
}

// Delete removes the file the URL points at
func (s *localStore) Delete(ctx context.Context, remoteURL string) error {
	path, err := s.pathOf(remoteURL)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// pathOf maps a URL issued by Upload back onto the file system
func (s *localStore) pathOf(remoteURL string) (string, error) {
	prefix := s.baseURL + LocalURLPrefix
	if !strings.HasPrefix(remoteURL, prefix) {
		return "", ErrForeignURL
	}

	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(remoteURL, prefix)))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ErrForeignURL
	}

	return filepath.Join(s.basePath, rel), nil
}
