package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/videotube/backend/internal/mediastore"
	"go.uber.org/zap"
)

// multipartMemory is how much of a multipart body is kept in memory, the rest spills to disk
const multipartMemory = 32 << 20 // 32MB

func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// queryInt reads a positive integer query parameter; absent or malformed values fall back to 0
// and are replaced by the service defaults.
func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// uploadIntake saves multipart file fields to a temp directory so the services
// can hand local paths to the media store.
type uploadIntake struct {
	tempDir string
	logger  *zap.Logger
	paths   []string
}

func newUploadIntake(tempDir string, logger *zap.Logger) *uploadIntake {
	return &uploadIntake{tempDir: tempDir, logger: logger}
}

// parse reads the multipart form of the request
func (u *uploadIntake) parse(r *http.Request) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return fmt.Errorf("failed to parse multipart form: %w", err)
	}
	return nil
}

// save stores the file of a form field and returns its local path.
// A missing or empty field yields an empty path and no error.
func (u *uploadIntake) save(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	if header.Size == 0 {
		return "", nil
	}
	return u.store(file, header)
}

func (u *uploadIntake) store(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.CreateTemp(u.tempDir, mediastore.UploadTempPrefix+"*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	u.paths = append(u.paths, dst.Name())

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return dst.Name(), nil
}

// cleanup removes every temp file and the parsed form, the media store keeps its own copy
func (u *uploadIntake) cleanup(r *http.Request) {
	for _, path := range u.paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			u.logger.Warn("failed to remove temp upload", zap.String("path", path), zap.Error(err))
		}
	}
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
