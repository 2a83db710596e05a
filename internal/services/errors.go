package services

import (
	"errors"

	"github.com/videotube/backend/internal/apperror"
	"github.com/videotube/backend/internal/repositories"
)

// readError maps a failed repository read onto the error taxonomy
func readError(err error, notFound string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Internal("internal server error", err)
}

// writeError maps a failed repository write onto the error taxonomy
func writeError(err error, notFound, failure string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Persistence(failure, err)
}

// pageBounds normalizes 1-based page and limit query values
func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)
