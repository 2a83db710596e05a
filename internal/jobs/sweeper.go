package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/videotube/backend/internal/mediastore"
	"go.uber.org/zap"
)

// TempSweeper removes upload temp files a crashed or aborted request left behind
type TempSweeper struct {
	dir    string
	maxAge time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewTempSweeper creates a sweeper for upload temp files in dir older than maxAge
func NewTempSweeper(dir string, maxAge time.Duration, logger *zap.Logger) *TempSweeper {
	return &TempSweeper{
		dir:    dir,
		maxAge: maxAge,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep deletes the expired upload temp files and returns how many were removed.
//
// Only regular files named with the upload prefix are considered, the directory may be shared.
func (s *TempSweeper) Sweep() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read temp dir: %w", err)
	}

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasPrefix(entry.Name(), mediastore.UploadTempPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed by its request meanwhile
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove temp file", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// Schedule registers the sweep on c using a standard cron expression
func (s *TempSweeper) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return 0, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return c.AddFunc(spec, func() {
		removed, err := s.Sweep()
		if err != nil {
			s.logger.Error("temp sweep failed", zap.Error(err))
			return
		}
		if removed > 0 {
			s.logger.Info("abandoned upload temp files removed", zap.Int("count", removed))
		}
	})
}
