package scheduler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/daylansit/social-blog/internal/metrics"
	"github.com/daylansit/social-blog/internal/repo"
	"github.com/daylansit/social-blog/internal/storage"
	"github.com/robfig/cron/v3"
)

// minSweepAge protects files from being swept while their create request is
// still in flight between the file write and the post insert.
const minSweepAge = time.Hour

// Run starts a background cron job that removes orphaned image files on the
// given schedule. Image deletion is best effort at request time, so files can
// outlive their post; the sweep is the compensating cleanup.
// Returns the cron so the caller can Stop it on shutdown.
func Run(posts *repo.PostRepo, images *storage.Images, cronExpr string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cronExpr, func() {
		Sweep(context.Background(), posts, images, minSweepAge)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	slog.Info("image sweep scheduled", "cron", cronExpr, "dir", images.Dir)
	return c, nil
}

// Sweep removes files in the image directory that no post references and
// that are older than minAge. Errors are logged; a failed sweep pass is
// retried implicitly on the next schedule.
func Sweep(ctx context.Context, posts *repo.PostRepo, images *storage.Images, minAge time.Duration) {
	urls, err := posts.ImageURLs(ctx)
	if err != nil {
		slog.Error("image sweep: list references", "error", err)
		return
	}

	referenced := make(map[string]bool, len(urls))
	for _, u := range urls {
		referenced[filepath.Base(u)] = true
	}

	entries, err := os.ReadDir(images.Dir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("image sweep: read dir", "error", err)
		}
		return
	}

	cutoff := time.Now().Add(-minAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(images.Dir, entry.Name())); err != nil {
			slog.Error("image sweep: remove", "file", entry.Name(), "error", err)
			continue
		}
		metrics.ImagesSwept.Inc()
		removed++
	}

	if removed > 0 {
		slog.Info("image sweep finished", "removed", removed)
	}
}
