package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/daylansit/social-blog/internal/repo"
	"github.com/daylansit/social-blog/internal/storage"
)

func writeAgedFile(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("img"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
}

func TestSweep_RemovesOrphansKeepsReferenced(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT image_url FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"image_url"}).AddRow("images/kept.png"))

	images := &storage.Images{Dir: t.TempDir()}
	writeAgedFile(t, images.Dir, "kept.png", 2*time.Hour)
	writeAgedFile(t, images.Dir, "orphan.png", 2*time.Hour)
	writeAgedFile(t, images.Dir, "fresh-orphan.png", time.Minute)

	Sweep(context.Background(), repo.NewPostRepo(db), images, time.Hour)

	if _, err := os.Stat(filepath.Join(images.Dir, "kept.png")); err != nil {
		t.Errorf("referenced file removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(images.Dir, "orphan.png")); !os.IsNotExist(err) {
		t.Errorf("orphan not removed, stat err: %v", err)
	}
	// Too young to sweep even though unreferenced.
	if _, err := os.Stat(filepath.Join(images.Dir, "fresh-orphan.png")); err != nil {
		t.Errorf("fresh orphan removed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSweep_MissingDirIsQuiet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT image_url FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"image_url"}))

	images := &storage.Images{Dir: filepath.Join(t.TempDir(), "does-not-exist")}
	Sweep(context.Background(), repo.NewPostRepo(db), images, time.Hour)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
