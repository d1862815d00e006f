package storage

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned by Save for anything that is not a
// PNG or JPEG upload. Callers treat it as "no image provided".
var ErrUnsupportedType = errors.New("unsupported image type")

// extByType maps accepted upload content types to a file extension.
var extByType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpeg",
	"image/jpg":  ".jpg",
}

// Images stores uploaded post images on the local filesystem under Dir.
// Stored files are referenced as "images/<name>" regardless of Dir, which is
// the path they are served from.
type Images struct {
	Dir string
}

// Save validates the upload's content type, writes it under a generated
// unique name, and returns the reference path ("images/<name>").
func (s *Images) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext, ok := extByType[header.Header.Get("Content-Type")]
	if !ok {
		return "", ErrUnsupportedType
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}

	return "images/" + name, nil
}

// Clear removes a stored image by its reference path. Removal is best
// effort: failures are logged and never propagated, so a leftover file
// cannot fail the request that triggered the delete.
func (s *Images) Clear(path string) {
	if path == "" {
		return
	}
	// Only the file name matters; the reference prefix is fixed and a
	// crafted path must not escape the image directory.
	name := filepath.Base(path)
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		slog.Error("clear image", "path", path, "error", err)
	}
}
