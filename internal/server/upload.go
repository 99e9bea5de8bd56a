package server

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// Uploads stores request images on local disk, one directory per kind
// (users, posts, programs, sliders, advisors).
type Uploads struct {
	root string
}

func NewUploads(root string) *Uploads {
	return &Uploads{root: root}
}

// Save writes the uploaded file under <root>/<kind>/ with a random name and
// returns the public URL path.
func (u *Uploads) Save(c *fiber.Ctx, file *multipart.FileHeader, kind string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return "", errors.New("unsupported image type "+ext, errors.CategoryBadInput).
			WithTextCode("UNSUPPORTED_IMAGE")
	}

	dir := filepath.Join(u.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "creating upload directory")
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "storing uploaded file")
	}

	return "/public/images/" + kind + "/" + name, nil
}

// Remove deletes a previously stored image given its public URL path. Unknown
// or external paths are ignored.
func (u *Uploads) Remove(publicPath string) {
	const prefix = "/public/images/"
	if !strings.HasPrefix(publicPath, prefix) {
		return
	}

	rel := strings.TrimPrefix(publicPath, prefix)
	// keep the path inside the upload root
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return
	}

	_ = os.Remove(filepath.Join(u.root, rel))
}

// ListKind returns the stored filenames for one image kind.
func (u *Uploads) ListKind(kind string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(u.root, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "reading upload directory")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	return names, nil
}
