// Package uploads stores multipart image uploads on local disk under
// ./uploads, the development storage the API serves back at /uploads/.
package uploads

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const baseDir = "uploads"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Saved describes a stored file. PublicID is the on-disk name, kept so the
// file can be deleted when its owner record is.
type Saved struct {
	URL      string
	PublicID string
}

// Save writes the uploaded file into uploads/<kind>/ under a uuid name and
// returns its public URL path.
func Save(c *gin.Context, file *multipart.FileHeader, kind string) (*Saved, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}

	dir := filepath.Join(baseDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	return &Saved{
		URL:      path.Join("/", baseDir, kind, name),
		PublicID: name,
	}, nil
}

// Remove deletes a previously saved file. A missing file is not an error.
func Remove(kind, publicID string) error {
	if publicID == "" {
		return nil
	}
	err := os.Remove(filepath.Join(baseDir, kind, publicID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
