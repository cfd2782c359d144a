package receipt

import (
	"fmt"
	"os"
	"path/filepath"
)

// ImageArchive stores the normalized capture for each record so the client
// can re-display the original photo later.
type ImageArchive interface {
	// Save stores the normalized JPEG for a record id
	Save(id string, data []byte) error

	// Get retrieves the normalized JPEG for a record id
	Get(id string) ([]byte, error)
}

// LocalImageArchive implements ImageArchive on the local filesystem
type LocalImageArchive struct {
	basePath string
}

// NewLocalImageArchive creates a new LocalImageArchive instance
func NewLocalImageArchive(basePath string) (*LocalImageArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return &LocalImageArchive{basePath: basePath}, nil
}

func (l *LocalImageArchive) path(id string) string {
	return filepath.Join(l.basePath, id+".jpg")
}

// Save stores the normalized JPEG for a record id
func (l *LocalImageArchive) Save(id string, data []byte) error {
	if err := os.WriteFile(l.path(id), data, 0644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	return nil
}

// Get retrieves the normalized JPEG for a record id
func (l *LocalImageArchive) Get(id string) ([]byte, error) {
	data, err := os.ReadFile(l.path(id))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return data, nil
}
