package wizard

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"haulaway/models"
)

// PhotoStore spools uploaded photos on disk between the details step and the
// final submission, keyed by session. Files are relayed to the dispatch API
// unmodified, so the spool keeps the original bytes and content type.
type PhotoStore struct {
	dir string
}

// NewPhotoStore opens a spool rooted at dir, creating it if needed. An empty
// dir falls back to a directory under the system temp path.
func NewPhotoStore(dir string) (*PhotoStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "haulaway-photos")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PhotoStore{dir: dir}, nil
}

// Save writes one photo and returns its reference for the booking state.
func (p *PhotoStore) Save(sessionID, name, mimeType string, size int64, r io.Reader) (models.PhotoRef, error) {
	ref := models.PhotoRef{
		ID:       uuid.New().String(),
		Name:     name,
		MIMEType: mimeType,
		Size:     size,
	}

	sessionDir := filepath.Join(p.dir, sessionID)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return models.PhotoRef{}, err
	}

	f, err := os.Create(filepath.Join(sessionDir, ref.ID))
	if err != nil {
		return models.PhotoRef{}, err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return models.PhotoRef{}, err
	}
	return ref, nil
}

// Open returns the stored bytes for a reference.
func (p *PhotoStore) Open(sessionID string, ref models.PhotoRef) (io.ReadCloser, error) {
	return os.Open(filepath.Join(p.dir, sessionID, ref.ID))
}

// Remove deletes one stored photo. Missing files are not an error; the
// reference may have been cleaned up already.
func (p *PhotoStore) Remove(sessionID string, ref models.PhotoRef) error {
	err := os.Remove(filepath.Join(p.dir, sessionID, ref.ID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear drops the whole spool for a session.
func (p *PhotoStore) Clear(sessionID string) error {
	return os.RemoveAll(filepath.Join(p.dir, sessionID))
}

// Sessions lists the session ids that currently have spooled photos.
func (p *PhotoStore) Sessions() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
