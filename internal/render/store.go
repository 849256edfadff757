package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists rendered documents on the local filesystem and maps them to
// public URLs. Quotation numbers are already filesystem safe.
type Store struct {
	dir     string
	baseURL string
}

// NewStore ensures the document directory exists.
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("render: create document dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the PDF and returns its public URL.
func (s *Store) Save(number string, pdf []byte) (string, error) {
	name := number + ".pdf"
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("render: write document: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

// Dir exposes the storage directory so the HTTP layer can serve it.
func (s *Store) Dir() string {
	return s.dir
}
