package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dropforge/launchpad/internal/infra/filesystem"
)

// Reader decodes collection and stage documents.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadJSON decodes exactly one JSON document from path. A missing file is
// reported as filesystem.ErrNotFound; content after the document is rejected.
func (r *Reader) ReadJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", filesystem.ErrNotFound, path, err)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from %s: %w", path, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to unmarshal JSON from %s: unexpected content after the document", path)
	}

	return nil
}

// Exists reports whether path names a regular file.
func (r *Reader) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
