package deploy

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/assemble"
)

// buildArchive packs a manifest into a zip archive for the server-side build
// path and the manual fallback. Files are written in manifest order, so
// identical manifests produce identical member ordering.
func buildArchive(manifest *assemble.FileManifest) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, file := range manifest.Files() {
		entry, err := writer.Create(file.Path)
		if err != nil {
			return nil, fmt.Errorf("archive entry %s: %w", file.Path, err)
		}
		if _, err := entry.Write(file.Body); err != nil {
			return nil, fmt.Errorf("archive write %s: %w", file.Path, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// writeArchiveFile persists the manual-fallback archive to disk and returns
// its path.
func writeArchiveFile(dir string, pageID uuid.UUID, archive []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("site-%s.zip", pageID))
	if err := os.WriteFile(path, archive, 0o644); err != nil {
		return "", fmt.Errorf("write archive %s: %w", path, err)
	}
	return path, nil
}
