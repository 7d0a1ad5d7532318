package imaging

import (
	"fmt"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/illarion/vaultpad/internal/core"
)

// DetectType sniffs the MIME type of a file from its content
func DetectType(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect type of %s: %w", path, err)
	}
	return mt.String(), nil
}

// QueueFiles builds upload candidates for the given paths. Files whose type
// cannot be detected are queued with an empty type and end up skipped.
func QueueFiles(paths []string) []core.QueuedFile {
	files := make([]core.QueuedFile, 0, len(paths))
	for _, p := range paths {
		typ, _ := DetectType(p)
		files = append(files, core.QueuedFile{
			Path: p,
			Name: filepath.Base(p),
			Type: typ,
		})
	}
	return files
}
