package loaders

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxSceneNameLength bounds names accepted from untrusted callers
const maxSceneNameLength = 255

// ResolveSceneFile maps a bare scene file name (with or without the .json
// extension) to a path inside dir. Names with path separators, parent
// references or null bytes are rejected.
func ResolveSceneFile(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("scene file name cannot be empty: %w", ErrInvalidSceneFile)
	}
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("scene file name contains null bytes: %w", ErrInvalidSceneFile)
	}
	if len(name) > maxSceneNameLength {
		return "", fmt.Errorf("scene file name too long: %w", ErrInvalidSceneFile)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("scene file %q must be a plain file name: %w", name, ErrInvalidSceneFile)
	}

	if ext := filepath.Ext(name); ext == "" {
		name += ".json"
	} else if !strings.EqualFold(ext, ".json") {
		return "", fmt.Errorf("scene file %q: only .json files are allowed: %w", name, ErrInvalidSceneFile)
	}

	return filepath.Join(dir, name), nil
}
