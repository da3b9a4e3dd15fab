package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrRootNotFound is returned by FindRoot when no marker exists above startDir.
var ErrRootNotFound = errors.New("root not found")

// rootMarkers identify an arsiv root, in order of precedence.
var rootMarkers = []string{"arsiv.yaml", "prompts.json", "prompts"}

// FindRoot recursively looks upwards for an arsiv root indicator.
// Indicators are: arsiv.yaml, prompts.json, or a prompts directory.
// If found, returns the absolute path to the root.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range rootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrRootNotFound
}

// ResolveRoot returns root if set, otherwise the discovered root above the
// working directory, otherwise the working directory itself.
func ResolveRoot(root string) (string, error) {
	if root != "" {
		return filepath.Abs(root)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	found, err := FindRoot(wd)
	if errors.Is(err, ErrRootNotFound) {
		return wd, nil
	}
	return found, err
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
