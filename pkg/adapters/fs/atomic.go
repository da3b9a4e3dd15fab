package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// TempFilePrefix marks in-flight artifact replacements. Anything carrying it
// next to prompts.json is a leftover of an interrupted save.
const TempFilePrefix = ".arsiv-tmp-"

// replaceArtifact swaps the file at path for data. The bytes are staged in a
// sibling file, flushed, then renamed over path, and the directory entry is
// flushed last so the swap itself outlives a crash.
func replaceArtifact(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	staged, err := os.CreateTemp(dir, TempFilePrefix+base+"-*")
	if err != nil {
		return fmt.Errorf("staging %s: %w", base, err)
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = staged.Close()
			_ = os.Remove(staged.Name())
		}
	}()

	if err := staged.Chmod(perm); err != nil {
		return fmt.Errorf("staging %s: %w", base, err)
	}
	if _, err := staged.Write(data); err != nil {
		return fmt.Errorf("staging %s: %w", base, err)
	}
	if err := staged.Sync(); err != nil {
		return fmt.Errorf("flushing %s: %w", base, err)
	}
	if err := staged.Close(); err != nil {
		return fmt.Errorf("flushing %s: %w", base, err)
	}
	if err := os.Rename(staged.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	renamed = true

	return syncDir(dir)
}

// syncDir persists directory entries. Windows cannot open directories for
// syncing, so it is a no-op there.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("syncing %s: %w", dir, err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", dir, err)
	}
	return nil
}
