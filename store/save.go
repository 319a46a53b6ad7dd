package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/c360studio/semunits/rdf"
)

// CheckWritable fails with ErrOutputExists when path exists and overwrite is
// false.
func CheckWritable(path string, overwrite bool) error {
	if overwrite {
		return nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s (use overwrite to replace it)", ErrOutputExists, path)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("check output %s: %w", path, err)
	}
}

// Save serializes the store to path, or to the file it was opened from when
// path is empty. The format follows the destination's extension. The file is
// written to a temporary sibling and renamed into place, so a failed save
// leaves any existing file untouched.
func (s *Store) Save(path string, overwrite bool) error {
	target := path
	if target == "" {
		target = s.path
	}
	if target == "" {
		return ErrNoDestination
	}

	format := s.format
	if target != s.path {
		f, err := rdf.DetectFormat(target)
		if err != nil {
			return err
		}
		format = f
	}

	if err := CheckWritable(target, overwrite); err != nil {
		s.logger.Error("Refusing to overwrite output", "path", target)
		return err
	}

	data, err := rdf.Marshal(format, s.Facts(), s.prefixes)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", format, err)
	}
	if err := writeAtomic(target, data); err != nil {
		return err
	}

	s.logger.Info("Saved annotations", "path", target, "format", format, "triples", len(s.facts))
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
