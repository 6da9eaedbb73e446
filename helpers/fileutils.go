package helpers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"repo-grab/model"
)

var ErrUnsafeName = errors.New("unsafe file name")

// SaveFile writes data to outputDir/name and returns the full path. The name
// must be a plain file name; anything that would escape outputDir is rejected.
func SaveFile(outputDir string, name string, data []byte) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}

	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output folder %s: %w", outputDir, err)
	}

	fullPath := filepath.Join(outputDir, name)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("error saving file %s: %w", fullPath, err)
	}

	return fullPath, nil
}

// FileExists reports whether outputDir/name is already present.
func FileExists(outputDir, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(outputDir, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// DiskSaver is the download trigger for a terminal: artifacts land in Dir.
type DiskSaver struct {
	Dir string
	// Overwrite allows replacing an existing file of the same name.
	Overwrite bool
	// Saved receives the written path, if set.
	Saved func(path string, artifact model.Artifact)
}

func (s *DiskSaver) Save(ctx context.Context, artifact model.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.Overwrite {
		exists, err := FileExists(s.Dir, artifact.Name)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s already exists in %s (use --force to overwrite)", artifact.Name, s.Dir)
		}
	}

	fullPath, err := SaveFile(s.Dir, artifact.Name, artifact.Data)
	if err != nil {
		return err
	}
	if s.Saved != nil {
		s.Saved(fullPath, artifact)
	}
	return nil
}
