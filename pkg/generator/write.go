package generator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var errStaleFile = errors.New("file differs from generated output")

// writeFile writes data to path through a temporary file and a rename, and
// leaves identical files untouched. In check mode nothing is written and a
// missing or different file yields errStaleFile.
func writeFile(path string, data []byte, check bool) (wrote bool, err error) {
	existing, readErr := os.ReadFile(path)
	if readErr == nil {
		if bytes.Equal(existing, data) {
			return false, nil
		}
	} else if !os.IsNotExist(readErr) {
		return false, fmt.Errorf("read existing: %w", readErr)
	}
	if check {
		return false, errStaleFile
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("rename tmp: %w", err)
	}
	return true, nil
}
