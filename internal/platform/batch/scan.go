package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoInputs is returned by Scan when no SPL files were found.
var ErrNoInputs = errors.New("batch: no SPL files found")

// IsSPLFile reports whether path names an XML file.
func IsSPLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

// Scan expands files and directories into inputs. Directories are walked
// recursively in lexical order and only *.xml files are kept; files named
// explicitly are always kept.
func Scan(paths []string) ([]Input, error) {
	var inputs []Input
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("batch: %w", err)
		}
		if !info.IsDir() {
			inputs = append(inputs, Input{Path: p})
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsSPLFile(path) {
				inputs = append(inputs, Input{Path: path})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("batch: scanning %s: %w", p, err)
		}
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	return inputs, nil
}
