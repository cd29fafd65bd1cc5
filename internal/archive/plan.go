package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// archiveExt is the extension of files never re-included in a bundle.
const archiveExt = ".zip"

// Plan is the set of files selected for one bundle.
type Plan struct {
	// Dir is the staging directory.
	Dir string

	// Files are base names inside Dir, in lexical order.
	Files []string
}

// Plan selects the bundle candidates in dir: regular files (symlinks are
// followed) whose name does not end in .zip, compared case-insensitively.
// Split parts (<name>.zip.partN) and spool files written by a Builder are
// skipped too, so a temp dir shared with dir never feeds one bundle into
// another. Directories and other special files are ignored.
func (b *Builder) Plan(dir string) (*Plan, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryMissing, dir)
		}
		return nil, fmt.Errorf("failed to stat staging directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryMissing, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read staging directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if isArchive(name) {
			continue
		}

		fi, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			// Dangling symlink or a file removed while listing.
			b.logger.Debug("ignoring unreadable entry", "file", name, "error", err)
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, name)
	}

	if len(files) == 0 {
		return nil, ErrNothingToBundle
	}

	return &Plan{Dir: dir, Files: files}, nil
}

// isArchive reports whether name is an archive, an archive part or a spool
// file, in any case.
func isArchive(name string) bool {
	folded := cases.Fold().String(name)
	if strings.HasPrefix(folded, spoolPrefix) {
		return true
	}
	return filepath.Ext(trimPartSuffix(folded)) == archiveExt
}

// trimPartSuffix strips a trailing ".partN" from name.
func trimPartSuffix(name string) string {
	i := strings.LastIndex(name, partSuffix)
	if i < 0 {
		return name
	}
	digits := name[i+len(partSuffix):]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return name
	}
	return name[:i]
}
