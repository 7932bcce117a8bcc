package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Discover walks baseDir recursively and collects files whose name carries
// the required prefix and a case-insensitive ".csv" extension. The output
// subdirectory is pruned so previous runs' artifacts are never re-scanned.
// Paths come back in walk order, which is the dispatch order for the run.
func Discover(baseDir, prefix, outputDirName string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if outputDirName != "" && strings.EqualFold(d.Name(), outputDirName) {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, prefix) && strings.EqualFold(filepath.Ext(name), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
