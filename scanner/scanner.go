package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

// Scanner collects the files under a root that a rewrite run should touch.
type Scanner struct {
	rootDir    string
	extensions map[string]struct{}
}

// New returns a Scanner for rootDir. Extensions may be given with or without
// the leading dot. No extensions selects every regular file.
func New(rootDir string, extensions ...string) *Scanner {
	s := &Scanner{rootDir: rootDir}
	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if s.extensions == nil {
			s.extensions = make(map[string]struct{})
		}
		s.extensions[ext] = struct{}{}
	}
	return s
}

// Scan walks the root and returns the matching files sorted by path. Hidden
// directories below the root are skipped. A root naming a single file is
// returned as is, whatever its extension.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.rootDir && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if path != s.rootDir && !s.isTargetFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// ScanAll scans every root and drops duplicate paths.
func ScanAll(roots []string, extensions ...string) ([]FileInfo, error) {
	seen := make(map[string]struct{})
	var files []FileInfo
	for _, root := range roots {
		found, err := New(root, extensions...).Scan()
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, ok := seen[f.Path]; ok {
				continue
			}
			seen[f.Path] = struct{}{}
			files = append(files, f)
		}
	}
	return files, nil
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	_, ok := s.extensions[filepath.Ext(path)]
	return ok
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}
