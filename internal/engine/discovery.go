package engine

// discovery.go - finding the SQL files a command works on

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// IgnoreFileName is the file of glob patterns skipped by discovery.
const IgnoreFileName = ".leaplintignore"

// SQLExtension is the extension of files found in directories.
const SQLExtension = ".sql"

// StdinPath stands for standard input in a path list.
const StdinPath = "-"

// Ignore holds the patterns of an ignore file. Patterns use path.Match
// syntax on slash-separated paths relative to the project root. A pattern
// without a slash also matches base names, and a match on a directory
// skips everything below it.
type Ignore struct {
	patterns []string
}

// ParseIgnore reads one pattern per line. Blank lines and lines starting
// with # are skipped.
func ParseIgnore(r io.Reader) (*Ignore, error) {
	ig := &Ignore{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSuffix(strings.TrimPrefix(line, "./"), "/")
		if _, err := path.Match(line, ""); err != nil {
			return nil, fmt.Errorf("%s: bad pattern %q: %w", IgnoreFileName, line, err)
		}
		ig.patterns = append(ig.patterns, line)
	}
	return ig, sc.Err()
}

// LoadIgnore reads the ignore file in root. A missing file ignores nothing.
func LoadIgnore(root string) (*Ignore, error) {
	f, err := os.Open(filepath.Join(root, IgnoreFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &Ignore{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseIgnore(f)
}

// Match reports whether the slash path rel, or one of its parent
// directories, is ignored.
func (ig *Ignore) Match(rel string) bool {
	if ig == nil || len(ig.patterns) == 0 || rel == "" || rel == "." {
		return false
	}
	for p := rel; p != "." && p != "/" && p != ""; p = path.Dir(p) {
		if ig.matchOne(p) {
			return true
		}
	}
	return false
}

func (ig *Ignore) matchOne(p string) bool {
	base := path.Base(p)
	for _, pattern := range ig.patterns {
		if ok, _ := path.Match(pattern, p); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := path.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}

// Discover expands paths into the SQL files to process: files are taken
// as given, directories are walked for *.sql. Ignored files are dropped.
// An empty list means the working directory. The result is sorted and
// free of duplicates; StdinPath is passed through.
func (e *Engine) Discover(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	ig, err := LoadIgnore(e.root)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		if p == StdinPath {
			add(p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !ig.Match(e.relative(p)) {
				add(filepath.Clean(p))
			}
			continue
		}
		err = filepath.WalkDir(p, func(fp string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ig.Match(e.relative(fp)) {
				e.logger.Debug("ignoring", "path", fp)
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(fp), SQLExtension) {
				add(fp)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// relative returns p relative to the engine root as a slash path, or ""
// when p lies outside it.
func (e *Engine) relative(p string) string {
	root := e.root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}
