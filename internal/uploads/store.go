package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store saves uploaded claim files into a single directory and answers
// listing queries over it. Filenames are flattened to their base name and
// collisions get a numeric suffix, so an upload never overwrites an
// earlier file.
type Store struct {
	dir string
}

// FileInfo is one row of a directory listing.
type FileInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"`
}

// NewStore ensures dir exists and returns a store over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the upload under a collision-free variant of name and
// returns the filename actually used plus its full path.
func (s *Store) Save(name string, r io.Reader) (string, string, error) {
	final, err := s.resolveName(filepath.Base(name))
	if err != nil {
		return "", "", err
	}

	path := filepath.Join(s.dir, final)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("close upload file: %w", err)
	}

	return final, path, nil
}

// resolveName returns name if it is free, otherwise stem_1.ext, stem_2.ext
// and so on until a free slot is found.
func (s *Store) resolveName(name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; ; i++ {
		_, err := os.Stat(filepath.Join(s.dir, candidate))
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}

// List returns the regular files in dir, sorted by name.
func List(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Filename: e.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().Unix(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}
