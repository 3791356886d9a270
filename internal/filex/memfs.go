package filex

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MemFS is an in-memory FS used in tests and by callers that want a
// throwaway backing store. It also counts reads, which lets tests assert the
// load-bypass guarantee ("zero storage reads when content is cached").
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]struct{}

	readCount int
}

func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]struct{}),
	}
}

// ReadCount reports how many ReadFile calls have been served.
func (m *MemFS) ReadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readCount
}

func (m *MemFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(path)
	if _, exists := m.files[clean]; exists {
		return &fs.PathError{Op: "mkdir", Path: clean, Err: fs.ErrExist}
	}
	for p := clean; p != "." && p != string(filepath.Separator); p = filepath.Dir(p) {
		if _, exists := m.files[p]; exists {
			return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrExist}
		}
		m.dirs[p] = struct{}{}
	}
	return nil
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCount++
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(path)
	if _, isDir := m.dirs[clean]; isDir {
		return &fs.PathError{Op: "open", Path: clean, Err: fs.ErrInvalid}
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[clean] = stored
	return nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(path)
	if data, ok := m.files[clean]; ok {
		return &memFileInfo{name: filepath.Base(clean), size: int64(len(data))}, nil
	}
	if _, ok := m.dirs[clean]; ok {
		return &memFileInfo{name: filepath.Base(clean), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (m *MemFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clean := filepath.Clean(path)
	if _, ok := m.files[clean]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(m.files, clean)
	return nil
}

// Exists reports whether a file is present, without counting as a read.
func (m *MemFS) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

type memFileInfo struct {
	name string
	size int64
	dir  bool
}

func (i *memFileInfo) Name() string { return i.name }
func (i *memFileInfo) Size() int64  { return i.size }
func (i *memFileInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o770
	}
	return 0o660
}
func (i *memFileInfo) ModTime() time.Time { return time.Time{} }
func (i *memFileInfo) IsDir() bool        { return i.dir }
func (i *memFileInfo) Sys() any           { return nil }

var _ FS = (*OSFS)(nil)
var _ FS = (*MemFS)(nil)
