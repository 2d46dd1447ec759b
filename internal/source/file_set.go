package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

// FileSet holds what the indexer has read: syntax tree dumps, kept
// byte-exact and hashed for the tree cache, and Verilog sources, read as
// text for diagnostic excerpts. Editor buffers can be installed as
// overlays that shadow the disk copy. Safe for concurrent use.
//
// Versions are append-only and addressed by FileID; re-reading unchanged
// bytes returns the stored version instead of adding one, so a long watch
// session does not grow with every rebuild.
type FileSet struct {
	mu       sync.RWMutex
	files    []*File
	latest   map[string]FileID
	overlays map[string]FileID
	baseDir  string // базовая директория для относительных путей
}

func NewFileSet() *FileSet {
	return &FileSet{
		latest:   make(map[string]FileID),
		overlays: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet showing paths relative to baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

func (fs *FileSet) SetBaseDir(dir string) {
	fs.mu.Lock()
	fs.baseDir = dir
	fs.mu.Unlock()
}

// BaseDir returns the base directory, falling back to the working directory.
func (fs *FileSet) BaseDir() string {
	fs.mu.RLock()
	dir := fs.baseDir
	fs.mu.RUnlock()
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return dir
}

// Add stores content as the latest version of path. Identical content
// with identical flags returns the current latest version.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	p := normalizePath(path)
	hash := sha256.Sum256(content)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if id, ok := fs.latest[p]; ok {
		if f := fs.files[id]; f.Hash == hash && f.Flags == flags {
			return id
		}
	}

	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f := &File{ID: FileID(n), Path: p, Content: content, Hash: hash, Flags: flags}
	if flags&FileRaw == 0 {
		f.LineIdx = buildLineIndex(content)
	}
	fs.files = append(fs.files, f)
	fs.latest[p] = f.ID
	if flags&FileOverlay != 0 {
		fs.overlays[p] = f.ID
	}
	return f.ID
}

// AddVirtual adds an in-memory text file (test fixture, generated source).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// SetOverlay installs an editor buffer that Open prefers over the disk.
func (fs *FileSet) SetOverlay(path string, content []byte) FileID {
	return fs.Add(path, content, FileVirtual|FileOverlay|FileRaw)
}

// RemoveOverlay drops the buffer for path; the next Open reads the disk.
func (fs *FileSet) RemoveOverlay(path string) bool {
	p := normalizePath(path)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.overlays[p]; !ok {
		return false
	}
	delete(fs.overlays, p)
	delete(fs.latest, p)
	return true
}

// Open returns the overlay of path, or the current disk bytes unmodified.
func (fs *FileSet) Open(path string) (*File, error) {
	p := normalizePath(path)
	fs.mu.RLock()
	id, ok := fs.overlays[p]
	fs.mu.RUnlock()
	if ok {
		return fs.Get(id), nil
	}
	// #nosec G304 -- paths come from the project configuration
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return fs.Get(fs.Add(path, content, FileRaw)), nil
}

// Text returns path as text: the latest text version if one is stored,
// otherwise the disk copy with a BOM stripped and CRLF folded to LF.
func (fs *FileSet) Text(path string) (*File, error) {
	if f, ok := fs.Latest(path); ok && f.Flags&FileRaw == 0 {
		return f, nil
	}
	// #nosec G304 -- paths come from diagnostics of indexed files
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var flags FileFlags
	content, bom := removeBOM(content)
	content, crlf := normalizeCRLF(content)
	if bom {
		flags |= FileHadBOM
	}
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return fs.Get(fs.Add(path, content, flags)), nil
}

// Get returns the version id, or nil.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// Latest returns the most recent version of path, if any was stored.
func (fs *FileSet) Latest(path string) (*File, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.latest[normalizePath(path)]
	if !ok {
		return nil, false
	}
	return fs.files[id], true
}

// Len is the number of stored versions.
func (fs *FileSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.files)
}

// Line returns line n (1-based) of path as text, without the line break.
// def is returned when the file cannot be read or has no such line.
func (fs *FileSet) Line(path string, n uint32, def string) string {
	f, err := fs.Text(path)
	if err != nil {
		return def
	}
	text, ok := f.Line(n)
	if !ok {
		return def
	}
	return text
}

// Line returns line n (1-based) of a text version. A trailing newline
// ends the last line; the empty line after it still exists.
func (f *File) Line(n uint32) (string, bool) {
	lines := len(f.LineIdx) + 1
	if n == 0 || int64(n) > int64(lines) {
		return "", false
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n-1) < len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	return string(f.Content[start:end]), true
}

// FormatPath formats the file path: "absolute", "relative", "basename" or "auto".
// baseDir is only used in relative mode.
func (f *File) FormatPath(mode, baseDir string) string {
	return FormatPath(f.Path, mode, baseDir)
}

// FormatPath formats an arbitrary path the same way File.FormatPath does.
func FormatPath(path, mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(path)
	case "auto":
		// длинные абсолютные пути сокращаем до basename
		if len(path) >= 40 && filepath.IsAbs(path) {
			return BaseName(path)
		}
	}
	return path
}
