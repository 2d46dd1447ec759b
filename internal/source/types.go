package source

type (
	// FileID identifies one stored version of a file within a FileSet.
	FileID uint32
	// FileFlags describe how a version was obtained.
	FileFlags uint8
)

const (
	// FileVirtual: added from memory (editor buffer, test) rather than disk.
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM, FileNormalizedCRLF: text read through Text was rewritten.
	FileHadBOM
	FileNormalizedCRLF
	// FileRaw: content is byte-exact, as binary tree dumps require. Raw
	// versions have no line index.
	FileRaw
	// FileOverlay: shadows the disk copy in Open until removed.
	FileOverlay
)

// File is one stored version of a path.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte // sha256 of Content; tree cache key
	Flags   FileFlags
}
