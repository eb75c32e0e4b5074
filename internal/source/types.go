package source

type (
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the file was added from memory (stdin, tests).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	// FileHadBOM means a UTF-8 byte order mark was stripped on load.
	FileHadBOM
	// FileHadCRLF means at least one line ended with \r\n.
	FileHadCRLF
	// FileNoFinalNewline means the last line has no terminator.
	FileNoFinalNewline
)

// File is one text file split into lines. Endings[i] is the terminator that
// followed Lines[i] in the original bytes ("\n", "\r\n" or "" for a last line
// without newline).
type File struct {
	Path    string
	Lines   []string
	Endings []string
	Hash    [32]byte // sha256 of the raw bytes as loaded
	Flags   FileFlags
}
