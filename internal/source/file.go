package source

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// ErrNotUTF8 is returned for content that is not valid UTF-8.
var ErrNotUTF8 = errors.New("file is not valid UTF-8")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads path from disk and splits it into lines.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(path, content, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Virtual splits in-memory content (stdin, tests) into lines.
func Virtual(name string, content []byte) (*File, error) {
	return Parse(name, content, FileVirtual)
}

// Parse splits content into lines, remembering each line terminator and a
// leading BOM so that Bytes can restore them.
func Parse(path string, content []byte, flags FileFlags) (*File, error) {
	if !utf8.Valid(content) {
		return nil, ErrNotUTF8
	}
	hash := sha256.Sum256(content)

	body, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	lines, endings := splitLines(body)
	for _, e := range endings {
		if e == "\r\n" {
			flags |= FileHadCRLF
			break
		}
	}
	if n := len(endings); n > 0 && endings[n-1] == "" {
		flags |= FileNoFinalNewline
	}

	return &File{
		Path:    path,
		Lines:   lines,
		Endings: endings,
		Hash:    hash,
		Flags:   flags,
	}, nil
}

// Bytes reassembles the file with lines replaced by lines.
// lines must have the same length as f.Lines.
func (f *File) Bytes(lines []string) []byte {
	var buf bytes.Buffer
	if f.Flags&FileHadBOM != 0 {
		buf.Write(utf8BOM)
	}
	for i, line := range lines {
		buf.WriteString(line)
		if i < len(f.Endings) {
			buf.WriteString(f.Endings[i])
		}
	}
	return buf.Bytes()
}

// Has reports whether flag is set.
func (f *File) Has(flag FileFlags) bool {
	return f.Flags&flag != 0
}
