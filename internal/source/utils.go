package source

import (
	"bytes"
	"path/filepath"
	"strings"
)

func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], true
	}
	return content, false
}

// splitLines режет контент по \n, сохраняя терминатор каждой строки.
// Пустой контент даёт ноль строк; финальный \n не порождает пустую строку.
func splitLines(content []byte) (lines, endings []string) {
	n := bytes.Count(content, []byte{'\n'}) + 1
	lines = make([]string, 0, n)
	endings = make([]string, 0, n)

	rest := string(content)
	for rest != "" {
		i := strings.IndexByte(rest, '\n')
		if i < 0 {
			lines = append(lines, rest)
			endings = append(endings, "")
			break
		}
		line, ending := rest[:i], "\n"
		if strings.HasSuffix(line, "\r") {
			line, ending = line[:len(line)-1], "\r\n"
		}
		lines = append(lines, line)
		endings = append(endings, ending)
		rest = rest[i+1:]
	}
	return lines, endings
}

// RelativePath returns path relative to base when it lives inside base,
// and the cleaned absolute path otherwise.
func RelativePath(path, base string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if base == "" {
		return normalizePath(absPath), nil
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absPath), nil
	}
	return normalizePath(rel), nil
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
