package align

import (
	"slices"
	"strings"
)

// row is a group line split into the part already aligned and the part still
// to be searched for the next delimiter.
type row struct {
	done string
	rest string
}

// AlignGroup pads every delimiter of delims to a common column across lines
// and returns the rewritten lines. Delimiters are applied left to right, each
// matched at most once per line and searched only after the previous match.
// When sorted is set the aligned lines are sorted lexically afterwards.
// The input slice is not modified.
func AlignGroup(lines, delims []string, sorted bool, tabWidth int) []string {
	rows := make([]row, len(lines))
	for i, line := range lines {
		rows[i] = row{rest: line}
	}
	for _, d := range delims {
		rows = alignColumn(rows, d, tabWidth)
	}

	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.done + r.rest
	}
	if sorted {
		slices.SortStableFunc(out, strings.Compare)
	}
	return out
}

// alignColumn consumes the first occurrence of d in every row that still has
// one and pads the text before it so that all occurrences share a column.
// Widths are measured from the start of the line so that rows which skipped
// an earlier delimiter still line up.
func alignColumn(rows []row, d string, tabWidth int) []row {
	if d == "" {
		return rows
	}
	type cut struct {
		prefix string
		suffix string
		width  int
		ok     bool
	}
	cuts := make([]cut, len(rows))
	target := 0
	for i, r := range rows {
		before, after, found := strings.Cut(r.rest, d)
		if !found {
			continue
		}
		prefix := r.done + before
		w := displayWidth(prefix, tabWidth)
		cuts[i] = cut{prefix: prefix, suffix: after, width: w, ok: true}
		target = max(target, w)
	}

	out := make([]row, len(rows))
	for i, r := range rows {
		c := cuts[i]
		if !c.ok {
			out[i] = r
			continue
		}
		out[i] = row{
			done: c.prefix + strings.Repeat(" ", target-c.width) + d,
			rest: c.suffix,
		}
	}
	return out
}

// collapseBlanks keeps the leading indentation of line, squeezes every other
// run of spaces and tabs into one space and drops trailing blanks.
func collapseBlanks(line string) string {
	body := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(body)]
	fields := strings.FieldsFunc(body, func(r rune) bool { return r == ' ' || r == '\t' })
	return indent + strings.Join(fields, " ")
}
