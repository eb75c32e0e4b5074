package align

import (
	"slices"
	"strings"
)

// Options tunes the engine. The zero value matches Align.
type Options struct {
	// CollapseSpaces squeezes blank runs inside group lines before aligning,
	// so padding left over from an earlier, wider group can shrink.
	CollapseSpaces bool
	// TabWidth is the tab stop used when measuring columns.
	TabWidth int
}

// Range is a half-open span of 0-based line indexes.
type Range struct {
	Start, End int
}

// Result is the outcome of Run over one file.
type Result struct {
	Lines        []string
	Ranges       []Range // line span of every aligned group
	Groups       int     // non-empty groups that were aligned
	AlignedLines int     // lines that belonged to some group
	Changed      bool    // Lines differs from the input
	Stopped      bool    // an align_by stop was reached
	Canceled     bool    // an align_by cancel_file was found; Lines is the input
}

// ScanState is threaded through the line loop.
type ScanState struct {
	Paused  bool
	Stopped bool
	// Active is the directive whose group is being collected, if any.
	Active *Directive
}

// Align rewrites the lines of a whole file with default options.
// It never fails and never changes the number of lines.
func Align(lines []string) []string {
	return Run(lines, Options{}).Lines
}

// Run rewrites the lines of a whole file and reports what it did.
func Run(lines []string, opts Options) Result {
	res := Result{Lines: make([]string, 0, len(lines))}
	var state ScanState

	i := 0
	for i < len(lines) {
		line := lines[i]
		if state.Stopped {
			res.Lines = append(res.Lines, lines[i:]...)
			break
		}

		dir := ParseDirective(line)
		state = step(state, dir)
		res.Lines = append(res.Lines, line)
		i++

		switch {
		case dir.Kind == DirectiveCancel:
			return Result{Lines: append([]string(nil), lines...), Canceled: true}
		case dir.Kind == DirectiveStop:
			res.Stopped = true
			continue
		case state.Active == nil:
			continue
		}

		end := groupEnd(lines, i, state.Active.Delimiters[0])
		if end > i {
			group := lines[i:end]
			if opts.CollapseSpaces {
				group = collapseAll(group)
			}
			res.Lines = append(res.Lines, AlignGroup(group, state.Active.Delimiters, state.Active.Sort, opts.TabWidth)...)
			res.Ranges = append(res.Ranges, Range{Start: i, End: end})
			res.Groups++
			res.AlignedLines += end - i
			i = end
		}
		state.Active = nil
	}

	res.Changed = !slices.Equal(lines, res.Lines)
	return res
}

// step applies a directive to the scanning state.
func step(state ScanState, dir Directive) ScanState {
	state.Active = nil
	switch dir.Kind {
	case DirectiveStop:
		state.Stopped = true
	case DirectivePause:
		state.Paused = true
	case DirectiveResume:
		state.Paused = false
	case DirectiveAlign:
		if !state.Paused {
			d := dir
			state.Active = &d
		}
	}
	return state
}

// groupEnd returns the index of the first line at or after start that cannot
// join a group keyed on first.
func groupEnd(lines []string, start int, first string) int {
	end := start
	for end < len(lines) {
		line := lines[end]
		if !containsDelimiter(line, first) || ParseDirective(line).Kind != DirectiveNone {
			break
		}
		end++
	}
	return end
}

func containsDelimiter(line, d string) bool {
	return d != "" && strings.Contains(line, d)
}

func collapseAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = collapseBlanks(l)
	}
	return out
}
