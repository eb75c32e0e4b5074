package testkit

import (
	"fmt"
	"slices"
	"strings"

	"alignby/internal/align"
)

// CheckAlignInvariants verifies a Run result against its input:
// 1) the number of lines never changes
// 2) a canceled result is the input verbatim
// 3) lines outside res.Ranges are untouched
// 4) inside a range only blanks change; with sorted groups the lines may
// also be permuted within the range
func CheckAlignInvariants(in []string, res align.Result) error {
	out := res.Lines
	if len(out) != len(in) {
		return fmt.Errorf("line count changed: %d -> %d", len(in), len(out))
	}
	if res.Canceled {
		if !slices.Equal(in, out) {
			return fmt.Errorf("canceled result differs from input")
		}
		return nil
	}

	inGroup := make([]bool, len(in))
	prevEnd := 0
	for _, r := range res.Ranges {
		if r.Start < prevEnd || r.End <= r.Start || r.End > len(in) {
			return fmt.Errorf("bad range %v (previous end %d, %d lines)", r, prevEnd, len(in))
		}
		prevEnd = r.End
		for i := r.Start; i < r.End; i++ {
			inGroup[i] = true
		}

		// сравниваем мультимножества строк без пробелов
		want := stripAll(in[r.Start:r.End])
		got := stripAll(out[r.Start:r.End])
		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(want, got) {
			return fmt.Errorf("group %v changed more than blanks", r)
		}
	}

	for i := range in {
		if !inGroup[i] && in[i] != out[i] {
			return fmt.Errorf("line %d outside any group changed: %q -> %q", i, in[i], out[i])
		}
	}
	return nil
}

func stripAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' {
				return -1
			}
			return r
		}, l)
	}
	return out
}
