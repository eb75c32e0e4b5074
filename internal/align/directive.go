package align

import "strings"

// Marker is the literal that introduces every directive.
const Marker = "align_by"

// DirectiveKind classifies a marker line.
type DirectiveKind uint8

const (
	// DirectiveNone means the line carries no directive.
	DirectiveNone DirectiveKind = iota
	// DirectiveAlign starts a new alignment group.
	DirectiveAlign
	// DirectiveStop leaves the rest of the file untouched.
	DirectiveStop
	// DirectivePause suspends alignment directives until DirectiveResume.
	DirectivePause
	// DirectiveResume re-enables alignment directives after DirectivePause.
	DirectiveResume
	// DirectiveCancel leaves the whole file untouched.
	DirectiveCancel
)

// String returns the keyword of the directive kind.
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveNone:
		return "none"
	case DirectiveAlign:
		return "align"
	case DirectiveStop:
		return "stop"
	case DirectivePause:
		return "pause"
	case DirectiveResume:
		return "resume"
	case DirectiveCancel:
		return "cancel_file"
	default:
		return "unknown"
	}
}

// Directive is a parsed marker line.
type Directive struct {
	Kind       DirectiveKind
	Delimiters []string // only for DirectiveAlign
	Sort       bool     // only for DirectiveAlign
}

var keywordDirectives = []struct {
	literal string
	kind    DirectiveKind
}{
	{Marker + " stop", DirectiveStop},
	{Marker + " cancel_file", DirectiveCancel},
	{Marker + " pause", DirectivePause},
	{Marker + " resume", DirectiveResume},
}

// ParseDirective reports the directive carried by line, if any.
// Keyword directives are matched anywhere in the line; an alignment directive
// must follow the first occurrence of the marker. Malformed directives yield
// DirectiveNone.
func ParseDirective(line string) Directive {
	idx := strings.Index(line, Marker)
	if idx < 0 {
		return Directive{}
	}
	for _, kw := range keywordDirectives {
		if strings.Contains(line, kw.literal) {
			return Directive{Kind: kw.kind}
		}
	}

	rest := line[idx+len(Marker):]
	sorted := false
	switch {
	case strings.HasPrefix(rest, ` sort "`):
		rest = rest[len(` sort "`):]
		sorted = true
	case strings.HasPrefix(rest, ` "`):
		rest = rest[len(` "`):]
	default:
		return Directive{}
	}

	quoted, ok := extractQuote(rest)
	if !ok {
		return Directive{}
	}
	delims := splitDelimiters(quoted)
	if len(delims) == 0 {
		return Directive{}
	}
	return Directive{Kind: DirectiveAlign, Delimiters: delims, Sort: sorted}
}

// extractQuote returns s up to the first unescaped double quote.
// Escapes are kept verbatim; ok is false when the quote is never closed.
func extractQuote(s string) (string, bool) {
	escaped := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			escaped = true
		case c == '"' && !escaped:
			return s[:i], true
		default:
			escaped = false
		}
	}
	return "", false
}

// splitDelimiters splits the quoted list on whitespace and unescapes \".
func splitDelimiters(spec string) []string {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ReplaceAll(f, `\"`, `"`))
	}
	return out
}
