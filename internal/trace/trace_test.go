package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", name, err)
		}
		if lvl.String() != name {
			t.Fatalf("round trip mismatch: %q -> %q", name, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		kind  Kind
		want  bool
	}{
		{LevelOff, ScopeDriver, KindError, false},
		{LevelError, ScopeFile, KindError, true},
		{LevelError, ScopeDriver, KindSpanBegin, false},
		{LevelPhase, ScopeDriver, KindSpanBegin, true},
		{LevelPhase, ScopeFile, KindSpanBegin, false},
		{LevelDetail, ScopeFile, KindSpanEnd, true},
		{LevelDetail, ScopeGroup, KindPoint, false},
		{LevelDebug, ScopeGroup, KindPoint, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope, tt.kind); got != tt.want {
			t.Fatalf("%s.ShouldEmit(%s, %s) = %v, want %v", tt.level, tt.scope, tt.kind, got, tt.want)
		}
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	run := Begin(tr, ScopeDriver, "align", 0)
	file := Begin(tr, ScopeFile, "file:a.go", run.ID())
	Point(tr, ScopeGroup, "group", "filtered at detail", file.ID())
	file.WithExtra("groups", "2").End("aligned")
	Error(tr, ScopeFile, "file:b.go", errors.New("boom"), run.ID())
	run.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Scope    string            `json:"scope"`
		Name     string            `json:"name"`
		Detail   string            `json:"detail"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("invalid JSON %q: %v", lines[2], err)
	}
	if ev.Kind != "end" || ev.Name != "file:a.go" || ev.Detail != "aligned" || ev.Extra["groups"] != "2" {
		t.Fatalf("unexpected file end event: %+v", ev)
	}
	if ev.ParentID != run.ID() {
		t.Fatalf("expected parent %d, got %d", run.ID(), ev.ParentID)
	}
	if err := json.Unmarshal([]byte(lines[3]), &ev); err != nil {
		t.Fatalf("invalid JSON %q: %v", lines[3], err)
	}
	if ev.Kind != "error" || ev.Detail != "boom" {
		t.Fatalf("unexpected error event: %+v", ev)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	span := Begin(tr, ScopeFile, "file:x.go", 7)
	span.WithExtra("b", "2").WithExtra("a", "1").End("done")

	out := buf.String()
	if !strings.Contains(out, "\u2192 file:x.go") {
		t.Fatalf("missing begin line:\n%s", out)
	}
	if !strings.Contains(out, "\u2190 file:x.go (done) {a=1, b=2}") {
		t.Fatalf("missing end line:\n%s", out)
	}
}

func TestNopAndContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop from empty context")
	}
	tr := NewStreamTracer(&bytes.Buffer{}, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("expected tracer from context")
	}
	ctx = WithSpan(ctx, 42)
	if CurrentSpan(ctx) != 42 {
		t.Fatalf("expected span 42, got %d", CurrentSpan(ctx))
	}
	span := Begin(Nop, ScopeDriver, "x", 0)
	if span.End("") != 0 || span.ID() != 0 {
		t.Fatalf("nop span must be inert")
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, OutputPath: "ignored.ndjson"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("expected disabled tracer")
	}
}
