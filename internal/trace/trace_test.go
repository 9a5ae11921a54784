package trace

import (
	"context"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"phase", LevelPhase, false},
		{"detail", LevelDetail, false},
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"verbose", LevelOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var sb strings.Builder
	tr := New(&sb, LevelPhase)

	Emitf(tr, LevelPhase, ScopeDriver, "gate", "channel ok")
	Emitf(tr, LevelDebug, ScopeWrapper, "rewrite", "should be filtered")

	out := sb.String()
	if !strings.Contains(out, "driver gate: channel ok") {
		t.Errorf("phase event missing from output: %q", out)
	}
	if strings.Contains(out, "should be filtered") {
		t.Errorf("debug event leaked at phase level: %q", out)
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	var sb strings.Builder
	tr := New(&sb, LevelOff)
	if tr.Enabled() {
		t.Error("off tracer must be disabled")
	}
	Emitf(tr, LevelPhase, ScopeDriver, "gate", "dropped")
	if sb.Len() != 0 {
		t.Errorf("off tracer wrote output: %q", sb.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	if got := FromContext(context.Background()); got != Nop {
		t.Errorf("FromContext without tracer = %v, want Nop", got)
	}
	tr := New(&strings.Builder{}, LevelDebug)
	ctx := WithTracer(context.Background(), tr)
	if got := FromContext(ctx); got != tr {
		t.Error("FromContext did not return the attached tracer")
	}
}
