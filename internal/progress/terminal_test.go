package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalStartWritesPrefix(t *testing.T) {
	tests := []struct {
		name   string
		action string
		want   string
	}{
		{"download", "fetching", "download (fetching): "},
		{"download", "", "download: "},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		b := NewTerminalBackend(&buf)
		b.Start(tt.name, tt.action)
		if buf.String() != tt.want {
			t.Errorf("Start(%q, %q) wrote %q, want %q", tt.name, tt.action, buf.String(), tt.want)
		}
	}
}

func TestTerminalUpdateErasesPrevious(t *testing.T) {
	var buf bytes.Buffer
	b := NewTerminalBackend(&buf)

	b.Start("task", "")
	buf.Reset()

	b.Update("10%")
	if buf.String() != "10%" {
		t.Fatalf("first update wrote %q, want %q", buf.String(), "10%")
	}

	buf.Reset()
	b.Update("20%")
	if got, want := buf.String(), "\b\b\b20%"; got != want {
		t.Errorf("second update wrote %q, want %q", got, want)
	}
}

func TestTerminalSpinnerForEmptyText(t *testing.T) {
	var buf bytes.Buffer
	b := NewTerminalBackend(&buf)
	b.Start("task", "")

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		buf.Reset()
		b.Update("")
		frame := strings.TrimLeft(buf.String(), "\b")
		seen[frame] = true
	}
	if len(seen) != 4 {
		t.Errorf("spinner frames seen = %v, want 4 distinct frames", seen)
	}
}

func TestTerminalStopEndsLine(t *testing.T) {
	var buf bytes.Buffer
	b := NewTerminalBackend(&buf)
	b.Start("task", "")
	b.Update("50%")
	buf.Reset()

	b.Stop()
	if buf.String() != "\n" {
		t.Errorf("Stop wrote %q, want newline", buf.String())
	}

	// After Stop the next Update must not erase anything.
	buf.Reset()
	b.Update("x")
	if buf.String() != "x" {
		t.Errorf("update after stop wrote %q, want %q", buf.String(), "x")
	}
}

func TestTerminalWriteInterleaves(t *testing.T) {
	var buf bytes.Buffer
	b := NewTerminalBackend(&buf)
	b.Start("task", "")
	b.Update("50%")
	buf.Reset()

	b.Write("warning")

	erase := strings.Repeat("\b", len("task: ")+len("50%"))
	want := erase + "  warning\n" + "task: 50%"
	if buf.String() != want {
		t.Errorf("Write produced %q, want %q", buf.String(), want)
	}
}

func TestTerminalWidthClamp(t *testing.T) {
	var buf bytes.Buffer
	b := NewTerminalBackend(&buf)
	b.width = func() int { return 12 }

	b.Start("task", "") // prefix is 6 chars, budget 5
	buf.Reset()
	b.Update("123456789")
	if got := buf.String(); got != "12345" {
		t.Errorf("clamped update wrote %q, want %q", got, "12345")
	}
}
