package progress

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// NoopBackend performs no visual rendering. Write still prints the message
// directly, since there is no run state to interleave with.
type NoopBackend struct {
	// Out receives Write messages; defaults to os.Stdout.
	Out io.Writer
}

func (b *NoopBackend) Start(name, action string) {}

func (b *NoopBackend) Update(text string) {}

func (b *NoopBackend) Stop() {}

func (b *NoopBackend) Write(message string) {
	out := b.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, message)
}

// Detect picks a Backend for w: the in-place terminal renderer when w is an
// interactive terminal, the silent default otherwise. A nil w means stdout.
func Detect(w io.Writer) Backend {
	if w == nil {
		w = os.Stdout
	}
	if f, ok := w.(*os.File); ok && isTerminal(f.Fd()) {
		return NewTerminalBackend(f)
	}
	return &NoopBackend{Out: w}
}

// DetectWithLogger is Detect with a structured-log fallback instead of the
// silent one, for non-interactive runs that should still surface progress.
func DetectWithLogger(w io.Writer, logger *slog.Logger) Backend {
	if w == nil {
		w = os.Stdout
	}
	if f, ok := w.(*os.File); ok && isTerminal(f.Fd()) {
		return NewTerminalBackend(f)
	}
	return NewLogBackend(logger)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
