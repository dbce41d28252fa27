package progress

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

// TerminalBackend renders progress in place on a terminal by erasing the
// previously written characters with backspaces and rewriting them. When the
// progress text is empty it animates a spinner so indeterminate tasks still
// show life.
type TerminalBackend struct {
	out   io.Writer
	width func() int // rendered line budget; 0 means unlimited

	prefix string
	chars  string
	spin   int
}

// NewTerminalBackend renders to out, assuming out understands backspace
// characters. Terminal width is probed when out is a file descriptor.
func NewTerminalBackend(out io.Writer) *TerminalBackend {
	b := &TerminalBackend{out: out, width: func() int { return 0 }}
	if f, ok := out.(*os.File); ok {
		fd := int(f.Fd())
		b.width = func() int {
			w, _, err := term.GetSize(fd)
			if err != nil {
				return 0
			}
			return w
		}
	}
	return b
}

func (b *TerminalBackend) Start(name, action string) {
	b.chars = ""
	b.spin = 0
	if action != "" {
		b.prefix = name + " (" + action + "): "
	} else {
		b.prefix = name + ": "
	}
	io.WriteString(b.out, b.prefix)
}

func (b *TerminalBackend) Update(text string) {
	if text == "" {
		text = spinnerFrames[b.spin%len(spinnerFrames)]
		b.spin++
	}
	if max := b.width(); max > 0 {
		if budget := max - len(b.prefix) - 1; budget >= 0 && len(text) > budget {
			text = text[:budget]
		}
	}
	erase := strings.Repeat("\b", len(b.chars))
	b.chars = text
	io.WriteString(b.out, erase+b.chars)
}

func (b *TerminalBackend) Stop() {
	b.chars = ""
	b.prefix = ""
	io.WriteString(b.out, "\n")
}

// Write erases the rendered line, prints the message on its own line, and
// repaints the progress line so the in-place rendering is not corrupted.
func (b *TerminalBackend) Write(message string) {
	erase := strings.Repeat("\b", len(b.prefix)+len(b.chars))
	io.WriteString(b.out, erase+"  "+message+"\n")
	io.WriteString(b.out, b.prefix+b.chars)
}
