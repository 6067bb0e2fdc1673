// Package diag renders lexer/parser/type-checker/backend diagnostics with
// source snippets, the way the teacher's pkg/util does, but returns errors
// to the caller instead of exiting the process directly.
package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/vsthijs/tack/pkg/token"
)

func init() {
	color.NoColor = !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// Fatal is a compiler error that carries the token position responsible for
// it. The pipeline aborts at the first Fatal returned by any stage.
type Fatal struct {
	Pos     token.Position
	Message string
	Snippet string // the offending source line, if known
	Column  int    // 1-indexed column into Snippet for the caret
	Len     int    // width of the caret span
}

func (f *Fatal) Error() string {
	return fmt.Sprintf("%s: error: %s", f.Pos, f.Message)
}

// Render writes a human-readable, optionally colored rendering of the error
// (message line, source snippet, caret) to w.
func (f *Fatal) Render(w *os.File) {
	errLabel := color.New(color.FgRed, color.Bold).Sprint("error:")
	fmt.Fprintf(w, "%s %s %s\n", f.Pos, errLabel, f.Message)
	if f.Snippet == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", f.Snippet)
	caretLen := f.Len
	if caretLen < 1 {
		caretLen = 1
	}
	caret := color.New(color.FgGreen).Sprint("^" + strings.Repeat("~", caretLen-1))
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", f.Column-1), caret)
}

// Errorf constructs a *Fatal at pos with a formatted message. It never
// touches process state; callers propagate the returned error up the
// pipeline until the driver renders and exits.
func Errorf(pos token.Position, format string, args ...interface{}) *Fatal {
	return &Fatal{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WithSnippet attaches source-line context (as found by a SourceSet) to an
// existing Fatal, letting callers build the error first and decorate it once
// the originating file's content is at hand.
func (f *Fatal) WithSnippet(line string, column, length int) *Fatal {
	f.Snippet = line
	f.Column = column
	f.Len = length
	return f
}

// Warning is a non-fatal diagnostic; the driver prints it and continues.
type Warning struct {
	Pos     token.Position
	Message string
	Rule    string // e.g. "unreachable-phi"
}

func (w *Warning) String() string {
	label := color.New(color.FgYellow, color.Bold).Sprint("warning:")
	return fmt.Sprintf("%s %s %s [-W%s]", w.Pos, label, w.Message, w.Rule)
}

// Sink collects warnings for later reporting, so packages that emit them
// don't need direct access to stderr (useful for tests, which assert on
// sink contents instead of scraping process output).
type Sink struct {
	Warnings []*Warning
}

func (s *Sink) Warn(pos token.Position, rule, format string, args ...interface{}) {
	s.Warnings = append(s.Warnings, &Warning{Pos: pos, Message: fmt.Sprintf(format, args...), Rule: rule})
}

func (s *Sink) Flush(w *os.File) {
	for _, warn := range s.Warnings {
		fmt.Fprintln(w, warn.String())
	}
	s.Warnings = nil
}

// SourceSet holds the original text of every file that participated in a
// compilation, indexed by file name, so Fatal errors and Warnings can be
// decorated with the offending line after the fact — mirroring the
// teacher's SetSourceFiles/findFileAndLine/printErrorLine trio.
type SourceSet struct {
	files map[string][]string // file name -> lines
}

func NewSourceSet() *SourceSet { return &SourceSet{files: make(map[string][]string)} }

func (s *SourceSet) Add(file, content string) {
	s.files[file] = strings.Split(content, "\n")
}

// Line returns the 1-indexed source line for pos, or "" if unknown.
func (s *SourceSet) Line(pos token.Position) string {
	lines, ok := s.files[pos.File]
	if !ok || pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}
	return lines[pos.Line-1]
}

// Decorate attaches this source set's line for f.Pos to f, if available.
func (s *SourceSet) Decorate(f *Fatal, length int) *Fatal {
	line := s.Line(f.Pos)
	if line == "" {
		return f
	}
	return f.WithSnippet(line, f.Pos.Column, length)
}
