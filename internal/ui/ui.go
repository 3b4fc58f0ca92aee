// Package ui renders extraction results for the terminal. Styling is only
// applied when the output is an interactive terminal; pipes and files get
// plain text.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"filmarchiv/internal/media"
	"filmarchiv/internal/textutil"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes results to w.
type Printer struct {
	w      io.Writer
	styled bool

	header lipgloss.Style
	title  lipgloss.Style
	label  lipgloss.Style
	faint  lipgloss.Style
	errorS lipgloss.Style
}

// NewPrinter creates a Printer. Styles are applied only when styled is true.
func NewPrinter(w io.Writer, styled bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		styled: styled,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		title:  r.NewStyle().Bold(true),
		label:  r.NewStyle().Foreground(lipgloss.Color("8")),
		faint:  r.NewStyle().Faint(true),
		errorS: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (p *Printer) paint(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Playlist prints a human-readable summary of a playlist.
func (p *Printer) Playlist(pl *media.Playlist) {
	count := fmt.Sprintf("%d entries", len(pl.Entries))
	if len(pl.Entries) == 1 {
		count = "1 entry"
	}
	fmt.Fprintf(p.w, "%s %s\n", p.paint(p.header, pl.ID), p.paint(p.faint, fmt.Sprintf("(%s, %s)", pl.Extractor, count)))

	for i, e := range pl.Entries {
		fmt.Fprintf(p.w, "  [%d] %s\n", i+1, p.paint(p.title, e.Title))
		if e.Duration != nil {
			p.field("duration", textutil.FormatDuration(*e.Duration))
		}
		if e.Description != nil {
			p.field("description", strings.ReplaceAll(*e.Description, "\n", "\n"+strings.Repeat(" ", 19)))
		}
		if e.Thumbnail != nil {
			p.field("thumbnail", *e.Thumbnail)
		}
		for _, f := range e.Formats {
			p.field("format", formatLine(f))
		}
	}
}

func (p *Printer) field(name, value string) {
	fmt.Fprintf(p.w, "      %s %s\n", p.paint(p.label, fmt.Sprintf("%-12s", name+":")), value)
}

// Lines prints one line per item, or msg when there are none.
func (p *Printer) Lines(items []string, msg string) {
	if len(items) == 0 {
		fmt.Fprintln(p.w, p.paint(p.faint, msg))
		return
	}
	for _, item := range items {
		fmt.Fprintln(p.w, item)
	}
}

// Error prints a failure for one URL without aborting a batch.
func (p *Printer) Error(rawURL string, err error) {
	fmt.Fprintf(p.w, "%s %s: %v\n", p.paint(p.errorS, "error"), rawURL, err)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatLine(f media.Format) string {
	var parts []string
	if f.Ext != "" {
		parts = append(parts, f.Ext)
	}
	if f.Width > 0 && f.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", f.Width, f.Height))
	}
	if f.FormatID != "" {
		parts = append(parts, f.FormatID)
	}
	parts = append(parts, f.URL)
	return strings.Join(parts, " ")
}
