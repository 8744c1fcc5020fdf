package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"document-query/internal/sanitize"
)

const disclaimer = "_Note: This is educational information only, not legal advice._"

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	progressStyle = lipgloss.NewStyle().Faint(true)
	doneStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// renderer prints streamed answers the way the chat front-end shows them:
// a progress line, then one "Section k/N" block per answer.
type renderer struct {
	out   io.Writer
	total int
	plain bool
}

func newRenderer(out io.Writer, total int, plain bool) *renderer {
	return &renderer{out: out, total: total, plain: plain}
}

func (r *renderer) analyzing() {
	fmt.Fprintln(r.out, progressStyle.Render("🔄 Analyzing your question..."))
}

func (r *renderer) progress(done int) {
	fmt.Fprintln(r.out, progressStyle.Render(progressLine(done, r.total)))
}

// section prints the answer for partition k (1-based) under its label.
func (r *renderer) section(k int, label, text string) {
	header := fmt.Sprintf("📍 Section %d/%d", k, r.total)
	if label != "" {
		header += " · " + label
	}
	fmt.Fprintf(r.out, "\n%s\n\n%s\n\n", headerStyle.Render(header), r.body(text))
}

func (r *renderer) complete() {
	fmt.Fprintf(r.out, "%s\n\n%s\n", doneStyle.Render("✅ Analysis Complete"), r.body(disclaimer))
}

func (r *renderer) summary(text string) {
	fmt.Fprintf(r.out, "\n%s\n\n%s\n", headerStyle.Render("📝 TL;DR Summary"), r.body(sanitize.Clean(text)))
}

func (r *renderer) message(text string) {
	fmt.Fprintln(r.out, r.body(text))
}

func (r *renderer) body(text string) string {
	if r.plain {
		return sanitize.StripMarkers(text)
	}
	return text
}

func progressLine(done, total int) string {
	if done > total {
		done = total
	}
	return fmt.Sprintf("📚 Processing section %d/%d %s%s", done, total,
		strings.Repeat("▰", done), strings.Repeat("▱", total-done))
}
