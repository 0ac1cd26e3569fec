package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Renderer writes command output in one mode.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	mode    OutputMode
	isTTY   bool
	noColor bool
	styles  *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
	r.styles = r.buildStyles()
	return r
}

// WithNoColor turns colors off when noColor is set.
func (r *Renderer) WithNoColor(noColor bool) *Renderer {
	r.noColor = noColor
	r.styles = r.buildStyles()
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}

func (r *Renderer) buildStyles() *Styles {
	lr := lipgloss.NewRenderer(r.out)
	if r.colored() {
		lr.SetColorProfile(termenv.NewOutput(r.out, termenv.WithTTY(true)).EnvColorProfile())
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}
	return newStyles(lr)
}

func (r *Renderer) colored() bool {
	return !r.noColor && r.isTTY && r.EffectiveMode() == ModeText
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode == ModeAuto || r.mode == "" {
		if r.isTTY {
			return ModeText
		}
		return ModeMarkdown
	}
	return r.mode
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes a line to the output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section title.
func (r *Renderer) Header(title string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("## %s\n\n", title)
		return
	}
	r.Println(r.styles.Header.Render(title))
	r.Println("")
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(msg)
		return
	}
	r.Println(r.styles.Success.Render("✓ " + msg))
}

// Warning writes a warning to the error writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("warning: "+msg))
}

// Error writes an error to the error writer.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("error: "+msg))
}

// KeyValue writes one labelled value.
func (r *Renderer) KeyValue(key, value string) {
	r.Println(FormatKeyValue(r, key, value))
}

// Code writes a block of source text, fenced in markdown.
func (r *Renderer) Code(lang, body string) {
	body = strings.TrimRight(body, "\n")
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("```%s\n%s\n```\n", lang, body)
		return
	}
	for _, line := range strings.Split(body, "\n") {
		r.Println("    " + r.styles.Code.Render(line))
	}
}

// Table writes rows under header: a box table in text mode and a pipe
// table in markdown.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	hdr := make(table.Row, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	t.AppendHeader(hdr)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as a YAML document.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Structured writes v in the renderer's structured mode, JSON unless the
// mode is YAML.
func (r *Renderer) Structured(v any) error {
	if r.EffectiveMode() == ModeYAML {
		return r.YAML(v)
	}
	return r.JSON(v)
}

// FormatKeyValue formats a labelled value for r's mode.
func FormatKeyValue(r *Renderer, key, value string) string {
	if r.EffectiveMode() == ModeMarkdown {
		return fmt.Sprintf("- **%s**: %s", key, value)
	}
	return fmt.Sprintf("%s %s", r.styles.Muted.Render(key+":"), value)
}
