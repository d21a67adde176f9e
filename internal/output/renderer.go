package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/atikulmunna/clientlog/internal/model"
	"github.com/atikulmunna/clientlog/internal/parser"
)

// Renderer echoes accepted log entries to the console.
type Renderer interface {
	Render(entry model.LogEntry) error
}

// New returns the renderer for format ("text" or "json") writing to stdout.
func New(format string) (Renderer, error) {
	switch format {
	case "text", "":
		return NewTextRenderer(os.Stdout), nil
	case "json":
		return NewJSONRenderer(os.Stdout), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

// TextRenderer prints each entry's log line, colored by severity when w is a terminal.
type TextRenderer struct {
	mu     sync.Mutex
	w      io.Writer
	styles map[string]lipgloss.Style
}

// NewTextRenderer returns a TextRenderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().Inline(true).TabWidth(lipgloss.NoTabConversion)
	return &TextRenderer{
		w: w,
		styles: map[string]lipgloss.Style{
			"DEBUG": base.Copy().Foreground(lipgloss.Color("245")).Faint(true),
			"INFO":  base.Copy().Foreground(lipgloss.Color("252")),
			"WARN":  base.Copy().Foreground(lipgloss.Color("220")),
			"ERROR": base.Copy().Foreground(lipgloss.Color("196")).Bold(true),
			"FATAL": base.Copy().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("196")).Bold(true),
		},
	}
}

// Render prints entry.Line() unchanged apart from color. Only the first line of
// a multi-line message is styled; the rest is written verbatim.
func (r *TextRenderer) Render(entry model.LogEntry) error {
	style := r.styles[parser.NormalizeLevel(entry.Level)]
	head, tail, multiline := strings.Cut(entry.Line(), "\n")
	cr := strings.HasSuffix(head, "\r")
	line := style.Render(strings.TrimSuffix(head, "\r"))
	if cr {
		line += "\r"
	}
	if multiline {
		line += "\n" + tail
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := fmt.Fprintln(r.w, line)
	return err
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// jsonEntry is the console JSON shape; it matches what /ws streams.
type jsonEntry struct {
	Timestamp string `json:"timestamp"`
	Client    string `json:"client"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Line      string `json:"line"`
}

// Encode converts an entry to its JSON wire form.
func Encode(entry model.LogEntry) any {
	return jsonEntry{
		Timestamp: model.FormatTime(entry.Timestamp),
		Client:    entry.Client,
		Level:     entry.Level,
		Message:   entry.Message,
		Line:      entry.Line(),
	}
}

// JSONRenderer prints each entry as a single JSON object per line.
type JSONRenderer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONRenderer returns a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(entry model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(Encode(entry))
}
