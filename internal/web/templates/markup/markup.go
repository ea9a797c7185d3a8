// Package markup holds the low-level helpers shared by the page components.
package markup

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// CSRFFieldName is the form field gorilla/csrf reads the token from
const CSRFFieldName = "gorilla.csrf.Token"

// mdRenderer escapes raw HTML in the input (WithUnsafe is not set)
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Writer accumulates HTML output, remembering the first write error
type Writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewWriter wraps w for the duration of one Render call
func NewWriter(ctx context.Context, w io.Writer) *Writer {
	return &Writer{ctx: ctx, w: w}
}

// Raw writes trusted markup as-is
func (h *Writer) Raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// Text writes escaped text
func (h *Writer) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Component renders a nested component
func (h *Writer) Component(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

// Err returns the first error encountered
func (h *Writer) Err() error {
	return h.err
}

// Component builds a templ.Component from a function writing through a Writer
func Component(fn func(h *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewWriter(ctx, w)
		fn(h)
		return h.Err()
	})
}

// Markdown renders user-supplied markdown. Conversion failures fall back to escaped text.
func Markdown(source string) templ.Component {
	return Component(func(h *Writer) {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(source), &buf); err != nil {
			h.Text(source)
			return
		}
		h.Raw(buf.String())
	})
}

// CSRFField renders the hidden CSRF input, or nothing when protection is off
func CSRFField(token string) templ.Component {
	return Component(func(h *Writer) {
		if token == "" {
			return
		}
		h.Raw(`<input type="hidden" name="` + CSRFFieldName + `" value="`)
		h.Text(token)
		h.Raw(`">`)
	})
}

// Attr writes name="value" with the value escaped
func (h *Writer) Attr(name, value string) {
	h.Raw(" " + name + `="`)
	h.Text(value)
	h.Raw(`"`)
}
