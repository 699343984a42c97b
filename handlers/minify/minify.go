// Package minify implements a Handler that re-serializes parse events
// with insignificant whitespace collapsed.
package minify

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/flowmark/corexml"
)

// Minifier writes a compact re-serialization of the events it
// receives: no indentation, no inter-tag whitespace, and runs of
// whitespace inside text collapsed to a single space.
type Minifier struct {
	corexml.BaseHandler

	w *bufio.Writer
}

// New wraps w. Callers must call Flush after Parse returns.
func New(w io.Writer) *Minifier {
	return &Minifier{w: bufio.NewWriter(w)}
}

// Flush writes any buffered output to the underlying writer.
func (m *Minifier) Flush() error { return m.w.Flush() }

func (m *Minifier) OpenElementStart(v *corexml.View, name corexml.Partition) {
	fmt.Fprintf(m.w, "<%s", v.Text(name))
}

func (m *Minifier) OpenElementEnd(*corexml.View, corexml.Partition) {
	m.w.WriteByte('>')
}

func (m *Minifier) CloseElementStart(v *corexml.View, name corexml.Partition) {
	fmt.Fprintf(m.w, "</%s", v.Text(name))
}

func (m *Minifier) CloseElementEnd(*corexml.View, corexml.Partition) {
	m.w.WriteByte('>')
}

func (m *Minifier) StandaloneElementStart(v *corexml.View, name corexml.Partition, _ bool) {
	fmt.Fprintf(m.w, "<%s", v.Text(name))
}

func (m *Minifier) StandaloneElementEnd(_ *corexml.View, _ corexml.Partition, minimized bool) {
	if minimized {
		m.w.WriteString("/>")
		return
	}
	m.w.WriteByte('>')
}

func (m *Minifier) Attribute(v *corexml.View, name, _, valueContent, _ corexml.Partition) {
	fmt.Fprintf(m.w, " %s=%q", v.Text(name), v.Text(valueContent))
}

func (m *Minifier) Text(v *corexml.View, p corexml.Partition) {
	collapsed := strings.Join(strings.Fields(v.Text(p)), " ")
	if collapsed == "" {
		return
	}
	m.w.WriteString(collapsed)
}
