// Package pretty implements an indenting pretty-printer Handler.
package pretty

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/flowmark/corexml"
)

// Printer re-serializes parse events as indented markup. It does not
// attempt a byte-exact round trip of the original input; it is a
// readability aid, not a formatter that preserves insignificant
// whitespace.
type Printer struct {
	corexml.BaseHandler

	w      *bufio.Writer
	indent string
	depth  int
}

// New wraps w. Callers must call Flush after Parse returns.
func New(w io.Writer) *Printer {
	return &Printer{w: bufio.NewWriter(w), indent: "  "}
}

// Flush writes any buffered output to the underlying writer.
func (p *Printer) Flush() error { return p.w.Flush() }

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth; i++ {
		p.w.WriteString(p.indent)
	}
}

func (p *Printer) OpenElementStart(v *corexml.View, name corexml.Partition) {
	p.writeIndent()
	fmt.Fprintf(p.w, "<%s", v.Text(name))
	p.depth++
}

func (p *Printer) OpenElementEnd(*corexml.View, corexml.Partition) {
	p.w.WriteString(">\n")
}

func (p *Printer) CloseElementStart(v *corexml.View, name corexml.Partition) {
	p.depth--
	p.writeIndent()
	fmt.Fprintf(p.w, "</%s", v.Text(name))
}

func (p *Printer) CloseElementEnd(*corexml.View, corexml.Partition) {
	p.w.WriteString(">\n")
}

func (p *Printer) StandaloneElementStart(v *corexml.View, name corexml.Partition, _ bool) {
	p.writeIndent()
	fmt.Fprintf(p.w, "<%s", v.Text(name))
}

func (p *Printer) StandaloneElementEnd(_ *corexml.View, _ corexml.Partition, minimized bool) {
	if minimized {
		p.w.WriteString("/>\n")
		return
	}
	p.w.WriteString(">\n")
}

func (p *Printer) Attribute(v *corexml.View, name, _, valueContent, _ corexml.Partition) {
	fmt.Fprintf(p.w, " %s=%q", v.Text(name), v.Text(valueContent))
}

func (p *Printer) Text(v *corexml.View, part corexml.Partition) {
	text := strings.TrimSpace(v.Text(part))
	if text == "" {
		return
	}
	p.writeIndent()
	p.w.WriteString(text)
	p.w.WriteString("\n")
}

func (p *Printer) Comment(v *corexml.View, content, _ corexml.Partition) {
	p.writeIndent()
	fmt.Fprintf(p.w, "<!--%s-->\n", v.Text(content))
}
