// Package selector implements a Handler that filters a parse event
// stream down to the elements (and their descendants) matching a
// boolean expr-lang expression evaluated against each element's name
// and nesting depth, forwarding only the matching subtrees to a wrapped
// Handler. The filter applies to element, attribute, inner-whitespace,
// text and comment events; every other event (document boundaries,
// declarations, CDATA, processing instructions, and the synthetic
// auto-open, auto-close and unmatched-close events) is forwarded
// unfiltered.
package selector

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/flowmark/corexml"
)

type env struct {
	Name  string
	Depth int
}

// Selector composes onto corexml.ChainHandler: every event it doesn't
// override already forwards to Next unchanged.
type Selector struct {
	corexml.ChainHandler

	program *vm.Program

	depth      int
	matchDepth int // 0 means "currently outside any match"
}

// New compiles code once and returns a Selector that forwards events
// for elements where code evaluates truthy, given Name and Depth in
// scope, to next.
func New(code string, next corexml.Handler) (*Selector, error) {
	program, err := expr.Compile(code, expr.Env(env{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	return &Selector{ChainHandler: corexml.ChainHandler{Next: next}, program: program}, nil
}

func (s *Selector) matches(name string) bool {
	out, err := expr.Run(s.program, env{Name: name, Depth: s.depth})
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}

func (s *Selector) forwarding() bool { return s.matchDepth > 0 }

func (s *Selector) enter(name string) {
	s.depth++
	if s.matchDepth == 0 && s.matches(name) {
		s.matchDepth = s.depth
	}
}

func (s *Selector) leave() {
	if s.matchDepth == s.depth {
		s.matchDepth = 0
	}
	s.depth--
}

func (s *Selector) OpenElementStart(v *corexml.View, name corexml.Partition) {
	s.enter(v.Text(name))
	if s.forwarding() {
		s.Next.OpenElementStart(v, name)
	}
}

func (s *Selector) OpenElementEnd(v *corexml.View, name corexml.Partition) {
	if s.forwarding() {
		s.Next.OpenElementEnd(v, name)
	}
}

func (s *Selector) CloseElementStart(v *corexml.View, name corexml.Partition) {
	if s.forwarding() {
		s.Next.CloseElementStart(v, name)
	}
}

func (s *Selector) CloseElementEnd(v *corexml.View, name corexml.Partition) {
	if s.forwarding() {
		s.Next.CloseElementEnd(v, name)
	}
	s.leave()
}

func (s *Selector) StandaloneElementStart(v *corexml.View, name corexml.Partition, minimized bool) {
	s.enter(v.Text(name))
	if s.forwarding() {
		s.Next.StandaloneElementStart(v, name, minimized)
	}
}

func (s *Selector) StandaloneElementEnd(v *corexml.View, name corexml.Partition, minimized bool) {
	if s.forwarding() {
		s.Next.StandaloneElementEnd(v, name, minimized)
	}
	s.leave()
}

func (s *Selector) Text(v *corexml.View, p corexml.Partition) {
	if s.forwarding() {
		s.Next.Text(v, p)
	}
}

func (s *Selector) Attribute(v *corexml.View, name, operator, valueContent, valueOuter corexml.Partition) {
	if s.forwarding() {
		s.Next.Attribute(v, name, operator, valueContent, valueOuter)
	}
}

func (s *Selector) Comment(v *corexml.View, content, outer corexml.Partition) {
	if s.forwarding() {
		s.Next.Comment(v, content, outer)
	}
}

func (s *Selector) InnerWhiteSpace(v *corexml.View, p corexml.Partition) {
	if s.forwarding() {
		s.Next.InnerWhiteSpace(v, p)
	}
}
