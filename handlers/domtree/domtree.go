// Package domtree implements a Handler that materializes a full DOM
// tree from parse events, for callers that want the convenience of an
// in-memory document instead of streaming events.
package domtree

import (
	"github.com/beevik/etree"

	"github.com/flowmark/corexml"
)

// Builder accumulates parse events into an etree.Document. It embeds
// corexml.BaseHandler so it only needs to override the events that
// shape a tree; Attribute, Comment, CDATASection and friends round out
// the node kinds etree can represent.
type Builder struct {
	corexml.BaseHandler

	doc   *etree.Document
	stack []*etree.Element
}

// New creates an empty Builder ready to be handed to Parser.Parse.
func New() *Builder {
	doc := etree.NewDocument()
	return &Builder{doc: doc, stack: []*etree.Element{&doc.Element}}
}

// Document returns the tree built so far. Safe to call after Parse
// returns; calling it mid-parse returns a partially built tree.
func (b *Builder) Document() *etree.Document {
	return b.doc
}

func (b *Builder) top() *etree.Element {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) push(name string) {
	b.stack = append(b.stack, b.top().CreateElement(name))
}

func (b *Builder) pop() {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *Builder) OpenElementStart(v *corexml.View, name corexml.Partition) {
	b.push(v.Text(name))
}

func (b *Builder) CloseElementStart(_ *corexml.View, _ corexml.Partition) {
	b.pop()
}

func (b *Builder) StandaloneElementStart(v *corexml.View, name corexml.Partition, _ bool) {
	b.push(v.Text(name))
}

func (b *Builder) StandaloneElementEnd(_ *corexml.View, _ corexml.Partition, _ bool) {
	b.pop()
}

func (b *Builder) AutoOpenElementStart(v *corexml.View, name corexml.Partition) {
	b.push(v.Text(name))
}

func (b *Builder) AutoCloseElementStart(_ *corexml.View, _ corexml.Partition) {
	b.pop()
}

func (b *Builder) Attribute(v *corexml.View, name, _, valueContent, _ corexml.Partition) {
	b.top().CreateAttr(v.Text(name), v.Text(valueContent))
}

func (b *Builder) Text(v *corexml.View, p corexml.Partition) {
	b.top().CreateText(v.Text(p))
}

func (b *Builder) Comment(v *corexml.View, content, _ corexml.Partition) {
	b.top().CreateComment(v.Text(content))
}

func (b *Builder) CDATASection(v *corexml.View, content, _ corexml.Partition) {
	b.top().CreateCData(v.Text(content))
}

func (b *Builder) ProcessingInstruction(v *corexml.View, target, content, _ corexml.Partition) {
	b.top().CreateProcInst(v.Text(target), v.Text(content))
}

func (b *Builder) DocType(v *corexml.View, _, elementName, _, _, _, _, _ corexml.Partition) {
	b.doc.CreateDirective("DOCTYPE " + v.Text(elementName))
}
