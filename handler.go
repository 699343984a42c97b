package corexml

// Handler receives the parser's event stream. Every method that
// receives a *View must treat it as borrowed: the view, and every
// Partition's backing buffer content, is only valid until the method
// returns.
//
// Before the first event, Parse calls the five Set* methods in order so
// a handler can reach back into parser state without every event method
// needing to carry it. All five are optional to implement meaningfully —
// BaseHandler's no-op versions satisfy the interface for handlers that
// don't need them.
type Handler interface {
	SetParseConfiguration(cfg *Config)
	SetParseStatus(status *Status)
	SetParseSelection(sel *Selection)
	SetParser(p *Parser)
	SetHandlerChain(next Handler)

	DocumentStart(startTimeNanos int64, line, col int)
	DocumentEnd(endTimeNanos, totalTimeNanos int64, line, col int)

	XMLDeclaration(view *View, keyword, version, encoding, standalone, outer Partition)
	DocType(view *View, keyword, elementName, doctypeType, publicID, systemID, internalSubset, outer Partition)
	CDATASection(view *View, content, outer Partition)
	Comment(view *View, content, outer Partition)
	Text(view *View, p Partition)

	StandaloneElementStart(view *View, name Partition, minimized bool)
	StandaloneElementEnd(view *View, name Partition, minimized bool)
	OpenElementStart(view *View, name Partition)
	OpenElementEnd(view *View, name Partition)
	CloseElementStart(view *View, name Partition)
	CloseElementEnd(view *View, name Partition)

	AutoOpenElementStart(view *View, name Partition)
	AutoOpenElementEnd(view *View, name Partition)
	AutoCloseElementStart(view *View, name Partition)
	AutoCloseElementEnd(view *View, name Partition)
	UnmatchedCloseElementStart(view *View, name Partition)
	UnmatchedCloseElementEnd(view *View, name Partition)

	Attribute(view *View, name, operator, valueContent, valueOuter Partition)
	InnerWhiteSpace(view *View, p Partition)

	ProcessingInstruction(view *View, target, content, outer Partition)

	// ParseError is called once, immediately before Parse returns the
	// same error to its caller, giving a handler a chance to record
	// diagnostics. It cannot suppress the error.
	ParseError(err error)
}

// BaseHandler is a no-op Handler. Embed it in a concrete handler type to
// implement only the events that type cares about.
type BaseHandler struct{}

var _ Handler = BaseHandler{}

func (BaseHandler) SetParseConfiguration(*Config)   {}
func (BaseHandler) SetParseStatus(*Status)           {}
func (BaseHandler) SetParseSelection(*Selection)     {}
func (BaseHandler) SetParser(*Parser)                {}
func (BaseHandler) SetHandlerChain(Handler)          {}

func (BaseHandler) DocumentStart(int64, int, int)        {}
func (BaseHandler) DocumentEnd(int64, int64, int, int)   {}

func (BaseHandler) XMLDeclaration(*View, Partition, Partition, Partition, Partition, Partition) {}
func (BaseHandler) DocType(*View, Partition, Partition, Partition, Partition, Partition, Partition, Partition) {
}
func (BaseHandler) CDATASection(*View, Partition, Partition) {}
func (BaseHandler) Comment(*View, Partition, Partition)      {}
func (BaseHandler) Text(*View, Partition)                    {}

func (BaseHandler) StandaloneElementStart(*View, Partition, bool) {}
func (BaseHandler) StandaloneElementEnd(*View, Partition, bool)   {}
func (BaseHandler) OpenElementStart(*View, Partition)             {}
func (BaseHandler) OpenElementEnd(*View, Partition)               {}
func (BaseHandler) CloseElementStart(*View, Partition)            {}
func (BaseHandler) CloseElementEnd(*View, Partition)              {}

func (BaseHandler) AutoOpenElementStart(*View, Partition)         {}
func (BaseHandler) AutoOpenElementEnd(*View, Partition)           {}
func (BaseHandler) AutoCloseElementStart(*View, Partition)        {}
func (BaseHandler) AutoCloseElementEnd(*View, Partition)          {}
func (BaseHandler) UnmatchedCloseElementStart(*View, Partition)   {}
func (BaseHandler) UnmatchedCloseElementEnd(*View, Partition)     {}

func (BaseHandler) Attribute(*View, Partition, Partition, Partition, Partition) {}
func (BaseHandler) InnerWhiteSpace(*View, Partition)                            {}

func (BaseHandler) ProcessingInstruction(*View, Partition, Partition, Partition) {}

func (BaseHandler) ParseError(error) {}

// ChainHandler is a Handler that forwards every event to an embedded
// Next handler unchanged, letting a composed handler override only the
// events it needs to intercept or synthesize.
// Unlike BaseHandler, ChainHandler requires Next to be set when it is
// constructed, before Parse begins: SetHandlerChain is forwarded to Next
// like every other call and does not assign it.
type ChainHandler struct {
	Next Handler
}

var _ Handler = (*ChainHandler)(nil)

func (c *ChainHandler) SetParseConfiguration(cfg *Config) { c.Next.SetParseConfiguration(cfg) }
func (c *ChainHandler) SetParseStatus(s *Status)           { c.Next.SetParseStatus(s) }
func (c *ChainHandler) SetParseSelection(sel *Selection)   { c.Next.SetParseSelection(sel) }
func (c *ChainHandler) SetParser(p *Parser)                { c.Next.SetParser(p) }
func (c *ChainHandler) SetHandlerChain(next Handler) {
	c.Next.SetHandlerChain(next)
}

func (c *ChainHandler) DocumentStart(startTimeNanos int64, line, col int) {
	c.Next.DocumentStart(startTimeNanos, line, col)
}
func (c *ChainHandler) DocumentEnd(endTimeNanos, totalTimeNanos int64, line, col int) {
	c.Next.DocumentEnd(endTimeNanos, totalTimeNanos, line, col)
}

func (c *ChainHandler) XMLDeclaration(v *View, keyword, version, encoding, standalone, outer Partition) {
	c.Next.XMLDeclaration(v, keyword, version, encoding, standalone, outer)
}
func (c *ChainHandler) DocType(v *View, keyword, elementName, doctypeType, publicID, systemID, internalSubset, outer Partition) {
	c.Next.DocType(v, keyword, elementName, doctypeType, publicID, systemID, internalSubset, outer)
}
func (c *ChainHandler) CDATASection(v *View, content, outer Partition) {
	c.Next.CDATASection(v, content, outer)
}
func (c *ChainHandler) Comment(v *View, content, outer Partition) { c.Next.Comment(v, content, outer) }
func (c *ChainHandler) Text(v *View, p Partition)                 { c.Next.Text(v, p) }

func (c *ChainHandler) StandaloneElementStart(v *View, name Partition, minimized bool) {
	c.Next.StandaloneElementStart(v, name, minimized)
}
func (c *ChainHandler) StandaloneElementEnd(v *View, name Partition, minimized bool) {
	c.Next.StandaloneElementEnd(v, name, minimized)
}
func (c *ChainHandler) OpenElementStart(v *View, name Partition) { c.Next.OpenElementStart(v, name) }
func (c *ChainHandler) OpenElementEnd(v *View, name Partition)   { c.Next.OpenElementEnd(v, name) }
func (c *ChainHandler) CloseElementStart(v *View, name Partition) {
	c.Next.CloseElementStart(v, name)
}
func (c *ChainHandler) CloseElementEnd(v *View, name Partition) { c.Next.CloseElementEnd(v, name) }

func (c *ChainHandler) AutoOpenElementStart(v *View, name Partition) {
	c.Next.AutoOpenElementStart(v, name)
}
func (c *ChainHandler) AutoOpenElementEnd(v *View, name Partition) {
	c.Next.AutoOpenElementEnd(v, name)
}
func (c *ChainHandler) AutoCloseElementStart(v *View, name Partition) {
	c.Next.AutoCloseElementStart(v, name)
}
func (c *ChainHandler) AutoCloseElementEnd(v *View, name Partition) {
	c.Next.AutoCloseElementEnd(v, name)
}
func (c *ChainHandler) UnmatchedCloseElementStart(v *View, name Partition) {
	c.Next.UnmatchedCloseElementStart(v, name)
}
func (c *ChainHandler) UnmatchedCloseElementEnd(v *View, name Partition) {
	c.Next.UnmatchedCloseElementEnd(v, name)
}

func (c *ChainHandler) Attribute(v *View, name, operator, valueContent, valueOuter Partition) {
	c.Next.Attribute(v, name, operator, valueContent, valueOuter)
}
func (c *ChainHandler) InnerWhiteSpace(v *View, p Partition) { c.Next.InnerWhiteSpace(v, p) }

func (c *ChainHandler) ProcessingInstruction(v *View, target, content, outer Partition) {
	c.Next.ProcessingInstruction(v, target, content, outer)
}

func (c *ChainHandler) ParseError(err error) { c.Next.ParseError(err) }
