package corexml

import "github.com/flowmark/corexml/internal/buffer"

// View is the borrowed, read-only window into the parser's buffer that
// every handler event carries. A View is only valid for the duration of
// the event call that received it — the parser's buffer may shift or
// refill as soon as the handler returns. Handlers that need to retain
// text must copy it out via Text or Runes before returning.
//
// Synthetic events (autoOpen*, autoClose*) name elements that do not
// exist anywhere in the input at the point they are emitted, so the
// parser backs them with a view over the name's runes instead of the
// shared buffer. Partition offsets are always relative to the view they
// arrived with, never to a view from another event.
type View struct {
	buf   *buffer.Buffer
	runes []rune
}

// Text materializes the runes named by p as a string.
func (v *View) Text(p Partition) string {
	if v.buf == nil {
		return string(v.runes[p.Offset : p.Offset+p.Length])
	}
	return string(v.buf.Slice(p.Offset, p.Length))
}

// Runes materializes the runes named by p as a new []rune, safe to keep
// after the handler returns.
func (v *View) Runes(p Partition) []rune {
	var src []rune
	if v.buf == nil {
		src = v.runes[p.Offset : p.Offset+p.Length]
	} else {
		src = v.buf.Slice(p.Offset, p.Length)
	}
	out := make([]rune, len(src))
	copy(out, src)
	return out
}
