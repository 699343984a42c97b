package buffer

import (
	"bufio"
	"io"
)

// ReaderSource adapts an io.Reader of UTF-8 bytes into a Source of
// runes, decoding lazily as ReadRunes is called.
type ReaderSource struct {
	r *bufio.Reader
}

// NewReaderSource wraps r so it can be used as a Buffer Source.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r)}
}

// ReadRunes implements Source. It blocks for at least one rune, then
// drains whatever is already buffered without issuing further
// blocking reads, so a slow Source never stalls past the data it
// has actually delivered.
func (s *ReaderSource) ReadRunes(p []rune) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}
	p[0] = r
	n := 1
	for n < len(p) && s.r.Buffered() > 0 {
		r, _, err := s.r.ReadRune()
		if err != nil {
			return n, nil
		}
		p[n] = r
		n++
	}
	return n, nil
}

// StringSource adapts an in-memory string into a Source, primarily for
// tests and for re-feeding a prior run's concatenated outer spans.
type StringSource struct {
	runes []rune
	pos   int
}

// NewStringSource creates a Source that yields the runes of s in order.
func NewStringSource(s string) *StringSource {
	return &StringSource{runes: []rune(s)}
}

// ReadRunes implements Source.
func (s *StringSource) ReadRunes(p []rune) (int, error) {
	n := copy(p, s.runes[s.pos:])
	s.pos += n
	if s.pos >= len(s.runes) {
		return n, io.EOF
	}
	return n, nil
}
