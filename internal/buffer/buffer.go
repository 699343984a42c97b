// Package buffer implements the sliding character buffer that backs the
// tokenizer: it refills from a caller-supplied Source, tracks line/column
// as the read head advances, and reclaims space by shifting unread
// content to the front once the head has consumed enough of the window.
//
// Offsets handed out by this package (Pos, End, At, Slice) are indices
// into the *current window*, not absolute stream positions: absolute
// positions are never tracked, only line/column are. A shift
// invalidates every offset taken before it, which is why Position
// snapshots are tagged with a generation counter.
package buffer

import (
	"errors"
	"io"
)

// ErrStaleSnapshot is returned by Restore when the snapshot was taken
// before a shift discarded the window it pointed into.
var ErrStaleSnapshot = errors.New("buffer: snapshot position was discarded by a shift")

// Source supplies runes to a Buffer. The buffer never opens anything
// itself; all I/O goes through the caller-provided Source.
type Source interface {
	// ReadRunes reads up to len(p) runes into p, returning the number
	// read. It follows io.Reader's contract: a non-zero n with err ==
	// io.EOF is valid, and ReadRunes may return (0, nil) to signal a
	// transient stall that the caller should retry.
	ReadRunes(p []rune) (n int, err error)
}

const (
	initialCapacity = 4096
	maxCapacity     = 1 << 22 // ~4M runes
	shiftThreshold  = 0.5     // shift once the read head has crossed this fraction of the window
)

// Position is a cheap, restartable snapshot of a Buffer's read head,
// valid only until the next Shift.
type Position struct {
	offset int
	line   int
	col    int
	gen    int
}

// Buffer is the sliding character buffer the tokenizer scans over.
type Buffer struct {
	src  Source
	data []rune
	pos  int // next unread index into data
	end  int // end-of-valid-data index into data
	gen  int // incremented every Shift; invalidates prior Positions

	line int
	col  int

	eof    bool
	srcErr error
}

// New creates a Buffer that reads runes from src as needed.
func New(src Source) *Buffer {
	return &Buffer{
		src:  src,
		data: make([]rune, initialCapacity),
		line: 1,
		col:  1,
	}
}

// NewFromRunes creates a Buffer preloaded with runes and no further
// Source, useful for tests and for re-feeding a captured event span.
func NewFromRunes(runes []rune) *Buffer {
	b := &Buffer{
		data: make([]rune, len(runes)),
		end:  len(runes),
		eof:  true,
		line: 1,
		col:  1,
	}
	copy(b.data, runes)
	return b
}

// Pos returns the current read-head index into the window.
func (b *Buffer) Pos() int { return b.pos }

// End returns the end-of-valid-data index into the window.
func (b *Buffer) End() int { return b.end }

// Line returns the 1-based line number at the read head.
func (b *Buffer) Line() int { return b.line }

// Col returns the 1-based column number at the read head.
func (b *Buffer) Col() int { return b.col }

// Available reports how many unread runes are currently buffered.
func (b *Buffer) Available() int { return b.end - b.pos }

// At returns the rune at absolute window offset i. The caller must
// ensure i < b.End().
func (b *Buffer) At(i int) rune { return b.data[i] }

// Slice returns the runes in [offset, offset+length). The caller must
// ensure the range lies within [0, b.End()).
func (b *Buffer) Slice(offset, length int) []rune {
	return b.data[offset : offset+length]
}

// Ensure guarantees that at least minChars runes are available starting
// at the read head, refilling from the Source as needed. It returns
// false if end-of-input is reached with fewer than minChars available;
// the caller can still consume whatever Available() reports.
func (b *Buffer) Ensure(minChars int) bool {
	stalls := 0
	for b.Available() < minChars {
		if b.eof {
			return false
		}
		if b.pos > 0 && float64(b.pos) >= float64(len(b.data))*shiftThreshold {
			b.Shift()
		}
		if len(b.data)-b.end < minChars-b.Available() {
			b.grow(minChars)
		}
		n, err := b.src.ReadRunes(b.data[b.end:])
		b.end += n
		if err != nil {
			b.eof = true
			if err != io.EOF {
				b.srcErr = err
			}
		}
		if n == 0 && err == nil {
			// Transient stall; retry, but avoid spinning forever on a
			// misbehaving Source.
			stalls++
			if stalls >= 100 {
				b.eof = true
				b.srcErr = io.ErrNoProgress
			}
			continue
		}
		stalls = 0
	}
	return true
}

// Err returns the first non-EOF error reported by the Source, if any.
func (b *Buffer) Err() error { return b.srcErr }

// AtEOF reports whether the Source has been exhausted (further Ensure
// calls cannot add more data).
func (b *Buffer) AtEOF() bool { return b.eof }

// grow doubles the buffer capacity until it can hold at least need more
// unread runes past the read head, capped at maxCapacity.
func (b *Buffer) grow(need int) {
	newCap := len(b.data)
	if newCap == 0 {
		newCap = initialCapacity
	}
	for newCap-b.pos < need+b.Available() {
		newCap *= 2
		if newCap > maxCapacity {
			newCap = maxCapacity
			break
		}
	}
	if newCap <= len(b.data) {
		return
	}
	grown := make([]rune, newCap)
	copy(grown, b.data[:b.end])
	b.data = grown
}

// Shift moves unread content to the front of the window to reclaim
// space, invalidating any Position taken before the shift.
func (b *Buffer) Shift() {
	if b.pos == 0 {
		return
	}
	n := copy(b.data, b.data[b.pos:b.end])
	b.end = n
	b.pos = 0
	b.gen++
}

// Advance moves the read head forward by n runes, updating line/column
// by scanning the consumed range for line breaks. \n, \r, and \r\n each
// count as exactly one line break.
func (b *Buffer) Advance(n int) {
	for i := 0; i < n; i++ {
		r := b.data[b.pos+i]
		switch r {
		case '\n':
			b.line++
			b.col = 1
		case '\r':
			if b.pos+i+1 < b.end && b.data[b.pos+i+1] == '\n' {
				// Let the following \n drive the line break;
				// this \r just advances the column.
				b.col++
			} else {
				b.line++
				b.col = 1
			}
		default:
			b.col++
		}
	}
	b.pos += n
}

// SnapshotPosition captures the current read head for a later Restore.
func (b *Buffer) SnapshotPosition() Position {
	return Position{offset: b.pos, line: b.line, col: b.col, gen: b.gen}
}

// Restore rewinds the read head to a previously captured Position. It
// fails if a Shift has occurred since the snapshot was taken, since the
// window it pointed into may no longer hold the same data.
func (b *Buffer) Restore(p Position) error {
	if p.gen != b.gen {
		return ErrStaleSnapshot
	}
	b.pos = p.offset
	b.line = p.line
	b.col = p.col
	return nil
}
