package corexml

// Partition is a named sub-range of an artifact: an offset/length pair
// into the buffer's current window, plus the line/column at its start.
// A zero-length Partition is valid and means the
// corresponding piece of the artifact was absent (e.g. an XML
// declaration with no `standalone` pseudo-attribute).
type Partition struct {
	Offset int
	Length int
	Line   int
	Col    int
}

// End returns the offset just past the partition.
func (p Partition) End() int { return p.Offset + p.Length }

// IsZero reports whether p names an empty (absent) partition.
func (p Partition) IsZero() bool { return p.Length == 0 }
