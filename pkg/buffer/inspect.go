package buffer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Snapshot is a raw view of the buffer's internal layout, for tests and
// debugging. Slots is a copy of the whole backing store, sentinel included.
type Snapshot[T any] struct {
	Head       int    `json:"head" yaml:"head"`
	Tail       int    `json:"tail" yaml:"tail"`
	Size       int    `json:"size" yaml:"size"`
	Capacity   int    `json:"capacity" yaml:"capacity"`
	Generation uint64 `json:"generation" yaml:"generation"`
	Slots      []T    `json:"slots" yaml:"slots"`
}

// Inspect returns a snapshot of the cursors and raw slot contents.
func (rb *RingBuffer[T]) Inspect() Snapshot[T] {
	slots := make([]T, len(rb.slots))
	copy(slots, rb.slots)

	return Snapshot[T]{
		Head:       rb.head,
		Tail:       rb.tail,
		Size:       rb.size,
		Capacity:   rb.Cap(),
		Generation: rb.generation,
		Slots:      slots,
	}
}

// Dump writes every raw slot on one line and a marker line below it:
// 'h' under head, 't' under tail, 'x' when they coincide, '-' elsewhere.
//
//	9 0 2 3 4 5 6 7 8
//	- t h - - - - - -
func (rb *RingBuffer[T]) Dump(w io.Writer) error {
	cells := make([]string, len(rb.slots))
	width := 1
	for i, v := range rb.slots {
		cells[i] = fmt.Sprint(v)
		width = max(width, utf8.RuneCountInString(cells[i]))
	}

	markers := make([]string, len(rb.slots))
	for i := range markers {
		switch {
		case i == rb.head && i == rb.tail:
			markers[i] = "x"
		case i == rb.head:
			markers[i] = "h"
		case i == rb.tail:
			markers[i] = "t"
		default:
			markers[i] = "-"
		}
	}

	if _, err := fmt.Fprintln(w, joinPadded(cells, width)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, joinPadded(markers, width))
	return err
}

func joinPadded(cells []string, width int) string {
	var sb strings.Builder
	for i, c := range cells {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c)
		if i < len(cells)-1 {
			sb.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(c)))
		}
	}
	return sb.String()
}
