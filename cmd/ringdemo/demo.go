package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/c360/ringbuf/pkg/buffer"
)

// runDemo pushes 0..count-1 and, once the buffer is full, prints the raw
// slots and the result of searching for every pushed value after each push.
// It then inserts and erases a marker in the middle and halves the capacity.
func runDemo(w io.Writer, rb *buffer.RingBuffer[int], count int) error {
	for i := 0; i < count; i++ {
		rb.PushBack(i)
		if !rb.IsFull() {
			continue
		}

		if _, err := fmt.Fprintf(w, "push %d\n", i); err != nil {
			return err
		}
		if err := rb.Dump(w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "find: %s\n", findAll(rb, count)); err != nil {
			return err
		}
	}

	if rb.IsEmpty() {
		return nil
	}

	mid := rb.Len() / 2
	it, err := rb.Insert(rb.Begin().Add(mid), -1)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if _, err := fmt.Fprintf(w, "insert -1 at %d: %v\n", mid, rb.Slice()); err != nil {
		return err
	}

	if _, err := rb.Erase(it); err != nil {
		return fmt.Errorf("erase: %w", err)
	}
	if _, err := fmt.Fprintf(w, "erase: %v\n", rb.Slice()); err != nil {
		return err
	}

	from, to := rb.Cap(), max(1, rb.Cap()/2)
	if err := rb.Resize(to); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if _, err := fmt.Fprintf(w, "resize %d -> %d: %v\n", from, to, rb.Slice()); err != nil {
		return err
	}
	return rb.Dump(w)
}

// findAll searches for 0..count-1 and renders hits as their value and misses as '-'.
func findAll(rb *buffer.RingBuffer[int], count int) string {
	results := make([]string, count)
	for v := range results {
		it := buffer.Find(rb.Begin(), rb.End(), v)
		if it.Equal(rb.End()) {
			results[v] = "-"
			continue
		}
		found, _ := it.Value()
		results[v] = strconv.Itoa(found)
	}
	return strings.Join(results, " ")
}
