// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ring implements a simple most-recent-value ring buffer.
package ring

// Buffer holds the most recently pushed values, up to a fixed
// capacity.
type Buffer[T any] struct {
	data []T
	next int
	full bool
}

func NewBuffer[T any](n int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, n)}
}

// Len returns the number of held values.
func (r *Buffer[T]) Len() int {
	if r.full {
		return len(r.data)
	}
	return r.next
}

// Size returns the capacity of the buffer.
func (r *Buffer[T]) Size() int {
	return len(r.data)
}

// Push adds v to the buffer, displacing the oldest held value when
// the buffer is full.
func (r *Buffer[T]) Push(v T) {
	r.data[r.next] = v
	r.next++
	if r.next == len(r.data) {
		r.next = 0
		r.full = true
	}
}

// CopyTo copies the held values into dst, oldest first, returning the
// number of values copied.
func (r *Buffer[T]) CopyTo(dst []T) int {
	if !r.full {
		return copy(dst, r.data[:r.next])
	}
	n := copy(dst, r.data[r.next:])
	n += copy(dst[n:], r.data[:r.next])
	return n
}

// Reset discards all held values.
func (r *Buffer[T]) Reset() {
	r.next = 0
	r.full = false
}
