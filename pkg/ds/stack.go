// Package ds holds small generic containers used by the engine.
package ds

import "errors"

// ErrStackUnderflow is returned when popping or peeking an empty stack.
var ErrStackUnderflow = errors.New("stack underflow")

type node[T any] struct {
	value T
	next  *node[T]
}

// Stack is a singly-linked LIFO container.
// The zero value is an empty stack ready to use.
type Stack[T any] struct {
	top  *node[T]
	size int
}

// NewStack creates an empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push places v on top of the stack.
func (s *Stack[T]) Push(v T) {
	s.top = &node[T]{value: v, next: s.top}
	s.size++
}

// Pop removes and returns the top element.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if s.top == nil {
		return zero, ErrStackUnderflow
	}
	v := s.top.value
	s.top = s.top.next
	s.size--
	return v, nil
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (T, error) {
	var zero T
	if s.top == nil {
		return zero, ErrStackUnderflow
	}
	return s.top.value, nil
}

// IsEmpty reports whether the stack holds no elements.
func (s *Stack[T]) IsEmpty() bool {
	return s.top == nil
}

// Len returns the number of elements on the stack.
func (s *Stack[T]) Len() int {
	return s.size
}
