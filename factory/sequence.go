package factory

import "sync/atomic"

// FormatFunc turns a counter value into the sequence's output value.
type FormatFunc func(n int64) any

// Sequence produces an infinite series of formatted values from a monotonic
// counter. Next is an atomic increment-then-format, so concurrent builds
// drawing from the same sequence never observe a duplicate counter value.
//
// A sequence keeps counting for the life of its owner (the registry for
// global sequences, the definition for factory-local ones); there is no
// implicit reset.
type Sequence struct {
	name    string
	counter atomic.Int64
	format  FormatFunc
}

// NewSequence creates a sequence whose counter starts at 1.
func NewSequence(name string, format FormatFunc) *Sequence {
	return NewSequenceFrom(name, 1, format)
}

// NewSequenceFrom creates a sequence whose counter starts at the given value.
// A nil format yields the raw counter values.
func NewSequenceFrom(name string, start int64, format FormatFunc) *Sequence {
	s := &Sequence{name: name, format: format}
	s.counter.Store(start - 1)
	return s
}

// Name returns the sequence name.
func (s *Sequence) Name() string { return s.name }

// Next advances the counter and returns the formatted value. Counter values
// are strictly increasing with no reuse.
func (s *Sequence) Next() any {
	n := s.counter.Add(1)
	if s.format == nil {
		return n
	}
	return s.format(n)
}
