// Package form holds validated form fields. A field's error stays hidden
// until the field is touched by an edit or by a submit attempt.
package form

import "sync"

// Validator returns an error message for v, or "" when v is valid.
type Validator[T any] func(v T) string

// Value is a single validated form field.
type Value[T any] struct {
	mu        sync.RWMutex
	value     T
	touched   bool
	validator Validator[T]
}

// NewValue creates an untouched field holding initial.
func NewValue[T any](initial T, validator Validator[T]) *Value[T] {
	return &Value[T]{value: initial, validator: validator}
}

// Value returns the current value.
func (f *Value[T]) Value() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

// Set stores v and marks the field touched.
func (f *Value[T]) Set(v T) {
	f.mu.Lock()
	f.value = v
	f.touched = true
	f.mu.Unlock()
}

// Touched reports whether the field was edited or validated.
func (f *Value[T]) Touched() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.touched
}

// ResetTouched hides the error again, e.g. after a successful save.
func (f *Value[T]) ResetTouched() {
	f.mu.Lock()
	f.touched = false
	f.mu.Unlock()
}

// Validate marks the field touched and reports whether it is valid.
func (f *Value[T]) Validate() bool {
	f.mu.Lock()
	f.touched = true
	f.mu.Unlock()
	return f.Error() == ""
}

// Error is "" while untouched, otherwise the validator's verdict.
func (f *Value[T]) Error() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.touched || f.validator == nil {
		return ""
	}
	return f.validator(f.value)
}

// HasError reports whether Error is non-empty.
func (f *Value[T]) HasError() bool {
	return f.Error() != ""
}

// ValidateAll validates every field and reports whether all are valid.
// Every field is touched even after the first failure.
func ValidateAll(fields ...interface{ Validate() bool }) bool {
	ok := true
	for _, f := range fields {
		if !f.Validate() {
			ok = false
		}
	}
	return ok
}
