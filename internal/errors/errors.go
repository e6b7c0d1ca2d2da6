package errors

import (
	"errors"
	"fmt"
	"strings"
)

type Causer interface {
	Cause() error
}

type TaggedError struct {
	msg   string
	cause error
}

func (t *TaggedError) Error() string {
	return t.msg + ": " + t.cause.Error()
}

func (t *TaggedError) Cause() error {
	return t.cause
}

func (t *TaggedError) Unwrap() error {
	return t.cause
}

func Tag(err error, msg string) *TaggedError {
	return &TaggedError{msg: msg, cause: err}
}

func GetCause(err error) error {
	if causer, ok := err.(Causer); ok {
		return GetCause(causer.Cause())
	}
	return err
}

type MergedError struct {
	errors []error
}

func (m *MergedError) Error() string {
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}
	var b strings.Builder
	b.WriteString("merged: ")
	for i, err := range m.errors {
		if i != 0 {
			b.WriteString(" + ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

func (m *MergedError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

func (m *MergedError) Unwrap() []error {
	return m.errors
}

func (m *MergedError) Finalize() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func Merge(errors ...error) error {
	m := MergedError{}
	for _, err := range errors {
		m.Add(err)
	}
	return m.Finalize()
}

// CallbackPanicError carries a value recovered from a panicking callback.
type CallbackPanicError struct {
	Value interface{}
}

func (e *CallbackPanicError) Error() string {
	return fmt.Sprintf("callback panicked: %v", e.Value)
}

func IsCallbackPanicError(err error) bool {
	_, ok := GetCause(err).(*CallbackPanicError)
	return ok
}

// InvalidURLError is returned by URL rewriters for references they cannot
// parse.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return "invalid url: " + e.URL
}

func IsInvalidURLError(err error) bool {
	_, ok := GetCause(err).(*InvalidURLError)
	return ok
}

// New is a re-export of the built-in errors.New function.
var New = errors.New

// Is is a re-export of the built-in errors.Is function.
var Is = errors.Is
