package gomap

import (
	"errors"
	"fmt"

	"github.com/signadot/go-packet/codec"
)

var ErrInvalidData = errors.New("invalid data")

// MarshalError reports a value which cannot be serialized. It matches
// codec.ErrNotSerializable.
type MarshalError struct {
	FieldPath string // e.g. "config.hosts[2]"
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("marshal error: %s", e.Message)
}

func (e *MarshalError) Unwrap() []error {
	if e.Err == nil {
		return []error{codec.ErrNotSerializable}
	}
	return []error{codec.ErrNotSerializable, e.Err}
}

// DataError reports wire data which does not fit a template. It matches
// ErrInvalidData.
type DataError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *DataError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("invalid data at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("invalid data: %s", e.Message)
}

func (e *DataError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidData}
	}
	return []error{ErrInvalidData, e.Err}
}

func marshalErr(path string, err error, format string, args ...any) error {
	return &MarshalError{FieldPath: path, Message: fmt.Sprintf(format, args...), Err: err}
}

func dataErr(path string, err error, format string, args ...any) error {
	return &DataError{FieldPath: path, Message: fmt.Sprintf(format, args...), Err: err}
}

func fieldPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
