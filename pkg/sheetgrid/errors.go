package sheetgrid

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input looks like a spreadsheet package but cannot be read as one.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrSheetNotFound indicates a sheet name that the workbook does not contain.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrInputTooLarge indicates the input exceeds Options.MaxInputBytes.
var ErrInputTooLarge = errors.New("input too large")

// DecodeError represents an error while decoding one part of a source.
type DecodeError struct {
	SheetName string
	Component string // "package", "encoding", "print_areas", "properties"
	Err       error
}

func (e *DecodeError) Error() string {
	if e.SheetName == "" {
		return fmt.Sprintf("decode error (%s): %v", e.Component, e.Err)
	}
	return fmt.Sprintf("decode error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new DecodeError.
func NewDecodeError(sheetName, component string, err error) *DecodeError {
	return &DecodeError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
