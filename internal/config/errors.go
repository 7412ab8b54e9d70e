package config

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes reported by Load and the validate command.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodeNoTypes         = "E101" // No journaled types declared
	ErrCodeInvalidOnly     = "E102" // only is not a list of strings
	ErrCodeInvalidExcept   = "E103" // except is not a list of strings
	ErrCodeInvalidOnCreate = "E104" // journal_on_create is not a bool
	ErrCodeUnknownField    = "E105" // Unrecognized field in a type block
	ErrCodeInvalidType     = "E106" // Type block is not a struct
)

// CompileError reports an invalid journaled type declaration.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Code maps the failing field to an error code.
func (e *CompileError) Code() string {
	switch e.Field {
	case "only":
		return ErrCodeInvalidOnly
	case "except":
		return ErrCodeInvalidExcept
	case "journal_on_create":
		return ErrCodeInvalidOnCreate
	case "field":
		return ErrCodeUnknownField
	case "type":
		return ErrCodeInvalidType
	case "journaled":
		return ErrCodeNoTypes
	default:
		return ErrCodeGeneric
	}
}

// LoadError reports a failure to read or build the config directory.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: field, Message: err.Error()}
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   field,
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{Field: field, Message: first.Error()}
}
