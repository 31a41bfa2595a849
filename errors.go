package configcrunch

import (
	"errors"
	"fmt"
)

// ErrConfigcrunch is the root marker every error type in this file wraps,
// so callers can `errors.Is(err, configcrunch.ErrConfigcrunch)` without
// matching each concrete type individually. Errors from kind lookup, lookup
// path resolution and Query are plain errors and do not wrap it.
var ErrConfigcrunch = errors.New("configcrunch")

// InvalidDocumentError reports that a parsed YAML value was not the mapping
// shape a document body requires.
type InvalidDocumentError struct {
	Path string
	Err  error
}

func (e *InvalidDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid document at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid document at %s", e.Path)
}
func (e *InvalidDocumentError) Unwrap() error { return errors.Join(e.Err, ErrConfigcrunch) }

// InvalidHeaderError reports a missing or mismatched top-level header key.
type InvalidHeaderError struct {
	Path     string
	Expected string
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("document at %s does not have the expected header %q", e.Path, e.Expected)
}
func (e *InvalidHeaderError) Unwrap() error { return ErrConfigcrunch }

// InvalidRemoveError reports a $remove sentinel found where the sweep
// cannot legally act, e.g. a bare $remove as a whole document body.
type InvalidRemoveError struct {
	Label string
}

func (e *InvalidRemoveError) Error() string {
	return fmt.Sprintf("%s: found $remove at an unexpected position", e.Label)
}
func (e *InvalidRemoveError) Unwrap() error { return ErrConfigcrunch }

// ReferencedDocumentNotFoundError reports that a $ref path resolved to no
// candidate file across every repository root.
type ReferencedDocumentNotFoundError struct {
	Ref        string
	SourcePath string
}

func (e *ReferencedDocumentNotFoundError) Error() string {
	if e.SourcePath != "" {
		return fmt.Sprintf("referenced document %q not found, requested by a document at %s", e.Ref, e.SourcePath)
	}
	return fmt.Sprintf("referenced document %q not found", e.Ref)
}
func (e *ReferencedDocumentNotFoundError) Unwrap() error { return ErrConfigcrunch }

// CircularDependencyError reports that a reference chain re-entered a
// logical path already present in the resolution chain.
type CircularDependencyError struct {
	Path string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular reference detected while trying to load %s", e.Path)
}
func (e *CircularDependencyError) Unwrap() error { return ErrConfigcrunch }

// VariableProcessingError reports a template render failure, or a
// fixed-point pass that exceeded its iteration bound.
type VariableProcessingError struct {
	Value      string
	Label      string
	SourcePath string
	Err        error
}

func (e *VariableProcessingError) Error() string {
	return fmt.Sprintf("error processing variable %q for %s (source: %s): %v",
		e.Value, e.Label, e.SourcePath, e.Err)
}
func (e *VariableProcessingError) Unwrap() error { return errors.Join(e.Err, ErrConfigcrunch) }

// ValidationError wraps a schema-validation failure with the document's
// short error label, preserving the underlying details verbatim.
type ValidationError struct {
	Label string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validating %s: %v", e.Label, e.Err)
}
func (e *ValidationError) Unwrap() error { return errors.Join(e.Err, ErrConfigcrunch) }
