package validation

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Error is a validation problem located in a configuration document.
type Error struct {
	UnderlyingError error
	// Node is the YAML node the problem is reported at, when known
	Node *yaml.Node
	// DocumentLocation is the file or preset the node belongs to
	DocumentLocation string
	// Path is the JSON pointer of the offending value, "" for the document root
	Path string
}

var _ error = (*Error)(nil)

// NewValidationError creates an error at node.
func NewValidationError(err error, node *yaml.Node) *Error {
	return &Error{
		UnderlyingError: err,
		Node:            node,
	}
}

func (e Error) Error() string {
	loc := ""
	if e.DocumentLocation != "" {
		loc = e.DocumentLocation + ":"
	}
	msg := e.UnderlyingError.Error()
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	return fmt.Sprintf("[%s%d:%d] %s", loc, e.GetLineNumber(), e.GetColumnNumber(), msg)
}

func (e Error) Unwrap() error {
	return e.UnderlyingError
}

// GetLineNumber returns the 1-based line of the node, or -1 without a node.
func (e Error) GetLineNumber() int {
	if e.Node == nil {
		return -1
	}
	return e.Node.Line
}

// GetColumnNumber returns the 1-based column of the node, or -1 without a node.
func (e Error) GetColumnNumber() int {
	if e.Node == nil {
		return -1
	}
	return e.Node.Column
}
