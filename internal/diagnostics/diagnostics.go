// Package diagnostics implements the closed parse-error taxonomy of
// spec.md §7, in the same shape as the teacher's internal/diagnostics
// package: an ErrorCode enum, a template table, and a single error type
// that carries a source range.
package diagnostics

import (
	"fmt"

	"github.com/tensorir/tirc/internal/token"
)

// ErrorCode enumerates the closed taxonomy from spec.md §7.
type ErrorCode string

const (
	ErrUnexpectedToken                 ErrorCode = "unexpected_token"
	ErrUnexpectedEOF                   ErrorCode = "unexpected_end_of_input"
	ErrUnexpectedIdentifierKind        ErrorCode = "unexpected_identifier_kind"
	ErrUndefinedIdentifier              ErrorCode = "undefined_identifier"
	ErrUndefinedNominalType             ErrorCode = "undefined_nominal_type"
	ErrRedefinedIdentifier              ErrorCode = "redefined_identifier"
	ErrTypeMismatch                     ErrorCode = "type_mismatch"
	ErrNotFunctionType                  ErrorCode = "not_function_type"
	ErrInvalidOperands                  ErrorCode = "invalid_operands"
	ErrCannotNameVoidValue              ErrorCode = "cannot_name_void_value"
	ErrAnonymousIdentifierNotInLocal    ErrorCode = "anonymous_identifier_not_in_local"
	ErrInvalidAnonymousIdentifierIndex  ErrorCode = "invalid_anonymous_identifier_index"
	ErrDeclarationCannotHaveBody        ErrorCode = "declaration_cannot_have_body"
)

var templates = map[ErrorCode]string{
	ErrUnexpectedToken:                "unexpected token: expected %s, but got '%s'",
	ErrUnexpectedEOF:                  "unexpected end of input: expected %s",
	ErrUnexpectedIdentifierKind:       "unexpected identifier kind: expected %s, got %s",
	ErrUndefinedIdentifier:            "undefined identifier: '%s'",
	ErrUndefinedNominalType:           "undefined nominal type: '%s'",
	ErrRedefinedIdentifier:            "redefined identifier: '%s'",
	ErrTypeMismatch:                   "type mismatch: expected %s",
	ErrNotFunctionType:                "not a function type",
	ErrInvalidOperands:                "invalid operands for opcode '%s'",
	ErrCannotNameVoidValue:            "cannot name a void-typed value",
	ErrAnonymousIdentifierNotInLocal:  "anonymous identifier used outside a basic block",
	ErrInvalidAnonymousIdentifierIndex: "invalid anonymous identifier index '%s'",
	ErrDeclarationCannotHaveBody:      "a function declaration cannot have a body",
}

// ParseError is the single error type the parser produces. It always
// carries the source range of the offending token(s).
type ParseError struct {
	Code  ErrorCode
	Range token.Range
	Args  []interface{}

	// Extra is set for declaration_cannot_have_body, which carries two
	// ranges (the declaration and the body's opening brace).
	Extra *token.Range
}

func (e *ParseError) Error() string {
	template, ok := templates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown parse error code: %s", e.Code)
	}
	msg := fmt.Sprintf(template, e.Args...)
	return fmt.Sprintf("%s: error [%s]: %s", e.Range.Start, e.Code, msg)
}

// New creates a ParseError positioned at tok's range.
func New(code ErrorCode, tok token.Token, args ...interface{}) *ParseError {
	return &ParseError{Code: code, Range: tok.Range, Args: args}
}

// NewAt creates a ParseError positioned at an explicit range (used when
// the offending span covers more than one token, e.g. type_mismatch).
func NewAt(code ErrorCode, rng token.Range, args ...interface{}) *ParseError {
	return &ParseError{Code: code, Range: rng, Args: args}
}

// NewWithExtra attaches a second range, used only by
// declaration_cannot_have_body to report both the declaration and the
// unexpected body token.
func NewWithExtra(code ErrorCode, tok token.Token, extra token.Range, args ...interface{}) *ParseError {
	return &ParseError{Code: code, Range: tok.Range, Args: args, Extra: &extra}
}
