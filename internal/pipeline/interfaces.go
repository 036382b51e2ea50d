// Package pipeline wires the lexer and parser stages together, in the
// same shape as the teacher's internal/pipeline package: a Processor
// interface, a TokenStream the lexer stage produces, and a
// PipelineContext the stages thread state through.
package pipeline

import "github.com/tensorir/tirc/internal/token"

// Processor is one stage of a Pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// TokenStream is the contract a lexer stage publishes for a parser
// stage to drain.
type TokenStream interface {
	// Next consumes and returns the next token from the stream.
	Next() token.Token
}
