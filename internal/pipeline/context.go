package pipeline

import (
	"github.com/tensorir/tirc/internal/diagnostics"
	"github.com/tensorir/tirc/internal/ir"
	"github.com/tensorir/tirc/internal/token"
)

// PipelineContext threads state between the lexer and parser stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string // path to the source file, if any (recorded for callers; not read by the lexer or parser stages)

	TokenStream TokenStream
	Tokens      []token.Token // materialized by the lexer stage, consumed by the parser stage

	Module *ir.Module
	Errors []*diagnostics.ParseError
}

// NewPipelineContext builds a context ready for the lexer stage.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		Errors:     []*diagnostics.ParseError{},
	}
}
