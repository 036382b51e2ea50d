package lexer

import (
	"github.com/tensorir/tirc/internal/pipeline"
	"github.com/tensorir/tirc/internal/token"
)

// tokenStream is a simple forward-only TokenStream over a Lexer.
type tokenStream struct {
	l *Lexer
}

// NewTokenStream adapts a Lexer to pipeline.TokenStream.
func NewTokenStream(l *Lexer) pipeline.TokenStream {
	return &tokenStream{l: l}
}

func (ts *tokenStream) Next() token.Token { return ts.l.NextToken() }

// Processor runs the lexer to completion and materializes its output
// as a token array, the input form the cursor-based parser requires
// (spec.md §6: "one constructor taking either a pre-lexed token array
// or a source text").
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)
	stream := NewTokenStream(l)
	ctx.TokenStream = stream

	var tokens []token.Token
	for {
		tok := stream.Next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	ctx.Tokens = tokens
	return ctx
}
