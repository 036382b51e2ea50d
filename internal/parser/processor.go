package parser

import "github.com/tensorir/tirc/internal/pipeline"

// Processor is the pipeline stage that turns a materialized token
// array into a parsed *ir.Module, grounded on the teacher's own
// internal/parser ParserProcessor (spec.md §6's pipeline composition).
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	parser := New(ctx.Tokens)
	mod, err := parser.ParseModule()
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Module = mod
	return ctx
}
