package pipeline

// Pipeline is a fixed sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline running processors in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, threading ctx through each. A
// stage that records a fatal error is still followed by later stages;
// callers check ctx.Errors once Run returns (spec.md §5: parsing stops
// at the first fatal error, but that is the parser stage's own
// internal behavior, not the pipeline's).
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
