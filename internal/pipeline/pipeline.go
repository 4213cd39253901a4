package pipeline

// Pipeline runs an ordered list of Processors over one PipelineContext.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run threads ctx through every processor in order. A stage that
// records errors does not stop the chain: the inheritance and
// type-analysis passes both run on every invocation so a single run
// reports the diagnostics of both.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
