package pipeline

// Sink receives per-image completion events from the batch driver. The
// size-targeting search itself never reports progress; only the pipeline
// calls the sink, once per finished image. Implementations must tolerate
// calls from multiple goroutines; the pipeline serializes them.
type Sink interface {
	ImageDone(done, total int)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(done, total int)

func (f SinkFunc) ImageDone(done, total int) { f(done, total) }
