package batch

// BatcherBuilderOption is a functional option for configuring a Batcher during construction.
type BatcherBuilderOption func(*batcher)

// WithWorkers sets the maximum number of goroutines used to build skin matrices.
// A value of 1 or less builds them on the calling goroutine.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - BatcherBuilderOption: a function that applies the worker count to a batcher
func WithWorkers(n int) BatcherBuilderOption {
	return func(b *batcher) {
		b.workers = n
	}
}
