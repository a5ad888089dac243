package software

// TracerBuilderOption is a functional option for configuring a Tracer.
type TracerBuilderOption func(*tracerImpl)

// WithWorkers sets the maximum number of pool workers. Defaults to the CPU count.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - TracerBuilderOption: a function that sets the worker count
func WithWorkers(workers int) TracerBuilderOption {
	return func(t *tracerImpl) {
		if workers > 0 {
			t.workers = workers
		}
	}
}

// WithMaxDepth sets the number of bounces per path.
//
// Parameters:
//   - depth: the bounce limit
//
// Returns:
//   - TracerBuilderOption: a function that sets the bounce limit
func WithMaxDepth(depth int) TracerBuilderOption {
	return func(t *tracerImpl) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// WithSeed fixes the random seed.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - TracerBuilderOption: a function that sets the seed
func WithSeed(seed int64) TracerBuilderOption {
	return func(t *tracerImpl) {
		t.seed = seed
	}
}

// WithoutJitter samples every pixel at its centre, which makes primary rays deterministic.
//
// Returns:
//   - TracerBuilderOption: a function that disables sub-pixel jitter
func WithoutJitter() TracerBuilderOption {
	return func(t *tracerImpl) {
		t.jitter = false
	}
}
