package encoder

// EncoderBuilderOption is a functional option for configuring an Encoder.
type EncoderBuilderOption func(*encoderImpl)

// WithCapacity sets the number of slots per primitive kind.
// Non-positive values are ignored. The GPU uniform only carries GPUSceneCapacity slots.
//
// Parameters:
//   - capacity: slots per kind
//
// Returns:
//   - EncoderBuilderOption: a function that sets the capacity
func WithCapacity(capacity int) EncoderBuilderOption {
	return func(e *encoderImpl) {
		if capacity > 0 {
			e.capacity = capacity
		}
	}
}
