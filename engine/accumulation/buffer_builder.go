package accumulation

// BufferBuilderOption is a functional option for configuring a Buffer.
type BufferBuilderOption func(*bufferImpl)

// WithSlotScales sets the per-slot resolution multiplier. The default keeps slot A at 2x and slot B
// at 1x the viewport.
//
// Parameters:
//   - a: scale of slot A
//   - b: scale of slot B
//
// Returns:
//   - BufferBuilderOption: a function that sets both slot scales
func WithSlotScales(a, b float32) BufferBuilderOption {
	return func(buf *bufferImpl) {
		if a > 0 {
			buf.scale[SlotA] = a
		}
		if b > 0 {
			buf.scale[SlotB] = b
		}
	}
}

// WithSupersample allocates both slots at the same multiple of the viewport.
//
// Parameters:
//   - scale: resolution multiplier for both slots
//
// Returns:
//   - BufferBuilderOption: a function that sets a uniform slot scale
func WithSupersample(scale float32) BufferBuilderOption {
	return WithSlotScales(scale, scale)
}
