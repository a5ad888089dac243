package bind_group_provider

// BufferWrite queues bytes for the buffer behind one binding of a provider.
// The renderer hands the camera and scene uniforms over as one batch before
// encoding the trace pass.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	// Offset is in bytes from the start of the buffer.
	Offset uint64
	Data   []byte
}
