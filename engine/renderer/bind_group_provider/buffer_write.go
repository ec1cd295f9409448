package bind_group_provider

// BufferWrite is one queued upload into a provider's buffer.
// Renderer.WriteBuffers applies writes in slice order; writes to unallocated bindings are skipped.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
