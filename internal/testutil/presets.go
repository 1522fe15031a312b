package testutil

// WithStandardLayout adds the standard marker dataset used across tests:
// two absolute anchors, a derived midpoint, and an externally-referenced
// position.
func (b *TreeBuilder) WithStandardLayout() *TreeBuilder {
	return b.
		WithMarker("top", "10").
		WithMarker("bottom", "90").
		WithMarker("middle", "(top + bottom) / 2").
		WithMarker("nearBottom", "parent.bottom - 20")
}
