// Package testutil provides test utilities for building marker trees.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/markers/internal/valuetree"
)

// TreeBuilder accumulates markers and builds a layout tree for tests.
type TreeBuilder struct {
	t        *testing.T
	rootType string
	markers  []markerData
	extras   []*valuetree.Node
}

// NewLayout creates a builder for a "Layout" root node.
func NewLayout(t *testing.T) *TreeBuilder {
	t.Helper()
	return &TreeBuilder{t: t, rootType: "Layout"}
}

// WithMarker adds a marker child with optional extra attributes.
func (b *TreeBuilder) WithMarker(name, position string, opts ...MarkerOption) *TreeBuilder {
	m := markerData{name: name, position: position}
	for _, opt := range opts {
		opt(&m)
	}
	b.markers = append(b.markers, m)
	return b
}

// WithChild adds a non-marker child node of the given type.
func (b *TreeBuilder) WithChild(typ string, attrs ...[2]string) *TreeBuilder {
	node := valuetree.NewNode(typ)
	for _, attr := range attrs {
		node.SetAttribute(attr[0], attr[1], nil)
	}
	b.extras = append(b.extras, node)
	return b
}

// Build assembles the tree with markers first, extras after.
func (b *TreeBuilder) Build() *valuetree.Node {
	b.t.Helper()
	root := valuetree.NewNode(b.rootType)
	for _, m := range b.markers {
		node := valuetree.NewNode("Marker")
		node.SetAttribute("name", m.name, nil)
		node.SetAttribute("position", m.position, nil)
		for _, attr := range m.attrs {
			node.SetAttribute(attr[0], attr[1], nil)
		}
		require.NoError(b.t, root.AddChild(node, -1, nil))
	}
	for _, extra := range b.extras {
		require.NoError(b.t, root.AddChild(extra, -1, nil))
	}
	return root
}

// WriteFile builds the tree and saves it as YAML at path.
func (b *TreeBuilder) WriteFile(path string) *valuetree.Node {
	b.t.Helper()
	root := b.Build()
	require.NoError(b.t, valuetree.SaveFile(path, root))
	return root
}
