package valuetree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNode_Attributes(t *testing.T) {
	n := NewNode("Marker")

	_, ok := n.Attribute("name")
	require.False(t, ok, "missing attribute should report absent")

	n.SetAttribute("name", "top", nil)
	n.SetAttribute("position", "10", nil)

	v, ok := n.Attribute("name")
	require.True(t, ok)
	require.Equal(t, "top", v)
	require.Equal(t, []string{"name", "position"}, n.AttributeNames(), "attributes keep insertion order")

	// Overwriting keeps the original slot
	n.SetAttribute("name", "bottom", nil)
	require.Equal(t, []string{"name", "position"}, n.AttributeNames())
	v, _ = n.Attribute("name")
	require.Equal(t, "bottom", v)

	n.RemoveAttribute("name", nil)
	_, ok = n.Attribute("name")
	require.False(t, ok)
	require.Equal(t, 1, n.NumAttributes())
}

func TestNode_Children(t *testing.T) {
	root := NewNode("MarkerSheet")
	a := NewNode("Marker")
	b := NewNode("Marker")
	c := NewNode("Marker")

	require.NoError(t, root.AddChild(a, -1, nil))
	require.NoError(t, root.AddChild(b, -1, nil))
	require.NoError(t, root.AddChild(c, 1, nil), "insert at index 1")

	require.Equal(t, 3, root.NumChildren())
	require.Same(t, a, root.Child(0))
	require.Same(t, c, root.Child(1))
	require.Same(t, b, root.Child(2))
	require.Same(t, root, a.Parent())
	require.Equal(t, 1, root.IndexOf(c))

	require.Nil(t, root.Child(3), "out-of-range child lookup returns nil")
	require.Nil(t, root.Child(-1))

	root.RemoveChildNode(c, nil)
	require.Equal(t, 2, root.NumChildren())
	require.Nil(t, c.Parent(), "removed child is detached")
	require.Equal(t, -1, root.IndexOf(c))
}

func TestNode_AddChild_Errors(t *testing.T) {
	root := NewNode("MarkerSheet")
	other := NewNode("MarkerSheet")
	child := NewNode("Marker")

	require.Error(t, root.AddChild(nil, -1, nil))

	require.NoError(t, root.AddChild(child, -1, nil))
	require.Error(t, other.AddChild(child, -1, nil), "a node cannot have two parents")
}

func TestNode_Equivalent(t *testing.T) {
	build := func() *Node {
		root := NewNode("MarkerSheet")
		root.SetAttribute("name", "main", nil)
		m := NewNode("Marker")
		m.SetAttribute("name", "top", nil)
		m.SetAttribute("position", "10", nil)
		_ = root.AddChild(m, -1, nil)
		return root
	}

	a := build()
	b := build()
	require.True(t, a.Equivalent(b))

	// Attribute order does not matter
	c := NewNode("MarkerSheet")
	c.SetAttribute("name", "main", nil)
	m := NewNode("Marker")
	m.SetAttribute("position", "10", nil)
	m.SetAttribute("name", "top", nil)
	_ = c.AddChild(m, -1, nil)
	require.True(t, a.Equivalent(c))

	// Child order does
	d := build()
	m2 := NewNode("Marker")
	m2.SetAttribute("name", "bottom", nil)
	_ = d.AddChild(m2, 0, nil)
	require.False(t, a.Equivalent(d))

	// Value difference
	e := build()
	e.Child(0).SetAttribute("position", "11", nil)
	require.False(t, a.Equivalent(e))
}

func TestNode_Clone(t *testing.T) {
	root := NewNode("MarkerSheet")
	m := NewNode("Marker")
	m.SetAttribute("name", "top", nil)
	require.NoError(t, root.AddChild(m, -1, nil))

	clone := root.Clone()
	require.True(t, root.Equivalent(clone))
	require.Nil(t, clone.Parent())

	// Mutating the clone must not touch the original
	clone.Child(0).SetAttribute("name", "bottom", nil)
	v, _ := root.Child(0).Attribute("name")
	require.Equal(t, "top", v)
}

func TestNode_Walk(t *testing.T) {
	root := NewNode("MarkerSheet")
	for i := 0; i < 3; i++ {
		m := NewNode("Marker")
		m.SetAttribute("name", fmt.Sprintf("m%d", i), nil)
		require.NoError(t, root.AddChild(m, -1, nil))
	}

	var visited []string
	root.Walk(func(n *Node) bool {
		if name, ok := n.Attribute("name"); ok {
			visited = append(visited, name)
		}
		return true
	})
	require.Equal(t, []string{"m0", "m1", "m2"}, visited)

	// Early stop
	count := 0
	root.Walk(func(n *Node) bool {
		count++
		return count < 2
	})
	require.Equal(t, 2, count)
}

// TestProperty_UndoRevertsRandomEdits applies a random sequence of recorded
// edits and verifies that undoing all of them restores the original tree.
func TestProperty_UndoRevertsRandomEdits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := NewNode("MarkerSheet")
		for i := 0; i < 3; i++ {
			m := NewNode("Marker")
			m.SetAttribute("name", fmt.Sprintf("m%d", i), nil)
			_ = root.AddChild(m, -1, nil)
		}
		before := root.Clone()

		undo := NewUndoManager()
		numOps := rapid.IntRange(1, 30).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			switch rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("op-%d", i)) {
			case 0:
				child := root.Child(rapid.IntRange(0, root.NumChildren()).Draw(t, fmt.Sprintf("idx-%d", i)))
				if child != nil {
					child.SetAttribute("position", fmt.Sprint(rapid.IntRange(0, 100).Draw(t, fmt.Sprintf("pos-%d", i))), undo)
				}
			case 1:
				m := NewNode("Marker")
				m.SetAttribute("name", rapid.StringMatching("[a-z]{1,6}").Draw(t, fmt.Sprintf("name-%d", i)), nil)
				_ = root.AddChild(m, rapid.IntRange(-1, root.NumChildren()).Draw(t, fmt.Sprintf("at-%d", i)), undo)
			case 2:
				root.RemoveChild(rapid.IntRange(0, root.NumChildren()).Draw(t, fmt.Sprintf("rm-%d", i)), undo)
			case 3:
				child := root.Child(rapid.IntRange(0, root.NumChildren()).Draw(t, fmt.Sprintf("ra-%d", i)))
				if child != nil {
					child.RemoveAttribute("name", undo)
				}
			}
		}

		for undo.Undo() {
		}
		require.True(t, root.Equivalent(before), "undoing every edit should restore the original tree")
	})
}
