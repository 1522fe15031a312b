// Package valuetree provides a generic hierarchical store of attributed nodes.
//
// A tree is built from Nodes: each node carries a type tag, an ordered set of
// named string attributes, and an ordered list of child nodes. Mutations can be
// recorded against an UndoManager so that a group of edits is reversible as a
// single unit. The tree has no knowledge of what it stores; higher layers
// define the schema (see the marker package).
package valuetree

import "fmt"

// attribute is a single named value on a node. Attributes keep their
// insertion order so serialized output is stable.
type attribute struct {
	name  string
	value string
}

// Node is a mutable attributed tree node.
// A node is owned by at most one parent; use Clone to copy subtrees between
// parents. Nodes are not safe for concurrent mutation.
type Node struct {
	typ      string
	attrs    []attribute
	children []*Node
	parent   *Node
}

// NewNode creates a node with the given type tag and no attributes or children.
func NewNode(typ string) *Node {
	return &Node{typ: typ}
}

// Type returns the node's type tag.
func (n *Node) Type() string {
	return n.typ
}

// Parent returns the node's parent, or nil for a root node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Attribute returns the named attribute value and whether it is present.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// AttributeNames returns the attribute names in insertion order.
func (n *Node) AttributeNames() []string {
	names := make([]string, len(n.attrs))
	for i, a := range n.attrs {
		names[i] = a.name
	}
	return names
}

// NumAttributes returns the number of attributes on the node.
func (n *Node) NumAttributes() int {
	return len(n.attrs)
}

// SetAttribute sets or replaces the named attribute.
// Setting an existing attribute to its current value is a no-op and records
// nothing. If undo is non-nil the change is recorded for reversal.
func (n *Node) SetAttribute(name, value string, undo *UndoManager) {
	old, had := n.Attribute(name)
	if had && old == value {
		return
	}
	n.setAttr(name, value)
	if undo == nil {
		return
	}
	if had {
		undo.record(change{
			undo: func() { n.setAttr(name, old) },
			redo: func() { n.setAttr(name, value) },
		})
	} else {
		undo.record(change{
			undo: func() { n.removeAttr(name) },
			redo: func() { n.setAttr(name, value) },
		})
	}
}

// RemoveAttribute deletes the named attribute if present.
func (n *Node) RemoveAttribute(name string, undo *UndoManager) {
	old, had := n.Attribute(name)
	if !had {
		return
	}
	n.removeAttr(name)
	if undo != nil {
		undo.record(change{
			undo: func() { n.setAttr(name, old) },
			redo: func() { n.removeAttr(name) },
		})
	}
}

func (n *Node) setAttr(name, value string) {
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs[i].value = value
			return
		}
	}
	n.attrs = append(n.attrs, attribute{name: name, value: value})
}

func (n *Node) removeAttr(name string) {
	for i := range n.attrs {
		if n.attrs[i].name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// NumChildren returns the number of child nodes.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Child returns the child at index, or nil if index is out of range.
// Tree traversal is tolerant of stale indices so callers iterating while
// mutating get nils rather than panics.
func (n *Node) Child(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// IndexOf returns the index of the given child, or -1 if it is not a child
// of this node.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// AddChild inserts child at the given index, or appends when index is -1 or
// past the end. The child must not already have a parent.
func (n *Node) AddChild(child *Node, index int, undo *UndoManager) error {
	if child == nil {
		return fmt.Errorf("adding nil child to %q node", n.typ)
	}
	if child.parent != nil {
		return fmt.Errorf("node %q already has a parent", child.typ)
	}
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}
	n.insertChild(child, index)
	if undo != nil {
		undo.record(change{
			undo: func() { n.detachChild(child) },
			redo: func() { n.insertChild(child, index) },
		})
	}
	return nil
}

// RemoveChild removes the child at index. Out-of-range indices are a no-op.
func (n *Node) RemoveChild(index int, undo *UndoManager) {
	child := n.Child(index)
	if child == nil {
		return
	}
	n.detachChild(child)
	if undo != nil {
		undo.record(change{
			undo: func() { n.insertChild(child, index) },
			redo: func() { n.detachChild(child) },
		})
	}
}

// RemoveChildNode removes the given node from this node's children.
func (n *Node) RemoveChildNode(child *Node, undo *UndoManager) {
	n.RemoveChild(n.IndexOf(child), undo)
}

func (n *Node) insertChild(child *Node, index int) {
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
}

func (n *Node) detachChild(child *Node) {
	i := n.IndexOf(child)
	if i < 0 {
		return
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	child.parent = nil
}

// Clone returns a deep copy of the node and its subtree.
// The copy has no parent.
func (n *Node) Clone() *Node {
	out := &Node{typ: n.typ}
	out.attrs = append([]attribute(nil), n.attrs...)
	for _, c := range n.children {
		cc := c.Clone()
		cc.parent = out
		out.children = append(out.children, cc)
	}
	return out
}

// Equivalent reports whether two subtrees hold the same data: same type tags,
// same attributes (order-insensitive), and the same children in the same
// order. Parents are ignored.
func (n *Node) Equivalent(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.typ != other.typ || len(n.attrs) != len(other.attrs) || len(n.children) != len(other.children) {
		return false
	}
	for _, a := range n.attrs {
		v, ok := other.Attribute(a.name)
		if !ok || v != a.value {
			return false
		}
	}
	for i, c := range n.children {
		if !c.Equivalent(other.children[i]) {
			return false
		}
	}
	return true
}

// Walk visits the node and its subtree depth-first, children in order.
// Returning false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
