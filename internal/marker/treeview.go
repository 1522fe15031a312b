package marker

import (
	"github.com/zjrosen/markers/internal/log"
	"github.com/zjrosen/markers/internal/valuetree"
)

// Value tree schema for a stored marker list: one child node per marker
// under the wrapped node, tagged NodeType, carrying the marker's name and
// its position expression as string attributes.
const (
	NodeType     = "Marker"
	AttrName     = "name"
	AttrPosition = "position"
)

// TreeView is a stateless adapter between a List and a valuetree.Node.
// It owns neither side; it copies state across in either direction.
type TreeView struct {
	state *valuetree.Node
}

// NewTreeView wraps the given tree node as marker-list storage.
func NewTreeView(state *valuetree.Node) TreeView {
	return TreeView{state: state}
}

// State returns the wrapped tree node.
func (v TreeView) State() *valuetree.Node {
	return v.state
}

// Len returns the number of well-formed marker children in the tree.
func (v TreeView) Len() int {
	count := 0
	for i := 0; i < v.state.NumChildren(); i++ {
		if _, ok := v.markerFromNode(v.state.Child(i)); ok {
			count++
		}
	}
	return count
}

// markerFromNode extracts a Marker from a child node.
// Both attributes are required; a child missing either is malformed and
// reported false.
func (v TreeView) markerFromNode(n *valuetree.Node) (Marker, bool) {
	if n == nil || n.Type() != NodeType {
		return Marker{}, false
	}
	name, ok := n.Attribute(AttrName)
	if !ok || name == "" {
		return Marker{}, false
	}
	pos, ok := n.Attribute(AttrPosition)
	if !ok {
		return Marker{}, false
	}
	return Marker{Name: name, Position: pos}, true
}

// Markers returns the well-formed markers stored in the tree, in child
// order. Duplicate names resolve last-writer-wins: a later child updates
// the earlier entry in place. Malformed children are skipped with a
// warning; the rest of the tree is still read.
func (v TreeView) Markers() []Marker {
	var out []Marker
	for i := 0; i < v.state.NumChildren(); i++ {
		child := v.state.Child(i)
		if child.Type() != NodeType {
			continue
		}
		m, ok := v.markerFromNode(child)
		if !ok {
			log.Warn(log.CatTree, "Skipping malformed marker node", "index", i)
			continue
		}
		replaced := false
		for j := range out {
			if out[j].Name == m.Name {
				out[j].Position = m.Position
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, m)
		}
	}
	return out
}

// ApplyTo replaces the list's markers with the tree's current contents.
// Fires one aggregate change notification, and only when the result
// differs from the list's prior state.
func (v TreeView) ApplyTo(list *List) {
	markers := v.Markers()

	if len(markers) == len(list.markers) {
		same := true
		for i := range markers {
			if !markers[i].Equal(list.markers[i]) {
				same = false
				break
			}
		}
		if same {
			return
		}
	}

	list.replaceAll(markers)
	log.Debug(log.CatTree, "Applied tree to marker list", "markers", len(markers))
	list.NotifyChanged()
}

// ReadFrom writes the list's markers into the tree.
// Children matching a list marker by name are updated in place; markers
// with no child are appended in list order; marker children with no
// corresponding list entry (including malformed ones) are removed. When
// undo is non-nil the whole write is one undoable transaction.
func (v TreeView) ReadFrom(list *List, undo *valuetree.UndoManager) {
	write := func() error {
		for _, m := range list.markers {
			v.setMarkerNode(m, undo)
		}

		// First occurrence of each name wins; later duplicates are stale.
		first := make(map[string]int)
		for i := 0; i < v.state.NumChildren(); i++ {
			if m, ok := v.markerFromNode(v.state.Child(i)); ok {
				if _, seen := first[m.Name]; !seen {
					first[m.Name] = i
				}
			}
		}

		// Walk backwards so removal doesn't disturb unvisited indices.
		for i := v.state.NumChildren() - 1; i >= 0; i-- {
			child := v.state.Child(i)
			if child.Type() != NodeType {
				continue
			}
			m, ok := v.markerFromNode(child)
			if !ok || list.indexOf(m.Name) < 0 || first[m.Name] != i {
				v.state.RemoveChild(i, undo)
			}
		}
		return nil
	}

	if undo != nil {
		// write never returns an error, so neither does Transaction.
		_ = undo.Transaction("write markers", write)
	} else {
		_ = write()
	}
	log.Debug(log.CatTree, "Read marker list into tree", "markers", list.Len())
}

// setMarkerNode updates the first child whose name matches, or appends a
// new child.
func (v TreeView) setMarkerNode(m Marker, undo *valuetree.UndoManager) {
	for i := 0; i < v.state.NumChildren(); i++ {
		child := v.state.Child(i)
		if child.Type() != NodeType {
			continue
		}
		if name, ok := child.Attribute(AttrName); ok && name == m.Name {
			child.SetAttribute(AttrPosition, m.Position, undo)
			return
		}
	}
	node := valuetree.NewNode(NodeType)
	node.SetAttribute(AttrName, m.Name, undo)
	node.SetAttribute(AttrPosition, m.Position, undo)
	if err := v.state.AddChild(node, -1, undo); err != nil {
		log.ErrorErr(log.CatTree, "Failed to append marker node", err, "marker", m.Name)
	}
}
