package valuetree

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAML document schema:
//
//	type: MarkerSheet
//	attributes:
//	  name: main
//	children:
//	  - type: Marker
//	    attributes:
//	      name: top
//	      position: "10"
//
// Attribute order is preserved by building yaml mapping nodes directly
// instead of round-tripping through a map.

const (
	keyType       = "type"
	keyAttributes = "attributes"
	keyChildren   = "children"
)

// Encode serializes the tree rooted at n to YAML.
func Encode(n *Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("encoding nil tree")
	}
	doc := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{encodeNode(n)},
	}
	return yaml.Marshal(doc)
}

func encodeNode(n *Node) *yaml.Node {
	out := &yaml.Node{Kind: yaml.MappingNode}
	out.Content = append(out.Content,
		scalar(keyType), scalar(n.typ))

	if len(n.attrs) > 0 {
		attrs := &yaml.Node{Kind: yaml.MappingNode}
		for _, a := range n.attrs {
			attrs.Content = append(attrs.Content, scalar(a.name), scalar(a.value))
		}
		out.Content = append(out.Content, scalar(keyAttributes), attrs)
	}

	if len(n.children) > 0 {
		kids := &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range n.children {
			kids.Content = append(kids.Content, encodeNode(c))
		}
		out.Content = append(out.Content, scalar(keyChildren), kids)
	}
	return out
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

// Decode parses YAML produced by Encode back into a tree.
func Decode(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing tree document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty tree document")
	}
	return decodeNode(doc.Content[0])
}

func decodeNode(y *yaml.Node) (*Node, error) {
	if y.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected mapping node", y.Line)
	}

	n := &Node{}
	for i := 0; i+1 < len(y.Content); i += 2 {
		key := y.Content[i].Value
		val := y.Content[i+1]
		switch key {
		case keyType:
			n.typ = val.Value
		case keyAttributes:
			if val.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: attributes must be a mapping", val.Line)
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				n.setAttr(val.Content[j].Value, val.Content[j+1].Value)
			}
		case keyChildren:
			if val.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("line %d: children must be a sequence", val.Line)
			}
			for _, cy := range val.Content {
				child, err := decodeNode(cy)
				if err != nil {
					return nil, err
				}
				child.parent = n
				n.children = append(n.children, child)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown key %q", y.Content[i].Line, key)
		}
	}
	if n.typ == "" {
		return nil, fmt.Errorf("line %d: node is missing a type tag", y.Line)
	}
	return n, nil
}

// LoadFile reads and decodes a tree document from disk.
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from user CLI input
	if err != nil {
		return nil, fmt.Errorf("reading tree document: %w", err)
	}
	return Decode(data)
}

// SaveFile encodes the tree and writes it to disk.
func SaveFile(path string, n *Node) error {
	data, err := Encode(n)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing tree document: %w", err)
	}
	return nil
}
