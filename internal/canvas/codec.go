// pattern: Functional Core

package canvas

import (
	"encoding/json"
	"fmt"
)

// nodeJSON is the wire shape of a tree node, tagged by "type". Leaves carry
// id/view/props, splits carry direction/sizes/children.
type nodeJSON struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	View      string          `json:"view,omitempty"`
	Props     json.RawMessage `json:"props,omitempty"`
	Direction string          `json:"direction,omitempty"`
	Sizes     []int           `json:"sizes,omitempty"`
	Children  []nodeJSON      `json:"children,omitempty"`
}

const (
	nodeTypeLeaf  = "leaf"
	nodeTypeSplit = "split"
)

// MarshalTree encodes a tree as tagged JSON for persistence and the web API.
func MarshalTree(n Node) ([]byte, error) {
	wire, err := toWire(n)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(wire, "", "  ")
}

// UnmarshalTree decodes a tree and validates the structural invariants:
// known node types and view kinds, exactly two children per split, unique
// leaf ids, a non-empty tree, and at most MaxPanels leaves. Workspace files
// are external input, so violations are rejected rather than repaired.
func UnmarshalTree(data []byte) (Node, error) {
	var wire nodeJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	tree, err := fromWire(wire)
	if err != nil {
		return nil, err
	}
	if count := CountLeaves(tree); count > MaxPanels {
		return nil, fmt.Errorf("layout has %d panels, limit is %d", count, MaxPanels)
	}
	seen := make(map[string]bool)
	for _, id := range LeafIDs(tree) {
		if id == "" {
			return nil, fmt.Errorf("layout has a panel with an empty id")
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate panel id %q", id)
		}
		seen[id] = true
	}
	return tree, nil
}

func toWire(n Node) (nodeJSON, error) {
	switch node := n.(type) {
	case *Leaf:
		wire := nodeJSON{
			Type: nodeTypeLeaf,
			ID:   node.ID,
			View: string(node.View),
		}
		if node.Props != nil {
			raw, err := json.Marshal(node.Props)
			if err != nil {
				return nodeJSON{}, fmt.Errorf("encode props for panel %s: %w", node.ID, err)
			}
			wire.Props = raw
		}
		return wire, nil
	case *Split:
		first, err := toWire(node.Children[0])
		if err != nil {
			return nodeJSON{}, err
		}
		second, err := toWire(node.Children[1])
		if err != nil {
			return nodeJSON{}, err
		}
		return nodeJSON{
			Type:      nodeTypeSplit,
			Direction: string(node.Direction),
			Sizes:     []int{node.Sizes[0], node.Sizes[1]},
			Children:  []nodeJSON{first, second},
		}, nil
	}
	return nodeJSON{}, fmt.Errorf("encode layout: nil node")
}

func fromWire(wire nodeJSON) (Node, error) {
	switch wire.Type {
	case nodeTypeLeaf:
		view, err := ParseViewKind(wire.View)
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", wire.ID, err)
		}
		props, err := decodeProps(view, wire.Props)
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", wire.ID, err)
		}
		return &Leaf{ID: wire.ID, View: view, Props: props}, nil
	case nodeTypeSplit:
		if len(wire.Children) != 2 {
			return nil, fmt.Errorf("split has %d children, want 2", len(wire.Children))
		}
		dir := Direction(wire.Direction)
		if !dir.Valid() {
			return nil, fmt.Errorf("unknown split direction %q", wire.Direction)
		}
		sizes := [2]int{50, 50}
		if len(wire.Sizes) == 2 {
			sizes = [2]int{wire.Sizes[0], wire.Sizes[1]}
		}
		first, err := fromWire(wire.Children[0])
		if err != nil {
			return nil, err
		}
		second, err := fromWire(wire.Children[1])
		if err != nil {
			return nil, err
		}
		return &Split{Direction: dir, Sizes: sizes, Children: [2]Node{first, second}}, nil
	}
	return nil, fmt.Errorf("unknown node type %q", wire.Type)
}

// decodeProps parses a raw props payload into the variant matching the view
// kind. Views without parameters must carry no props.
func decodeProps(view ViewKind, raw json.RawMessage) (Props, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var (
		props Props
		err   error
	)
	switch view {
	case ViewChat:
		var p ChatProps
		err = json.Unmarshal(raw, &p)
		props = p
	case ViewTimeline:
		var p TimelineProps
		err = json.Unmarshal(raw, &p)
		props = p
	case ViewConstellation:
		var p ConstellationProps
		err = json.Unmarshal(raw, &p)
		props = p
	case ViewFindings:
		var p FindingsProps
		err = json.Unmarshal(raw, &p)
		props = p
	case ViewSources:
		var p SourcesProps
		err = json.Unmarshal(raw, &p)
		props = p
	default:
		return nil, fmt.Errorf("view %q does not accept props", view)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s props: %w", view, err)
	}
	return props, nil
}
