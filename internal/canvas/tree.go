// pattern: Functional Core

package canvas

// CountLeaves returns the number of leaves in the tree. Every mutating
// operation gates on this against MaxPanels.
func CountLeaves(n Node) int {
	switch node := n.(type) {
	case *Leaf:
		return 1
	case *Split:
		return CountLeaves(node.Children[0]) + CountLeaves(node.Children[1])
	}
	return 0
}

// FindLeaf returns the leaf with the given id, or nil if absent.
// Depth-first, first child first; ids are unique so at most one match exists.
func FindLeaf(n Node, id string) *Leaf {
	switch node := n.(type) {
	case *Leaf:
		if node.ID == id {
			return node
		}
	case *Split:
		if found := FindLeaf(node.Children[0], id); found != nil {
			return found
		}
		return FindLeaf(node.Children[1], id)
	}
	return nil
}

// FirstLeafID returns the id of the leaf reached by always descending into
// the first child. Trees are never empty, so this always yields a value; it
// defines the "primary" panel that hosts workspace chrome and absorbs
// OpenPanel at capacity.
func FirstLeafID(n Node) string {
	for {
		switch node := n.(type) {
		case *Leaf:
			return node.ID
		case *Split:
			n = node.Children[0]
		default:
			return ""
		}
	}
}

// HasView reports whether any leaf currently shows the given view kind.
// Same traversal order as FindLeaf.
func HasView(n Node, view ViewKind) bool {
	switch node := n.(type) {
	case *Leaf:
		return node.View == view
	case *Split:
		return HasView(node.Children[0], view) || HasView(node.Children[1], view)
	}
	return false
}

// ReplaceLeaf rebuilds the tree with the leaf matching id substituted by
// replacement, which may itself be a whole subtree. If no leaf matches, the
// returned tree is structurally unchanged. Unaffected subtrees are shared
// with the input, never copied.
func ReplaceLeaf(n Node, id string, replacement Node) Node {
	switch node := n.(type) {
	case *Leaf:
		if node.ID == id {
			return replacement
		}
		return node
	case *Split:
		return &Split{
			Direction: node.Direction,
			Sizes:     node.Sizes,
			Children: [2]Node{
				ReplaceLeaf(node.Children[0], id, replacement),
				ReplaceLeaf(node.Children[1], id, replacement),
			},
		}
	}
	return n
}

// RemoveLeaf returns the tree without the leaf matching id. A nil result
// means the whole subtree is gone; when exactly one child of a split is
// removed the surviving sibling is promoted in its place, so a split never
// dangles with a single child. Removing the final leaf yields nil at the top
// level — the caller must substitute a fallback tree (see ClosePanel), the
// engine never invents one here.
func RemoveLeaf(n Node, id string) Node {
	switch node := n.(type) {
	case *Leaf:
		if node.ID == id {
			return nil
		}
		return node
	case *Split:
		first := RemoveLeaf(node.Children[0], id)
		second := RemoveLeaf(node.Children[1], id)
		switch {
		case first == nil && second == nil:
			// Unreachable while ids are unique; collapse defensively.
			return nil
		case first == nil:
			return second
		case second == nil:
			return first
		default:
			return &Split{
				Direction: node.Direction,
				Sizes:     node.Sizes,
				Children:  [2]Node{first, second},
			}
		}
	}
	return n
}

// Equal reports structural equality of two trees, including ids, views,
// props, directions and sizes.
func Equal(a, b Node) bool {
	switch na := a.(type) {
	case *Leaf:
		nb, ok := b.(*Leaf)
		return ok && na.ID == nb.ID && na.View == nb.View && na.Props == nb.Props
	case *Split:
		nb, ok := b.(*Split)
		return ok &&
			na.Direction == nb.Direction &&
			na.Sizes == nb.Sizes &&
			Equal(na.Children[0], nb.Children[0]) &&
			Equal(na.Children[1], nb.Children[1])
	}
	return a == nil && b == nil
}

// LeafIDs returns all leaf ids in traversal order (first child first).
func LeafIDs(n Node) []string {
	var ids []string
	var walk func(Node)
	walk = func(n Node) {
		switch node := n.(type) {
		case *Leaf:
			ids = append(ids, node.ID)
		case *Split:
			walk(node.Children[0])
			walk(node.Children[1])
		}
	}
	walk(n)
	return ids
}
