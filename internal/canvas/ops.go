// pattern: Functional Core

package canvas

import "github.com/google/uuid"

// IDSource mints ids for freshly created panels. The default draws random
// UUIDs; tests inject a deterministic source.
type IDSource func() string

func defaultIDSource() string {
	return "panel-" + uuid.NewString()
}

// OpenPanel opens the requested view in a new panel split off the primary
// leaf (vertical, 50/50), preserving the primary leaf's id and view as the
// first child. At the MaxPanels ceiling it degrades to overwriting the
// primary leaf's view in place instead of failing or dropping the request.
func OpenPanel(tree Node, view ViewKind, props Props) Node {
	return OpenPanelWith(tree, view, props, defaultIDSource)
}

// OpenPanelWith is OpenPanel with an explicit id source.
func OpenPanelWith(tree Node, view ViewKind, props Props, mint IDSource) Node {
	primaryID := FirstLeafID(tree)
	if CountLeaves(tree) >= MaxPanels {
		return ChangePanelView(tree, primaryID, view, props)
	}
	primary := FindLeaf(tree, primaryID)
	if primary == nil {
		return tree
	}
	return ReplaceLeaf(tree, primaryID, newSplit(
		DirectionVertical,
		&Leaf{ID: primary.ID, View: primary.View, Props: primary.Props},
		&Leaf{ID: mint(), View: view, Props: props},
	))
}

// SplitPanel divides the target panel in the given direction, keeping the
// original leaf as the first child and placing a new leaf with newView as
// the second. No-op at the panel ceiling or when panelID does not resolve.
func SplitPanel(tree Node, panelID string, dir Direction, newView ViewKind) Node {
	return SplitPanelWith(tree, panelID, dir, newView, defaultIDSource)
}

// SplitPanelWith is SplitPanel with an explicit id source.
func SplitPanelWith(tree Node, panelID string, dir Direction, newView ViewKind, mint IDSource) Node {
	if CountLeaves(tree) >= MaxPanels {
		return tree
	}
	target := FindLeaf(tree, panelID)
	if target == nil {
		return tree
	}
	return ReplaceLeaf(tree, panelID, newSplit(
		dir,
		&Leaf{ID: target.ID, View: target.View, Props: target.Props},
		&Leaf{ID: mint(), View: newView},
	))
}

// ClosePanel removes the target panel, collapsing its parent split onto the
// surviving sibling. Closing the last remaining panel yields the canonical
// default tree — this is the one place the RemoveLeaf nil contract is
// discharged, so the renderer never sees an empty tree.
func ClosePanel(tree Node, panelID string) Node {
	result := RemoveLeaf(tree, panelID)
	if result == nil {
		return DefaultTree()
	}
	return result
}

// ChangePanelView swaps the view shown by the target panel, keeping its id
// and position. No leaf-count effect; unknown ids are a no-op.
func ChangePanelView(tree Node, panelID string, view ViewKind, props Props) Node {
	return ReplaceLeaf(tree, panelID, &Leaf{ID: panelID, View: view, Props: props})
}

// NavigateToChat brings a chat panel into view. If any leaf already shows
// chat the tree is returned unchanged, so repeated navigation never spawns
// duplicate chat panels; otherwise the primary leaf's view becomes chat.
func NavigateToChat(tree Node) Node {
	if HasView(tree, ViewChat) {
		return tree
	}
	return ChangePanelView(tree, FirstLeafID(tree), ViewChat, nil)
}
