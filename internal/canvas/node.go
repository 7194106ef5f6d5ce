// pattern: Functional Core

// Package canvas models the workspace panel arrangement as a binary tree of
// splits and leaves, together with the pure operations that transform it.
// Every operation takes a tree and returns a new tree; nothing here mutates
// shared state, performs I/O, or fails observably — invalid targets and
// capacity limits are absorbed so the result is always renderable.
package canvas

// Direction describes how a split divides its region.
// A vertical split places its children side by side (the divider runs
// vertically); a horizontal split stacks them top to bottom.
type Direction string

const (
	DirectionHorizontal Direction = "horizontal"
	DirectionVertical   Direction = "vertical"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionHorizontal || d == DirectionVertical
}

// Node is a closed sum type: every node is either a *Leaf or a *Split.
type Node interface {
	isNode()
}

// Leaf is a single visible panel. IDs are opaque strings, unique within the
// tree. Props is an optional per-view payload the engine moves but never
// inspects.
type Leaf struct {
	ID    string
	View  ViewKind
	Props Props
}

// Split divides a region into exactly two children. Sizes are advisory
// percentages for the renderer; new splits start at 50/50 and the engine
// never enforces that they sum to 100.
type Split struct {
	Direction Direction
	Sizes     [2]int
	Children  [2]Node
}

func (*Leaf) isNode()  {}
func (*Split) isNode() {}

// PrimaryPanelID is the id of the default panel every workspace starts with.
const PrimaryPanelID = "main"

// MaxPanels bounds the number of simultaneous leaves. Operations that would
// exceed it degrade rather than fail (see OpenPanel, SplitPanel).
const MaxPanels = 4

// DefaultTree returns the canonical single-leaf tree used for fresh
// workspaces and as the fallback when the last panel is closed.
func DefaultTree() Node {
	return &Leaf{ID: PrimaryPanelID, View: ViewChat}
}

// DefaultTreeWith returns a single-leaf tree showing the given view. Used
// when a configured default view customizes what fresh workspaces open with;
// the close-last-panel fallback stays the canonical DefaultTree. Unknown
// kinds fall back to the canonical tree.
func DefaultTreeWith(view ViewKind) Node {
	if !view.Valid() {
		return DefaultTree()
	}
	return &Leaf{ID: PrimaryPanelID, View: view}
}

func newSplit(dir Direction, first, second Node) *Split {
	return &Split{
		Direction: dir,
		Sizes:     [2]int{50, 50},
		Children:  [2]Node{first, second},
	}
}
