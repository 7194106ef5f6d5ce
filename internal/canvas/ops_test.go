package canvas

import (
	"fmt"
	"testing"
)

// seqIDs returns an id source minting prefix-1, prefix-2, ...
func seqIDs(prefix string) IDSource {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestOpenPanel_SplitsPrimary(t *testing.T) {
	tree := DefaultTree()
	got := OpenPanelWith(tree, ViewTimeline, nil, seqIDs("new"))

	split, ok := got.(*Split)
	if !ok {
		t.Fatalf("result = %T, want *Split", got)
	}
	if split.Direction != DirectionVertical {
		t.Errorf("direction = %q, want vertical", split.Direction)
	}
	if split.Sizes != [2]int{50, 50} {
		t.Errorf("sizes = %v, want [50 50]", split.Sizes)
	}

	first, ok := split.Children[0].(*Leaf)
	if !ok || first.ID != "main" || first.View != ViewChat {
		t.Errorf("first child = %+v, want preserved {main chat}", split.Children[0])
	}
	second, ok := split.Children[1].(*Leaf)
	if !ok || second.ID != "new-1" || second.View != ViewTimeline {
		t.Errorf("second child = %+v, want minted timeline leaf", split.Children[1])
	}
	if CountLeaves(got) != 2 {
		t.Errorf("CountLeaves = %d, want 2", CountLeaves(got))
	}
}

func TestOpenPanel_CarriesProps(t *testing.T) {
	got := OpenPanelWith(DefaultTree(), ViewTimeline, TimelineProps{Range: "1900-1950"}, seqIDs("new"))
	leaf := FindLeaf(got, "new-1")
	if leaf == nil {
		t.Fatal("minted leaf not found")
	}
	props, ok := leaf.Props.(TimelineProps)
	if !ok || props.Range != "1900-1950" {
		t.Errorf("props = %+v, want TimelineProps{Range: 1900-1950}", leaf.Props)
	}
}

func TestOpenPanel_AtCeilingReplacesPrimaryView(t *testing.T) {
	tree := fourPanelTree()
	got := OpenPanelWith(tree, ViewSettings, nil, seqIDs("new"))

	if CountLeaves(got) != 4 {
		t.Fatalf("CountLeaves = %d, want 4 (no new panel past the ceiling)", CountLeaves(got))
	}
	primary := FindLeaf(got, FirstLeafID(got))
	if primary.View != ViewSettings {
		t.Errorf("primary view = %q, want settings", primary.View)
	}
	// No minted id appears anywhere.
	for _, id := range LeafIDs(got) {
		if id == "new-1" {
			t.Error("a new panel was created at the ceiling")
		}
	}
}

func TestSplitPanel(t *testing.T) {
	// Scenario: open timeline next to chat, then split "main" horizontally.
	tree := OpenPanelWith(DefaultTree(), ViewTimeline, nil, seqIDs("t"))
	got := SplitPanelWith(tree, "main", DirectionHorizontal, ViewFindings, seqIDs("f"))

	if CountLeaves(got) != 3 {
		t.Fatalf("CountLeaves = %d, want 3", CountLeaves(got))
	}

	// The timeline leaf is untouched as a sibling of the new inner split.
	outer, ok := got.(*Split)
	if !ok {
		t.Fatalf("result = %T, want *Split", got)
	}
	if sib, ok := outer.Children[1].(*Leaf); !ok || sib.View != ViewTimeline {
		t.Errorf("sibling = %+v, want untouched timeline leaf", outer.Children[1])
	}

	inner, ok := outer.Children[0].(*Split)
	if !ok {
		t.Fatalf("first child = %T, want inner *Split", outer.Children[0])
	}
	if inner.Direction != DirectionHorizontal {
		t.Errorf("inner direction = %q, want horizontal", inner.Direction)
	}
	if first, ok := inner.Children[0].(*Leaf); !ok || first.ID != "main" || first.View != ViewChat {
		t.Errorf("inner first child = %+v, want preserved {main chat}", inner.Children[0])
	}
	if second, ok := inner.Children[1].(*Leaf); !ok || second.ID != "f-1" || second.View != ViewFindings {
		t.Errorf("inner second child = %+v, want minted findings leaf", inner.Children[1])
	}
}

func TestSplitPanel_NoOps(t *testing.T) {
	tests := []struct {
		name string
		tree Node
		id   string
	}{
		{"unknown id", twoPanelTree(), "nonexistent"},
		{"at ceiling", fourPanelTree(), "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitPanelWith(tt.tree, tt.id, DirectionVertical, ViewSettings, seqIDs("x"))
			if !Equal(got, tt.tree) {
				t.Error("expected tree unchanged")
			}
		})
	}
}

func TestClosePanel_PromotesSurvivor(t *testing.T) {
	got := ClosePanel(twoPanelTree(), "other")

	leaf, ok := got.(*Leaf)
	if !ok {
		t.Fatalf("result = %T, want *Leaf (no dangling split)", got)
	}
	if leaf.ID != "main" || leaf.View != ViewChat {
		t.Errorf("survivor = {%s %s}, want {main chat}", leaf.ID, leaf.View)
	}
}

func TestClosePanel_LastPanelFallsBackToDefault(t *testing.T) {
	tree := &Leaf{ID: "main", View: ViewFindings}
	got := ClosePanel(tree, "main")

	leaf, ok := got.(*Leaf)
	if !ok {
		t.Fatalf("result = %T, want *Leaf", got)
	}
	if leaf.ID != PrimaryPanelID || leaf.View != ViewChat {
		t.Errorf("fallback = {%s %s}, want canonical {main chat}", leaf.ID, leaf.View)
	}
}

func TestClosePanel_UnknownID(t *testing.T) {
	tree := twoPanelTree()
	got := ClosePanel(tree, "nonexistent")
	if !Equal(got, tree) {
		t.Error("expected tree unchanged")
	}
}

func TestChangePanelView(t *testing.T) {
	tree := twoPanelTree()
	got := ChangePanelView(tree, "other", ViewCurator, nil)

	if CountLeaves(got) != CountLeaves(tree) {
		t.Error("ChangePanelView must not affect leaf count")
	}
	leaf := FindLeaf(got, "other")
	if leaf == nil || leaf.View != ViewCurator {
		t.Errorf("leaf = %+v, want curator under the same id", leaf)
	}
}

func TestNavigateToChat(t *testing.T) {
	t.Run("no chat panel retargets primary", func(t *testing.T) {
		tree := &Split{
			Direction: DirectionVertical,
			Sizes:     [2]int{50, 50},
			Children: [2]Node{
				&Leaf{ID: "main", View: ViewFindings},
				&Leaf{ID: "other", View: ViewTimeline},
			},
		}
		got := NavigateToChat(tree)
		if FindLeaf(got, "main").View != ViewChat {
			t.Error("primary leaf should now show chat")
		}
		if FindLeaf(got, "other").View != ViewTimeline {
			t.Error("other panels must be untouched")
		}
	})

	t.Run("existing chat panel is a no-op", func(t *testing.T) {
		tree := twoPanelTree()
		if got := NavigateToChat(tree); got != tree {
			t.Error("expected the identical tree back")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		tree := &Leaf{ID: "main", View: ViewSettings}
		once := NavigateToChat(tree)
		twice := NavigateToChat(once)
		if !Equal(once, twice) {
			t.Error("NavigateToChat(NavigateToChat(t)) != NavigateToChat(t)")
		}
	})
}

// TestOperationSequences drives random-ish op sequences and checks the
// reachable-tree invariants: 1 <= leaf count <= MaxPanels and pairwise
// distinct leaf ids.
func TestOperationSequences(t *testing.T) {
	mint := seqIDs("p")
	tree := DefaultTree()

	steps := []func(Node) Node{
		func(n Node) Node { return OpenPanelWith(n, ViewTimeline, nil, mint) },
		func(n Node) Node { return SplitPanelWith(n, FirstLeafID(n), DirectionHorizontal, ViewFindings, mint) },
		func(n Node) Node { return OpenPanelWith(n, ViewSources, nil, mint) },
		func(n Node) Node { return OpenPanelWith(n, ViewCurator, nil, mint) }, // at ceiling
		func(n Node) Node { return SplitPanelWith(n, FirstLeafID(n), DirectionVertical, ViewChat, mint) },
		func(n Node) Node { return ClosePanel(n, FirstLeafID(n)) },
		func(n Node) Node { return NavigateToChat(n) },
		func(n Node) Node { return ClosePanel(n, FirstLeafID(n)) },
		func(n Node) Node { return ClosePanel(n, FirstLeafID(n)) },
		func(n Node) Node { return ClosePanel(n, FirstLeafID(n)) },
		func(n Node) Node { return ClosePanel(n, FirstLeafID(n)) }, // drains to default
	}

	for i, step := range steps {
		tree = step(tree)

		count := CountLeaves(tree)
		if count < 1 || count > MaxPanels {
			t.Fatalf("step %d: leaf count %d outside [1, %d]", i, count, MaxPanels)
		}

		seen := make(map[string]bool)
		for _, id := range LeafIDs(tree) {
			if seen[id] {
				t.Fatalf("step %d: duplicate leaf id %q", i, id)
			}
			seen[id] = true
		}
	}
}
