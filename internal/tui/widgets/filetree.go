// Package widgets contains reusable view components for the TUI.
package widgets

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/config"
	"github.com/QuantumPixelator/conan-exiles-save-manager/internal/tui/shared"
)

// TreeNode is one entry of the selection tree. Check state is independent
// per node: checking a directory says "copy this whole subtree", while its
// children can additionally be checked in their own right.
type TreeNode struct {
	Name     string
	Rel      string // relative path from the game dir; directories keep a trailing "/"
	Depth    int
	IsDir    bool
	Checked  bool
	Expanded bool
	Children []*TreeNode
}

// BuildTree reads the directory tree under root and returns it as tree
// nodes, restoring check state from the persisted selection. Directories
// sort before files, both case-insensitively by name. Entries matching an
// exclude pattern are hidden from the tree only; they are still copied if a
// persisted selection names them.
func BuildTree(root string, filter config.PathFilter, selected *config.Allowlist) ([]*TreeNode, error) {
	return buildLevel(root, "", 0, filter, selected)
}

func buildLevel(dir, rel string, depth int, filter config.PathFilter, selected *config.Allowlist) ([]*TreeNode, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}

		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	var nodes []*TreeNode

	for _, entry := range entries {
		entryRel := path.Join(rel, entry.Name())
		if entry.IsDir() {
			entryRel += config.DirSuffix
		}

		if filter != nil && !filter.ShouldShow(entryRel) {
			continue
		}

		node := &TreeNode{
			Name:    entry.Name(),
			Rel:     entryRel,
			Depth:   depth,
			IsDir:   entry.IsDir(),
			Checked: selected != nil && selected.Contains(entryRel),
		}

		if entry.IsDir() {
			children, err := buildLevel(filepath.Join(dir, entry.Name()), entryRel, depth+1, filter, selected)
			if err != nil {
				return nil, err
			}

			node.Children = children
		}

		nodes = append(nodes, node)
	}

	return nodes, nil
}

// FileTree is a checkbox tree with a cursor, backed by TreeNodes.
type FileTree struct {
	roots   []*TreeNode
	visible []*TreeNode
	cursor  int
	offset  int
}

// NewFileTree creates a tree widget over the given top-level nodes.
func NewFileTree(roots []*TreeNode) *FileTree {
	tree := &FileTree{roots: roots}
	tree.reflow()

	return tree
}

// Len returns the number of currently visible rows.
func (t *FileTree) Len() int {
	return len(t.visible)
}

// Current returns the node under the cursor, or nil for an empty tree.
func (t *FileTree) Current() *TreeNode {
	if t.cursor < 0 || t.cursor >= len(t.visible) {
		return nil
	}

	return t.visible[t.cursor]
}

// CursorUp moves the cursor one visible row up.
func (t *FileTree) CursorUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// CursorDown moves the cursor one visible row down.
func (t *FileTree) CursorDown() {
	if t.cursor < len(t.visible)-1 {
		t.cursor++
	}
}

// ToggleChecked flips the check state of the node under the cursor. Only
// that node changes; ancestors and descendants keep their own state.
func (t *FileTree) ToggleChecked() {
	if node := t.Current(); node != nil {
		node.Checked = !node.Checked
	}
}

// ToggleExpanded expands or collapses the directory under the cursor.
func (t *FileTree) ToggleExpanded() {
	node := t.Current()
	if node == nil || !node.IsDir {
		return
	}

	node.Expanded = !node.Expanded
	t.reflow()
}

// CheckedPaths collects every checked node's relative path in depth-first
// order, regardless of expansion or ancestor check state.
func (t *FileTree) CheckedPaths() []string {
	var paths []string

	var walk func(nodes []*TreeNode)
	walk = func(nodes []*TreeNode) {
		for _, node := range nodes {
			if node.Checked {
				paths = append(paths, node.Rel)
			}

			walk(node.Children)
		}
	}
	walk(t.roots)

	return paths
}

// View renders up to height rows of the tree, keeping the cursor in view.
func (t *FileTree) View(height int) string {
	if len(t.visible) == 0 {
		return shared.RenderDim("(no files found)")
	}

	if height < 1 {
		height = 1
	}

	// Scroll so the cursor stays on screen.
	if t.cursor < t.offset {
		t.offset = t.cursor
	}

	if t.cursor >= t.offset+height {
		t.offset = t.cursor - height + 1
	}

	end := min(t.offset+height, len(t.visible))

	var builder strings.Builder

	for i := t.offset; i < end; i++ {
		node := t.visible[i]

		var line strings.Builder

		if i == t.cursor {
			line.WriteString(shared.PromptArrow)
		} else {
			line.WriteString("  ")
		}

		line.WriteString(strings.Repeat("  ", node.Depth))

		switch {
		case node.IsDir && node.Expanded:
			line.WriteString("▾ ")
		case node.IsDir:
			line.WriteString("▸ ")
		default:
			line.WriteString("  ")
		}

		if node.Checked {
			line.WriteString(shared.CheckedBox)
		} else {
			line.WriteString(shared.UncheckedBox)
		}

		line.WriteString(" ")
		line.WriteString(node.Name)

		if node.IsDir {
			line.WriteString("/")
		}

		if i == t.cursor {
			builder.WriteString(shared.LabelStyle().Render(line.String()))
		} else {
			builder.WriteString(line.String())
		}

		builder.WriteString("\n")
	}

	return builder.String()
}

// reflow rebuilds the visible row list after an expand or collapse.
func (t *FileTree) reflow() {
	t.visible = t.visible[:0]

	var walk func(nodes []*TreeNode)
	walk = func(nodes []*TreeNode) {
		for _, node := range nodes {
			t.visible = append(t.visible, node)

			if node.IsDir && node.Expanded {
				walk(node.Children)
			}
		}
	}
	walk(t.roots)

	if t.cursor >= len(t.visible) {
		t.cursor = max(0, len(t.visible)-1)
	}
}
