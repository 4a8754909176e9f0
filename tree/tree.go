// Copyright © 2025 Tilewm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tree/tree.go
// Summary: Implements the workspace/monitor/window tree that feeds layout passes.
// Usage: Owned by the wm engine; mutated only from main loop callbacks.

package tree

import (
	"errors"
	"fmt"

	"github.com/framegrace/tilewm/compositor"
)

// ErrParentNotFound is returned when inserting under a key no node carries.
var ErrParentNotFound = errors.New("tree: parent not found")

// NodeType tags the level of a node.
type NodeType int

const (
	NodeRoot NodeType = iota
	NodeWorkspace
	NodeMonitor
	NodeWindow
)

func (t NodeType) String() string {
	switch t {
	case NodeRoot:
		return "ROOT"
	case NodeWorkspace:
		return "WORKSPACE"
	case NodeMonitor:
		return "MONITOR"
	case NodeWindow:
		return "WINDOW"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// NodeID indexes a node in the tree's arena.
type NodeID int

const noNode NodeID = -1

// Node is a single entry of the tree. Data is a Key for ROOT, WORKSPACE and
// MONITOR nodes and a compositor.Window for WINDOW nodes.
type Node struct {
	id   NodeID
	Type NodeType
	Data any

	// Mode and GrabOp are only meaningful on WINDOW nodes.
	Mode   Mode
	GrabOp compositor.GrabOp

	parent   NodeID
	children []NodeID
}

// ID returns the arena index of the node.
func (n *Node) ID() NodeID { return n.id }

// Window returns the window payload of a WINDOW node.
func (n *Node) Window() (compositor.Window, bool) {
	if n == nil || n.Type != NodeWindow {
		return nil, false
	}
	w, ok := n.Data.(compositor.Window)
	return w, ok
}

// Key returns the key payload of a structural node.
func (n *Node) Key() (Key, bool) {
	if n == nil {
		return "", false
	}
	k, ok := n.Data.(Key)
	return k, ok
}

// Len returns the number of children.
func (n *Node) Len() int { return len(n.children) }

// Renderer computes geometry from the tree. It runs as the layout pass.
type Renderer interface {
	Render(t *Tree, reason string)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(t *Tree, reason string)

func (f RendererFunc) Render(t *Tree, reason string) { f(t, reason) }

// Tree is an arena of nodes. Parent and child links are NodeIDs so the tree
// never holds owning cycles.
type Tree struct {
	nodes    map[NodeID]*Node
	next     NodeID
	root     NodeID
	renderer Renderer
}

// New creates a tree holding only the root node.
func New(renderer Renderer) *Tree {
	t := &Tree{
		nodes:    make(map[NodeID]*Node),
		renderer: renderer,
	}
	t.root = t.alloc(NodeRoot, RootKey, noNode).id
	return t
}

func (t *Tree) alloc(typ NodeType, data any, parent NodeID) *Node {
	n := &Node{id: t.next, Type: typ, Data: data, parent: parent}
	if typ == NodeWindow {
		n.Mode = ModeTile
	}
	t.nodes[n.id] = n
	t.next++
	return n
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.nodes[t.root] }

// Node looks up a node by id. Detached ids return nil.
func (t *Tree) Node(id NodeID) *Node { return t.nodes[id] }

// Len returns the number of live nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Parent returns the parent of n, or nil for the root and detached nodes.
func (t *Tree) Parent(n *Node) *Node {
	if n == nil || n.parent == noNode {
		return nil
	}
	return t.nodes[n.parent]
}

// ParentKey returns the key of n's parent.
func (t *Tree) ParentKey(n *Node) (Key, bool) {
	return t.Parent(n).Key()
}

// Children returns the children of n in layout order.
func (t *Tree) Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		if child := t.nodes[id]; child != nil {
			out = append(out, child)
		}
	}
	return out
}

// AddNode appends a node as the last child of the node whose payload is
// parentKey and returns it so callers can set Mode.
func (t *Tree) AddNode(parentKey any, typ NodeType, data any) (*Node, error) {
	parent := t.FindNode(parentKey)
	if parent == nil {
		return nil, fmt.Errorf("%w: %v", ErrParentNotFound, parentKey)
	}
	n := t.alloc(typ, data, parent.id)
	parent.children = append(parent.children, n.id)
	return n, nil
}

// RemoveNode detaches n from the node whose payload is parentKey and frees
// its subtree. It returns false without error when n is not a child there,
// since destroy and move notifications race each other.
func (t *Tree) RemoveNode(parentKey any, n *Node) bool {
	if n == nil {
		return false
	}
	parent := t.FindNode(parentKey)
	if parent == nil {
		return false
	}
	index := -1
	for i, id := range parent.children {
		if id == n.id {
			index = i
			break
		}
	}
	if index == -1 {
		return false
	}
	parent.children = append(parent.children[:index], parent.children[index+1:]...)
	t.free(n)
	return true
}

func (t *Tree) free(n *Node) {
	for _, id := range n.children {
		if child := t.nodes[id]; child != nil {
			t.free(child)
		}
	}
	n.children = nil
	n.parent = noNode
	delete(t.nodes, n.id)
}

// FindNode returns the first node, in depth-first order, whose payload equals
// data. Windows compare by identity and keys by value.
func (t *Tree) FindNode(data any) *Node {
	if data == nil {
		return nil
	}
	var found *Node
	t.walk(t.Root(), func(n *Node) bool {
		if sameData(n.Data, data) {
			found = n
			return false
		}
		return true
	})
	return found
}

func sameData(a, b any) bool {
	switch bv := b.(type) {
	case Key:
		av, ok := a.(Key)
		return ok && av == bv
	case string:
		av, ok := a.(Key)
		return ok && string(av) == bv
	}
	return a == b
}

// FindNodeByActor returns the WINDOW node whose window currently reports actor.
func (t *Tree) FindNodeByActor(actor compositor.Actor) *Node {
	if actor == nil {
		return nil
	}
	var found *Node
	t.walk(t.Root(), func(n *Node) bool {
		w, ok := n.Window()
		if ok && w.Actor() == actor {
			found = n
			return false
		}
		return true
	})
	return found
}

// AddWorkspace adds a WORKSPACE node with one MONITOR node per monitor.
// It returns false when the workspace already exists.
func (t *Tree) AddWorkspace(index, monitors int) bool {
	key := WorkspaceKey(index)
	if t.FindNode(key) != nil {
		return false
	}
	if _, err := t.AddNode(RootKey, NodeWorkspace, key); err != nil {
		return false
	}
	for m := 0; m < monitors; m++ {
		_, _ = t.AddNode(key, NodeMonitor, MonitorKey(m, index))
	}
	return true
}

// RemoveWorkspace removes a WORKSPACE node and everything under it. It
// returns false when the workspace is not present.
func (t *Tree) RemoveWorkspace(index int) bool {
	n := t.FindNode(WorkspaceKey(index))
	if n == nil {
		return false
	}
	return t.RemoveNode(RootKey, n)
}

// InitWorkspaces creates workspaces 0..count-1 that do not exist yet.
func (t *Tree) InitWorkspaces(count, monitors int) {
	for i := 0; i < count; i++ {
		t.AddWorkspace(i, monitors)
	}
}

// Clear discards every node below the root.
func (t *Tree) Clear() {
	root := t.Root()
	for _, id := range root.children {
		if child := t.nodes[id]; child != nil {
			t.free(child)
		}
	}
	root.children = nil
}

// Workspaces returns the WORKSPACE nodes.
func (t *Tree) Workspaces() []*Node {
	return t.Children(t.Root())
}

// Windows returns every WINDOW node in layout order.
func (t *Tree) Windows() []*Node {
	var out []*Node
	t.Traverse(func(n *Node) {
		if n.Type == NodeWindow {
			out = append(out, n)
		}
	})
	return out
}

// Traverse visits every node depth-first, parents before children.
func (t *Tree) Traverse(f func(*Node)) {
	t.walk(t.Root(), func(n *Node) bool {
		f(n)
		return true
	})
}

// walk stops as soon as visit returns false.
func (t *Tree) walk(n *Node, visit func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for _, id := range n.children {
		if !t.walk(t.nodes[id], visit) {
			return false
		}
	}
	return true
}

// Render runs the layout pass over the current tree.
func (t *Tree) Render(reason string) {
	if t.renderer == nil {
		return
	}
	t.renderer.Render(t, reason)
}
