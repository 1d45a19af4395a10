// Package chart is the mandala chart engine: a persistent tree of 9x9 grids addressed
// by paths of peripheral block indices, and the pure functions that read and rewrite it.
//
// Nodes live in an append-only arena and are never modified after they are added.
// A mutation adds fresh copies of the nodes on the root-to-target spine and returns a
// Tree value pointing at the new root; every other node is shared by id. Older Tree
// values therefore remain valid, consistent snapshots.
package chart

import (
	"sync"

	"mandala-cli/internal/model"
)

// NodeID identifies a node inside a tree's arena. Zero means absent.
type NodeID uint32

const absent NodeID = 0

// Slot is one child position of a node: either absent (never entered) or
// materialized with a node id.
type Slot struct {
	id NodeID
}

func (s Slot) Materialized() bool { return s.id != absent }

func (s Slot) ID() NodeID { return s.id }

type node struct {
	grid     model.Grid
	children [model.BlockCount]NodeID
}

type arena struct {
	mu    sync.RWMutex
	nodes []*node
}

func (a *arena) get(id NodeID) *node {
	a.mu.RLock()
	n := a.nodes[id-1]
	a.mu.RUnlock()
	return n
}

func (a *arena) add(n *node) NodeID {
	a.mu.Lock()
	a.nodes = append(a.nodes, n)
	id := NodeID(len(a.nodes))
	a.mu.Unlock()
	return id
}

func (a *arena) size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.nodes)
}

// Tree is an immutable handle on a chart. The zero value is an empty chart.
// Concurrent readers are safe; writers deriving new trees from the same value must
// be serialized by their owner since divergent trees are never merged.
type Tree struct {
	a    *arena
	root NodeID
}

// New returns a tree holding a single empty root grid.
func New() Tree {
	a := &arena{}
	return Tree{a: a, root: a.add(&node{})}
}

func (t Tree) ensure() Tree {
	if t.a == nil {
		return New()
	}
	return t
}

// Node is a read-only view of one chart node.
type Node struct {
	ID       NodeID
	Grid     model.Grid
	Children [model.BlockCount]Slot
}

func (n Node) Child(k int) Slot { return n.Children[k] }

func (t Tree) view(id NodeID) Node {
	if id == absent {
		return Node{}
	}
	src := t.a.get(id)
	out := Node{ID: id, Grid: src.grid}
	for k, c := range src.children {
		out.Children[k] = Slot{id: c}
	}
	return out
}

// load returns a private copy of a node, or an empty node for an absent id.
func (t Tree) load(id NodeID) *node {
	if id == absent {
		return &node{}
	}
	cp := *t.a.get(id)
	return &cp
}

// Root returns the root node.
func (t Tree) Root() Node {
	t = t.ensure()
	return t.view(t.root)
}

// Get returns the node a slot refers to. An absent slot yields the zero Node.
func (t Tree) Get(s Slot) Node {
	t = t.ensure()
	return t.view(s.id)
}

// spine returns the node ids from the root down to path's target.
// Entries past the first absent slot are absent too.
func (t Tree) spine(path model.Path) []NodeID {
	out := make([]NodeID, len(path)+1)
	out[0] = t.root
	id := t.root
	for i, k := range path {
		if id != absent {
			id = t.a.get(id).children[k]
		}
		out[i+1] = id
	}
	return out
}

// commit stores repl as the node at path and clones every ancestor on the spine,
// rewiring each parent's slot to the new child id.
func (t Tree) commit(spine []NodeID, path model.Path, repl *node) Tree {
	id := t.a.add(repl)
	for i := len(path) - 1; i >= 0; i-- {
		parent := t.load(spine[i])
		parent.children[path[i]] = id
		id = t.a.add(parent)
	}
	return Tree{a: t.a, root: id}
}

// Compact copies the reachable nodes into a fresh arena, dropping nodes that only
// older tree versions referenced.
func Compact(t Tree) Tree {
	t = t.ensure()
	a := &arena{}
	var copyNode func(id NodeID) NodeID
	copyNode = func(id NodeID) NodeID {
		src := t.a.get(id)
		n := &node{grid: src.grid}
		for k, c := range src.children {
			if c != absent {
				n.children[k] = copyNode(c)
			}
		}
		return a.add(n)
	}
	return Tree{a: a, root: copyNode(t.root)}
}

// ArenaSize reports how many nodes the arena holds, reachable or not.
func ArenaSize(t Tree) int {
	if t.a == nil {
		return 0
	}
	return t.a.size()
}

// Builder assembles a tree bottom-up, children before parents. Decoders use it to
// rebuild a chart from a snapshot.
type Builder struct {
	a *arena
}

func NewBuilder() *Builder { return &Builder{a: &arena{}} }

// Add stores a node and returns the slot that refers to it. Children must be absent
// slots or slots returned by this builder.
func (b *Builder) Add(g model.Grid, children [model.BlockCount]Slot) Slot {
	n := &node{grid: g}
	for k, c := range children {
		n.children[k] = c.id
	}
	return Slot{id: b.a.add(n)}
}

// Tree returns the tree rooted at root.
func (b *Builder) Tree(root Slot) Tree {
	if !root.Materialized() {
		return Tree{a: b.a, root: b.a.add(&node{})}
	}
	return Tree{a: b.a, root: root.id}
}
