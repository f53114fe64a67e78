package rules

import "github.com/kittclouds/ontokit/pkg/dimension"

// Node is one match of a rule over a byte range. Nodes are owned by the
// forest returned from a single Apply call.
type Node struct {
	ID       int
	Rule     string
	Range    Range
	Children []*Node // nodes matched by dimension items, in pattern order
	Value    dimension.Dimension

	height int
	size   int
}

// NewNode builds a node, deriving its height and size from children.
func NewNode(id int, rule string, r Range, children []*Node, value dimension.Dimension) *Node {
	n := &Node{ID: id, Rule: rule, Range: r, Children: children, Value: value, height: 1, size: 1}
	for _, c := range children {
		if c.height+1 > n.height {
			n.height = c.height + 1
		}
		n.size += c.size
	}
	return n
}

// Height is 1 for a node without children.
func (n *Node) Height() int { return n.height }

// NumNodes counts the node and all its descendants.
func (n *Node) NumNodes() int { return n.size }

// Latent reports whether the node's value is a latent interpretation.
func (n *Node) Latent() bool {
	return n.Value != nil && n.Value.Latent()
}

// Walk visits the node and its descendants depth-first, parents first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
