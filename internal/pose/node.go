package pose

import "errors"

// ErrCycle is returned when attaching a node under one of its own descendants.
var ErrCycle = errors.New("pose: attach would create a cycle")

// Node is a transform in a parent/child hierarchy. Local is relative to the parent
// (or to the world when the node is a root).
type Node struct {
	Local    Pose
	parent   *Node
	children []*Node
}

// NewNode returns a root node with the given local (= world) pose.
func NewNode(local Pose) *Node {
	return &Node{Local: local}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// World returns the node's pose in world space.
func (n *Node) World() Pose {
	if n.parent == nil {
		return n.Local
	}
	return n.parent.World().Compose(n.Local)
}

// SetWorld moves the node so that its world pose equals w, keeping its parent.
func (n *Node) SetWorld(w Pose) {
	if n.parent == nil {
		n.Local = w
		return
	}
	n.Local = ToLocal(w, n.parent.World())
}

// Attach reparents child under n, preserving the child's world pose.
func (n *Node) Attach(child *Node) error {
	for a := n; a != nil; a = a.parent {
		if a == child {
			return ErrCycle
		}
	}
	world := child.World()
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
	child.SetWorld(world)
	return nil
}

// Detach makes n a root, preserving its world pose.
func (n *Node) Detach() {
	if n.parent == nil {
		return
	}
	world := n.World()
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
	n.Local = world
}
