package twig

// NodeVisitor is notified when traversal enters a node, before its children.
type NodeVisitor interface {
	Enter(node *Node) error
}

// VisitorFunc adapts a function to NodeVisitor.
type VisitorFunc func(node *Node) error

// Enter implements NodeVisitor.
func (f VisitorFunc) Enter(node *Node) error {
	return f(node)
}

// Traverse walks the tree rooted at root in document order, calling every
// visitor on each node before its children. Visitors are called in the
// order given. The first error stops the walk.
func Traverse(root *Node, visitors ...NodeVisitor) error {
	if root == nil {
		return nil
	}

	for _, v := range visitors {
		if err := v.Enter(root); err != nil {
			return err
		}
	}

	for _, child := range root.Children {
		if err := Traverse(child, visitors...); err != nil {
			return err
		}
	}

	return nil
}
