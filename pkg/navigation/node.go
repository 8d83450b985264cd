package navigation

// Kind identifies the type of a render tree node.
type Kind int

const (
	KindContainer Kind = iota
	KindText
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindText:
		return "text"
	case KindLink:
		return "link"
	}
	return "unknown"
}

// Node is an element of the navigation render tree. Containers carry a CSS
// class and ordered children, text nodes carry Text, and links carry both a
// Text label and a target Path.
type Node struct {
	Kind     Kind
	Class    string
	Text     string
	Path     string
	Children []*Node
}

func Container(class string, children ...*Node) *Node {
	return &Node{Kind: KindContainer, Class: class, Children: children}
}

func Text(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

func Link(label, path string) *Node {
	return &Node{Kind: KindLink, Text: label, Path: path}
}

// Append adds children to a container node.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Walk visits n and its descendants in document order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// LinkNodes returns the link nodes of the tree in document order.
func (n *Node) LinkNodes() []*Node {
	var result []*Node
	n.Walk(func(node *Node) {
		if node.Kind == KindLink {
			result = append(result, node)
		}
	})
	return result
}

// Links returns the (label, path) pairs of the tree's links.
func (n *Node) Links() []Item {
	nodes := n.LinkNodes()
	items := make([]Item, 0, len(nodes))
	for _, node := range nodes {
		items = append(items, Item{Label: node.Text, Path: node.Path})
	}
	return items
}

// Brand returns the text of the first text node in the tree.
func (n *Node) Brand() string {
	brand := ""
	n.Walk(func(node *Node) {
		if brand == "" && node.Kind == KindText {
			brand = node.Text
		}
	})
	return brand
}

type nodeView struct {
	Tag      string
	Class    string
	Text     string
	Path     string
	Children []nodeView
}

func (n *Node) view(root bool) nodeView {
	v := nodeView{Class: n.Class, Text: n.Text, Path: n.Path}
	switch n.Kind {
	case KindContainer:
		v.Tag = "div"
		if root {
			v.Tag = "nav"
		}
	case KindLink:
		v.Tag = "a"
	}
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		v.Children = append(v.Children, child.view(false))
	}
	return v
}
