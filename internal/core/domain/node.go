package domain

// Kind tells the two cases of a Node apart.
type Kind uint8

const (
	// KindLeaf marks an atomic value.
	KindLeaf Kind = iota
	// KindComposite marks a value that decomposes into children.
	KindComposite
)

// String returns the name of the kind.
func (k Kind) String() string {
	if k == KindComposite {
		return "composite"
	}
	return "leaf"
}

// Node is the classification of one value: either Leaf(Value) or Composite(Children).
//
// The nominal type of the classified value is absent. Two values
// of unrelated types produce identical nodes when their shape and content match.
type Node struct {
	Kind Kind
	// Value is the comparable leaf value. Nil references classify as a leaf with a nil Value.
	Value any
	// Children is the projection of a composite.
	Children []any
}

// IsLeaf reports whether the node is a leaf.
func (n Node) IsLeaf() bool {
	return n.Kind == KindLeaf
}

// Classify returns the node for v, reading the children of composites.
func Classify(v any) (Node, error) {
	e := expand(v)
	if e.leaf {
		return Node{Kind: KindLeaf, Value: e.value}, nil
	}
	children, err := e.children.collect()
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: KindComposite, Children: children}, nil
}
