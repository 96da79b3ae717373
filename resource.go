package stshell

// ResourceNode is a node of an application's resource tree, either a [Leaf]
// or a [Branch]. Trees are snapshots and are never mutated after decoding.
type ResourceNode interface {
	// Name returns the node's display name
	Name() string
	isResourceNode()
}

// Leaf is a file in the resource tree. IDs are expected to be unique per tree.
type Leaf struct {
	ID           string
	Text         string
	ResourceType string
	ContentType  string
}

func (l Leaf) Name() string { return l.Text }
func (Leaf) isResourceNode() {}

// Branch is a folder in the resource tree
type Branch struct {
	Text     string
	Children []ResourceNode
}

func (b Branch) Name() string { return b.Text }
func (Branch) isResourceNode() {}

// ItemDetail is a single resolved leaf. Path holds the ancestor branch names
// joined by "/" and is "" for leaves at the top level. Data is nil until the
// item has been downloaded.
type ItemDetail struct {
	ID           string
	Name         string
	ResourceType string
	ContentType  string
	Path         string
	Data         []byte
}
