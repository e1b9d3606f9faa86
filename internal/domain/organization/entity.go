package organization

// Node is one unit of the organization tree. Depth is unbounded.
type Node struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// SearchResult is a node matched by name together with the names of its ancestors.
type SearchResult struct {
	Node Node     `json:"node"`
	Path []string `json:"path"`
}
