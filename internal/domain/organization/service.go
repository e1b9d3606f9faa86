package organization

// OrganizationService answers read-only questions about the organization tree.
type OrganizationService interface {
	Tree() []Node
	Find(id string) (Node, error)
	Search(query string) []SearchResult
	// Descendants returns the names of every node below the named node(s), excluding the node itself.
	Descendants(name string) []string
}
