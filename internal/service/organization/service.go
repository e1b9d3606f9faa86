package organization

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/organization"
	"gopkg.in/yaml.v3"
)

type OrganizationServiceImpl struct {
	roots []organization.Node
	byID  map[string]organization.Node
}

// NewOrganizationService indexes a parsed tree. Node ids must be unique.
func NewOrganizationService(roots []organization.Node) (organization.OrganizationService, error) {
	if len(roots) == 0 {
		return nil, organization.ErrEmptyTree
	}
	s := &OrganizationServiceImpl{roots: roots, byID: map[string]organization.Node{}}
	var index func(nodes []organization.Node) error
	index = func(nodes []organization.Node) error {
		for _, n := range nodes {
			if _, dup := s.byID[n.ID]; dup {
				return fmt.Errorf("%w: %s", organization.ErrDuplicateNodeID, n.ID)
			}
			s.byID[n.ID] = n
			if err := index(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := index(roots); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadTree decodes a YAML (or JSON) list of root nodes.
func LoadTree(r io.Reader) ([]organization.Node, error) {
	var roots []organization.Node
	if err := yaml.NewDecoder(r).Decode(&roots); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, organization.ErrEmptyTree
		}
		return nil, fmt.Errorf("failed to decode organization tree: %w", err)
	}
	return roots, nil
}

// LoadTreeFile reads the tree from path.
func LoadTreeFile(path string) ([]organization.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open organization tree: %w", err)
	}
	defer f.Close()
	return LoadTree(f)
}

// Tree implements organization.OrganizationService.
func (s *OrganizationServiceImpl) Tree() []organization.Node {
	return s.roots
}

// Find implements organization.OrganizationService.
func (s *OrganizationServiceImpl) Find(id string) (organization.Node, error) {
	n, ok := s.byID[id]
	if !ok {
		return organization.Node{}, organization.ErrOrganizationNotFound
	}
	return n, nil
}

// Search implements organization.OrganizationService. Matching is a case-insensitive
// substring test on the node name; results come in depth-first order.
func (s *OrganizationServiceImpl) Search(query string) []organization.SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	results := []organization.SearchResult{}
	if query == "" {
		return results
	}

	var walk func(nodes []organization.Node, path []string)
	walk = func(nodes []organization.Node, path []string) {
		for _, n := range nodes {
			if strings.Contains(strings.ToLower(n.Name), query) {
				results = append(results, organization.SearchResult{
					Node: n,
					Path: append([]string{}, path...),
				})
			}
			walk(n.Children, append(path, n.Name))
		}
	}
	walk(s.roots, nil)
	return results
}

// Descendants implements organization.OrganizationService.
func (s *OrganizationServiceImpl) Descendants(name string) []string {
	var names []string
	var collect func(nodes []organization.Node)
	collect = func(nodes []organization.Node) {
		for _, n := range nodes {
			names = append(names, n.Name)
			collect(n.Children)
		}
	}

	var walk func(nodes []organization.Node)
	walk = func(nodes []organization.Node) {
		for _, n := range nodes {
			if n.Name == name {
				collect(n.Children)
				continue
			}
			walk(n.Children)
		}
	}
	walk(s.roots)
	return names
}
