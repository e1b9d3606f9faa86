package organization

import (
	"strings"
	"testing"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTree = `
- id: root
  name: Company
  children:
    - id: dev
      name: Development
      children:
        - id: be
          name: Backend
        - id: fe
          name: Frontend
    - id: ops
      name: Operations
`

func newTestService(t *testing.T) organization.OrganizationService {
	t.Helper()
	roots, err := LoadTree(strings.NewReader(sampleTree))
	require.NoError(t, err)
	svc, err := NewOrganizationService(roots)
	require.NoError(t, err)
	return svc
}

func TestFind(t *testing.T) {
	svc := newTestService(t)

	node, err := svc.Find("dev")
	require.NoError(t, err)
	assert.Equal(t, "Development", node.Name)
	assert.Len(t, node.Children, 2)

	_, err = svc.Find("missing")
	assert.ErrorIs(t, err, organization.ErrOrganizationNotFound)
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)

	results := svc.Search("end")
	require.Len(t, results, 2)
	assert.Equal(t, "Backend", results[0].Node.Name)
	assert.Equal(t, []string{"Company", "Development"}, results[0].Path)
	assert.Equal(t, "Frontend", results[1].Node.Name)

	assert.Empty(t, svc.Search("  "))
	assert.Len(t, svc.Search("OPERATIONS"), 1)
}

func TestDescendants(t *testing.T) {
	svc := newTestService(t)

	assert.Equal(t, []string{"Backend", "Frontend"}, svc.Descendants("Development"))
	assert.Equal(t, []string{"Development", "Backend", "Frontend", "Operations"}, svc.Descendants("Company"))
	assert.Empty(t, svc.Descendants("Backend"))
	assert.Empty(t, svc.Descendants("Unknown"))
}

func TestNewOrganizationService_RejectsDuplicates(t *testing.T) {
	roots := []organization.Node{
		{ID: "a", Name: "A", Children: []organization.Node{{ID: "a", Name: "A again"}}},
	}
	_, err := NewOrganizationService(roots)
	assert.ErrorIs(t, err, organization.ErrDuplicateNodeID)

	_, err = NewOrganizationService(nil)
	assert.ErrorIs(t, err, organization.ErrEmptyTree)
}

func TestLoadTree_Empty(t *testing.T) {
	_, err := LoadTree(strings.NewReader(""))
	assert.ErrorIs(t, err, organization.ErrEmptyTree)
}

func TestDefaultTreeLoads(t *testing.T) {
	roots, err := LoadTree(fixtures.DefaultOrganizationTree())
	require.NoError(t, err)

	svc, err := NewOrganizationService(roots)
	require.NoError(t, err)
	assert.Contains(t, svc.Descendants("개발본부"), "백엔드파트")
}
