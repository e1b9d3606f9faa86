package fixtures

import (
	"bytes"
	_ "embed"
	"io"
)

//go:embed organizations.yaml
var organizationsYAML []byte

// DefaultOrganizationTree returns the bundled organization tree document.
func DefaultOrganizationTree() io.Reader {
	return bytes.NewReader(organizationsYAML)
}
