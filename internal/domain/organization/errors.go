package organization

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrDuplicateNodeID      = errors.New("duplicate organization id")
	ErrEmptyTree            = errors.New("organization tree is empty")
)
