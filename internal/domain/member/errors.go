package member

import "errors"

var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrMemberIDRequired = errors.New("member id is required")
	ErrEmailExists      = errors.New("email already registered")
	ErrMemberIDExists   = errors.New("member id already taken")
	ErrInvalidPatch     = errors.New("invalid member update body")
	ErrEmptyImport      = errors.New("import contains no members")
	ErrInvalidSheet     = errors.New("invalid member spreadsheet")
)
