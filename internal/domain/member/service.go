package member

import (
	"context"
	"io"
)

// MemberService defines business logic for the member directory
type MemberService interface {
	// ListMembers returns every member matching the filter
	ListMembers(ctx context.Context, filter MemberFilter) ([]Member, error)

	// GetMember retrieves a single member by ID
	GetMember(ctx context.Context, id string) (Member, error)

	// CreateMember validates required fields, rejects duplicate emails and stores the record
	CreateMember(ctx context.Context, req CreateMemberRequest) (Member, error)

	// UpdateMember shallow-merges the request body over the stored record
	UpdateMember(ctx context.Context, req UpdateMemberRequest) (Member, error)

	// DeleteMember removes a member by ID
	DeleteMember(ctx context.Context, id string) error

	// ImportMembers replaces the whole collection and returns the stored count
	ImportMembers(ctx context.Context, req BulkImportRequest) (int, error)

	// ImportSpreadsheet reads members from the first sheet of an .xlsx file and imports them
	ImportSpreadsheet(ctx context.Context, r io.Reader) (int, error)

	// ExportSpreadsheet writes the directory as an .xlsx workbook
	ExportSpreadsheet(ctx context.Context, w io.Writer) error

	// Metadata lists the distinct ranks, positions, organizations and teams in use
	Metadata(ctx context.Context) (MetadataResponse, error)

	// UploadImage stores a profile image and points the member's image at it
	UploadImage(ctx context.Context, req UploadImageRequest) (Member, error)
}
