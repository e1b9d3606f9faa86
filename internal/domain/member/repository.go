package member

import "context"

// MemberRepository persists the member collection. Implementations serialize writers so
// concurrent mutations never clobber each other.
type MemberRepository interface {
	List(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, id string) (Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create returns ErrEmailExists or ErrMemberIDExists when the record collides with a stored one.
	Create(ctx context.Context, newMember Member) (Member, error)
	// Update applies fn to the stored record under the writer lock and saves the result.
	Update(ctx context.Context, id string, fn func(Member) (Member, error)) (Member, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, members []Member) error
}
