package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
)

type memberRepository struct {
	mu      sync.RWMutex
	members member.Collection
}

// NewMemberRepository returns a non-persistent store, optionally pre-filled.
func NewMemberRepository(seed ...member.Member) member.MemberRepository {
	return &memberRepository{members: member.Collection(seed).Clone()}
}

// List implements member.MemberRepository.
func (r *memberRepository) List(ctx context.Context) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.members.Clone(), nil
}

// GetByID implements member.MemberRepository.
func (r *memberRepository) GetByID(ctx context.Context, id string) (member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.members.IndexOf(id)
	if idx < 0 {
		return member.Member{}, member.ErrMemberNotFound
	}
	return r.members[idx].Clone(), nil
}

// ExistsByEmail implements member.MemberRepository.
func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.members.HasEmail(email), nil
}

// Create implements member.MemberRepository.
func (r *memberRepository) Create(ctx context.Context, newMember member.Member) (member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.members.HasEmail(newMember.Email) {
		return member.Member{}, member.ErrEmailExists
	}
	if r.members.IndexOf(newMember.ID) >= 0 {
		return member.Member{}, member.ErrMemberIDExists
	}
	r.members = append(r.members, newMember.Clone())
	return newMember, nil
}

// Update implements member.MemberRepository.
func (r *memberRepository) Update(ctx context.Context, id string, fn func(member.Member) (member.Member, error)) (member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.members.IndexOf(id)
	if idx < 0 {
		return member.Member{}, member.ErrMemberNotFound
	}
	updated, err := fn(r.members[idx].Clone())
	if err != nil {
		return member.Member{}, err
	}
	r.members[idx] = updated.Clone()
	return updated, nil
}

// Delete implements member.MemberRepository.
func (r *memberRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.members.IndexOf(id)
	if idx < 0 {
		return member.ErrMemberNotFound
	}
	r.members = append(r.members[:idx:idx], r.members[idx+1:]...)
	return nil
}

// ReplaceAll implements member.MemberRepository.
func (r *memberRepository) ReplaceAll(ctx context.Context, members []member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = member.Collection(members).Clone()
	return nil
}
