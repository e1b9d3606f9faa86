package jsonfile

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jsonfile"
)

// memberRepository keeps the whole collection in one JSON array. Every write reloads
// the file, applies the change and rewrites it under a single mutex.
type memberRepository struct {
	mu   sync.Mutex
	path string
}

func NewMemberRepository(path string) member.MemberRepository {
	return &memberRepository{path: path}
}

func (r *memberRepository) load() (member.Collection, error) {
	var members member.Collection
	if _, err := jsonfile.Load(r.path, &members); err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	if members == nil {
		members = member.Collection{}
	}
	return members, nil
}

func (r *memberRepository) save(members member.Collection) error {
	if err := jsonfile.Save(r.path, members); err != nil {
		return fmt.Errorf("failed to save members: %w", err)
	}
	return nil
}

// List implements member.MemberRepository.
func (r *memberRepository) List(ctx context.Context) ([]member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, err := r.load()
	if err != nil {
		return nil, err
	}
	return members, nil
}

// GetByID implements member.MemberRepository.
func (r *memberRepository) GetByID(ctx context.Context, id string) (member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, err := r.load()
	if err != nil {
		return member.Member{}, err
	}
	idx := members.IndexOf(id)
	if idx < 0 {
		return member.Member{}, member.ErrMemberNotFound
	}
	return members[idx], nil
}

// ExistsByEmail implements member.MemberRepository.
func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, err := r.load()
	if err != nil {
		return false, err
	}
	return members.HasEmail(email), nil
}

// Create implements member.MemberRepository.
func (r *memberRepository) Create(ctx context.Context, newMember member.Member) (member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, err := r.load()
	if err != nil {
		return member.Member{}, err
	}
	if members.HasEmail(newMember.Email) {
		return member.Member{}, member.ErrEmailExists
	}
	if members.IndexOf(newMember.ID) >= 0 {
		return member.Member{}, member.ErrMemberIDExists
	}

	members = append(members, newMember)
	if err := r.save(members); err != nil {
		return member.Member{}, err
	}
	return newMember, nil
}

// Update implements member.MemberRepository.
func (r *memberRepository) Update(ctx context.Context, id string, fn func(member.Member) (member.Member, error)) (member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, err := r.load()
	if err != nil {
		return member.Member{}, err
	}
	idx := members.IndexOf(id)
	if idx < 0 {
		return member.Member{}, member.ErrMemberNotFound
	}

	updated, err := fn(members[idx].Clone())
	if err != nil {
		return member.Member{}, err
	}
	members[idx] = updated
	if err := r.save(members); err != nil {
		return member.Member{}, err
	}
	return updated, nil
}

// Delete implements member.MemberRepository.
func (r *memberRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, err := r.load()
	if err != nil {
		return err
	}
	idx := members.IndexOf(id)
	if idx < 0 {
		return member.ErrMemberNotFound
	}
	return r.save(append(members[:idx], members[idx+1:]...))
}

// ReplaceAll implements member.MemberRepository.
func (r *memberRepository) ReplaceAll(ctx context.Context, members []member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members == nil {
		members = []member.Member{}
	}
	return r.save(members)
}
