package member

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type MemberServiceImpl struct {
	memberRepo  member.MemberRepository
	orgService  organization.OrganizationService
	fileStorage storage.FileStorage
	notifier    notification.Service
	now         func() time.Time
}

type Option func(*MemberServiceImpl)

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemberServiceImpl) {
		s.now = now
	}
}

// WithNotifier announces directory changes to administrators.
func WithNotifier(svc notification.Service) Option {
	return func(s *MemberServiceImpl) {
		s.notifier = svc
	}
}

func NewMemberService(
	memberRepo member.MemberRepository,
	orgService organization.OrganizationService,
	fileStorage storage.FileStorage,
	opts ...Option,
) member.MemberService {
	s := &MemberServiceImpl{
		memberRepo:  memberRepo,
		orgService:  orgService,
		fileStorage: fileStorage,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListMembers implements member.MemberService.
func (s *MemberServiceImpl) ListMembers(ctx context.Context, filter member.MemberFilter) ([]member.Member, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	var orgNames map[string]struct{}
	if filter.Organization != "" {
		orgNames = map[string]struct{}{filter.Organization: {}}
		if s.orgService != nil {
			for _, name := range s.orgService.Descendants(filter.Organization) {
				orgNames[name] = struct{}{}
			}
		}
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	results := make([]member.Member, 0, len(members))
	for _, m := range members {
		if orgNames != nil && !m.BelongsTo(orgNames) {
			continue
		}
		if filter.Team != "" && !containsString(m.Teams, filter.Team) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(m.Name), query) &&
			!strings.Contains(strings.ToLower(m.Email), query) {
			continue
		}
		results = append(results, m)
	}
	return results, nil
}

// GetMember implements member.MemberService.
func (s *MemberServiceImpl) GetMember(ctx context.Context, id string) (member.Member, error) {
	if strings.TrimSpace(id) == "" {
		return member.Member{}, member.ErrMemberIDRequired
	}
	m, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return member.Member{}, member.ErrMemberNotFound
		}
		return member.Member{}, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// CreateMember implements member.MemberService.
func (s *MemberServiceImpl) CreateMember(ctx context.Context, req member.CreateMemberRequest) (member.Member, error) {
	if err := req.Validate(); err != nil {
		return member.Member{}, err
	}

	exists, err := s.memberRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return member.Member{}, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return member.Member{}, member.ErrEmailExists
	}

	now := s.now()
	newMember := req.ToMember()
	newMember.CreatedAt = now
	newMember.UpdatedAt = now

	created, err := s.insertWithNextID(ctx, newMember)
	if err != nil {
		if errors.Is(err, member.ErrEmailExists) {
			return member.Member{}, member.ErrEmailExists
		}
		return member.Member{}, fmt.Errorf("failed to create member: %w", err)
	}

	slog.Info("Member created", "member_id", created.ID, "email", created.Email)
	s.notifyAdmins(ctx, notification.TypeMemberCreated, "신규 구성원 등록",
		fmt.Sprintf("%s님이 %s에 등록되었습니다", created.Name, created.Organization),
		map[string]interface{}{"memberId": created.ID})
	return created, nil
}

const maxIDAttempts = 1000

// insertWithNextID ids the member with its creation time in milliseconds. The store rejects a
// taken id under its write lock, and the id is bumped until an insert succeeds.
func (s *MemberServiceImpl) insertWithNextID(ctx context.Context, newMember member.Member) (member.Member, error) {
	candidate := newMember.CreatedAt.UnixMilli()
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		newMember.ID = strconv.FormatInt(candidate+int64(attempt), 10)
		created, err := s.memberRepo.Create(ctx, newMember)
		if errors.Is(err, member.ErrMemberIDExists) {
			continue
		}
		return created, err
	}
	return member.Member{}, fmt.Errorf("no free member id after %d attempts", maxIDAttempts)
}

// UpdateMember implements member.MemberService.
func (s *MemberServiceImpl) UpdateMember(ctx context.Context, req member.UpdateMemberRequest) (member.Member, error) {
	if err := req.Validate(); err != nil {
		return member.Member{}, err
	}

	updated, err := s.memberRepo.Update(ctx, req.ID, func(stored member.Member) (member.Member, error) {
		merged, err := mergeFields(stored, req.Fields)
		if err != nil {
			return member.Member{}, err
		}
		merged.UpdatedAt = s.now()
		return merged, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, member.ErrMemberNotFound):
			return member.Member{}, member.ErrMemberNotFound
		case errors.Is(err, member.ErrInvalidPatch):
			return member.Member{}, err
		}
		return member.Member{}, fmt.Errorf("failed to update member: %w", err)
	}

	slog.Info("Member updated", "member_id", updated.ID, "fields", len(req.Fields))
	return updated, nil
}

// mergeFields overlays the raw body keys on the stored record. id and createdAt never change;
// keys that are not member fields are ignored.
func mergeFields(stored member.Member, fields map[string]json.RawMessage) (member.Member, error) {
	base, err := json.Marshal(stored)
	if err != nil {
		return member.Member{}, fmt.Errorf("failed to encode stored member: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &doc); err != nil {
		return member.Member{}, fmt.Errorf("failed to decode stored member: %w", err)
	}

	for key, value := range fields {
		if key == "id" || key == "createdAt" || key == "updatedAt" {
			continue
		}
		doc[key] = value
	}

	mergedJSON, err := json.Marshal(doc)
	if err != nil {
		return member.Member{}, fmt.Errorf("%w: %v", member.ErrInvalidPatch, err)
	}
	var merged member.Member
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return member.Member{}, fmt.Errorf("%w: %v", member.ErrInvalidPatch, err)
	}
	merged.ID = stored.ID
	merged.CreatedAt = stored.CreatedAt
	return merged, nil
}

// DeleteMember implements member.MemberService.
func (s *MemberServiceImpl) DeleteMember(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return member.ErrMemberIDRequired
	}
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return member.ErrMemberNotFound
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}

	slog.Info("Member deleted", "member_id", id)
	return nil
}

// ImportMembers implements member.MemberService.
func (s *MemberServiceImpl) ImportMembers(ctx context.Context, req member.BulkImportRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	now := s.now()
	base := now.UnixMilli()
	seen := make(map[string]struct{}, len(req.Members))
	members := make([]member.Member, 0, len(req.Members))
	for i, m := range req.Members {
		if m.ID == "" {
			m.ID = strconv.FormatInt(base+int64(i), 10)
		}
		if _, dup := seen[m.ID]; dup {
			m.ID = fmt.Sprintf("%s-%d", m.ID, i)
		}
		seen[m.ID] = struct{}{}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = now
		}
		members = append(members, m)
	}

	if err := s.memberRepo.ReplaceAll(ctx, members); err != nil {
		return 0, fmt.Errorf("failed to import members: %w", err)
	}

	slog.Info("Members imported", "count", len(members))
	s.notifyAdmins(ctx, notification.TypeMembersImported, "구성원 일괄 등록",
		fmt.Sprintf("구성원 %d명을 가져왔습니다", len(members)),
		map[string]interface{}{"count": len(members)})
	return len(members), nil
}

// Metadata implements member.MemberService.
func (s *MemberServiceImpl) Metadata(ctx context.Context) (member.MetadataResponse, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return member.MetadataResponse{}, fmt.Errorf("failed to list members: %w", err)
	}

	ranks := map[string]struct{}{}
	positions := map[string]struct{}{}
	orgs := map[string]struct{}{}
	teams := map[string]struct{}{}
	for _, m := range members {
		addNonEmpty(ranks, m.Rank)
		addNonEmpty(positions, m.Position)
		addNonEmpty(orgs, m.Organization)
		for _, team := range m.Teams {
			addNonEmpty(teams, team)
		}
	}

	return member.MetadataResponse{
		Ranks:         sortedKeys(ranks),
		Positions:     sortedKeys(positions),
		Organizations: sortedKeys(orgs),
		Teams:         sortedKeys(teams),
	}, nil
}

// UploadImage implements member.MemberService.
func (s *MemberServiceImpl) UploadImage(ctx context.Context, req member.UploadImageRequest) (member.Member, error) {
	if err := req.Validate(); err != nil {
		return member.Member{}, err
	}
	if _, err := s.GetMember(ctx, req.MemberID); err != nil {
		return member.Member{}, err
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	path := fmt.Sprintf("members/%s/%s%s", req.MemberID, uuid.NewString(), ext)
	key, err := s.fileStorage.Upload(ctx, req.File, path, req.ContentType)
	if err != nil {
		return member.Member{}, fmt.Errorf("failed to upload image: %w", err)
	}
	url, err := s.fileStorage.GetURL(ctx, key, 0)
	if err != nil {
		return member.Member{}, fmt.Errorf("failed to resolve image url: %w", err)
	}

	var previous *string
	updated, err := s.memberRepo.Update(ctx, req.MemberID, func(stored member.Member) (member.Member, error) {
		previous = stored.Image
		stored.Image = &url
		stored.UpdatedAt = s.now()
		return stored, nil
	})
	if err != nil {
		if delErr := s.fileStorage.Delete(ctx, key); delErr != nil {
			slog.Error("Failed to clean up orphaned image", "key", key, "error", delErr)
		}
		if errors.Is(err, member.ErrMemberNotFound) {
			return member.Member{}, member.ErrMemberNotFound
		}
		return member.Member{}, fmt.Errorf("failed to save image reference: %w", err)
	}

	if previous != nil {
		slog.Debug("Member image replaced", "member_id", req.MemberID, "previous", *previous)
	}
	return updated, nil
}

func (s *MemberServiceImpl) notifyAdmins(ctx context.Context, typ notification.NotificationType, title, message string, data map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		Recipient: sse.AdminChannel,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
	})
	if err != nil {
		slog.Error("Failed to queue member notification", "type", typ, "error", err)
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func addNonEmpty(set map[string]struct{}, value string) {
	if value = strings.TrimSpace(value); value != "" {
		set[value] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
