package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/jsonfile"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/repository/memory"
	authService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/auth"
	memberService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/member"
	notificationService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/notification"
	orgService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/organization"
	scheduleService "github.com/cmlabs-hris/hr-portal-backend-go/internal/service/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail  = "minjun.kim@example.com"
	jihoEmail   = "jiho.park@example.com"
	seoyeonID   = "1700000000002"
	jihoID      = "1700000000003"
	lockedEvent = "tpl-20250309-0"
)

var kst = time.FixedZone("KST", 9*60*60)

type apiEnv struct {
	handler    http.Handler
	repo       member.MemberRepository
	jwtService jwt.Service
	clock      *time.Time
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	now := time.Date(2025, 3, 5, 15, 0, 0, 0, kst)
	env := &apiEnv{
		repo:       memory.NewMemberRepository(fixtures.SeedMembers(now)...),
		jwtService: jwt.NewJWTService("test-secret", time.Hour),
		clock:      &now,
	}
	clock := func() time.Time { return *env.clock }

	roots, err := orgService.LoadTree(fixtures.DefaultOrganizationTree())
	require.NoError(t, err)
	orgs, err := orgService.NewOrganizationService(roots)
	require.NoError(t, err)

	files, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	notifications := notificationService.NewNotificationService(
		memory.NewNotificationRepository(100), sse.NewHub(), notificationService.Config{})
	t.Cleanup(notifications.Stop)

	members := memberService.NewMemberService(env.repo, orgs, files,
		memberService.WithClock(clock),
		memberService.WithNotifier(notifications),
	)
	schedules := scheduleService.NewScheduleService(env.repo, notifications, scheduleService.Config{
		Location:        kst,
		LockedDay:       time.Sunday,
		DefaultTemplate: fixtures.DefaultWeeklyTemplate(),
	}, scheduleService.WithClock(clock))
	auth := authService.NewAuthService(
		jsonfile.NewUserRepository(filepath.Join(t.TempDir(), "users.json")),
		env.repo, env.jwtService,
		authService.WithBcryptCost(bcrypt.MinCost),
	)

	env.handler = NewRouter(RouterConfig{
		AllowedOrigins:      []string{"http://localhost:3000"},
		JWTService:          env.jwtService,
		AuthHandler:         NewAuthHandler(auth),
		MemberHandler:       NewMemberHandler(members),
		ScheduleHandler:     NewScheduleHandler(schedules, kst),
		OrganizationHandler: NewOrganizationHandler(orgs),
		NotificationHandler: NewNotificationHandler(notifications, env.jwtService),
	})
	return env
}

func (e *apiEnv) token(t *testing.T, email string, isAdmin bool) string {
	t.Helper()
	token, _, err := e.jwtService.GenerateAccessToken(user.User{ID: "u-" + email, Email: email, IsAdmin: isAdmin})
	require.NoError(t, err)
	return token
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	}
	return rec.Code, payload
}

func (e *apiEnv) stored(t *testing.T) []member.Member {
	t.Helper()
	all, err := e.repo.List(context.Background())
	require.NoError(t, err)
	return all
}

func newMemberBody(email string) map[string]any {
	return map[string]any{
		"name":         "최유나",
		"email":        email,
		"organization": "플랫폼팀",
		"position":     "팀원",
		"role":         "member",
		"job":          "프론트엔드 개발",
		"joinDate":     "2025-03-04",
	}
}

func TestMemberAPI_ReadsNeedAuthentication(t *testing.T) {
	env := newAPIEnv(t)

	code, _ := env.do(t, http.MethodGet, "/api/members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	for _, path := range []string{"/api/members", "/api/v1/members"} {
		code, body := env.do(t, http.MethodGet, path, env.token(t, jihoEmail, false), nil)
		require.Equal(t, http.StatusOK, code, path)
		assert.Equal(t, true, body["success"])
		assert.Len(t, body["members"], 4)
	}
}

func TestMemberAPI_MutationsNeedAdmin(t *testing.T) {
	env := newAPIEnv(t)

	code, _ := env.do(t, http.MethodPost, "/api/members", env.token(t, jihoEmail, false), newMemberBody("yuna.choi@example.com"))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Len(t, env.stored(t), 4)
}

func TestMemberAPI_Create(t *testing.T) {
	env := newAPIEnv(t)
	admin := env.token(t, adminEmail, true)

	t.Run("missing email is rejected", func(t *testing.T) {
		body := newMemberBody("")
		delete(body, "email")

		code, payload := env.do(t, http.MethodPost, "/api/members", admin, body)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, payload["success"])
		assert.NotEmpty(t, payload["message"])
		assert.Len(t, env.stored(t), 4)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		code, payload := env.do(t, http.MethodPost, "/api/members", admin, newMemberBody("Jiho.Park@example.com"))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, payload["success"])
		assert.Len(t, env.stored(t), 4)
	})

	t.Run("valid record is stored", func(t *testing.T) {
		code, payload := env.do(t, http.MethodPost, "/api/members", admin, newMemberBody("yuna.choi@example.com"))
		require.Equal(t, http.StatusOK, code)
		created := payload["member"].(map[string]any)
		assert.Equal(t, "yuna.choi@example.com", created["email"])
		assert.NotEmpty(t, created["id"])
		assert.Len(t, env.stored(t), 5)
	})

	t.Run("malformed body", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/api/members", admin, "{")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestMemberAPI_Update(t *testing.T) {
	env := newAPIEnv(t)
	admin := env.token(t, adminEmail, true)

	code, _ := env.do(t, http.MethodPut, "/api/members", admin, map[string]any{"name": "이름만"})
	assert.Equal(t, http.StatusBadRequest, code, "id is required")

	code, _ = env.do(t, http.MethodPut, "/api/members", admin, map[string]any{"id": "404", "name": "없음"})
	assert.Equal(t, http.StatusNotFound, code)

	before := env.stored(t)
	var original member.Member
	for _, m := range before {
		if m.ID == seoyeonID {
			original = m
		}
	}
	require.Equal(t, seoyeonID, original.ID)

	*env.clock = env.clock.Add(time.Hour)
	code, payload := env.do(t, http.MethodPut, "/api/v1/members", admin, map[string]any{"id": seoyeonID, "rank": "책임"})
	require.Equal(t, http.StatusOK, code)

	updated := payload["member"].(map[string]any)
	assert.Equal(t, "책임", updated["rank"])
	assert.Equal(t, original.Name, updated["name"], "fields not in the body are kept")
	assert.Equal(t, original.Email, updated["email"])

	after := env.stored(t)
	require.Len(t, after, len(before))
	for _, m := range after {
		if m.ID == seoyeonID {
			assert.True(t, m.UpdatedAt.After(original.UpdatedAt))
		}
	}
}

func TestMemberAPI_Delete(t *testing.T) {
	env := newAPIEnv(t)
	admin := env.token(t, adminEmail, true)

	code, _ := env.do(t, http.MethodDelete, "/api/members", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodDelete, "/api/members?id=404", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Len(t, env.stored(t), 4)

	code, _ = env.do(t, http.MethodDelete, "/api/members?id="+seoyeonID, admin, nil)
	require.Equal(t, http.StatusOK, code)

	remaining := env.stored(t)
	assert.Len(t, remaining, 3)
	for _, m := range remaining {
		assert.NotEqual(t, seoyeonID, m.ID)
	}
}

func TestScheduleAPI_LockedDay(t *testing.T) {
	env := newAPIEnv(t)
	jiho := env.token(t, jihoEmail, false)
	base := "/api/v1/members/" + jihoID + "/schedule"

	code, payload := env.do(t, http.MethodGet, base, jiho, nil)
	require.Equal(t, http.StatusOK, code)
	view := payload["data"].(map[string]any)
	assert.Equal(t, "2025-03-03", view["weekStart"])
	events := view["events"].([]any)
	require.Len(t, events, 7)

	code, payload = env.do(t, http.MethodPatch, base+"/events/"+lockedEvent, jiho,
		schedule.UpdateEventRequest{Action: schedule.ActionRename, Title: strRef("변경")})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "일요일에는 근무 일정을 변경할 수 없습니다", payload["message"])
	assert.Equal(t, "DAY_LOCKED", payload["error"].(map[string]any)["code"])

	code, _ = env.do(t, http.MethodDelete, base+"/events/"+lockedEvent+"?confirm=true", jiho, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, payload = env.do(t, http.MethodGet, base, jiho, nil)
	require.Equal(t, http.StatusOK, code)
	after := payload["data"].(map[string]any)
	assert.Equal(t, events, after["events"])
	assert.Equal(t, false, after["hasPendingChanges"])
}

func TestScheduleAPI_EditAndCommit(t *testing.T) {
	env := newAPIEnv(t)
	jiho := env.token(t, jihoEmail, false)
	base := "/api/v1/members/" + jihoID + "/schedule"

	code, _ := env.do(t, http.MethodGet, "/api/v1/members/"+seoyeonID+"/schedule", jiho, nil)
	assert.Equal(t, http.StatusForbidden, code, "members edit only their own schedule")

	code, payload := env.do(t, http.MethodPost, base+"/events", jiho, schedule.CreateEventRequest{
		Start: "2025-03-06T19:00:00+09:00",
		End:   "2025-03-06T21:00:00+09:00",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, payload["data"].(map[string]any)["hasPendingChanges"])

	code, payload = env.do(t, http.MethodPost, base+"/commit", jiho, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, payload["data"].(map[string]any)["count"])

	code, payload = env.do(t, http.MethodPost, base+"/next", jiho, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2025-03-10", payload["data"].(map[string]any)["weekStart"])

	code, _ = env.do(t, http.MethodGet, base+"?date=not-a-date", jiho, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuthAPI_Flow(t *testing.T) {
	env := newAPIEnv(t)

	code, payload := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":            "김민준",
		"email":           adminEmail,
		"password":        "correct-horse",
		"confirmPassword": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, code)
	registered := payload["data"].(map[string]any)
	assert.Equal(t, true, registered["user"].(map[string]any)["isAdmin"], "linked member's admin flag is inherited")

	code, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, payload = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": adminEmail, "password": "correct-horse"})
	require.Equal(t, http.StatusOK, code)
	token := payload["data"].(map[string]any)["accessToken"].(string)

	code, payload = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, adminEmail, payload["data"].(map[string]any)["email"])

	code, payload = env.do(t, http.MethodPost, "/api/v1/notifications/stream-token", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, payload["data"].(map[string]any)["token"])

	code, _ = env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestOrganizationAPI(t *testing.T) {
	env := newAPIEnv(t)
	token := env.token(t, jihoEmail, false)

	code, payload := env.do(t, http.MethodGet, "/api/v1/organizations", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, payload["data"])

	code, _ = env.do(t, http.MethodGet, "/api/v1/organizations/does-not-exist", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func strRef(s string) *string { return &s }
