package fixtures

import (
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
)

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

func strPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}

// ============================================================================
// SEED MEMBERS
// ============================================================================

// SeedMembers returns the sample directory loaded when MEMBER_SEED_ON_BOOT is set
// and the store is empty.
func SeedMembers(now time.Time) []member.Member {
	members := []member.Member{
		{
			ID:             "1700000000001",
			Name:           "김민준",
			Email:          "minjun.kim@example.com",
			Phone:          "010-1234-5678",
			JoinDate:       "2021-03-02",
			Organization:   "인사팀",
			Position:       "팀장",
			Role:           "manager",
			Job:            "인사",
			Rank:           "부장",
			IsAdmin:        true,
			Bio:            strPtr("인사 제도와 채용을 담당합니다."),
			RemainingLeave: float64Ptr(12),
			WeeklyHours:    float64Ptr(40),
		},
		{
			ID:             "1700000000002",
			Name:           "이서연",
			Email:          "seoyeon.lee@example.com",
			Phone:          "010-2345-6789",
			JoinDate:       "2022-07-11",
			Organization:   "플랫폼팀",
			Teams:          []string{"백엔드파트"},
			Position:       "팀원",
			Role:           "member",
			Job:            "백엔드 개발",
			Rank:           "선임",
			RemainingLeave: float64Ptr(15),
			WeeklyHours:    float64Ptr(40),
			Schedule: []member.ScheduleEntry{
				{Day: "월", Start: "10:00", End: "19:00"},
				{Day: "화", Start: "10:00", End: "19:00"},
				{Day: "수", Start: "10:00", End: "19:00"},
				{Day: "목", Start: "10:00", End: "19:00"},
				{Day: "금", Start: "10:00", End: "19:00"},
			},
		},
		{
			ID:           "1700000000003",
			Name:         "박지호",
			Email:        "jiho.park@example.com",
			JoinDate:     "2023-01-16",
			Organization: "개발본부",
			Teams:        []string{"모바일팀", "품질관리팀"},
			Position:     "팀원",
			Role:         "member",
			Job:          "모바일 개발",
			Rank:         "사원",
			WeeklyHours:  float64Ptr(36),
		},
		{
			ID:           "1700000000004",
			Name:         "최유나",
			Email:        "yuna.choi@example.com",
			JoinDate:     "2020-11-23",
			Organization: "해외영업팀",
			Position:     "파트장",
			Role:         "member",
			Job:          "영업",
			Rank:         "과장",
		},
	}
	for i := range members {
		members[i].CreatedAt = now
		members[i].UpdatedAt = now
	}
	return members
}
