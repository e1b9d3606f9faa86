package fixtures

import (
	"time"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/schedule"
)

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

func workBlock(start, end string) schedule.TimeBlock {
	return schedule.TimeBlock{Title: schedule.DefaultEventTitle, Start: start, End: end}
}

func dayOffBlock() schedule.TimeBlock {
	return schedule.TimeBlock{Title: "휴무", AllDay: true, Color: "#9e9e9e"}
}

// ============================================================================
// DEFAULT WEEKLY TEMPLATE
// ============================================================================

// DefaultWeeklyTemplate is used for members without their own schedule entries:
// weekdays 09:00-18:00, Saturday mornings, Sunday off.
func DefaultWeeklyTemplate() schedule.WeeklyTemplate {
	template := schedule.WeeklyTemplate{}
	for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		template[day] = []schedule.TimeBlock{workBlock("09:00", "18:00")}
	}
	template[time.Saturday] = []schedule.TimeBlock{workBlock("09:00", "13:00")}
	template[time.Sunday] = []schedule.TimeBlock{dayOffBlock()}
	return template
}
