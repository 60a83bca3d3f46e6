package handlers

import (
	"time"

	"github.com/meetsched/meeting-scheduler/internal/models"
	"github.com/meetsched/meeting-scheduler/internal/timezone"
)

// resolve the host's timezone, falling back to UTC
func locationFromHost(host *models.User) *time.Location {
	if host != nil {
		return timezone.Location(host.Timezone)
	}
	return time.UTC
}

func parseDateInHost(host *models.User, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromHost(host),
	)
}
