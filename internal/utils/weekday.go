package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/tracker/internal/models"
)

var weekdayNames = map[string]models.Weekday{
	"sun":       models.Sunday,
	"sunday":    models.Sunday,
	"mon":       models.Monday,
	"monday":    models.Monday,
	"tue":       models.Tuesday,
	"tuesday":   models.Tuesday,
	"wed":       models.Wednesday,
	"wednesday": models.Wednesday,
	"thu":       models.Thursday,
	"thursday":  models.Thursday,
	"fri":       models.Friday,
	"friday":    models.Friday,
	"sat":       models.Saturday,
	"saturday":  models.Saturday,
}

// ParseSchedule parses a comma-separated list of weekdays into a Schedule.
// Names ("mon", "monday"), ordinals (0=Sunday..6=Saturday) and the shortcuts
// "daily"/"everyday" are accepted. An empty string yields an empty schedule.
func ParseSchedule(s string) (models.Schedule, error) {
	var schedule models.Schedule
	if strings.TrimSpace(s) == "" {
		return schedule, nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		switch part {
		case "daily", "everyday":
			schedule = models.EveryDay
			continue
		}
		if wd, ok := weekdayNames[part]; ok {
			schedule = schedule.With(wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || !models.Weekday(num).Valid() {
			return 0, fmt.Errorf("invalid weekday: %s", part)
		}
		schedule = schedule.With(models.Weekday(num))
	}

	return schedule, nil
}
