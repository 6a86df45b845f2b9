package view

import (
	"strconv"
	"time"

	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

// HeaderLabels builds the grid column labels for the week containing now
// and returns the column index of today, or -1 on weekends.
func HeaderLabels(now time.Time) ([]string, int) {
	monday, _ := dateutil.WeekRange(now)
	labels := make([]string, 0, len(schedule.Days)+1)
	labels = append(labels, monday.Format("Jan"))

	todayCol := -1
	today, isWeekday := dateutil.DayOf(now)
	for i, day := range schedule.Days {
		date := monday.AddDate(0, 0, i)
		label := string(day) + " " + strconv.Itoa(date.Day())
		if isWeekday && day == today {
			label = "*" + label + "*"
			todayCol = i + 1
		}
		labels = append(labels, label)
	}
	return labels, todayCol
}
