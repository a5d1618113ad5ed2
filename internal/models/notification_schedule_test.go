package models

import (
	"testing"
	"time"
)

func TestScheduleCovers(t *testing.T) {
	at := func(hour, min int) time.Time {
		return time.Date(2025, 6, 15, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		start, end string
		tz         string
		at         time.Time
		want       bool
	}{
		{"inside same-day window", "09:00", "17:00", "UTC", at(12, 0), true},
		{"before same-day window", "09:00", "17:00", "UTC", at(8, 59), false},
		{"start is inclusive", "09:00", "17:00", "UTC", at(9, 0), true},
		{"end is exclusive", "09:00", "17:00", "UTC", at(17, 0), false},
		{"overnight covers late evening", "22:00", "08:00", "UTC", at(23, 30), true},
		{"overnight covers early morning", "22:00", "08:00", "UTC", at(6, 0), true},
		{"overnight excludes midday", "22:00", "08:00", "UTC", at(12, 0), false},
		{"zero-length window covers nothing", "09:00", "09:00", "UTC", at(9, 0), false},
		{"malformed start covers nothing", "9am", "17:00", "UTC", at(12, 0), false},
		{"malformed end covers nothing", "09:00", "25:00", "UTC", at(12, 0), false},
		// 12:00 UTC is 08:00 in New York during DST, outside 09:00-17:00 local.
		{"evaluated in schedule timezone", "09:00", "17:00", "America/New_York", at(12, 0), false},
		{"unknown timezone falls back to UTC", "09:00", "17:00", "Mars/Olympus", at(12, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &NotificationSchedule{
				QuietHoursStart: tt.start,
				QuietHoursEnd:   tt.end,
				Timezone:        tt.tz,
			}
			if got := s.Covers(tt.at); got != tt.want {
				t.Errorf("Covers(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
