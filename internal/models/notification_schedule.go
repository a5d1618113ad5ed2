package models

import (
	"time"
)

// NotificationSchedule is a user-configured quiet-hours window. A user may
// keep several schedules; overlapping windows have no precedence rule, any
// enabled window that covers the current time suppresses delivery.
type NotificationSchedule struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Name            string    `gorm:"size:64" json:"name"`
	Description     string    `gorm:"size:255" json:"description"`
	QuietHoursStart string    `gorm:"size:5;not null" json:"quiet_hours_start"` // HH:MM
	QuietHoursEnd   string    `gorm:"size:5;not null" json:"quiet_hours_end"`   // HH:MM
	Timezone        string    `gorm:"size:64;not null;default:UTC" json:"timezone"`
	Enabled         bool      `gorm:"default:true" json:"enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (NotificationSchedule) TableName() string {
	return "user_notification_schedules"
}

// Covers reports whether t falls inside the quiet-hours window, evaluated in
// the schedule's own timezone. Windows that cross midnight wrap (22:00-08:00
// covers the night). A zero-length window (start == end) covers nothing.
// Malformed times or an unknown timezone make the window cover nothing.
func (s *NotificationSchedule) Covers(t time.Time) bool {
	start, err := parseClock(s.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := parseClock(s.QuietHoursEnd)
	if err != nil {
		return false
	}
	if start == end {
		return false
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := t.In(loc)
	cur := local.Hour()*60 + local.Minute()
	if start < end {
		return cur >= start && cur < end
	}
	// Overnight window.
	return cur >= start || cur < end
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(v string) (int, error) {
	c, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return c.Hour()*60 + c.Minute(), nil
}
