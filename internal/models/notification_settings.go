package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"chapelcast/internal/domain"
)

// NotificationSettings is the flat per-user record backing every derived
// preference view. Stored as a JSON column on the users row; there is exactly
// one record per user, so groups can always be rebuilt from scratch on read.
type NotificationSettings struct {
	NewContent bool `json:"new_content"`
	Reminders  bool `json:"reminders"`
	Updates    bool `json:"updates"`
	Marketing  bool `json:"marketing"`
}

// DefaultSettings is the fallback used whenever the stored record is absent
// or cannot be fetched.
func DefaultSettings() NotificationSettings {
	return NotificationSettings{
		NewContent: true,
		Reminders:  true,
		Updates:    true,
		Marketing:  false,
	}
}

// Allows reports whether the group's toggle is on.
func (s NotificationSettings) Allows(groupID string) bool {
	switch groupID {
	case domain.GroupContent:
		return s.NewContent
	case domain.GroupReminders:
		return s.Reminders
	case domain.GroupUpdates:
		return s.Updates
	case domain.GroupMarketing:
		return s.Marketing
	}
	return false
}

func (s NotificationSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *NotificationSettings) Scan(value interface{}) error {
	if value == nil {
		// Rows created before the column existed read as the defaults.
		*s = DefaultSettings()
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("notification settings: unsupported column type %T", value)
}
