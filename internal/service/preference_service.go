package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chapelcast/internal/domain"
	"chapelcast/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUnknownGroup      = errors.New("unknown preference group")
	ErrInvalidQuietHours = errors.New("quiet hours must be HH:MM")
)

// SettingsStore is the persistence seam for the flat notification settings
// record.
type SettingsStore interface {
	GetSettings(userID uint) (models.NotificationSettings, error)
	UpdateSettings(userID uint, s models.NotificationSettings) error
}

type ScheduleStore interface {
	ListByUserID(userID uint) ([]models.NotificationSchedule, error)
	Upsert(s *models.NotificationSchedule) error
	Delete(id, userID uint) error
}

type FrequencyStore interface {
	GetByUserID(userID uint) (*models.NotificationFrequency, error)
	Upsert(f *models.NotificationFrequency) error
}

// EventStore is the read side of the notification event log.
type EventStore interface {
	Create(n *models.Notification) error
	ListAllByUserID(userID uint) ([]models.Notification, error)
	CountSince(userID uint, since time.Time) (int64, error)
}

// StatsCache is an optional cache for computed statistics. May be nil.
type StatsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NotificationStats is the aggregate computed from the user's event log.
type NotificationStats struct {
	Total            int            `json:"total"`
	Read             int            `json:"read"`
	ReadRate         float64        `json:"read_rate"`
	ByType           map[string]int `json:"by_type"`
	ByDay            map[string]int `json:"by_day"`
	LastNotification *time.Time     `json:"last_notification"`
}

// PreferenceBundle is the aggregate the app loads in one request. The load
// is all-or-nothing: if any of the four reads fails, nothing is returned.
type PreferenceBundle struct {
	Groups    []models.NotificationPreferenceGroup `json:"groups"`
	Schedules []models.NotificationSchedule        `json:"schedules"`
	Frequency *models.NotificationFrequency        `json:"frequency"`
	Stats     *NotificationStats                   `json:"stats"`
}

// PreferenceService translates the flat per-user settings record into the
// grouped view the app renders, applies edits back, manages quiet-hour
// schedules and frequency caps, and aggregates the event log into stats.
// Stateless: every read rebuilds from storage.
type PreferenceService struct {
	settings  SettingsStore
	schedules ScheduleStore
	frequency FrequencyStore
	events    EventStore
	cache     StatsCache // may be nil

	statsTTL time.Duration

	// Caps applied when the user has no frequency row yet.
	defaultMaxPerDay  int
	defaultMaxPerWeek int
}

func NewPreferenceService(settings SettingsStore, schedules ScheduleStore, frequency FrequencyStore, events EventStore, cache StatsCache, statsTTL time.Duration, defaultMaxPerDay, defaultMaxPerWeek int) *PreferenceService {
	if statsTTL <= 0 {
		statsTTL = time.Minute
	}
	if defaultMaxPerDay <= 0 {
		defaultMaxPerDay = 10
	}
	if defaultMaxPerWeek <= 0 {
		defaultMaxPerWeek = 50
	}
	return &PreferenceService{
		settings:          settings,
		schedules:         schedules,
		frequency:         frequency,
		events:            events,
		cache:             cache,
		statsTTL:          statsTTL,
		defaultMaxPerDay:  defaultMaxPerDay,
		defaultMaxPerWeek: defaultMaxPerWeek,
	}
}

func (s *PreferenceService) defaultFrequency(userID uint) *models.NotificationFrequency {
	return &models.NotificationFrequency{
		UserID:     userID,
		MaxPerDay:  s.defaultMaxPerDay,
		MaxPerWeek: s.defaultMaxPerWeek,
		Enabled:    true,
	}
}

// GetPreferenceGroups returns the four fixed groups. A missing record or a
// fetch failure falls back to the defaults instead of surfacing an error.
func (s *PreferenceService) GetPreferenceGroups(userID uint) []models.NotificationPreferenceGroup {
	settings, err := s.settings.GetSettings(userID)
	if err != nil {
		log.Printf("[preferences] settings fetch failed for user %d, using defaults: %v", userID, err)
		settings = models.DefaultSettings()
	}
	return models.ExpandGroups(settings)
}

// UpdatePreference flips the flat field the group maps to. Sibling
// sub-preferences change with it: they are derived, not stored. The
// preference id is accepted for API symmetry but only the group decides
// which field is written; required preferences are no different server-side.
func (s *PreferenceService) UpdatePreference(userID uint, groupID, preferenceID string, enabled bool) error {
	_ = preferenceID
	return s.UpdateGroup(userID, groupID, enabled)
}

// UpdateGroup sets the group's flat field, which switches every child at
// once. The write is a read-modify-write of the whole record, so a read that
// fails for any reason other than a missing record must surface: merging the
// toggle into the defaults instead would clobber the user's other groups.
func (s *PreferenceService) UpdateGroup(userID uint, groupID string, enabled bool) error {
	settings, err := s.settings.GetSettings(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[preferences] settings fetch failed for user %d: %v", userID, err)
			return err
		}
		// No record yet: the toggle merges into the defaults.
		settings = models.DefaultSettings()
	}
	if err := applyGroup(&settings, groupID, enabled); err != nil {
		return err
	}
	if err := s.settings.UpdateSettings(userID, settings); err != nil {
		log.Printf("[preferences] settings update failed for user %d: %v", userID, err)
		return err
	}
	return nil
}

// ResetPreferences overwrites the record with the hard-coded defaults.
func (s *PreferenceService) ResetPreferences(userID uint) error {
	if err := s.settings.UpdateSettings(userID, models.DefaultSettings()); err != nil {
		log.Printf("[preferences] reset failed for user %d: %v", userID, err)
		return err
	}
	return nil
}

func applyGroup(s *models.NotificationSettings, groupID string, enabled bool) error {
	switch groupID {
	case domain.GroupContent:
		s.NewContent = enabled
	case domain.GroupReminders:
		s.Reminders = enabled
	case domain.GroupUpdates:
		s.Updates = enabled
	case domain.GroupMarketing:
		s.Marketing = enabled
	default:
		return ErrUnknownGroup
	}
	return nil
}

func (s *PreferenceService) ListSchedules(userID uint) ([]models.NotificationSchedule, error) {
	return s.schedules.ListByUserID(userID)
}

// SaveSchedule upserts a quiet-hours window. Overlap between a user's
// schedules is allowed; no precedence is applied.
func (s *PreferenceService) SaveSchedule(sched *models.NotificationSchedule) error {
	if _, err := time.Parse("15:04", sched.QuietHoursStart); err != nil {
		return ErrInvalidQuietHours
	}
	if _, err := time.Parse("15:04", sched.QuietHoursEnd); err != nil {
		return ErrInvalidQuietHours
	}
	if sched.Timezone == "" {
		sched.Timezone = "UTC"
	}
	if err := s.schedules.Upsert(sched); err != nil {
		log.Printf("[preferences] schedule save failed for user %d: %v", sched.UserID, err)
		return err
	}
	return nil
}

// DeleteSchedule hard-deletes. A missing id surfaces the store's native
// not-found error.
func (s *PreferenceService) DeleteSchedule(id, userID uint) error {
	if err := s.schedules.Delete(id, userID); err != nil {
		log.Printf("[preferences] schedule delete failed for user %d: %v", userID, err)
		return err
	}
	return nil
}

// FrequencyUpdate carries the partial fields of a frequency edit. Nil fields
// keep the current (or default) value.
type FrequencyUpdate struct {
	MaxPerDay  *int  `json:"max_per_day"`
	MaxPerWeek *int  `json:"max_per_week"`
	Enabled    *bool `json:"enabled"`
}

func (s *PreferenceService) GetFrequency(userID uint) (*models.NotificationFrequency, error) {
	f, err := s.frequency.GetByUserID(userID)
	if err != nil {
		// Absent row reads as the defaults; the row is only created on first write.
		return s.defaultFrequency(userID), nil
	}
	return f, nil
}

// UpdateFrequency merges the partial update into the user's singleton row,
// creating it with defaults on first write. Idempotent: repeating the same
// payload leaves a single row.
func (s *PreferenceService) UpdateFrequency(userID uint, upd FrequencyUpdate) (*models.NotificationFrequency, error) {
	f, err := s.frequency.GetByUserID(userID)
	if err != nil {
		f = s.defaultFrequency(userID)
	}
	if upd.MaxPerDay != nil {
		f.MaxPerDay = *upd.MaxPerDay
	}
	if upd.MaxPerWeek != nil {
		f.MaxPerWeek = *upd.MaxPerWeek
	}
	if upd.Enabled != nil {
		f.Enabled = *upd.Enabled
	}
	if err := s.frequency.Upsert(f); err != nil {
		log.Printf("[preferences] frequency update failed for user %d: %v", userID, err)
		return nil, err
	}
	return f, nil
}

// GetStats scans the user's event log and aggregates counts, the read rate,
// per-type and per-day histograms, and the latest sent time. Served from the
// cache when one is configured.
func (s *PreferenceService) GetStats(ctx context.Context, userID uint) (*NotificationStats, error) {
	key := statsKey(userID)
	if s.cache != nil {
		var cached NotificationStats
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}
	events, err := s.events.ListAllByUserID(userID)
	if err != nil {
		log.Printf("[preferences] stats scan failed for user %d: %v", userID, err)
		return nil, err
	}
	stats := aggregateStats(events)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats, s.statsTTL); err != nil {
			log.Printf("[preferences] stats cache write failed for user %d: %v", userID, err)
		}
	}
	return stats, nil
}

// GetBundle loads groups, schedules, frequency and stats together. The load
// is deliberately all-or-nothing: the first failure fails the bundle even if
// the other reads would have succeeded.
func (s *PreferenceService) GetBundle(ctx context.Context, userID uint) (*PreferenceBundle, error) {
	groups := s.GetPreferenceGroups(userID)
	schedules, err := s.schedules.ListByUserID(userID)
	if err != nil {
		log.Printf("[preferences] bundle load failed for user %d: %v", userID, err)
		return nil, err
	}
	freq, err := s.GetFrequency(userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PreferenceBundle{
		Groups:    groups,
		Schedules: schedules,
		Frequency: freq,
		Stats:     stats,
	}, nil
}

func aggregateStats(events []models.Notification) *NotificationStats {
	stats := &NotificationStats{
		ByType: map[string]int{},
		ByDay:  map[string]int{},
	}
	for i := range events {
		e := &events[i]
		stats.Total++
		if e.IsRead {
			stats.Read++
		}
		stats.ByType[e.Type]++
		stats.ByDay[e.SentAt.Format("2006-01-02")]++
		if stats.LastNotification == nil || e.SentAt.After(*stats.LastNotification) {
			t := e.SentAt
			stats.LastNotification = &t
		}
	}
	if stats.Total > 0 {
		stats.ReadRate = float64(stats.Read) / float64(stats.Total) * 100
	}
	return stats
}

func statsKey(userID uint) string {
	return fmt.Sprintf("stats:user:%d", userID)
}
