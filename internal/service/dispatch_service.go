package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"chapelcast/internal/domain"
	"chapelcast/internal/metrics"
	"chapelcast/internal/models"
)

// UserStore is the slice of the user repository the dispatcher needs.
type UserStore interface {
	GetByID(id uint) (*models.User, error)
	ListActiveIDs() ([]uint, error)
}

// FeedBroadcaster pushes payloads to a user's live websocket connections.
type FeedBroadcaster interface {
	BroadcastToUser(userID uint, payload interface{})
}

// Pusher delivers a push notification to a device token.
type Pusher interface {
	SendToUser(ctx context.Context, fcmToken, notifType, title, body string, data map[string]interface{}) error
}

// DispatchResult reports what happened to one notification.
type DispatchResult struct {
	Delivered bool   `json:"delivered"`
	Reason    string `json:"reason,omitempty"` // suppression reason when not delivered
}

// DispatchService is the server-side gate in front of the event log. Before
// a notification is recorded and sent it must pass the user's category
// toggle, every enabled quiet-hours window, and the frequency caps.
type DispatchService struct {
	users     UserStore
	settings  SettingsStore
	schedules ScheduleStore
	frequency FrequencyStore
	events    EventStore
	feed      FeedBroadcaster // may be nil
	push      Pusher          // may be nil
	cache     StatsCache      // may be nil; dispatch invalidates cached stats

	now func() time.Time
}

func NewDispatchService(users UserStore, settings SettingsStore, schedules ScheduleStore, frequency FrequencyStore, events EventStore, feed FeedBroadcaster, push Pusher, cache StatsCache) *DispatchService {
	return &DispatchService{
		users:     users,
		settings:  settings,
		schedules: schedules,
		frequency: frequency,
		events:    events,
		feed:      feed,
		push:      push,
		cache:     cache,
		now:       time.Now,
	}
}

// Notify runs the gates for one user and, when all pass, appends the event
// and fans it out to the live feed and the user's device.
func (s *DispatchService) Notify(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) (*DispatchResult, error) {
	if reason, suppressed := s.gate(userID, notifType); suppressed {
		metrics.NotificationsSuppressed.WithLabelValues(reason).Inc()
		return &DispatchResult{Delivered: false, Reason: reason}, nil
	}

	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	n := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Body:     body,
		Data:     dataJSON,
		Priority: domain.NotificationPriorityNormal,
		Source:   "dispatcher",
		SentAt:   s.now(),
	}
	if err := s.events.Create(n); err != nil {
		log.Printf("[dispatch] event append failed for user %d: %v", userID, err)
		return nil, err
	}
	metrics.NotificationsDispatched.WithLabelValues(notifType).Inc()

	if s.cache != nil {
		if err := s.cache.Delete(ctx, statsKey(userID)); err != nil {
			log.Printf("[dispatch] stats cache invalidation failed for user %d: %v", userID, err)
		}
	}
	if s.feed != nil {
		s.feed.BroadcastToUser(userID, map[string]interface{}{"type": "notification", "notification": n})
	}
	s.sendPush(ctx, userID, notifType, title, body, data)
	return &DispatchResult{Delivered: true}, nil
}

// Broadcast fans a notification out to every active user, each one passing
// through the same gates. Per-user failures are logged and skipped.
func (s *DispatchService) Broadcast(ctx context.Context, notifType, title, body string, data map[string]interface{}) (delivered int, err error) {
	ids, err := s.users.ListActiveIDs()
	if err != nil {
		log.Printf("[dispatch] broadcast user listing failed: %v", err)
		return 0, err
	}
	for _, id := range ids {
		res, err := s.Notify(ctx, id, notifType, title, body, data)
		if err != nil {
			log.Printf("[dispatch] broadcast to user %d failed: %v", id, err)
			continue
		}
		if res.Delivered {
			delivered++
		}
	}
	return delivered, nil
}

// gate returns the suppression reason, if any. Gate order: category toggle,
// quiet hours, daily cap, weekly cap.
func (s *DispatchService) gate(userID uint, notifType string) (string, bool) {
	settings, err := s.settings.GetSettings(userID)
	if err != nil {
		log.Printf("[dispatch] settings fetch failed for user %d, using defaults: %v", userID, err)
		settings = models.DefaultSettings()
	}
	if !settings.Allows(categoryForType(notifType)) {
		return domain.SuppressedPreference, true
	}

	now := s.now()
	schedules, err := s.schedules.ListByUserID(userID)
	if err != nil {
		log.Printf("[dispatch] schedule fetch failed for user %d, skipping quiet hours: %v", userID, err)
	}
	for i := range schedules {
		if schedules[i].Enabled && schedules[i].Covers(now) {
			return domain.SuppressedQuietHours, true
		}
	}

	freq, err := s.frequency.GetByUserID(userID)
	if err != nil || freq == nil || !freq.Enabled {
		// No row or caps disabled: nothing to enforce.
		return "", false
	}
	if freq.MaxPerDay > 0 {
		count, err := s.events.CountSince(userID, startOfDay(now))
		if err != nil {
			log.Printf("[dispatch] daily count failed for user %d, skipping cap: %v", userID, err)
		} else if count >= int64(freq.MaxPerDay) {
			return domain.SuppressedDailyCap, true
		}
	}
	if freq.MaxPerWeek > 0 {
		count, err := s.events.CountSince(userID, startOfWeek(now))
		if err != nil {
			log.Printf("[dispatch] weekly count failed for user %d, skipping cap: %v", userID, err)
		} else if count >= int64(freq.MaxPerWeek) {
			return domain.SuppressedWeeklyCap, true
		}
	}
	return "", false
}

func (s *DispatchService) sendPush(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.push == nil || s.users == nil {
		return
	}
	u, err := s.users.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	if err := s.push.SendToUser(ctx, u.FCMToken, notifType, title, body, data); err != nil {
		log.Printf("[dispatch] push to user %d failed: %v", userID, err)
	}
}

// categoryForType maps an event type onto a preference group.
func categoryForType(notifType string) string {
	switch notifType {
	case domain.NotificationNewSermon, domain.NotificationNewArticle:
		return domain.GroupContent
	case domain.NotificationEventReminder:
		return domain.GroupReminders
	case domain.NotificationAppUpdate:
		return domain.GroupUpdates
	case domain.NotificationCampaign:
		return domain.GroupMarketing
	}
	return domain.GroupUpdates
}

// Cap windows are calendar-based in UTC: midnight for the day, Monday
// midnight for the week.
func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday counts as the last day of the week
	}
	return day.AddDate(0, 0, -(weekday - 1))
}
