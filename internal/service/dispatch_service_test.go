package service

import (
	"context"
	"testing"
	"time"

	"chapelcast/internal/domain"
	"chapelcast/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	ids   []uint
	users map[uint]*models.User
}

func (f *fakeUserStore) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserStore) ListActiveIDs() ([]uint, error) {
	return f.ids, nil
}

type fakeFeed struct {
	sent map[uint][]interface{}
}

func (f *fakeFeed) BroadcastToUser(userID uint, payload interface{}) {
	if f.sent == nil {
		f.sent = map[uint][]interface{}{}
	}
	f.sent[userID] = append(f.sent[userID], payload)
}

type dispatchFixture struct {
	users     *fakeUserStore
	settings  *fakeSettingsStore
	schedules *fakeScheduleStore
	frequency *fakeFrequencyStore
	events    *fakeEventStore
	feed      *fakeFeed
	svc       *DispatchService
}

func newDispatchFixture(now time.Time) *dispatchFixture {
	f := &dispatchFixture{
		users:     &fakeUserStore{users: map[uint]*models.User{}},
		settings:  newFakeSettingsStore(),
		schedules: &fakeScheduleStore{},
		frequency: newFakeFrequencyStore(),
		events:    &fakeEventStore{},
		feed:      &fakeFeed{},
	}
	f.svc = NewDispatchService(f.users, f.settings, f.schedules, f.frequency, f.events, f.feed, nil, nil)
	f.svc.now = func() time.Time { return now }
	return f
}

var noon = time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC) // a Monday

func TestNotifySuppressedByCategory(t *testing.T) {
	f := newDispatchFixture(noon)
	// Marketing is off by default.
	res, err := f.svc.Notify(context.Background(), 1, domain.NotificationCampaign, "Sale", "", nil)
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Equal(t, domain.SuppressedPreference, res.Reason)
	assert.Empty(t, f.events.events, "suppressed notifications are not logged")
}

func TestNotifySuppressedByQuietHours(t *testing.T) {
	f := newDispatchFixture(time.Date(2025, 6, 16, 23, 0, 0, 0, time.UTC))
	f.schedules.schedules = []models.NotificationSchedule{
		{ID: 1, UserID: 1, QuietHoursStart: "22:00", QuietHoursEnd: "08:00", Timezone: "UTC", Enabled: true},
	}
	res, err := f.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Equal(t, domain.SuppressedQuietHours, res.Reason)
}

func TestNotifyDisabledScheduleDoesNotSuppress(t *testing.T) {
	f := newDispatchFixture(time.Date(2025, 6, 16, 23, 0, 0, 0, time.UTC))
	f.schedules.schedules = []models.NotificationSchedule{
		{ID: 1, UserID: 1, QuietHoursStart: "22:00", QuietHoursEnd: "08:00", Timezone: "UTC", Enabled: false},
	}
	res, err := f.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.True(t, res.Delivered)
}

func TestNotifyQuietHoursUseScheduleTimezone(t *testing.T) {
	// 12:00 UTC is 08:00 in New York during DST: outside a 09:00-17:00 local window.
	f := newDispatchFixture(noon)
	f.schedules.schedules = []models.NotificationSchedule{
		{ID: 1, UserID: 1, QuietHoursStart: "09:00", QuietHoursEnd: "17:00", Timezone: "America/New_York", Enabled: true},
	}
	res, err := f.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.True(t, res.Delivered)

	// 16:00 UTC is 12:00 local: inside the window.
	f2 := newDispatchFixture(time.Date(2025, 6, 16, 16, 0, 0, 0, time.UTC))
	f2.schedules.schedules = f.schedules.schedules
	res, err = f2.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Equal(t, domain.SuppressedQuietHours, res.Reason)
}

func TestNotifyDailyCap(t *testing.T) {
	f := newDispatchFixture(noon)
	f.frequency.rows[1] = models.NotificationFrequency{UserID: 1, MaxPerDay: 2, MaxPerWeek: 50, Enabled: true}
	f.events.events = []models.Notification{
		{UserID: 1, Type: domain.NotificationNewSermon, SentAt: noon.Add(-3 * time.Hour)},
		{UserID: 1, Type: domain.NotificationNewArticle, SentAt: noon.Add(-1 * time.Hour)},
	}
	res, err := f.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Equal(t, domain.SuppressedDailyCap, res.Reason)
}

func TestNotifyDailyCapResetsAtMidnight(t *testing.T) {
	f := newDispatchFixture(noon)
	f.frequency.rows[1] = models.NotificationFrequency{UserID: 1, MaxPerDay: 2, MaxPerWeek: 0, Enabled: true}
	// Both events fell on the previous calendar day.
	f.events.events = []models.Notification{
		{UserID: 1, SentAt: noon.Add(-13 * time.Hour)},
		{UserID: 1, SentAt: noon.Add(-14 * time.Hour)},
	}
	res, err := f.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.True(t, res.Delivered)
}

func TestNotifyWeeklyCap(t *testing.T) {
	// Wednesday noon; the week started Monday 2025-06-16.
	wed := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	f := newDispatchFixture(wed)
	f.frequency.rows[1] = models.NotificationFrequency{UserID: 1, MaxPerDay: 0, MaxPerWeek: 2, Enabled: true}
	f.events.events = []models.Notification{
		{UserID: 1, SentAt: noon},                     // Monday
		{UserID: 1, SentAt: noon.Add(24 * time.Hour)}, // Tuesday
	}
	res, err := f.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Equal(t, domain.SuppressedWeeklyCap, res.Reason)

	// The same count from last week does not count against this week.
	f.events.events = []models.Notification{
		{UserID: 1, SentAt: noon.Add(-72 * time.Hour)},
		{UserID: 1, SentAt: noon.Add(-96 * time.Hour)},
	}
	res, err = f.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.True(t, res.Delivered)
}

func TestNotifyDisabledFrequencyIgnoresCaps(t *testing.T) {
	f := newDispatchFixture(noon)
	f.frequency.rows[1] = models.NotificationFrequency{UserID: 1, MaxPerDay: 1, MaxPerWeek: 1, Enabled: false}
	f.events.events = []models.Notification{
		{UserID: 1, SentAt: noon.Add(-1 * time.Hour)},
		{UserID: 1, SentAt: noon.Add(-2 * time.Hour)},
	}
	res, err := f.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.True(t, res.Delivered)
}

func TestNotifyDeliveredAppendsEventAndFansOut(t *testing.T) {
	f := newDispatchFixture(noon)
	res, err := f.svc.Notify(context.Background(), 1, domain.NotificationNewSermon, "New sermon", "Grace by Dr. Amani", map[string]interface{}{"sermon_id": 7})
	require.NoError(t, err)
	assert.True(t, res.Delivered)
	assert.Empty(t, res.Reason)

	require.Len(t, f.events.events, 1)
	e := f.events.events[0]
	assert.Equal(t, domain.NotificationNewSermon, e.Type)
	assert.Equal(t, "dispatcher", e.Source)
	assert.True(t, e.SentAt.Equal(noon))
	assert.Contains(t, e.Data, "sermon_id")

	assert.Len(t, f.feed.sent[1], 1, "the live feed must get the event")
}

func TestBroadcastCountsOnlyDeliveries(t *testing.T) {
	f := newDispatchFixture(noon)
	f.users.ids = []uint{1, 2, 3}
	// User 2 turned content off; the others ride the defaults.
	f.settings.records[2] = models.NotificationSettings{NewContent: false, Reminders: true, Updates: true}

	delivered, err := f.svc.Broadcast(context.Background(), domain.NotificationNewSermon, "New sermon", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
	assert.Len(t, f.events.events, 2)
}
