package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"chapelcast/internal/domain"
	"chapelcast/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// In-memory stores backing the service tests.

type fakeSettingsStore struct {
	records     map[uint]models.NotificationSettings
	getErr      error
	updateErr   error
	updateCalls int
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{records: map[uint]models.NotificationSettings{}}
}

func (f *fakeSettingsStore) GetSettings(userID uint) (models.NotificationSettings, error) {
	if f.getErr != nil {
		return models.NotificationSettings{}, f.getErr
	}
	s, ok := f.records[userID]
	if !ok {
		return models.NotificationSettings{}, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSettingsStore) UpdateSettings(userID uint, s models.NotificationSettings) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCalls++
	f.records[userID] = s
	return nil
}

type fakeScheduleStore struct {
	schedules []models.NotificationSchedule
	listErr   error
	nextID    uint
}

func (f *fakeScheduleStore) ListByUserID(userID uint) ([]models.NotificationSchedule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.NotificationSchedule
	for _, s := range f.schedules {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) Upsert(s *models.NotificationSchedule) error {
	if s.ID == 0 {
		f.nextID++
		s.ID = f.nextID
		f.schedules = append(f.schedules, *s)
		return nil
	}
	for i := range f.schedules {
		if f.schedules[i].ID == s.ID {
			f.schedules[i] = *s
			return nil
		}
	}
	f.schedules = append(f.schedules, *s)
	return nil
}

func (f *fakeScheduleStore) Delete(id, userID uint) error {
	for i := range f.schedules {
		if f.schedules[i].ID == id && f.schedules[i].UserID == userID {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeFrequencyStore struct {
	rows map[uint]models.NotificationFrequency
}

func newFakeFrequencyStore() *fakeFrequencyStore {
	return &fakeFrequencyStore{rows: map[uint]models.NotificationFrequency{}}
}

func (f *fakeFrequencyStore) GetByUserID(userID uint) (*models.NotificationFrequency, error) {
	row, ok := f.rows[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (f *fakeFrequencyStore) Upsert(freq *models.NotificationFrequency) error {
	f.rows[freq.UserID] = *freq
	return nil
}

type fakeEventStore struct {
	events    []models.Notification
	createErr error
	listErr   error
	listCalls int
}

func (f *fakeEventStore) Create(n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = uint(len(f.events) + 1)
	f.events = append(f.events, *n)
	return nil
}

func (f *fakeEventStore) ListAllByUserID(userID uint) ([]models.Notification, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Notification
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) CountSince(userID uint, since time.Time) (int64, error) {
	if f.listErr != nil {
		return 0, f.listErr
	}
	var n int64
	for _, e := range f.events {
		if e.UserID == userID && !e.SentAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeStatsCache struct {
	data map[string][]byte
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{data: map[string][]byte{}}
}

func (f *fakeStatsCache) Get(ctx context.Context, key string, dest interface{}) error {
	b, ok := f.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(b, dest)
}

func (f *fakeStatsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeStatsCache) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

type prefFixture struct {
	settings  *fakeSettingsStore
	schedules *fakeScheduleStore
	frequency *fakeFrequencyStore
	events    *fakeEventStore
	svc       *PreferenceService
}

func newPrefFixture() *prefFixture {
	f := &prefFixture{
		settings:  newFakeSettingsStore(),
		schedules: &fakeScheduleStore{},
		frequency: newFakeFrequencyStore(),
		events:    &fakeEventStore{},
	}
	f.svc = NewPreferenceService(f.settings, f.schedules, f.frequency, f.events, nil, time.Minute, 10, 50)
	return f
}

func TestGetPreferenceGroupsFallsBackToDefaults(t *testing.T) {
	f := newPrefFixture()
	f.settings.getErr = errors.New("db down")

	groups := f.svc.GetPreferenceGroups(1)
	require.Len(t, groups, 4)
	for _, g := range groups {
		assert.Equal(t, g.ID != domain.GroupMarketing, g.Enabled, "group %s", g.ID)
	}
}

func TestUpdateGroupTogglesChildren(t *testing.T) {
	f := newPrefFixture()
	f.settings.records[1] = models.DefaultSettings()

	require.NoError(t, f.svc.UpdateGroup(1, domain.GroupContent, false))

	groups := f.svc.GetPreferenceGroups(1)
	for _, g := range groups {
		if g.ID != domain.GroupContent {
			continue
		}
		assert.False(t, g.Enabled)
		for _, p := range g.Preferences {
			assert.False(t, p.Enabled, "child %s must mirror the group", p.ID)
		}
	}
}

func TestUpdateGroupUnknown(t *testing.T) {
	f := newPrefFixture()
	err := f.svc.UpdateGroup(1, "push_everything", true)
	assert.ErrorIs(t, err, ErrUnknownGroup)
	assert.Zero(t, f.settings.updateCalls, "unknown group must not write")
}

func TestUpdatePreferenceWritesGroupField(t *testing.T) {
	f := newPrefFixture()
	f.settings.records[1] = models.DefaultSettings()

	require.NoError(t, f.svc.UpdatePreference(1, domain.GroupMarketing, "campaigns", true))
	assert.True(t, f.settings.records[1].Marketing)
}

func TestUpdateGroupReadFailureDoesNotClobberOtherGroups(t *testing.T) {
	f := newPrefFixture()
	s := models.DefaultSettings()
	s.Marketing = true
	f.settings.records[1] = s

	f.settings.getErr = errors.New("connection reset")
	err := f.svc.UpdateGroup(1, domain.GroupContent, false)
	assert.Error(t, err)
	assert.Zero(t, f.settings.updateCalls, "a failed read must not trigger a write")

	f.settings.getErr = nil
	assert.True(t, f.settings.records[1].Marketing, "marketing opt-in must survive a content toggle")
}

func TestUpdateGroupMergesIntoDefaultsWhenRecordMissing(t *testing.T) {
	f := newPrefFixture()

	require.NoError(t, f.svc.UpdateGroup(7, domain.GroupMarketing, true))
	got := f.settings.records[7]
	assert.True(t, got.Marketing)
	assert.True(t, got.NewContent, "untouched fields keep their defaults")
}

func TestResetPreferences(t *testing.T) {
	f := newPrefFixture()
	f.settings.records[1] = models.NotificationSettings{Marketing: true}

	require.NoError(t, f.svc.ResetPreferences(1))
	assert.Equal(t, models.DefaultSettings(), f.settings.records[1])
}

func TestSaveScheduleValidatesClock(t *testing.T) {
	f := newPrefFixture()
	err := f.svc.SaveSchedule(&models.NotificationSchedule{
		UserID:          1,
		QuietHoursStart: "25:00",
		QuietHoursEnd:   "08:00",
	})
	assert.ErrorIs(t, err, ErrInvalidQuietHours)
	assert.Empty(t, f.schedules.schedules)
}

func TestSaveScheduleDefaultsTimezone(t *testing.T) {
	f := newPrefFixture()
	sched := &models.NotificationSchedule{
		UserID:          1,
		QuietHoursStart: "22:00",
		QuietHoursEnd:   "08:00",
		Enabled:         true,
	}
	require.NoError(t, f.svc.SaveSchedule(sched))
	assert.Equal(t, "UTC", sched.Timezone)
	assert.NotZero(t, sched.ID)
}

func TestScheduleLifecycle(t *testing.T) {
	f := newPrefFixture()
	sched := &models.NotificationSchedule{
		UserID:          1,
		Name:            "Night",
		QuietHoursStart: "22:00",
		QuietHoursEnd:   "08:00",
		Enabled:         true,
	}
	require.NoError(t, f.svc.SaveSchedule(sched))

	list, err := f.svc.ListSchedules(1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteSchedule(sched.ID, 1))
	list, err = f.svc.ListSchedules(1)
	require.NoError(t, err)
	assert.Empty(t, list, "a deleted schedule must not reappear")
}

func TestDeleteScheduleNotFound(t *testing.T) {
	f := newPrefFixture()
	err := f.svc.DeleteSchedule(99, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetFrequencyDefaultsWithoutRow(t *testing.T) {
	f := newPrefFixture()

	freq, err := f.svc.GetFrequency(1)
	require.NoError(t, err)
	assert.Equal(t, 10, freq.MaxPerDay)
	assert.Equal(t, 50, freq.MaxPerWeek)
	assert.True(t, freq.Enabled)
	assert.Empty(t, f.frequency.rows, "a read must not create the row")
}

func TestFrequencyDefaultsComeFromConfig(t *testing.T) {
	f := newPrefFixture()
	f.svc = NewPreferenceService(f.settings, f.schedules, f.frequency, f.events, nil, time.Minute, 3, 12)

	freq, err := f.svc.GetFrequency(1)
	require.NoError(t, err)
	assert.Equal(t, 3, freq.MaxPerDay)
	assert.Equal(t, 12, freq.MaxPerWeek)

	// First write seeds unset fields from the configured defaults too.
	enabled := false
	row, err := f.svc.UpdateFrequency(1, FrequencyUpdate{Enabled: &enabled})
	require.NoError(t, err)
	assert.Equal(t, 3, row.MaxPerDay)
	assert.Equal(t, 12, row.MaxPerWeek)
	assert.False(t, row.Enabled)
}

func TestUpdateFrequencyMergesAndIsIdempotent(t *testing.T) {
	f := newPrefFixture()
	three := 3

	freq, err := f.svc.UpdateFrequency(1, FrequencyUpdate{MaxPerDay: &three})
	require.NoError(t, err)
	assert.Equal(t, 3, freq.MaxPerDay)
	assert.Equal(t, 50, freq.MaxPerWeek, "unset fields keep their defaults")

	again, err := f.svc.UpdateFrequency(1, FrequencyUpdate{MaxPerDay: &three})
	require.NoError(t, err)
	assert.Equal(t, freq.MaxPerDay, again.MaxPerDay)
	assert.Len(t, f.frequency.rows, 1, "repeating the update must not create a second row")
}

func TestGetStatsEmptyLog(t *testing.T) {
	f := newPrefFixture()

	stats, err := f.svc.GetStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Read)
	assert.Zero(t, stats.ReadRate)
	assert.Empty(t, stats.ByType)
	assert.Empty(t, stats.ByDay)
	assert.Nil(t, stats.LastNotification)
}

func TestGetStatsAggregates(t *testing.T) {
	f := newPrefFixture()
	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	f.events.events = []models.Notification{
		{UserID: 1, Type: domain.NotificationNewSermon, SentAt: day1, IsRead: true},
		{UserID: 1, Type: domain.NotificationNewSermon, SentAt: day1},
		{UserID: 1, Type: domain.NotificationNewArticle, SentAt: day2},
		{UserID: 1, Type: domain.NotificationCampaign, SentAt: day2},
		{UserID: 2, Type: domain.NotificationNewSermon, SentAt: day2, IsRead: true},
	}

	stats, err := f.svc.GetStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Read)
	assert.InDelta(t, 25.0, stats.ReadRate, 0.001)
	assert.Equal(t, map[string]int{
		domain.NotificationNewSermon:  2,
		domain.NotificationNewArticle: 1,
		domain.NotificationCampaign:   1,
	}, stats.ByType)
	assert.Equal(t, map[string]int{"2025-06-01": 2, "2025-06-02": 2}, stats.ByDay)
	require.NotNil(t, stats.LastNotification)
	assert.True(t, stats.LastNotification.Equal(day2))
}

func TestGetStatsServedFromCache(t *testing.T) {
	f := newPrefFixture()
	cache := newFakeStatsCache()
	f.svc = NewPreferenceService(f.settings, f.schedules, f.frequency, f.events, cache, time.Minute, 10, 50)

	_, err := f.svc.GetStats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, f.events.listCalls)

	_, err = f.svc.GetStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.events.listCalls, "second read must hit the cache")
}

func TestGetBundleAllOrNothing(t *testing.T) {
	f := newPrefFixture()
	f.schedules.listErr = errors.New("db down")

	bundle, err := f.svc.GetBundle(context.Background(), 1)
	assert.Error(t, err)
	assert.Nil(t, bundle, "a partial bundle must never be returned")
}

func TestGetBundleLoadsEverything(t *testing.T) {
	f := newPrefFixture()
	f.settings.records[1] = models.DefaultSettings()
	require.NoError(t, f.svc.SaveSchedule(&models.NotificationSchedule{
		UserID: 1, QuietHoursStart: "22:00", QuietHoursEnd: "08:00", Enabled: true,
	}))

	bundle, err := f.svc.GetBundle(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, bundle.Groups, 4)
	assert.Len(t, bundle.Schedules, 1)
	require.NotNil(t, bundle.Frequency)
	assert.Equal(t, 10, bundle.Frequency.MaxPerDay)
	require.NotNil(t, bundle.Stats)
	assert.Zero(t, bundle.Stats.Total)
}
