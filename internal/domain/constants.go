package domain

const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// Preference group IDs. The set is fixed: groups are a pure projection of
// the flat per-user settings record, never stored on their own.
const (
	GroupContent   = "content"
	GroupReminders = "reminders"
	GroupUpdates   = "updates"
	GroupMarketing = "marketing"
)

// Notification event types recorded in the event log.
const (
	NotificationNewSermon     = "NEW_SERMON"
	NotificationNewArticle    = "NEW_ARTICLE"
	NotificationEventReminder = "EVENT_REMINDER"
	NotificationAppUpdate     = "APP_UPDATE"
	NotificationCampaign      = "CAMPAIGN"
)

// Dispatch suppression reasons (also used as metric labels).
const (
	SuppressedPreference = "preference_off"
	SuppressedQuietHours = "quiet_hours"
	SuppressedDailyCap   = "daily_cap"
	SuppressedWeeklyCap  = "weekly_cap"
)

const (
	NotificationPriorityNormal = "NORMAL"
	NotificationPriorityHigh   = "HIGH"
)

const (
	ContentStatusDraft     = "DRAFT"
	ContentStatusPublished = "PUBLISHED"
)
