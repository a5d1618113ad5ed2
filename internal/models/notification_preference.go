package models

import "chapelcast/internal/domain"

// NotificationPreference is a derived leaf toggle shown to the app. Required
// preferences are rendered but their toggle is disabled client-side; the
// server stores nothing for them beyond the group boolean.
type NotificationPreference struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Enabled     bool   `json:"enabled"`
	Category    string `json:"category"`
	Required    bool   `json:"required,omitempty"`
}

// NotificationPreferenceGroup is a derived, read-only bundle of related
// toggles. Never persisted; rebuilt from NotificationSettings on every read.
type NotificationPreferenceGroup struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Icon        string                   `json:"icon"`
	Enabled     bool                     `json:"enabled"`
	Preferences []NotificationPreference `json:"preferences"`
}

type preferenceDef struct {
	id, title, description, icon string
	required                     bool
}

type groupDef struct {
	id, title, description, icon string
	preferences                  []preferenceDef
}

// The four groups and their sub-preferences are fixed. Sub-preferences carry
// no independent state: their enabled value always mirrors the parent group.
var groupDefs = []groupDef{
	{
		id: domain.GroupContent, title: "New Content", icon: "play-circle",
		description: "Sermons, series and articles as they are published",
		preferences: []preferenceDef{
			{id: "new_sermons", title: "New sermons", description: "When a new sermon is published", icon: "mic", required: true},
			{id: "new_articles", title: "New articles", description: "When a new article is published", icon: "file-text"},
			{id: "new_series", title: "New series", description: "When a new sermon series begins", icon: "layers"},
		},
	},
	{
		id: domain.GroupReminders, title: "Reminders", icon: "bell",
		description: "Service times and saved events",
		preferences: []preferenceDef{
			{id: "service_reminders", title: "Service reminders", description: "Before scheduled services", icon: "clock"},
			{id: "event_reminders", title: "Event reminders", description: "Before events you saved", icon: "calendar"},
		},
	},
	{
		id: domain.GroupUpdates, title: "Updates", icon: "info",
		description: "Announcements from your church and the app",
		preferences: []preferenceDef{
			{id: "church_announcements", title: "Church announcements", description: "News from your congregation", icon: "home"},
			{id: "app_updates", title: "App updates", description: "New features and improvements", icon: "smartphone"},
		},
	},
	{
		id: domain.GroupMarketing, title: "Marketing", icon: "tag",
		description: "Occasional recommendations and campaigns",
		preferences: []preferenceDef{
			{id: "recommendations", title: "Recommendations", description: "Content picked for you", icon: "star"},
			{id: "campaigns", title: "Campaigns", description: "Seasonal campaigns and giving drives", icon: "gift"},
		},
	},
}

// ExpandGroups projects the flat settings record into the four fixed groups.
// Pure function: same settings in, same groups out.
func ExpandGroups(s NotificationSettings) []NotificationPreferenceGroup {
	groups := make([]NotificationPreferenceGroup, 0, len(groupDefs))
	for _, def := range groupDefs {
		enabled := s.Allows(def.id)
		prefs := make([]NotificationPreference, 0, len(def.preferences))
		for _, p := range def.preferences {
			prefs = append(prefs, NotificationPreference{
				ID:          p.id,
				Title:       p.title,
				Description: p.description,
				Icon:        p.icon,
				Enabled:     enabled,
				Category:    def.id,
				Required:    p.required,
			})
		}
		groups = append(groups, NotificationPreferenceGroup{
			ID:          def.id,
			Title:       def.title,
			Description: def.description,
			Icon:        def.icon,
			Enabled:     enabled,
			Preferences: prefs,
		})
	}
	return groups
}
