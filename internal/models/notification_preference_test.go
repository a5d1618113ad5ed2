package models

import (
	"testing"

	"chapelcast/internal/domain"
)

func TestExpandGroupsFixedSet(t *testing.T) {
	groups := ExpandGroups(DefaultSettings())
	if len(groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(groups))
	}
	wantOrder := []string{domain.GroupContent, domain.GroupReminders, domain.GroupUpdates, domain.GroupMarketing}
	for i, id := range wantOrder {
		if groups[i].ID != id {
			t.Errorf("group %d: expected id %q, got %q", i, id, groups[i].ID)
		}
	}
}

func TestExpandGroupsDefaults(t *testing.T) {
	groups := ExpandGroups(DefaultSettings())
	for _, g := range groups {
		wantEnabled := g.ID != domain.GroupMarketing
		if g.Enabled != wantEnabled {
			t.Errorf("group %s: expected enabled=%v, got %v", g.ID, wantEnabled, g.Enabled)
		}
	}
}

func TestExpandGroupsChildrenMirrorParent(t *testing.T) {
	s := DefaultSettings()
	s.NewContent = false
	s.Marketing = true
	groups := ExpandGroups(s)
	for _, g := range groups {
		if len(g.Preferences) == 0 {
			t.Errorf("group %s: expected sub-preferences", g.ID)
		}
		for _, p := range g.Preferences {
			if p.Enabled != g.Enabled {
				t.Errorf("group %s pref %s: enabled=%v, parent=%v", g.ID, p.ID, p.Enabled, g.Enabled)
			}
			if p.Category != g.ID {
				t.Errorf("pref %s: expected category %q, got %q", p.ID, g.ID, p.Category)
			}
		}
	}
}

func TestExpandGroupsRequiredFlag(t *testing.T) {
	groups := ExpandGroups(DefaultSettings())
	for _, g := range groups {
		for _, p := range g.Preferences {
			wantRequired := p.ID == "new_sermons"
			if p.Required != wantRequired {
				t.Errorf("pref %s: expected required=%v", p.ID, wantRequired)
			}
		}
	}
}

func TestExpandGroupsPure(t *testing.T) {
	s := NotificationSettings{NewContent: true, Reminders: false, Updates: true, Marketing: false}
	a := ExpandGroups(s)
	b := ExpandGroups(s)
	for i := range a {
		if a[i].Enabled != b[i].Enabled {
			t.Fatalf("group %s: expansion not deterministic", a[i].ID)
		}
	}
}
