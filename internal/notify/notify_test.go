package notify

import "testing"

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	if prefs.Title != "Scrann" {
		t.Fatalf("title = %q, want Scrann", prefs.Title)
	}
	if got := prefs.Events[EventSave]; got != "Saved %s" {
		t.Fatalf("save template = %q", got)
	}
	if got := prefs.Events[EventCopy]; got != "Copied %s to clipboard" {
		t.Fatalf("copy template = %q", got)
	}
}

func TestLoadPreferencesOverrides(t *testing.T) {
	t.Setenv("SCRANN_NOTIFY_TITLE", "Shots")
	t.Setenv("SCRANN_NOTIFY_SAVE_TEXT", "Wrote %s")
	prefs := LoadPreferences()
	if prefs.Title != "Shots" {
		t.Fatalf("title = %q, want Shots", prefs.Title)
	}
	if got := prefs.Events[EventSave]; got != "Wrote %s" {
		t.Fatalf("save template = %q, want Wrote %%s", got)
	}
	if got := prefs.Events[EventCopy]; got != "Copied %s to clipboard" {
		t.Fatalf("copy template changed unexpectedly: %q", got)
	}
}

func TestEventsDisabledByDefault(t *testing.T) {
	n := New(DefaultPreferences())
	if n.enabledFor(EventSave) || n.enabledFor(EventCopy) {
		t.Fatal("events should start disabled")
	}
	n.Enable(EventSave, true)
	if !n.enabledFor(EventSave) {
		t.Fatal("save event should be enabled after Enable")
	}
	n.Enable(EventSave, false)
	if n.enabledFor(EventSave) {
		t.Fatal("save event should be disabled again")
	}
}
