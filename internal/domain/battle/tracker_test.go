package battle

import (
	"testing"

	"showdown_stats/internal/app"
)

func TestActiveTrackerEntry(t *testing.T) {
	tracker := NewActiveTracker()

	if _, ok := tracker.Current(app.SideP1); ok {
		t.Fatal("Expected no active combatant before any entry")
	}

	tracker.OnEntry(app.SideP1, "Zapdos", 100)

	state, ok := tracker.Current(app.SideP1)
	if !ok {
		t.Fatal("Expected active combatant after entry")
	}
	if state.Nickname != "Zapdos" || state.HP != 100 {
		t.Errorf("Expected Zapdos at 100, got %q at %d", state.Nickname, state.HP)
	}

	// The other side is unaffected.
	if _, ok := tracker.Current(app.SideP2); ok {
		t.Error("Expected no active combatant on the other side")
	}
}

func TestActiveTrackerSwitchOverwrites(t *testing.T) {
	tracker := NewActiveTracker()
	tracker.OnEntry(app.SideP2, "Starmie", 100)
	tracker.OnEntry(app.SideP2, "Blissey", 80)

	state, _ := tracker.Current(app.SideP2)
	if state.Nickname != "Blissey" || state.HP != 80 {
		t.Errorf("Expected Blissey at 80 after switch, got %q at %d", state.Nickname, state.HP)
	}
}

func TestActiveTrackerHealthChange(t *testing.T) {
	tracker := NewActiveTracker()
	tracker.OnEntry(app.SideP1, "Zapdos", 100)
	tracker.OnHealthChange(app.SideP1, 60)

	state, _ := tracker.Current(app.SideP1)
	if state.Nickname != "Zapdos" {
		t.Errorf("Health change must preserve nickname, got %q", state.Nickname)
	}
	if state.HP != 60 {
		t.Errorf("Expected HP 60, got %d", state.HP)
	}
}

func TestActiveTrackerHealthChangeWithoutEntry(t *testing.T) {
	tracker := NewActiveTracker()
	tracker.OnHealthChange(app.SideP1, 60)

	if _, ok := tracker.Current(app.SideP1); ok {
		t.Error("Health change without entry must not create an active combatant")
	}
}
