package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreset_CanModify(t *testing.T) {
	preset := &Preset{CreatorID: "user-owner"}

	owner := &User{Syncable: Syncable{ID: "user-owner"}, Role: RoleCreator}
	other := &User{Syncable: Syncable{ID: "user-other"}, Role: RoleCreator}
	admin := &User{Syncable: Syncable{ID: "user-admin"}, Role: RoleAdmin}

	assert.True(t, preset.CanModify(owner))
	assert.False(t, preset.CanModify(other))
	assert.True(t, preset.CanModify(admin))
}

func TestTriggerCondition_MatchesPage(t *testing.T) {
	tests := []struct {
		name string
		cond TriggerCondition
		page int
		want bool
	}{
		{"no range matches everywhere", TriggerCondition{}, 999, true},
		{"inside range", TriggerCondition{PageRange: &PageRange{From: 10, To: 20}}, 15, true},
		{"at lower bound", TriggerCondition{PageRange: &PageRange{From: 10, To: 20}}, 10, true},
		{"at upper bound", TriggerCondition{PageRange: &PageRange{From: 10, To: 20}}, 20, true},
		{"below range", TriggerCondition{PageRange: &PageRange{From: 10, To: 20}}, 9, false},
		{"above range", TriggerCondition{PageRange: &PageRange{From: 10, To: 20}}, 21, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.MatchesPage(tt.page))
		})
	}
}

func TestMapEntry_Before(t *testing.T) {
	entry := &MapEntry{Chapter: 2, PageFraction: 0.5}

	assert.True(t, entry.Before(2, 0.5), "breakpoint position itself is covered")
	assert.True(t, entry.Before(2, 0.9))
	assert.True(t, entry.Before(3, 0.0), "later chapter wins regardless of fraction")
	assert.False(t, entry.Before(2, 0.4))
	assert.False(t, entry.Before(1, 0.9))
}
