package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccountStatusIsValid(t *testing.T) {
	assert.True(t, AccountActive.IsValid())
	assert.True(t, AccountPending.IsValid())
	assert.True(t, AccountDisabled.IsValid())
	assert.False(t, AccountStatus("deleted").IsValid())
	assert.False(t, AccountStatus("").IsValid())
}

func TestEventStatusIsValid(t *testing.T) {
	assert.True(t, EventOptioned.IsValid())
	assert.True(t, EventConfirmed.IsValid())
	assert.False(t, EventStatus("Annullato").IsValid())
}

func TestVATRegimes(t *testing.T) {
	for _, regime := range VATRegimes {
		assert.True(t, IsKnownVATRegime(regime), "regime %q", regime)
	}
	assert.False(t, IsKnownVATRegime("Forfettario"))

	assert.False(t, VATRegimeRequiresNumber("R.A. secca"))
	assert.True(t, VATRegimeRequiresNumber("P.I. in ritenuta d'acconto (consulenti)"))
}

func TestEventHours(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	ev := &Event{StartAt: start, EndAt: start.Add(4*time.Hour + 30*time.Minute)}
	assert.InDelta(t, 4.5, ev.Hours(), 1e-9)

	inverted := &Event{StartAt: start, EndAt: start.Add(-time.Hour)}
	assert.Zero(t, inverted.Hours())
}

func TestUserIsActive(t *testing.T) {
	assert.True(t, (&User{Status: AccountActive}).IsActive())
	assert.False(t, (&User{Status: AccountPending}).IsActive())
	assert.False(t, (&User{Status: AccountDisabled}).IsActive())
}

func TestUserIsLocked(t *testing.T) {
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&User{}).IsLocked(now))

	future := now.Add(10 * time.Minute)
	assert.True(t, (&User{LockedUntil: &future}).IsLocked(now))

	past := now.Add(-time.Minute)
	assert.False(t, (&User{LockedUntil: &past}).IsLocked(now))
}

func TestInstructorDisplayName(t *testing.T) {
	i := &Instructor{FirstName: "Mario", LastName: "Rossi"}
	assert.Equal(t, "Mario Rossi", i.DisplayName())
}
