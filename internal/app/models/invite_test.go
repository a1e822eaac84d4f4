package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInviteIsUsed(t *testing.T) {
	invite := &Invite{Token: "t", Code: "c"}
	assert.False(t, invite.IsUsed())

	used := time.Now()
	invite.UsedAt = &used
	assert.True(t, invite.IsUsed())
}

func TestInviteIsExpired(t *testing.T) {
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	t.Run("no expiry never expires", func(t *testing.T) {
		invite := &Invite{}
		assert.False(t, invite.IsExpired(now))
	})

	t.Run("future expiry", func(t *testing.T) {
		exp := now.Add(time.Hour)
		invite := &Invite{ExpiresAt: &exp}
		assert.False(t, invite.IsExpired(now))
	})

	t.Run("past expiry", func(t *testing.T) {
		exp := now.Add(-time.Hour)
		invite := &Invite{ExpiresAt: &exp}
		assert.True(t, invite.IsExpired(now))
	})

	t.Run("expiry instant counts as expired", func(t *testing.T) {
		exp := now
		invite := &Invite{ExpiresAt: &exp}
		assert.True(t, invite.IsExpired(now))
	})
}
