package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "audit.log")
	trail := NewTrail(path)

	trail.Record(Entry{
		Kind:    "login_succeeded",
		Message: "user logged in",
		Actor:   &Actor{ID: 42, Username: "mario.rossi0001", Role: "INSTRUCTOR"},
		Path:    "/api/v1/auth/login",
		Method:  "POST",
	})
	trail.Record(Entry{Kind: "login_failed"})

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, entries, 2)

	assert.Equal(t, "login_succeeded", entries[0].Kind)
	assert.Equal(t, "user logged in", entries[0].Message)
	require.NotNil(t, entries[0].Actor)
	assert.Equal(t, int64(42), entries[0].Actor.ID)
	assert.False(t, entries[0].Timestamp.IsZero())

	assert.Equal(t, "login_failed", entries[1].Kind)
	assert.Nil(t, entries[1].Actor)
}

func TestTrailClipsOversizedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	trail := NewTrail(path)

	trail.Record(Entry{
		Kind:    strings.Repeat("k", maxKindLen+50),
		Message: strings.Repeat("m", maxMessageLen+50),
	})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var e Entry
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Len(t, e.Kind, maxKindLen)
	assert.Len(t, e.Message, maxMessageLen)
}

func TestTrailWithoutPathDoesNotPanic(t *testing.T) {
	trail := NewTrail("")
	trail.Record(Entry{Kind: "noop", Timestamp: time.Now()})
}
