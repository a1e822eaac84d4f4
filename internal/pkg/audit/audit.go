// Package audit writes a best-effort append-only trail of completed and
// rejected operations. Entries go to an audit JSONL file and are mirrored
// on the application logger. A failing audit write must never abort the
// operation that triggered it, so every path here swallows errors after
// logging them.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/trainingops/trainingops/internal/pkg/logger"
)

// Actor identifies who performed the audited operation.
type Actor struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Entry is one audit record.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"event"`
	Message   string    `json:"message,omitempty"`
	Actor     *Actor    `json:"actor,omitempty"`
	Path      string    `json:"path,omitempty"`
	Method    string    `json:"method,omitempty"`
	RemoteIP  string    `json:"remoteAddr,omitempty"`
}

// Trail appends entries to a JSONL file.
type Trail struct {
	mu   sync.Mutex
	path string
}

const (
	maxKindLen    = 120
	maxMessageLen = 2000
)

// NewTrail creates a trail writing to path, creating parent directories as
// needed. A trail with an empty path only mirrors to the logger.
func NewTrail(path string) *Trail {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to create audit directory, file trail disabled")
			path = ""
		}
	}
	return &Trail{path: path}
}

// Record writes one audit entry. Errors are logged and discarded.
func (t *Trail) Record(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.Kind = clip(entry.Kind, maxKindLen)
	entry.Message = clip(entry.Message, maxMessageLen)

	line, err := json.Marshal(entry)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to marshal audit entry")
		return
	}

	logger.Info().RawJSON("audit", line).Msg("audit")

	if t.path == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Warn().Err(err).Str("path", t.path).Msg("Failed to open audit file")
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		logger.Warn().Err(err).Str("path", t.path).Msg("Failed to append audit entry")
	}
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
