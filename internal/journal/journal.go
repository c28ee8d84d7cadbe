// Package journal stores the tracking calls made through a recorder.
package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kyleseneker/matomo-contract/internal/config"
)

// Call stores one invocation of a tracker operation. Result is set for
// accessors only.
type Call struct {
	ID        uuid.UUID `json:"id"`
	Method    string    `json:"method"`
	Args      []any     `json:"args"`
	Result    any       `json:"result,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewCall builds a call with a fresh id. Omitted optional arguments should be
// passed as nil.
func NewCall(at time.Time, method string, args ...any) Call {
	if args == nil {
		args = []any{}
	}
	return Call{
		ID:        uuid.New(),
		Method:    method,
		Args:      args,
		Timestamp: at.UTC(),
	}
}

// Journal defines the interface for recording calls and reading them back.
type Journal interface {
	Append(call Call) error
	// Calls returns every call in the order it was appended.
	Calls() ([]Call, error)
	// LastCall returns the most recent call of method.
	LastCall(method string) (Call, bool)
	Close() error
}

// Open builds the journal selected by cfg.
func Open(cfg *config.Config) (Journal, error) {
	switch cfg.JournalType {
	case "memory":
		return NewMemoryJournal(), nil
	case "file":
		return NewFileJournal(cfg.JournalDir)
	case "sql":
		return NewSQLJournal(cfg.JournalDriver, cfg.JournalDSN)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.JournalType)
	}
}
