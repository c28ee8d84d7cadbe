package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kyleseneker/matomo-contract/internal/logging"
)

const defaultFileName = "matomo-contract-calls.json"

// FileJournal persists calls to a JSON file.
type FileJournal struct {
	mu       sync.RWMutex
	filePath string
	last     map[string]Call // method -> latest call
	calls    []Call
	logger   logging.Logger
}

// NewFileJournal creates or loads a journal file in dir.
func NewFileJournal(dir string) (*FileJournal, error) {
	logger := logging.Get().Named("file_journal")
	if dir == "" {
		dir = "."
	}
	filePath := filepath.Join(dir, defaultFileName)

	j := &FileJournal{
		filePath: filePath,
		last:     make(map[string]Call),
		calls:    []Call{},
		logger:   logger,
	}

	if err := j.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load journal from %s: %w", filePath, err)
	}

	j.logger.Debug("FileJournal initialized.", "path", filePath, "loaded_calls", len(j.calls))
	return j, nil
}

// Path returns the journal file location.
func (j *FileJournal) Path() string {
	return j.filePath
}

func (j *FileJournal) load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.filePath)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	var loaded []Call
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal journal file %s: %w", j.filePath, err)
	}

	j.calls = loaded
	for _, call := range loaded {
		j.last[call.Method] = call
	}
	return nil
}

// save writes every call back to the file through a temp file rename.
func (j *FileJournal) save() error {
	data, err := json.MarshalIndent(j.calls, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	tempFilePath := j.filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp journal file %s: %w", tempFilePath, err)
	}

	if err := os.Rename(tempFilePath, j.filePath); err != nil {
		_ = os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temp journal file to %s: %w", j.filePath, err)
	}
	return nil
}

// Append records call and rewrites the file. On a failed write the call is
// dropped from memory too, so memory and disk stay in step.
func (j *FileJournal) Append(call Call) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	prev, hadPrev := j.last[call.Method]
	j.calls = append(j.calls, call)
	j.last[call.Method] = call

	if err := j.save(); err != nil {
		j.calls = j.calls[:len(j.calls)-1]
		if hadPrev {
			j.last[call.Method] = prev
		} else {
			delete(j.last, call.Method)
		}
		return err
	}

	j.logger.Debug("Recorded call", "method", call.Method, "id", call.ID)
	return nil
}

func (j *FileJournal) Calls() ([]Call, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Call, len(j.calls))
	copy(out, j.calls)
	return out, nil
}

func (j *FileJournal) LastCall(method string) (Call, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	call, ok := j.last[method]
	return call, ok
}

// Close is a no-op for the file journal.
func (j *FileJournal) Close() error {
	return nil
}
