// Package session (session.go) keeps a local record of every asynchronous
// copy the CLI starts, so `operations wait` can resume polling from a later
// invocation. Each record is a JSON file guarded by a gofrs/flock lock.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/OneNoteDev/onenote-client/internal/config"
	"github.com/OneNoteDev/onenote-client/pkg/onenote"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no record matches an ID.
var ErrNotFound = errors.New("operation record not found")

// ErrAmbiguousID is returned when an ID prefix matches more than one record.
var ErrAmbiguousID = errors.New("operation ID prefix is ambiguous")

// Kinds of copy that produce operation records.
const (
	KindNotebook = "notebook"
	KindSection  = "section"
	KindPage     = "page"
)

// Operation is the stored record of one copy.
type Operation struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	SourceID     string    `json:"sourceId"`
	TargetID     string    `json:"targetId,omitempty"`
	RenameAs     string    `json:"renameAs,omitempty"`
	Provider     string    `json:"provider"`
	OperationURL string    `json:"operationUrl"`
	Status       string    `json:"status,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Done reports whether the last known status is terminal.
func (o Operation) Done() bool {
	return o.Status == onenote.OperationCompleted || o.Status == onenote.OperationFailed
}

// Manager reads and writes operation records under one directory.
type Manager struct {
	configDir string
}

// NewManager stores records beside the config file.
func NewManager() (*Manager, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("could not locate config directory: %w", err)
	}
	return &Manager{configDir: dir}, nil
}

// NewManagerWithConfigDir stores records under configDir.
func NewManagerWithConfigDir(configDir string) *Manager {
	return &Manager{configDir: configDir}
}

func (m *Manager) operationsDir() string {
	return filepath.Join(m.configDir, "operations")
}

func (m *Manager) recordPath(id string) string {
	return filepath.Join(m.operationsDir(), id+".json")
}

// withLock runs fn while holding the record's lock file.
func (m *Manager) withLock(id string, fn func(path string) error) error {
	path := m.recordPath(id)
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("could not acquire file lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire file lock for operation %s, another instance may be using it", id)
	}
	defer lock.Unlock()
	return fn(path)
}

// Save writes op, assigning an ID and creation time to new records.
func (m *Manager) Save(op *Operation) error {
	if op.OperationURL == "" {
		return errors.New("operation record needs an operation URL")
	}
	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if op.CreatedAt.IsZero() {
		op.CreatedAt = now
	}
	op.UpdatedAt = now

	if err := os.MkdirAll(m.operationsDir(), onenote.PermSecureDir); err != nil {
		return fmt.Errorf("could not create operations directory: %w", err)
	}

	data, err := json.MarshalIndent(op, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal operation record: %w", err)
	}
	return m.withLock(op.ID, func(path string) error {
		return os.WriteFile(path, data, onenote.PermSecureFile)
	})
}

// Load returns the record with the given ID or unique ID prefix.
func (m *Manager) Load(id string) (*Operation, error) {
	fullID, err := m.resolve(id)
	if err != nil {
		return nil, err
	}

	var op Operation
	err = m.withLock(fullID, func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return fmt.Errorf("could not read operation record: %w", err)
		}
		if err := json.Unmarshal(data, &op); err != nil {
			return fmt.Errorf("could not unmarshal operation record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// List returns every record, oldest first. Unreadable files are skipped.
func (m *Manager) List() ([]Operation, error) {
	ids, err := m.ids()
	if err != nil {
		return nil, err
	}

	ops := make([]Operation, 0, len(ids))
	for _, id := range ids {
		data, err := os.ReadFile(m.recordPath(id))
		if err != nil {
			continue
		}
		var op Operation
		if err := json.Unmarshal(data, &op); err != nil {
			continue
		}
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].CreatedAt.Before(ops[j].CreatedAt)
	})
	return ops, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (m *Manager) Delete(id string) error {
	fullID, err := m.resolve(id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	err = m.withLock(fullID, func(path string) error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("could not delete operation record: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	_ = os.Remove(m.recordPath(fullID) + ".lock")
	return nil
}

// ids lists the record IDs on disk.
func (m *Manager) ids() ([]string, error) {
	entries, err := os.ReadDir(m.operationsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read operations directory: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// resolve expands an ID prefix to the one record it names.
func (m *Manager) resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty ID", ErrNotFound)
	}
	ids, err := m.ids()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d records", ErrAmbiguousID, prefix, len(matches))
	}
}
