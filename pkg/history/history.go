// Package history persists the undo/redo logs of an organize root and
// replays them. History is one level deep by design: the undo log and
// the redo log share a single rotating slot, so at most one of the
// two files exists at any time.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/broomtools/broom/pkg/models"
)

// ErrNoHistory is returned when an undo or redo is requested and the
// corresponding log file is absent. No filesystem mutation happens in
// that case.
var ErrNoHistory = errors.New("no history log present")

// PendingKind names the reversal state of an organize root.
type PendingKind string

const (
	PendingNone PendingKind = "none"
	PendingUndo PendingKind = "undoable"
	PendingRedo PendingKind = "redoable"
)

// Pending describes what a reversal call would do, without doing it.
type Pending struct {
	Kind  PendingKind
	Count int
}

// Manager owns the log files of one organize root.
type Manager struct {
	root string
	log  *logrus.Logger
}

// NewManager returns a manager for root.
func NewManager(root string, log *logrus.Logger) *Manager {
	return &Manager{root: root, log: log}
}

func (m *Manager) undoPath() string { return filepath.Join(m.root, models.UndoLogName) }
func (m *Manager) redoPath() string { return filepath.Join(m.root, models.RedoLogName) }

// Save writes a fresh undo log for the given actions. A previous undo
// log is overwritten outright and any stale redo log is removed; only
// the most recent organize run stays reversible.
func (m *Manager) Save(actions []models.UndoAction) error {
	data, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode undo log: %w", err)
	}
	if err := os.WriteFile(m.undoPath(), data, 0644); err != nil {
		return fmt.Errorf("write undo log: %w", err)
	}
	if err := os.Remove(m.redoPath()); err != nil && !os.IsNotExist(err) {
		m.log.Warnf("could not remove stale redo log: %v", err)
	}
	return nil
}

// Describe reports which reversal is currently available and how many
// actions it would replay.
func (m *Manager) Describe() (Pending, error) {
	if actions, err := m.load(m.undoPath()); err == nil {
		return Pending{Kind: PendingUndo, Count: len(actions)}, nil
	} else if !errors.Is(err, ErrNoHistory) {
		return Pending{}, err
	}
	if actions, err := m.load(m.redoPath()); err == nil {
		return Pending{Kind: PendingRedo, Count: len(actions)}, nil
	} else if !errors.Is(err, ErrNoHistory) {
		return Pending{}, err
	}
	return Pending{Kind: PendingNone}, nil
}

// Undo replays the undo log in reverse order, moving each dest back
// to its source, then removes now-empty destination directories and
// rotates the log into the redo slot. Returns the number of actions
// in the log.
func (m *Manager) Undo() (int, error) {
	actions, err := m.load(m.undoPath())
	if err != nil {
		return 0, err
	}

	for i := len(actions) - 1; i >= 0; i-- {
		action := actions[i]
		source := filepath.Join(m.root, action.Dest)
		dest := filepath.Join(m.root, action.Source)

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return 0, fmt.Errorf("recreate directory for %s: %w", action.Source, err)
		}
		if _, err := os.Lstat(source); err != nil {
			m.log.Debugf("skipping %s: no longer exists", action.Dest)
			continue
		}
		if err := os.Rename(source, dest); err != nil {
			return 0, fmt.Errorf("restore %s: %w", action.Source, err)
		}
	}

	m.removeEmptyParents(actions)

	if err := os.Rename(m.undoPath(), m.redoPath()); err != nil {
		return 0, fmt.Errorf("rotate undo log to redo slot: %w", err)
	}
	return len(actions), nil
}

// Redo replays the redo log in original order, moving each source to
// its dest again, then rotates the log back into the undo slot.
// Returns the number of actions in the log.
func (m *Manager) Redo() (int, error) {
	actions, err := m.load(m.redoPath())
	if err != nil {
		return 0, err
	}

	for _, action := range actions {
		source := filepath.Join(m.root, action.Source)
		dest := filepath.Join(m.root, action.Dest)

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return 0, fmt.Errorf("recreate directory for %s: %w", action.Dest, err)
		}
		if _, err := os.Lstat(source); err != nil {
			m.log.Debugf("skipping %s: no longer exists", action.Source)
			continue
		}
		if err := os.Rename(source, dest); err != nil {
			return 0, fmt.Errorf("re-apply %s: %w", action.Dest, err)
		}
	}

	if err := os.Rename(m.redoPath(), m.undoPath()); err != nil {
		return 0, fmt.Errorf("rotate redo log to undo slot: %w", err)
	}
	return len(actions), nil
}

// removeEmptyParents best-effort removes every distinct destination
// parent directory of the undone actions that is now empty. Failure
// to remove is a warning, never an error.
func (m *Manager) removeEmptyParents(actions []models.UndoAction) {
	parents := make(map[string]struct{})
	for _, action := range actions {
		if dir := filepath.Dir(action.Dest); dir != "." && dir != string(filepath.Separator) {
			parents[dir] = struct{}{}
		}
	}
	for dir := range parents {
		path := filepath.Join(m.root, dir)
		children, err := os.ReadDir(path)
		if err != nil || len(children) > 0 {
			continue
		}
		if err := os.Remove(path); err != nil {
			m.log.Warnf("could not remove directory %s: %v", path, err)
		}
	}
}

func (m *Manager) load(path string) ([]models.UndoAction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoHistory, path)
		}
		return nil, fmt.Errorf("read log: %w", err)
	}
	var actions []models.UndoAction
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("decode log %s: %w", path, err)
	}
	return actions, nil
}
