// Package organize executes a canonical plan against the filesystem
// and records the reverse mapping that makes the run undoable.
package organize

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/broomtools/broom/pkg/models"
)

// Applier moves plan members into category directories under the
// organize root.
type Applier struct {
	log *logrus.Logger
}

// NewApplier returns an applier.
func NewApplier(log *logrus.Logger) *Applier {
	return &Applier{log: log}
}

// Apply executes the plan and returns the ordered list of completed
// moves. Order is significant: undo replays it in exact reverse.
//
// The _standalone sentinel is informational and never becomes a
// directory. Members whose source vanished since indexing are skipped
// silently; self-mappings (a folder grouped under a category of its
// own name) are skipped as well. Moves are not transactional: on a
// move failure the actions completed so far are returned alongside
// the error so the caller can still persist an accurate undo log.
func (a *Applier) Apply(p *models.Plan, root string) ([]models.UndoAction, error) {
	actions := []models.UndoAction{}

	for _, category := range p.Categories() {
		if category == models.StandaloneCategory {
			continue
		}
		targetDir := filepath.Join(root, category)
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return actions, fmt.Errorf("create category directory %s: %w", category, err)
		}

		for _, member := range p.Members(category) {
			if member == category {
				continue
			}
			source := filepath.Join(root, member)
			destRel := filepath.Join(category, filepath.Base(member))
			dest := filepath.Join(root, destRel)

			if _, err := os.Lstat(source); err != nil {
				// Filesystem drifted since indexing; not an error.
				a.log.Debugf("skipping %s: source no longer exists", member)
				continue
			}
			if err := os.Rename(source, dest); err != nil {
				return actions, fmt.Errorf("move %s to %s: %w", member, destRel, err)
			}
			actions = append(actions, models.UndoAction{Source: member, Dest: destRel})
		}
	}

	return actions, nil
}
