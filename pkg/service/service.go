// Package service orchestrates the organize pipeline: connectivity
// precheck, indexing, classification, merging, presentation,
// confirmation, apply, and the undo/redo entry points. The CLI is a
// thin caller of this package.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/broomtools/broom/pkg/audit"
	"github.com/broomtools/broom/pkg/classify"
	"github.com/broomtools/broom/pkg/history"
	"github.com/broomtools/broom/pkg/index"
	"github.com/broomtools/broom/pkg/models"
	"github.com/broomtools/broom/pkg/organize"
	"github.com/broomtools/broom/pkg/plan"
)

// ErrEmptyInventory means the directory had nothing to organize.
var ErrEmptyInventory = errors.New("nothing to organize")

// ErrInvalidPlan means the classifier produced no usable plan across
// all batches; nothing was applied.
var ErrInvalidPlan = errors.New("could not get a valid organization plan")

// Classifier extends the per-call interface with the connectivity
// check performed once before an organize run does any work.
type Classifier interface {
	classify.Classifier
	Ping(ctx context.Context) error
}

// ConfirmFunc asks the user to approve an action described by prompt.
type ConfirmFunc func(prompt string) bool

// Service wires the organizer components together.
type Service struct {
	settings   models.Settings
	classifier Classifier
	indexer    *index.Indexer
	applier    *organize.Applier
	trail      *audit.Trail
	log        *logrus.Logger
	out        io.Writer
}

// New builds a service. classifier may be nil for callers that only
// undo/redo; trail may be nil when the audit database is unavailable.
func New(settings models.Settings, classifier Classifier, trail *audit.Trail, log *logrus.Logger, out io.Writer) *Service {
	if out == nil {
		out = io.Discard
	}
	return &Service{
		settings:   settings,
		classifier: classifier,
		indexer:    index.NewIndexer(settings, log),
		applier:    organize.NewApplier(log),
		trail:      trail,
		log:        log,
		out:        out,
	}
}

// OrganizeOptions are the behavioral flags threaded through from the
// caller.
type OrganizeOptions struct {
	Mode        models.Mode
	Recursive   bool
	DryRun      bool
	AutoConfirm bool
	Stream      bool
	Confirm     ConfirmFunc
}

// Organize runs the full pipeline against root. It returns nil when
// the user declines the plan; every other early exit is an error.
func (s *Service) Organize(ctx context.Context, root string, opts OrganizeOptions) error {
	if s.classifier == nil {
		return fmt.Errorf("no classifier configured")
	}
	if err := s.classifier.Ping(ctx); err != nil {
		return err
	}

	inventory, err := s.indexInventory(root, opts)
	if err != nil {
		return err
	}
	if len(inventory) == 0 {
		return ErrEmptyInventory
	}
	fmt.Fprintf(s.out, "Indexed %d %s in %s\n", len(inventory), opts.Mode, root)

	merged, err := s.requestAndMerge(ctx, inventory, opts)
	if err != nil {
		return err
	}
	if merged.IsEmpty() {
		return ErrInvalidPlan
	}

	fmt.Fprint(s.out, plan.Render(merged, opts.Mode))

	if opts.DryRun {
		fmt.Fprintln(s.out, "\n🏁 This was a dry run. No items were moved.")
		return nil
	}
	if !opts.AutoConfirm {
		if opts.Confirm == nil || !opts.Confirm("Apply this plan?") {
			fmt.Fprintln(s.out, "Aborted by user.")
			return nil
		}
	}

	actions, applyErr := s.applier.Apply(merged, root)
	if len(actions) > 0 {
		mgr := history.NewManager(root, s.log)
		if err := mgr.Save(actions); err != nil {
			// The moves happened; a missing log only costs undo.
			s.log.Warnf("could not save undo log: %v", err)
		} else {
			fmt.Fprintf(s.out, "\n📝 Undo log saved. Run 'broom undo %s' to reverse.\n", root)
		}
		s.record(root, string(opts.Mode), "apply", len(actions))
	}
	if applyErr != nil {
		return fmt.Errorf("apply plan: %w", applyErr)
	}
	fmt.Fprintf(s.out, "✅ Moved %d items.\n", len(actions))
	return nil
}

func (s *Service) indexInventory(root string, opts OrganizeOptions) ([]models.Entry, error) {
	if opts.Mode == models.ModeFolders {
		if opts.Recursive {
			s.log.Warn("recursive indexing applies to files mode only; scanning top-level folders")
		}
		return s.indexer.IndexFolders(root)
	}
	return s.indexer.IndexFiles(root, opts.Recursive)
}

func (s *Service) requestAndMerge(ctx context.Context, inventory []models.Entry, opts OrganizeOptions) (*models.Plan, error) {
	var streamOut io.Writer = io.Discard
	if opts.Stream {
		streamOut = s.out
	}
	requester := classify.NewRequester(s.classifier, s.settings, s.log, streamOut)

	if opts.Mode == models.ModeFolders {
		result := requester.RequestFolderPlan(ctx, inventory, opts.Stream)
		return plan.Merge([]classify.BatchResult{result}, opts.Mode, s.log), nil
	}

	// Streaming is strictly sequential so the caller sees ordered
	// incremental text; otherwise batches go out concurrently.
	mode := classify.DispatchConcurrent
	if opts.Stream {
		mode = classify.DispatchStream
	}
	results, err := requester.RequestFilePlans(ctx, inventory, mode)
	if err != nil {
		return nil, fmt.Errorf("request plans: %w", err)
	}
	return plan.Merge(results, opts.Mode, s.log), nil
}

// Describe reports the pending reversal state of root without
// touching anything.
func (s *Service) Describe(root string) (history.Pending, error) {
	return history.NewManager(root, s.log).Describe()
}

// Undo reverses the last organize run in root. The confirmation gate
// runs before any mutation; ErrNoHistory propagates when no undo log
// exists.
func (s *Service) Undo(root string, autoConfirm bool, confirm ConfirmFunc) error {
	mgr := history.NewManager(root, s.log)
	pending, err := mgr.Describe()
	if err != nil {
		return err
	}
	if pending.Kind != history.PendingUndo {
		return fmt.Errorf("%w: nothing to undo in %s", history.ErrNoHistory, root)
	}

	if !autoConfirm {
		prompt := fmt.Sprintf("Found %d actions to reverse. This restores the state before the last organization. Proceed with undo?", pending.Count)
		if confirm == nil || !confirm(prompt) {
			fmt.Fprintln(s.out, "Undo aborted by user.")
			return nil
		}
	}

	count, err := mgr.Undo()
	if err != nil {
		return err
	}
	s.record(root, "", "undo", count)
	fmt.Fprintf(s.out, "✅ Undo complete. Reversed %d actions.\n", count)
	return nil
}

// Redo re-applies the last undone organize run in root.
func (s *Service) Redo(root string, autoConfirm bool, confirm ConfirmFunc) error {
	mgr := history.NewManager(root, s.log)
	pending, err := mgr.Describe()
	if err != nil {
		return err
	}
	if pending.Kind != history.PendingRedo {
		return fmt.Errorf("%w: nothing to redo in %s", history.ErrNoHistory, root)
	}

	if !autoConfirm {
		prompt := fmt.Sprintf("Found %d actions to re-apply. This restores the state before the last undo. Proceed with redo?", pending.Count)
		if confirm == nil || !confirm(prompt) {
			fmt.Fprintln(s.out, "Redo aborted by user.")
			return nil
		}
	}

	count, err := mgr.Redo()
	if err != nil {
		return err
	}
	s.record(root, "", "redo", count)
	fmt.Fprintf(s.out, "✅ Redo complete. Re-applied %d actions.\n", count)
	return nil
}

func (s *Service) record(root, mode, op string, moved int) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Record(root, mode, op, moved); err != nil {
		s.log.Warnf("could not record %s run in audit trail: %v", op, err)
	}
}
