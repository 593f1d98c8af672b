package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broomtools/broom/pkg/history"
	"github.com/broomtools/broom/pkg/models"
)

// fakeClassifier answers file prompts with one canned plan document.
type fakeClassifier struct {
	response string
	pingErr  error
	calls    int
}

func (f *fakeClassifier) Ping(context.Context) error { return f.pingErr }

func (f *fakeClassifier) Complete(context.Context, string) (string, error) {
	f.calls++
	return f.response, nil
}

func (f *fakeClassifier) CompleteStream(ctx context.Context, prompt string, fn func(chunk string)) (string, error) {
	content, err := f.Complete(ctx, prompt)
	if err == nil && fn != nil {
		fn(content)
	}
	return content, err
}

func testService(classifier Classifier, out io.Writer) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(models.DefaultSettings(), classifier, nil, log, out)
}

func writeFile(t *testing.T, root, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(name), 0644))
}

func TestOrganizeEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")
	writeFile(t, root, "b.jpg")

	fc := &fakeClassifier{
		response: `{"organization_plan":{"Documents":["a.txt"],"Images":["b.jpg"]}}`,
	}
	var out bytes.Buffer
	svc := testService(fc, &out)

	err := svc.Organize(context.Background(), root, OrganizeOptions{
		Mode:        models.ModeFiles,
		AutoConfirm: true,
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "Documents", "a.txt"))
	assert.FileExists(t, filepath.Join(root, "Images", "b.jpg"))
	assert.FileExists(t, filepath.Join(root, models.UndoLogName))
	assert.Contains(t, out.String(), "Moved 2 items")
	assert.Contains(t, out.String(), "Undo log saved")
}

func TestOrganizeDryRunMovesNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")

	fc := &fakeClassifier{response: `{"organization_plan":{"Docs":["a.txt"]}}`}
	var out bytes.Buffer
	svc := testService(fc, &out)

	err := svc.Organize(context.Background(), root, OrganizeOptions{
		Mode:   models.ModeFiles,
		DryRun: true,
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "a.txt"))
	assert.NoDirExists(t, filepath.Join(root, "Docs"))
	assert.NoFileExists(t, filepath.Join(root, models.UndoLogName))
	assert.Contains(t, out.String(), "dry run")
	assert.Contains(t, out.String(), "Create folder: 'Docs'")
}

func TestOrganizeDeclinedConfirmation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")

	fc := &fakeClassifier{response: `{"organization_plan":{"Docs":["a.txt"]}}`}
	var out bytes.Buffer
	svc := testService(fc, &out)

	err := svc.Organize(context.Background(), root, OrganizeOptions{
		Mode:    models.ModeFiles,
		Confirm: func(string) bool { return false },
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "a.txt"))
	assert.NoDirExists(t, filepath.Join(root, "Docs"))
	assert.Contains(t, out.String(), "Aborted by user")
}

func TestOrganizeEmptyDirectory(t *testing.T) {
	fc := &fakeClassifier{response: `{}`}
	svc := testService(fc, io.Discard)

	err := svc.Organize(context.Background(), t.TempDir(), OrganizeOptions{
		Mode:        models.ModeFiles,
		AutoConfirm: true,
	})
	require.ErrorIs(t, err, ErrEmptyInventory)
	assert.Equal(t, 0, fc.calls)
}

func TestOrganizeInvalidPlan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")

	fc := &fakeClassifier{response: `total garbage`}
	svc := testService(fc, io.Discard)

	err := svc.Organize(context.Background(), root, OrganizeOptions{
		Mode:        models.ModeFiles,
		AutoConfirm: true,
	})
	require.ErrorIs(t, err, ErrInvalidPlan)
	assert.FileExists(t, filepath.Join(root, "a.txt"))
}

func TestOrganizePingFailureStopsBeforeIndexing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")

	boom := errors.New("connection refused")
	fc := &fakeClassifier{pingErr: boom}
	svc := testService(fc, io.Discard)

	err := svc.Organize(context.Background(), root, OrganizeOptions{Mode: models.ModeFiles})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, fc.calls)
}

func TestOrganizeFoldersMode(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Photos2020"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Photos2021"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Docs"), 0755))

	fc := &fakeClassifier{
		response: `{"organization_plan":{"Photos":["Photos2020","Photos2021"],"Docs":["Docs"]}}`,
	}
	var out bytes.Buffer
	svc := testService(fc, &out)

	err := svc.Organize(context.Background(), root, OrganizeOptions{
		Mode:        models.ModeFolders,
		AutoConfirm: true,
	})
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(root, "Photos", "Photos2020"))
	assert.DirExists(t, filepath.Join(root, "Photos", "Photos2021"))
	// The one-member group dissolved; Docs stays in place.
	assert.DirExists(t, filepath.Join(root, "Docs"))
	assert.Contains(t, out.String(), "1 folders will be left as they are")
}

func TestUndoRedoThroughService(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")

	fc := &fakeClassifier{response: `{"organization_plan":{"Docs":["a.txt"]}}`}
	var out bytes.Buffer
	svc := testService(fc, &out)

	require.NoError(t, svc.Organize(context.Background(), root, OrganizeOptions{
		Mode:        models.ModeFiles,
		AutoConfirm: true,
	}))
	require.FileExists(t, filepath.Join(root, "Docs", "a.txt"))

	require.NoError(t, svc.Undo(root, true, nil))
	assert.FileExists(t, filepath.Join(root, "a.txt"))
	assert.NoDirExists(t, filepath.Join(root, "Docs"))

	require.NoError(t, svc.Redo(root, true, nil))
	assert.FileExists(t, filepath.Join(root, "Docs", "a.txt"))
}

func TestUndoWithoutHistory(t *testing.T) {
	svc := testService(nil, io.Discard)
	err := svc.Undo(t.TempDir(), true, nil)
	require.ErrorIs(t, err, history.ErrNoHistory)
}

func TestRedoWithoutHistory(t *testing.T) {
	svc := testService(nil, io.Discard)
	err := svc.Redo(t.TempDir(), true, nil)
	require.ErrorIs(t, err, history.ErrNoHistory)
}

func TestUndoDeclinedConfirmation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt")

	fc := &fakeClassifier{response: `{"organization_plan":{"Docs":["a.txt"]}}`}
	var out bytes.Buffer
	svc := testService(fc, &out)

	require.NoError(t, svc.Organize(context.Background(), root, OrganizeOptions{
		Mode:        models.ModeFiles,
		AutoConfirm: true,
	}))

	require.NoError(t, svc.Undo(root, false, func(string) bool { return false }))
	assert.FileExists(t, filepath.Join(root, "Docs", "a.txt"))
	assert.Contains(t, out.String(), "Undo aborted by user")
}

func TestDescribe(t *testing.T) {
	root := t.TempDir()
	svc := testService(nil, io.Discard)

	pending, err := svc.Describe(root)
	require.NoError(t, err)
	assert.Equal(t, history.PendingNone, pending.Kind)
}
