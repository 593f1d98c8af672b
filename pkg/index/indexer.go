// Package index walks an organize root and produces the normalized
// inventory of movable entries that the classification pipeline
// consumes.
package index

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/broomtools/broom/pkg/models"
)

// Indexer builds entry inventories. It is stateless between passes;
// indexing the same unmodified directory twice yields identical
// inventories.
type Indexer struct {
	maxContentLength int
	textExtensions   map[string]struct{}
	log              *logrus.Logger
}

// NewIndexer configures an indexer from settings.
func NewIndexer(settings models.Settings, log *logrus.Logger) *Indexer {
	exts := make(map[string]struct{}, len(settings.TextExtensions))
	for _, e := range settings.TextExtensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	maxLen := settings.MaxContentLength
	if maxLen <= 0 {
		maxLen = 1024
	}
	return &Indexer{
		maxContentLength: maxLen,
		textExtensions:   exts,
		log:              log,
	}
}

// IndexFiles returns every organizable file under root as an Entry.
// With recursive false only the root's immediate children are
// scanned; with recursive true the full subtree is walked. Hidden
// names and broom's own log files are skipped, as is anything that is
// not a regular file. An empty directory yields an empty slice, not
// an error.
func (ix *Indexer) IndexFiles(root string, recursive bool) ([]models.Entry, error) {
	var entries []models.Entry

	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtree: skip it rather than failing the pass.
				ix.log.Warnf("skipping %s: %v", path, err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if skipName(d.Name()) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			entries = append(entries, ix.fileEntry(root, rel))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return entries, nil
	}

	children, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.IsDir() || !child.Type().IsRegular() || skipName(child.Name()) {
			continue
		}
		entries = append(entries, ix.fileEntry(root, child.Name()))
	}
	return entries, nil
}

// IndexFolders returns the immediate child directories of root.
// Folder indexing is always non-recursive; grouping needs global
// visibility of the top level only.
func (ix *Indexer) IndexFolders(root string) ([]models.Entry, error) {
	children, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var entries []models.Entry
	for _, child := range children {
		if !child.IsDir() || strings.HasPrefix(child.Name(), ".") {
			continue
		}
		entries = append(entries, models.Entry{
			Path: child.Name(),
			Kind: models.EntryFolder,
		})
	}
	return entries, nil
}

func (ix *Indexer) fileEntry(root, rel string) models.Entry {
	ext := strings.ToLower(filepath.Ext(rel))
	return models.Entry{
		Path:           rel,
		Kind:           models.EntryFile,
		Extension:      ext,
		ContentSummary: ix.sampleContent(filepath.Join(root, rel), ext),
	}
}

// sampleContent reads up to the configured cap from the file and
// classifies it. A NUL byte marks the file binary unless the
// extension is on the text allow-list; unreadable files get a
// sentinel summary instead of failing the whole index pass.
func (ix *Indexer) sampleContent(path, ext string) string {
	f, err := os.Open(path)
	if err != nil {
		return models.SummaryBinary
	}
	defer f.Close()

	buf := make([]byte, ix.maxContentLength)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return models.SummaryUnreadable
	}
	sample := buf[:n]
	if len(sample) == 0 {
		return models.SummaryEmpty
	}

	if bytes.IndexByte(sample, 0) >= 0 {
		if _, text := ix.textExtensions[ext]; !text {
			return models.SummaryBinary
		}
	}
	// Lossy UTF-8 decode so the prompt payload is always valid text.
	return strings.ToValidUTF8(string(sample), "�")
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || models.ReservedName(name)
}
