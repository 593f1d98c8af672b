// Package classify turns an indexed inventory into classification
// prompts, dispatches them to the external classifier, and collects
// the raw per-batch responses for merging.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/broomtools/broom/pkg/models"
)

// Classifier is the external collaborator that proposes a grouping.
// Implementations return either a complete JSON document (Complete)
// or an ordered fragment stream whose concatenation is one
// (CompleteStream).
type Classifier interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteStream(ctx context.Context, prompt string, fn func(chunk string)) (string, error)
}

// DispatchMode selects how batches are sent to the classifier.
type DispatchMode int

const (
	// DispatchSync sends batches one at a time, blocking on each.
	DispatchSync DispatchMode = iota
	// DispatchStream sends batches strictly sequentially and echoes
	// response fragments as they arrive. Never concurrent: the caller
	// needs ordered incremental text.
	DispatchStream
	// DispatchConcurrent sends all batches through a bounded worker
	// pool and joins the results.
	DispatchConcurrent
)

// BatchResult is the raw outcome of one classification call. A failed
// call carries Err and contributes nothing to the merged plan; it
// never aborts sibling batches.
type BatchResult struct {
	Batch   int
	Content string
	Err     error
}

// Requester builds prompts and runs the dispatch.
type Requester struct {
	classifier  Classifier
	batchSize   int
	maxInFlight int
	log         *logrus.Logger
	stream      io.Writer
}

// NewRequester configures a requester. streamOut receives raw
// response fragments during streamed dispatch; pass io.Discard when
// nothing should be echoed.
func NewRequester(c Classifier, settings models.Settings, log *logrus.Logger, streamOut io.Writer) *Requester {
	batch := settings.BatchSize
	if batch <= 0 {
		batch = 30
	}
	inFlight := settings.MaxInFlight
	if inFlight <= 0 {
		inFlight = 4
	}
	if streamOut == nil {
		streamOut = io.Discard
	}
	return &Requester{
		classifier:  c,
		batchSize:   batch,
		maxInFlight: inFlight,
		log:         log,
		stream:      streamOut,
	}
}

// RequestFilePlans partitions the file inventory into batches and
// dispatches one classification call per batch. Results come back
// indexed by batch; order of the slice matches batch order regardless
// of dispatch mode.
func (r *Requester) RequestFilePlans(ctx context.Context, inventory []models.Entry, mode DispatchMode) ([]BatchResult, error) {
	batches := Partition(inventory, r.batchSize)
	results := make([]BatchResult, len(batches))

	switch mode {
	case DispatchConcurrent:
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.maxInFlight)
		for i, batch := range batches {
			i, batch := i, batch
			g.Go(func() error {
				results[i] = r.requestBatch(gctx, i, batch, false)
				return nil
			})
		}
		// Workers record their own failures per batch; the group only
		// propagates context cancellation.
		if err := g.Wait(); err != nil {
			return results, err
		}
	case DispatchStream:
		for i, batch := range batches {
			fmt.Fprintf(r.stream, "\n--- Batch %d/%d ---\n", i+1, len(batches))
			results[i] = r.requestBatch(ctx, i, batch, true)
			fmt.Fprintln(r.stream)
		}
	default:
		for i, batch := range batches {
			results[i] = r.requestBatch(ctx, i, batch, false)
		}
	}
	return results, nil
}

// RequestFolderPlan sends the whole folder inventory as one batch.
// Grouping needs global visibility, so folders are never partitioned.
func (r *Requester) RequestFolderPlan(ctx context.Context, inventory []models.Entry, stream bool) BatchResult {
	prompt, err := folderPrompt(inventory)
	if err != nil {
		return BatchResult{Batch: 0, Err: err}
	}
	return r.dispatch(ctx, 0, prompt, stream)
}

func (r *Requester) requestBatch(ctx context.Context, batch int, entries []models.Entry, stream bool) BatchResult {
	prompt, err := filePrompt(entries)
	if err != nil {
		return BatchResult{Batch: batch, Err: err}
	}
	return r.dispatch(ctx, batch, prompt, stream)
}

func (r *Requester) dispatch(ctx context.Context, batch int, prompt string, stream bool) BatchResult {
	var content string
	var err error
	if stream {
		content, err = r.classifier.CompleteStream(ctx, prompt, func(chunk string) {
			fmt.Fprint(r.stream, chunk)
		})
	} else {
		content, err = r.classifier.Complete(ctx, prompt)
	}
	if err != nil {
		r.log.Warnf("classification call for batch %d failed: %v", batch+1, err)
		return BatchResult{Batch: batch, Err: err}
	}
	return BatchResult{Batch: batch, Content: content}
}

// Partition splits entries into sequential batches of at most size.
func Partition(entries []models.Entry, size int) [][]models.Entry {
	if size <= 0 {
		size = 30
	}
	var batches [][]models.Entry
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		batches = append(batches, entries[start:end])
	}
	return batches
}

// filePrompt instructs the classifier to categorize file entries and
// answer with a single organization_plan JSON object.
func filePrompt(batch []models.Entry) (string, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("marshal batch: %w", err)
	}
	return fmt.Sprintf(
		"Task: Categorize files based on path, file_type, and content. "+
			"Output ONLY JSON with one key 'organization_plan' mapping each "+
			"category name to a list of file paths. Data: %s", data), nil
}

// folderPrompt instructs the classifier to group folders under parent
// categories, with the grouping rules the merger later enforces.
func folderPrompt(entries []models.Entry) (string, error) {
	type folderRecord struct {
		FolderName string `json:"folder_name"`
	}
	records := make([]folderRecord, len(entries))
	for i, e := range entries {
		records[i] = folderRecord{FolderName: e.Path}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal folder inventory: %w", err)
	}
	return fmt.Sprintf(
		"Task: Group folders into parent categories. Rules: "+
			"1. A group MUST contain 2 or more folders. "+
			"2. A parent category's name MUST NOT be the same as any of the folders inside it. "+
			"3. Ungroupable folders go into a special category named '%s'. "+
			"4. Output ONLY JSON with a single key 'organization_plan'. Data: %s",
		models.StandaloneCategory, data), nil
}
