// Package plan merges raw classifier responses into one canonical
// plan and renders plans for user confirmation.
package plan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/broomtools/broom/pkg/classify"
	"github.com/broomtools/broom/pkg/models"
)

// rawResponse is the document the classifier must return: one
// top-level key mapping category names to member lists.
type rawResponse struct {
	OrganizationPlan map[string][]memberRef `json:"organization_plan"`
}

// memberRef tolerates the two shapes classifiers produce for a
// member: a bare string, or a record carrying a "path" or
// "folder_name" field. Downstream code only ever sees the path
// string.
type memberRef struct {
	Path string
}

func (m *memberRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.Path = s
		return nil
	}
	var record struct {
		Path       string `json:"path"`
		FolderName string `json:"folder_name"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("member is neither a string nor a path record: %w", err)
	}
	if record.Path != "" {
		m.Path = record.Path
	} else {
		m.Path = record.FolderName
	}
	return nil
}

// Merge combines raw per-batch responses into one canonical plan.
//
// Files mode unions the organization_plan maps of all batches; within
// a category, later batches append only paths not already present,
// otherwise insertion order is preserved. Folders mode expects a
// single response and enforces the grouping invariants: a category
// must keep at least 2 children after removing any child named like
// the category itself, and dissolved categories send their children
// to the _standalone sentinel, which is de-duplicated and sorted.
//
// Malformed responses are logged as warnings and contribute nothing;
// an empty result plan is the caller's signal that no usable plan
// exists.
func Merge(results []classify.BatchResult, mode models.Mode, log *logrus.Logger) *models.Plan {
	if mode == models.ModeFolders {
		return mergeFolders(results, log)
	}
	return mergeFiles(results, log)
}

func mergeFiles(results []classify.BatchResult, log *logrus.Logger) *models.Plan {
	merged := models.NewPlan()
	for _, res := range results {
		raw, ok := decode(res, log)
		if !ok {
			continue
		}
		for _, category := range sortedKeys(raw.OrganizationPlan) {
			name := cleanCategory(category)
			for _, member := range raw.OrganizationPlan[category] {
				merged.Add(name, member.Path)
			}
		}
	}
	return merged
}

func mergeFolders(results []classify.BatchResult, log *logrus.Logger) *models.Plan {
	merged := models.NewPlan()
	if len(results) == 0 {
		return merged
	}
	raw, ok := decode(results[0], log)
	if !ok {
		return merged
	}

	var standalone []string
	for _, ref := range raw.OrganizationPlan[models.StandaloneCategory] {
		standalone = append(standalone, ref.Path)
	}

	for _, category := range sortedKeys(raw.OrganizationPlan) {
		if category == models.StandaloneCategory {
			continue
		}
		name := cleanCategory(category)
		var children, valid []string
		for _, ref := range raw.OrganizationPlan[category] {
			if ref.Path == "" {
				continue
			}
			children = append(children, ref.Path)
			if ref.Path != name {
				valid = append(valid, ref.Path)
			}
		}
		if len(valid) >= 2 {
			for _, child := range valid {
				merged.Add(name, child)
			}
		} else {
			// Groups below the minimum dissolve; their members land in
			// the standalone sentinel instead of being applied.
			standalone = append(standalone, children...)
		}
	}

	if len(standalone) > 0 {
		seen := make(map[string]struct{}, len(standalone))
		var unique []string
		for _, folder := range standalone {
			if folder == "" {
				continue
			}
			if _, dup := seen[folder]; dup {
				continue
			}
			seen[folder] = struct{}{}
			unique = append(unique, folder)
		}
		sort.Strings(unique)
		for _, folder := range unique {
			merged.Add(models.StandaloneCategory, folder)
		}
	}
	return merged
}

func decode(res classify.BatchResult, log *logrus.Logger) (rawResponse, bool) {
	if res.Err != nil {
		log.Warnf("batch %d produced no response: %v", res.Batch+1, res.Err)
		return rawResponse{}, false
	}
	var raw rawResponse
	if err := json.Unmarshal([]byte(res.Content), &raw); err != nil {
		log.Warnf("could not decode AI response for batch %d: %v", res.Batch+1, err)
		return rawResponse{}, false
	}
	if raw.OrganizationPlan == nil {
		log.Warnf("AI response for batch %d is missing 'organization_plan'", res.Batch+1)
		return rawResponse{}, false
	}
	return raw, true
}

// cleanCategory normalizes an AI-returned category name before it can
// become a directory name: NFC form, no surrounding whitespace.
func cleanCategory(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// sortedKeys gives batches a stable category order so merged plans do
// not depend on map iteration.
func sortedKeys(m map[string][]memberRef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
