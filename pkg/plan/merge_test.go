package plan

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broomtools/broom/pkg/classify"
	"github.com/broomtools/broom/pkg/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestMergeFilesUnionsBatches(t *testing.T) {
	results := []classify.BatchResult{
		{Batch: 0, Content: `{"organization_plan":{"Documents":["a.txt","c.txt"],"Images":["b.jpg"]}}`},
		{Batch: 1, Content: `{"organization_plan":{"Documents":["d.txt","a.txt"],"Archives":["e.zip"]}}`},
	}

	p := Merge(results, models.ModeFiles, testLogger())

	require.False(t, p.IsEmpty())
	// Later batches append only unseen paths; a.txt stays first.
	assert.Equal(t, []string{"a.txt", "c.txt", "d.txt"}, p.Members("Documents"))
	assert.Equal(t, []string{"b.jpg"}, p.Members("Images"))
	assert.Equal(t, []string{"e.zip"}, p.Members("Archives"))
}

func TestMergeFilesOrderIndependentSets(t *testing.T) {
	a := classify.BatchResult{Batch: 0, Content: `{"organization_plan":{"Docs":["x.txt","y.txt"]}}`}
	b := classify.BatchResult{Batch: 1, Content: `{"organization_plan":{"Docs":["z.txt","x.txt"]}}`}

	forward := Merge([]classify.BatchResult{a, b}, models.ModeFiles, testLogger())
	reverse := Merge([]classify.BatchResult{b, a}, models.ModeFiles, testLogger())

	assert.ElementsMatch(t, forward.Members("Docs"), reverse.Members("Docs"))
	assert.ElementsMatch(t, forward.Categories(), reverse.Categories())
}

func TestMergeFilesToleratesPathRecords(t *testing.T) {
	results := []classify.BatchResult{
		{Content: `{"organization_plan":{"Docs":[{"path":"a.txt"},"b.txt"]}}`},
	}
	p := Merge(results, models.ModeFiles, testLogger())
	assert.Equal(t, []string{"a.txt", "b.txt"}, p.Members("Docs"))
}

func TestMergeFilesSkipsMalformedBatch(t *testing.T) {
	results := []classify.BatchResult{
		{Batch: 0, Content: `not json at all`},
		{Batch: 1, Content: `{"organization_plan":{"Images":["b.jpg"]}}`},
	}

	p := Merge(results, models.ModeFiles, testLogger())

	assert.Equal(t, []string{"Images"}, p.Categories())
	assert.Equal(t, []string{"b.jpg"}, p.Members("Images"))
}

func TestMergeFilesAllMalformedYieldsEmptyPlan(t *testing.T) {
	results := []classify.BatchResult{
		{Batch: 0, Content: `{}`},
		{Batch: 1, Content: `{"something_else":{}}`},
	}
	p := Merge(results, models.ModeFiles, testLogger())
	assert.True(t, p.IsEmpty())
}

func TestMergeFoldersDissolvesSmallGroups(t *testing.T) {
	results := []classify.BatchResult{{
		Content: `{"organization_plan":{"Photos":["Photos2020","Photos2021"],"Docs":["Docs"]}}`,
	}}

	p := Merge(results, models.ModeFolders, testLogger())

	assert.Equal(t, []string{"Photos2020", "Photos2021"}, p.Members("Photos"))
	assert.Equal(t, []string{"Docs"}, p.Members(models.StandaloneCategory))
	assert.False(t, p.Has("Docs"))
}

func TestMergeFoldersRemovesSelfNamedChildren(t *testing.T) {
	results := []classify.BatchResult{{
		Content: `{"organization_plan":{"Media":["Media","Music","Movies"]}}`,
	}}

	p := Merge(results, models.ModeFolders, testLogger())

	assert.Equal(t, []string{"Music", "Movies"}, p.Members("Media"))
	assert.NotContains(t, p.Members("Media"), "Media")
}

func TestMergeFoldersStandaloneDeduplicatedAndSorted(t *testing.T) {
	results := []classify.BatchResult{{
		Content: `{"organization_plan":{"_standalone":["zeta","alpha"],"Lonely":["zeta"]}}`,
	}}

	p := Merge(results, models.ModeFolders, testLogger())

	assert.Equal(t, []string{"alpha", "zeta"}, p.Members(models.StandaloneCategory))
	assert.False(t, p.Has("Lonely"))
}

func TestMergeFoldersInvariant(t *testing.T) {
	results := []classify.BatchResult{{
		Content: `{"organization_plan":{"A":["A","x"],"B":["y","z"],"C":["q"],"_standalone":["r"]}}`,
	}}

	p := Merge(results, models.ModeFolders, testLogger())

	for _, category := range p.Categories() {
		if category == models.StandaloneCategory {
			continue
		}
		members := p.Members(category)
		assert.GreaterOrEqual(t, len(members), 2, "category %s", category)
		assert.NotContains(t, members, category)
	}
}

func TestMergeFoldersAcceptsFolderNameRecords(t *testing.T) {
	results := []classify.BatchResult{{
		Content: `{"organization_plan":{"Photos":[{"folder_name":"Photos2020"},{"folder_name":"Photos2021"}]}}`,
	}}
	p := Merge(results, models.ModeFolders, testLogger())
	assert.Equal(t, []string{"Photos2020", "Photos2021"}, p.Members("Photos"))
}

func TestMergeNormalizesCategoryNames(t *testing.T) {
	// "Café" with a combining accent decodes to the same directory
	// name as the precomposed form.
	results := []classify.BatchResult{
		{Content: "{\"organization_plan\":{\" Cafe\\u0301 \":[\"menu.txt\",\"wine.txt\"]}}"},
	}
	p := Merge(results, models.ModeFiles, testLogger())
	assert.Equal(t, []string{"Café"}, p.Categories())
}
