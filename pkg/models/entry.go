package models

// Mode selects what kind of entries an organize run operates on.
type Mode string

const (
	// ModeFiles organizes individual files into category folders.
	ModeFiles Mode = "files"
	// ModeFolders groups sibling folders under parent categories.
	ModeFolders Mode = "folders"
)

// EntryKind distinguishes file entries from folder entries.
type EntryKind string

const (
	EntryFile   EntryKind = "file"
	EntryFolder EntryKind = "folder"
)

// Entry is one movable item discovered by an indexing pass. Paths are
// always relative to the organize root. Entries are rebuilt fresh on
// every pass and never persisted.
type Entry struct {
	Path           string    `json:"path"`
	Kind           EntryKind `json:"-"`
	Extension      string    `json:"file_type,omitempty"`
	ContentSummary string    `json:"content_summary,omitempty"`
}

// Content summary sentinels used when a file cannot be sampled as text.
const (
	SummaryBinary     = "Binary file."
	SummaryEmpty      = "<Empty file>"
	SummaryUnreadable = "<Unreadable>"
)
