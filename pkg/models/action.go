package models

// UndoAction records one completed move. Both paths are relative to
// the organize root. Replaying a log's actions in reverse order
// (dest back to source) restores the pre-apply layout; replaying in
// original order (source to dest) re-applies it.
type UndoAction struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
}
