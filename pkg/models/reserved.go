package models

// Log filenames broom writes into the organize root. The indexer must
// never treat them as organizable entries.
const (
	// UndoLogName holds the actions of the most recent apply.
	UndoLogName = ".broom_undo.json"
	// RedoLogName holds the actions of the most recent undo.
	RedoLogName = ".broom_redo.json"
	// LegacyLogName was written by old releases; still reserved.
	LegacyLogName = ".broom_log.json"
)

// ReservedName reports whether name is one of broom's own log files.
func ReservedName(name string) bool {
	switch name {
	case UndoLogName, RedoLogName, LegacyLogName:
		return true
	}
	return false
}
