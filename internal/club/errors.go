package club

import "fmt"

// MalformedInputError reports an unparseable teamsheet row. Line is 1-based;
// Field names the offending column.
type MalformedInputError struct {
	Line   int
	Field  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed teamsheet: line %d, field %q: %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed teamsheet: line %d: %s", e.Line, e.Reason)
}

// InvalidMergeError rejects a merge request before any state is touched:
// self-merge, empty loser set, or a loser listed twice.
type InvalidMergeError struct {
	Reason string
}

func (e *InvalidMergeError) Error() string {
	return "invalid merge: " + e.Reason
}

// NotFoundError reports a missing player, match, or season. For identifier
// lookups ID is set; for key lookups (season strings) Key is set.
type NotFoundError struct {
	Kind string // "player", "match", "season"
	ID   int64
	Key  string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
	}
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}
