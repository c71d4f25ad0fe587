// Package intent turns a chat message into a structured task operation.
//
// Classification tries the language model first and falls back to a
// deterministic keyword and pattern matcher when the model is disabled,
// failing, or unproductive. Model output is treated as untrusted: missing
// fields are re-derived with the same extractors the fallback uses.
package intent

import "strings"

// Operation is the kind of task operation a message asks for.
// Values match the vocabulary the model is prompted with.
type Operation string

const (
	OpCreate   Operation = "create"
	OpList     Operation = "read"
	OpRename   Operation = "update_rename"
	OpComplete Operation = "update_complete"
	OpDelete   Operation = "delete"
	OpConfirm  Operation = "confirm"
	OpUnknown  Operation = "unknown"
)

// ParseOperation maps a model-provided intent name onto an Operation.
// Anything outside the vocabulary is OpUnknown.
func ParseOperation(s string) Operation {
	switch op := Operation(strings.ToLower(strings.TrimSpace(s))); op {
	case OpCreate, OpList, OpRename, OpComplete, OpDelete, OpConfirm:
		return op
	}
	return OpUnknown
}

// RequiresConfirmation reports whether op must be confirmed by the user
// before any mutation happens.
func (op Operation) RequiresConfirmation() bool {
	return op == OpDelete || op == OpRename
}

// Source records which classifier produced an intent.
type Source string

const (
	SourceModel    Source = "llm"
	SourceFallback Source = "fallback"
)

// Intent is a classified message.
type Intent struct {
	Op Operation

	// Title is the title of a task to create.
	Title string

	// TaskRef is the target of rename, complete or delete: a display
	// index ("3") or a title fragment.
	TaskRef string

	// NewTitle is the replacement title for rename.
	NewTitle string

	NeedsConfirmation bool
	Source            Source
}
