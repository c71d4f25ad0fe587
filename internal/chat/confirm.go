package chat

import (
	"regexp"
	"strings"

	"taskchat/internal/intent"
	"taskchat/internal/service"
)

// pendingMarkers mark an assistant turn as awaiting confirmation.
var pendingMarkers = []string{
	"are you sure",
	"please confirm",
	"to proceed",
	"confirm",
	"delete",
	"rename",
	"update",
}

var affirmatives = map[string]bool{
	"yes":       true,
	"yeah":      true,
	"yep":       true,
	"confirm":   true,
	"do it":     true,
	"sure":      true,
	"okay":      true,
	"ok":        true,
	"y":         true,
	"confirmed": true,
}

var (
	deleteVerbRe = regexp.MustCompile(`(?i)\b(?:delete|remove)\b`)
	renameVerbRe = regexp.MustCompile(`(?i)\b(?:rename|update|change|edit)\b`)

	// promptTaskRe matches "task 2 ('Buy milk')" in a confirmation prompt.
	promptTaskRe = regexp.MustCompile(`(?i)\btask\s+(\d+)\s+\('(.*?)'\)`)
	// promptNewTitleRe matches "to 'Buy oat milk'?" in a rename prompt.
	promptNewTitleRe = regexp.MustCompile(`(?i)\bto\s+'(.*)'\?`)
)

// Replay is a confirmed mutation recovered from the conversation transcript.
type Replay struct {
	// Prompt is the assistant turn that asked for confirmation.
	Prompt string

	// Command is the user turn that led to Prompt. Empty when the
	// transcript has no user turn before the prompt.
	Command string

	// Op is OpDelete or OpRename, or "" when neither could be inferred.
	Op       intent.Operation
	TaskRef  string
	NewTitle string
}

// DetectConfirmation reports whether message affirms a pending delete or
// rename, and if so which one. The state is derived from history alone:
// the last assistant turn must look like a confirmation request and
// message must be an affirmative word. Any other reply, "no" included,
// is not a confirmation and the message is processed normally.
func DetectConfirmation(history []service.Turn, message string) (Replay, bool) {
	promptAt := lastTurn(history, len(history), service.RoleAssistant)
	if promptAt < 0 {
		return Replay{}, false
	}
	prompt := history[promptAt].Content
	if !isPending(prompt) || !affirmatives[strings.ToLower(strings.TrimSpace(message))] {
		return Replay{}, false
	}

	r := Replay{Prompt: prompt}
	cmdAt := lastTurn(history, promptAt, service.RoleUser)
	if cmdAt < 0 {
		return r, true
	}
	r.Command = history[cmdAt].Content
	r.Op = replayOperation(r.Command, prompt)

	switch r.Op {
	case intent.OpDelete:
		r.TaskRef = intent.ExtractTargetReference(r.Command, intent.OpDelete)
	case intent.OpRename:
		r.TaskRef, r.NewTitle = intent.ExtractRenamePair(r.Command)
		if r.NewTitle == "" {
			if m := promptNewTitleRe.FindStringSubmatch(prompt); m != nil {
				r.NewTitle = m[1]
			}
		}
	default:
		return r, true
	}

	if r.TaskRef == "" {
		if m := promptTaskRe.FindStringSubmatch(prompt); m != nil {
			r.TaskRef = m[2]
		}
	}
	return r, true
}

// lastTurn returns the index of the last turn with role before end, or -1.
func lastTurn(history []service.Turn, end int, role service.Role) int {
	for i := end - 1; i >= 0; i-- {
		if history[i].Role == role {
			return i
		}
	}
	return -1
}

func isPending(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, m := range pendingMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// replayOperation infers the operation from the original command, then
// from the prompt wording.
func replayOperation(command, prompt string) intent.Operation {
	for _, text := range []string{command, prompt} {
		switch {
		case deleteVerbRe.MatchString(text):
			return intent.OpDelete
		case renameVerbRe.MatchString(text):
			return intent.OpRename
		}
	}
	return ""
}
