// Package output provides formatters for CLI output and chat replies.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskchat/internal/service"
)

const (
	// EmptyTaskList is the reply for a user without tasks.
	EmptyTaskList = "You have no tasks in your list."

	// timeLayout is used for conversation activity timestamps.
	timeLayout = "2006-01-02 15:04"
)

// FormatTask formats a task line for the tasks command.
// Format: "{N:>4}  [ ] {TITLE}\n" ([x] once completed).
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task), normalizeTitle(task.Title))
}

// TaskListReply renders the chat reply listing tasks with display indices.
//
//	Here are your tasks:
//	1. Buy milk [ ]
//	2. Call mom [x]
func TaskListReply(tasks []service.Task) string {
	if len(tasks) == 0 {
		return EmptyTaskList
	}
	var b strings.Builder
	b.WriteString("Here are your tasks:")
	for i, t := range tasks {
		fmt.Fprintf(&b, "\n%d. %s %s", i+1, normalizeTitle(t.Title), checkbox(t))
	}
	return b.String()
}

// FormatTurn formats one conversation turn for the history command.
func FormatTurn(w io.Writer, turn service.Turn) {
	content := strings.ReplaceAll(turn.Content, "\n", "\n  ")
	fmt.Fprintf(w, "%s: %s\n", turn.Role, content)
}

// FormatConversation formats a conversation line with its last activity.
func FormatConversation(w io.Writer, conv service.Conversation) {
	fmt.Fprintf(w, "%4d  %s\n", conv.ID, conv.UpdatedAt.Local().Format(timeLayout))
}

func checkbox(t service.Task) string {
	if t.Completed {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
