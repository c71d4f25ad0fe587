package handlers

import (
	"fmt"
	"strings"

	"taskchat/internal/resolve"
)

const (
	askTitle        = "What would you like to add to your todo list?"
	askDeleteTarget = "Which task would you like to delete? Please provide the task ID or title."
	askCompleteRef  = "Which task would you like to complete? Please provide the task ID or title."
	askRenamePair   = "Please specify which task to rename and the new title."
	listHint        = "Use 'list my tasks' to see available tasks."
)

func addedReply(title string) string {
	return fmt.Sprintf("Task '%s' has been added to your list.", title)
}

func completedReply(title string) string {
	return fmt.Sprintf("Task '%s' has been successfully marked as completed.", title)
}

func alreadyCompletedReply(title string) string {
	return fmt.Sprintf("Task '%s' is already completed.", title)
}

func deletePrompt(c resolve.Candidate) string {
	return fmt.Sprintf("Are you sure you want to delete task %d ('%s')? Please confirm with 'yes' to proceed.",
		c.Index, c.Task.Title)
}

func renamePrompt(c resolve.Candidate, newTitle string) string {
	return fmt.Sprintf("Are you sure you want to rename task %d ('%s') to '%s'? Please confirm with 'yes' to proceed.",
		c.Index, c.Task.Title, newTitle)
}

func deletedReply(title string) string {
	return fmt.Sprintf("Task '%s' has been deleted.", title)
}

func renamedReply(oldTitle, newTitle string) string {
	return fmt.Sprintf("Task '%s' has been renamed to '%s'.", oldTitle, newTitle)
}

// unresolvedReply explains a NoMatch or Ambiguous resolution.
func unresolvedReply(res resolve.Result) string {
	if res.Kind == resolve.Ambiguous {
		parts := make([]string, len(res.Candidates))
		for i, c := range res.Candidates {
			parts[i] = fmt.Sprintf("'%s' (ID: %d)", c.Task.Title, c.Index)
		}
		return fmt.Sprintf("Multiple tasks match '%s': %s. Please specify by number or exact title.",
			res.Ref, strings.Join(parts, ", "))
	}
	if res.Numeric {
		return fmt.Sprintf("Task %s not found. %s", strings.TrimPrefix(res.Ref, "#"), listHint)
	}
	return fmt.Sprintf("No tasks found matching '%s'. %s", res.Ref, listHint)
}
