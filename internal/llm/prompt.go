package llm

import (
	"fmt"
	"strings"

	"taskchat/internal/service"
)

// classifyHistoryTurns is how many recent turns the classifier sees.
const classifyHistoryTurns = 5

// chatHistoryTurns caps the transcript sent for general conversation.
const chatHistoryTurns = 20

const assistantSystemPrompt = `You are a helpful todo list assistant. Your job is to help users manage their tasks through natural conversation.

Available operations:
1. CREATE a new task: "add [task title]", "create [task title]", "remind me to [task]"
2. READ tasks: "list my tasks", "show all tasks", "what do I have to do?"
3. UPDATE a task:
   - Complete a task: "complete task [number]", "finish [number]", "done with [number/title]", "mark [title] as complete"
   - Rename a task: "rename task [number] to [new title]", "update [title] to [new title]", "edit [title] to [new title]"
4. DELETE a task: "delete task [number]", "remove [number/title]"

TWO-STEP MUTATION RULE: For destructive operations (delete, rename/update), you must:
1. First ask for confirmation with the task details
2. Only proceed after the user explicitly confirms with "yes", "yeah", "confirm", etc.

Task numbers are the 1-based positions shown when the user lists their tasks.

Always be helpful, friendly, and concise in your responses.`

const classifierSystemPrompt = "You are a todo assistant intent classifier. Always respond with valid JSON only."

// buildClassifyPrompt renders the classification request for message.
func buildClassifyPrompt(message string, history []service.Turn) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Analyze this todo assistant conversation and classify the intent.\n\nCurrent message: %q\n\nHistory:\n", message)
	for _, turn := range recentTurns(history, classifyHistoryTurns) {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
	}

	sb.WriteString(`
Intent classification guide:
- create: Adding a new task (keywords: add, create, new, remind me to)
- read: Listing tasks (keywords: list, show, all, my tasks)
- update_complete: Marking a task as complete (keywords: complete, finish, done, mark complete)
- update_rename: Renaming or updating a task title (keywords: update, rename, change, edit, followed by "[title] to [new_title]")
- delete: Deleting a task (keywords: delete, remove)
- confirm: User confirming a previous request (keywords: yes, confirm, sure, ok, yeah)

task_id is the task number the user typed, never an internal identifier.

Respond with JSON (no markdown):
{
    "intent": "create|read|update_complete|update_rename|delete|confirm|unknown",
    "task_id": null or integer,
    "task_title": null or string,
    "new_title": null or string,
    "needs_confirmation": boolean
}`)
	return sb.String()
}

// recentTurns returns at most n turns from the end of history.
func recentTurns(history []service.Turn, n int) []service.Turn {
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}
