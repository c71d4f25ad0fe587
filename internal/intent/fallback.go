package intent

import (
	"regexp"
	"strings"
)

var (
	createKeywordRe   = regexp.MustCompile(`(?i)\b(?:add|remind me|create|new task)\b`)
	completeKeywordRe = regexp.MustCompile(`(?i)\b(?:mark complete|complete|completed|finish|finished|done)\b`)
	deleteKeywordRe   = regexp.MustCompile(`(?i)\b(?:delete|remove)\b`)
	listKeywordRe     = regexp.MustCompile(`(?i)\b(?:list|show|my tasks|all tasks)\b`)

	// createTriggerRe finds the phrase after which a new title starts.
	createTriggerRe = regexp.MustCompile(`(?i)\b(?:remind me to|new task:?|please add|add|create)\s+`)

	renameSplitRe   = regexp.MustCompile(`(?i)\s+to\s+`)
	renameVerbRe    = regexp.MustCompile(`(?i)^(?:please\s+)?(?:update|rename|change|edit)\s+(?:task\s+)?`)
	leadingActionRe = regexp.MustCompile(`(?i)^(?:please\s+)?(?:mark|complete|finish|delete|remove)\b`)

	targetIndexRe  = regexp.MustCompile(`(?i)\b(?:complete|finish|done|delete|remove)\s+(?:task\s+)?#?(\d+)\b`)
	markAsDoneRe   = regexp.MustCompile(`(?i)\bmark\s+(.+?)\s+as\s+(?:complete|completed|done|finished)\b`)
	fragmentLeadRe = regexp.MustCompile(`(?i)^(?:with\s+)?(?:the\s+)?(?:task\s+)?`)
	fragmentTailRe = regexp.MustCompile(`(?i)\s+(?:is|as|are)$`)
	markLeadRe     = regexp.MustCompile(`(?i)^(?:please\s+)?mark\s+`)
)

// bareCreateWords are titles that carry no content of their own.
var bareCreateWords = map[string]bool{
	"add":        true,
	"please add": true,
	"create":     true,
	"new task":   true,
	"remind me":  true,
}

// vagueReferences are target fragments that name no task.
var vagueReferences = map[string]bool{
	"it":       true,
	"that":     true,
	"this":     true,
	"task":     true,
	"the task": true,
	"one":      true,
}

const quoteChars = "\"'“”‘’`"

// Fallback classifies message with keyword and pattern rules only.
// It is pure: the same message always yields the same Intent.
//
// Rules are tried in order:
//  1. an explicit leading rename verb with " to " → rename
//  2. create keywords → create (before the " to " check, so
//     "add call mom to discuss trip" stays a create)
//  3. " to " not led by a complete/delete verb → rename
//  4. complete keywords → complete
//  5. delete keywords → delete
//  6. list keywords → list
func Fallback(message string) Intent {
	msg := strings.TrimSpace(message)

	switch {
	case renameVerbRe.MatchString(msg) && renameSplitRe.MatchString(msg):
		return renameIntent(msg)
	case createKeywordRe.MatchString(msg):
		return Intent{Op: OpCreate, Title: ExtractCreateTitle(msg), Source: SourceFallback}
	case renameSplitRe.MatchString(msg) && !leadingActionRe.MatchString(msg):
		return renameIntent(msg)
	case completeKeywordRe.MatchString(msg):
		return Intent{Op: OpComplete, TaskRef: ExtractTargetReference(msg, OpComplete), Source: SourceFallback}
	case deleteKeywordRe.MatchString(msg):
		return Intent{
			Op:                OpDelete,
			TaskRef:           ExtractTargetReference(msg, OpDelete),
			NeedsConfirmation: true,
			Source:            SourceFallback,
		}
	case listKeywordRe.MatchString(msg):
		return Intent{Op: OpList, Source: SourceFallback}
	}
	return Intent{Op: OpUnknown, Source: SourceFallback}
}

func renameIntent(msg string) Intent {
	ref, newTitle := ExtractRenamePair(msg)
	return Intent{
		Op:                OpRename,
		TaskRef:           ref,
		NewTitle:          newTitle,
		NeedsConfirmation: true,
		Source:            SourceFallback,
	}
}

// ExtractCreateTitle returns the title of the task a create message asks for.
// The title is the text after the earliest trigger phrase. Without a
// trigger, the whole message is the title unless it contains " to ".
// Returns "" when no usable title is present.
func ExtractCreateTitle(message string) string {
	msg := strings.TrimSpace(message)

	var title string
	if loc := createTriggerRe.FindStringIndex(msg); loc != nil {
		title = strings.TrimSpace(msg[loc[1]:])
	} else if !renameSplitRe.MatchString(msg) {
		title = msg
	}

	if bareCreateWords[strings.ToLower(title)] {
		return ""
	}
	return title
}

// ExtractRenamePair splits a rename message at the last " to ".
// The reference is the text before it with leading update/rename/change/edit
// and an optional "task" removed; the new title is the text after it.
// Quotes are stripped from both. Either result may be empty.
func ExtractRenamePair(message string) (ref, newTitle string) {
	msg := strings.TrimSpace(message)
	locs := renameSplitRe.FindAllStringIndex(msg, -1)
	if len(locs) == 0 {
		return "", ""
	}
	last := locs[len(locs)-1]

	before := strings.TrimSpace(msg[:last[0]])
	before = renameVerbRe.ReplaceAllString(before, "")
	ref = trimQuotes(before)
	newTitle = trimQuotes(msg[last[1]:])
	return ref, newTitle
}

// ExtractTargetReference finds the task a complete or delete message refers to.
// An explicit number ("complete task 3", "delete 2") wins; otherwise the
// title fragment around the operation keyword is returned.
func ExtractTargetReference(message string, op Operation) string {
	msg := strings.TrimSpace(message)

	if m := targetIndexRe.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	if op == OpComplete {
		if m := markAsDoneRe.FindStringSubmatch(msg); m != nil {
			return cleanFragment(m[1])
		}
	}

	keywordRe := deleteKeywordRe
	if op == OpComplete {
		keywordRe = completeKeywordRe
	}
	loc := keywordRe.FindStringIndex(msg)
	if loc == nil {
		return ""
	}

	if ref := cleanFragment(msg[loc[1]:]); ref != "" {
		return ref
	}
	// "buy milk is done"
	before := markLeadRe.ReplaceAllString(strings.TrimSpace(msg[:loc[0]]), "")
	return cleanFragment(fragmentTailRe.ReplaceAllString(before, ""))
}

// cleanFragment trims filler words, quotes and punctuation off a reference.
func cleanFragment(s string) string {
	s = strings.TrimSpace(s)
	s = fragmentLeadRe.ReplaceAllString(s, "")
	s = strings.TrimRight(s, ".!?")
	s = trimQuotes(s)
	if vagueReferences[strings.ToLower(s)] {
		return ""
	}
	return s
}

func trimQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), quoteChars))
}
