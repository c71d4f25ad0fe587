// Package resolve maps a task reference typed by a user onto the user's tasks.
package resolve

import (
	"strconv"
	"strings"
	"unicode"

	"taskchat/internal/service"
)

// Kind classifies a resolution result.
type Kind int

const (
	// NoMatch means no task matched the reference.
	NoMatch Kind = iota
	// Single means exactly one task matched.
	Single
	// Ambiguous means several tasks matched and the user must narrow down.
	Ambiguous
)

// Candidate is a task together with its display index.
type Candidate struct {
	Index int // 1-based position in the current task list
	Task  service.Task
}

// Result is the outcome of Resolve.
type Result struct {
	Kind       Kind
	Ref        string
	Numeric    bool // true if Ref was a display index
	Candidates []Candidate
}

// Match returns the single resolved candidate.
// Only meaningful when Kind is Single.
func (r Result) Match() Candidate {
	if len(r.Candidates) == 0 {
		return Candidate{}
	}
	return r.Candidates[0]
}

// Resolve finds the tasks referred to by ref.
//
// Resolution rules, in order:
//  1. All digits (optionally prefixed with '#') → 1-based display index.
//  2. Case-insensitive exact title match, if exactly one task has it.
//  3. Case-insensitive substring match in either direction.
//
// Ambiguity after step 3 is reported, never guessed.
func Resolve(tasks []service.Task, ref string) Result {
	ref = strings.TrimSpace(ref)
	res := Result{Ref: ref}
	if ref == "" {
		return res
	}

	if num, ok := DisplayIndex(ref); ok {
		res.Numeric = true
		if num < 1 || num > len(tasks) {
			return res
		}
		res.Kind = Single
		res.Candidates = []Candidate{{Index: num, Task: tasks[num-1]}}
		return res
	}

	refLower := strings.ToLower(ref)

	var exact []Candidate
	for i, t := range tasks {
		if strings.ToLower(strings.TrimSpace(t.Title)) == refLower {
			exact = append(exact, Candidate{Index: i + 1, Task: t})
		}
	}
	if len(exact) == 1 {
		res.Kind = Single
		res.Candidates = exact
		return res
	}

	var partial []Candidate
	for i, t := range tasks {
		title := strings.ToLower(strings.TrimSpace(t.Title))
		if title == "" {
			continue
		}
		if strings.Contains(title, refLower) || strings.Contains(refLower, title) {
			partial = append(partial, Candidate{Index: i + 1, Task: t})
		}
	}

	switch len(partial) {
	case 0:
		res.Kind = NoMatch
	case 1:
		res.Kind = Single
	default:
		res.Kind = Ambiguous
	}
	res.Candidates = partial
	return res
}

// DisplayIndex parses a display index reference such as "3" or "#3".
func DisplayIndex(ref string) (int, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if !isAllDigits(ref) {
		return 0, false
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, false
	}
	return num, true
}

// IndexOf returns the display index of the task with the given ID, or 0.
func IndexOf(tasks []service.Task, taskID string) int {
	for i, t := range tasks {
		if t.ID == taskID {
			return i + 1
		}
	}
	return 0
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
